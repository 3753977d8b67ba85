package mmtf

// The upstream unpacker decides the Go types we see. MessagePack
// readers give []byte for binary data and one of the integer types
// for numbers. YAML fixtures give string for !!binary and int or
// float64 for numbers. These functions accept all of them.

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/andrew-torda/mmtf_read/pkg/mmtf/codec"
)

func wrongType(want string, v interface{}) error {
	return &codec.CorruptDataError{Detail: fmt.Sprintf("wanted %s, got %T", want, v)}
}

// asBytes accepts a byte slice or a string holding raw bytes.
func asBytes(v interface{}) ([]byte, bool) {
	switch b := v.(type) {
	case []byte:
		return b, true
	case string:
		return []byte(b), true
	}
	return nil, false
}

func asInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint:
		return int(n), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return int(n), nil
	case uint64:
		if n > math.MaxInt32 {
			return 0, &codec.CorruptDataError{Detail: fmt.Sprintf("%d is too big", n)}
		}
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, &codec.CorruptDataError{Detail: fmt.Sprintf("%g is not an integer", n)}
		}
		return int(n), nil
	case float32:
		if n != float32(math.Trunc(float64(n))) {
			return 0, &codec.CorruptDataError{Detail: fmt.Sprintf("%g is not an integer", n)}
		}
		return int(n), nil
	}
	return 0, wrongType("an integer", v)
}

func asFloat32(v interface{}) (float32, error) {
	switch f := v.(type) {
	case float32:
		return f, nil
	case float64:
		return float32(f), nil
	}
	n, err := asInt(v)
	if err != nil {
		return 0, wrongType("a number", v)
	}
	return float32(n), nil
}

// asCount is a non-negative integer.
func asCount(v interface{}) (int, error) {
	n, err := asInt(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, &codec.CorruptDataError{Detail: fmt.Sprintf("negative count %d", n)}
	}
	return n, nil
}

func asList(v interface{}) ([]interface{}, error) {
	if l, ok := v.([]interface{}); ok {
		return l, nil
	}
	return nil, wrongType("a list", v)
}

func toInt32(n int) (int32, error) {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, &codec.CorruptDataError{Detail: fmt.Sprintf("%d does not fit in 32 bits", n)}
	}
	return int32(n), nil
}

// asInt32s takes a plain list of numbers, or an encoded buffer.
func asInt32s(v interface{}) ([]int32, error) {
	if b, ok := asBytes(v); ok {
		a, err := codec.Decode(b)
		if err != nil {
			return nil, err
		}
		return a.AsInts()
	}
	switch l := v.(type) {
	case []int32:
		return l, nil
	case []int:
		out := make([]int32, len(l))
		for i, n := range l {
			var err error
			if out[i], err = toInt32(n); err != nil {
				return nil, err
			}
		}
		return out, nil
	case []int64:
		out := make([]int32, len(l))
		for i, n := range l {
			if n < math.MinInt32 || n > math.MaxInt32 {
				return nil, &codec.CorruptDataError{Detail: fmt.Sprintf("%d does not fit in 32 bits", n)}
			}
			out[i] = int32(n)
		}
		return out, nil
	case []interface{}:
		out := make([]int32, len(l))
		for i, x := range l {
			n, err := asInt(x)
			if err != nil {
				return nil, err
			}
			if out[i], err = toInt32(n); err != nil {
				return nil, err
			}
		}
		return out, nil
	case nil:
		return nil, nil
	}
	return nil, wrongType("a list of integers", v)
}

// asFloat32s is asInt32s for floats.
func asFloat32s(v interface{}) ([]float32, error) {
	if b, ok := asBytes(v); ok {
		a, err := codec.Decode(b)
		if err != nil {
			return nil, err
		}
		return a.AsFloats()
	}
	switch l := v.(type) {
	case []float32:
		return l, nil
	case []float64:
		out := make([]float32, len(l))
		for i, f := range l {
			out[i] = float32(f)
		}
		return out, nil
	case []interface{}:
		out := make([]float32, len(l))
		for i, x := range l {
			f, err := asFloat32(x)
			if err != nil {
				return nil, err
			}
			out[i] = f
		}
		return out, nil
	case nil:
		return nil, nil
	}
	return nil, wrongType("a list of numbers", v)
}

// asText is for header strings. These are UTF-8, not only ASCII,
// since titles may carry names with accents.
func asText(v interface{}) (string, error) {
	b, ok := asBytes(v)
	if !ok {
		return "", wrongType("text", v)
	}
	if !utf8.Valid(b) {
		return "", &codec.CorruptDataError{Detail: "text is not valid UTF-8"}
	}
	return string(b), nil
}

// lookup finds a key in a record, whatever map type the unpacker used.
func lookup(rec interface{}, key string) (interface{}, bool) {
	switch m := rec.(type) {
	case map[string]interface{}:
		v, ok := m[key]
		return v, ok
	case map[interface{}]interface{}:
		v, ok := m[key]
		return v, ok
	}
	return nil, false
}
