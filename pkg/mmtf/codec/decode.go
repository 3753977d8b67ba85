package codec

import (
	"bytes"
)

// Array is a fully decoded buffer. Which slice is set depends on Kind.
type Array struct {
	Header
	Kind    Kind
	Ints    []int32
	Floats  []float32
	Strings []string
	Chars   []rune
}

// Len is the number of decoded elements.
func (a *Array) Len() int {
	switch a.Kind {
	case KindFloat:
		return len(a.Floats)
	case KindString:
		return len(a.Strings)
	case KindChar:
		return len(a.Chars)
	}
	return len(a.Ints)
}

// want complains if the array is not of the kind the caller needs.
func (a *Array) want(k Kind) error {
	if a.Kind != k {
		return corruptf("codec %d gives %s values, wanted %s", a.Codec, a.Kind, k)
	}
	return nil
}

// AsInts returns the values of an integer codec.
func (a *Array) AsInts() ([]int32, error) {
	if err := a.want(KindInt); err != nil {
		return nil, err
	}
	return a.Ints, nil
}

// AsFloats returns the values of a float codec.
func (a *Array) AsFloats() ([]float32, error) {
	if err := a.want(KindFloat); err != nil {
		return nil, err
	}
	return a.Floats, nil
}

// AsStrings returns the values of the fixed length string codec.
func (a *Array) AsStrings() ([]string, error) {
	if err := a.want(KindString); err != nil {
		return nil, err
	}
	return a.Strings, nil
}

// AsChars returns the values of the run-length character codec.
func (a *Array) AsChars() ([]rune, error) {
	if err := a.want(KindChar); err != nil {
		return nil, err
	}
	return a.Chars, nil
}

// Decode reads the header, splits the payload and applies whatever
// run-length, delta, recursive index and division steps the codec
// id asks for. The number of decoded elements must match the header.
func Decode(buf []byte) (*Array, error) {
	h, body, err := ParseHeader(buf)
	if err != nil {
		return nil, err
	}
	p, err := Unpack(h, body)
	if err != nil {
		return nil, err
	}
	a := &Array{Header: h, Kind: codecs[h.Codec].kind}

	switch h.Codec {
	case FloatArray:
		a.Floats = p.F32
	case Int8Array:
		a.Ints = widen8(p.I8)
	case Int16Array:
		a.Ints = widen16(p.I16)
	case Int32Array:
		a.Ints = p.I32
	case StringArray:
		a.Strings, err = splitStrings(p.Raw, h.Param)
	case RunLengthChar:
		var codes []int32
		if codes, err = expand(p.I32, h.Length); err == nil {
			a.Chars = make([]rune, len(codes))
			for i, c := range codes {
				a.Chars[i] = rune(c)
			}
		}
	case RunLengthInt:
		a.Ints, err = expand(p.I32, h.Length)
	case RunLengthDeltaInt:
		var v []int32
		if v, err = expand(p.I32, h.Length); err == nil {
			a.Ints, err = Delta(v)
		}
	case RunLengthFloat:
		var v []int32
		if v, err = expand(p.I32, h.Length); err == nil {
			a.Floats, err = Divide(v, h.Param)
		}
	case DeltaRecursiveFloat:
		a.Floats, err = RecursiveIndex(p.I16, h.Param)
	case IntegerFloat:
		a.Floats, err = Divide(widen16(p.I16), h.Param)
	case Recursive16Float:
		var v []int32
		if v, err = Unpack16(p.I16); err == nil {
			a.Floats, err = Divide(v, h.Param)
		}
	case Recursive8Float:
		var v []int32
		if v, err = Unpack8(p.I8); err == nil {
			a.Floats, err = Divide(v, h.Param)
		}
	case Recursive16Int:
		a.Ints, err = Unpack16(p.I16)
	case Recursive8Int:
		a.Ints, err = Unpack8(p.I8)
	}
	if err != nil {
		return nil, err
	}
	if n := a.Len(); n != int(h.Length) {
		return nil, corruptf("decoded %d values, header says %d", n, h.Length)
	}
	return a, nil
}

// expand is RunLength with a check of the final size against the
// header before we allocate it. Callers that know how many values a
// field may hold check the header length first.
func expand(pairs []int32, want int32) ([]int32, error) {
	n, err := runLengthLen(pairs)
	if err != nil {
		return nil, err
	}
	if n != int(want) {
		return nil, corruptf("run-length expands to %d values, header says %d", n, want)
	}
	return RunLength(pairs)
}

// splitStrings cuts raw bytes into strings of width bytes. Trailing
// NUL bytes are padding and are removed.
func splitStrings(raw []byte, width int32) ([]string, error) {
	if width <= 0 {
		return nil, corruptf("string length %d in header", width)
	}
	w := int(width)
	if len(raw)%w != 0 {
		return nil, corruptf("%d bytes of strings is not a multiple of string length %d", len(raw), w)
	}
	out := make([]string, 0, len(raw)/w)
	for i := 0; i < len(raw); i += w {
		out = append(out, string(bytes.TrimRight(raw[i:i+w], "\x00")))
	}
	return out, nil
}
