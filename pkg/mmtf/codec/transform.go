package codec

import (
	"math"
)

// RunLength expands (value, count) pairs. The input is
//
//	v0, n0, v1, n1, ...
//
// and the output has v0 repeated n0 times, then v1 repeated n1 times.
func RunLength(pairs []int32) ([]int32, error) {
	n, err := runLengthLen(pairs)
	if err != nil {
		return nil, err
	}
	out := make([]int32, 0, n)
	for i := 0; i < len(pairs); i += 2 {
		v := pairs[i]
		for j := int32(0); j < pairs[i+1]; j++ {
			out = append(out, v)
		}
	}
	return out, nil
}

// runLengthLen is the length RunLength will produce. It lets us
// check against the header before allocating anything.
func runLengthLen(pairs []int32) (int, error) {
	if len(pairs)%2 != 0 {
		return 0, corruptf("run-length input has odd length %d", len(pairs))
	}
	n := 0
	for i := 1; i < len(pairs); i += 2 {
		if pairs[i] < 0 {
			return 0, corruptf("negative run length %d at position %d", pairs[i], i)
		}
		n += int(pairs[i])
	}
	return n, nil
}

// Delta replaces each value by the running sum up to and including it.
// The input is not touched. A sum that leaves the int32 range is an
// error.
func Delta(in []int32) ([]int32, error) {
	out := make([]int32, len(in))
	var sum int64
	for i, v := range in {
		sum += int64(v)
		if err := fits(sum, i); err != nil {
			return nil, err
		}
		out[i] = int32(sum)
	}
	return out, nil
}

// RecursiveIndex turns two byte deltas into fixed point numbers.
// We keep a running sum of all the values. The largest and smallest
// int16 values are continuation markers. They go into the sum, but
// do not produce an output value, so a big jump can be spread over
// several entries. Each output is the running sum divided by divisor.
func RecursiveIndex(deltas []int16, divisor int32) ([]float32, error) {
	if divisor == 0 {
		return nil, corruptf("divisor of zero")
	}
	out := make([]float32, 0, len(deltas))
	d := float32(divisor)
	var sum int64
	for i, v := range deltas {
		sum += int64(v)
		if err := fits(sum, i); err != nil {
			return nil, err
		}
		if v == math.MaxInt16 || v == math.MinInt16 {
			continue
		}
		out = append(out, float32(sum)/d)
	}
	return out, nil
}

// Unpack16 undoes recursive index packing with two byte values.
// A run of sentinel values is added to the next ordinary value.
// There is no delta step.
func Unpack16(in []int16) ([]int32, error) {
	out := make([]int32, 0, len(in))
	var acc int64
	for i, v := range in {
		acc += int64(v)
		if err := fits(acc, i); err != nil {
			return nil, err
		}
		if v == math.MaxInt16 || v == math.MinInt16 {
			continue
		}
		out = append(out, int32(acc))
		acc = 0
	}
	return out, nil
}

// Unpack8 is Unpack16 for one byte values.
func Unpack8(in []int8) ([]int32, error) {
	out := make([]int32, 0, len(in))
	var acc int64
	for i, v := range in {
		acc += int64(v)
		if err := fits(acc, i); err != nil {
			return nil, err
		}
		if v == math.MaxInt8 || v == math.MinInt8 {
			continue
		}
		out = append(out, int32(acc))
		acc = 0
	}
	return out, nil
}

func fits(sum int64, i int) error {
	if sum < math.MinInt32 || sum > math.MaxInt32 {
		return corruptf("running sum %d at position %d does not fit in 32 bits", sum, i)
	}
	return nil
}

// Divide converts integers to floats.
func Divide(in []int32, divisor int32) ([]float32, error) {
	if divisor == 0 {
		return nil, corruptf("divisor of zero")
	}
	d := float32(divisor)
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v) / d
	}
	return out, nil
}

func widen8(in []int8) []int32 {
	out := make([]int32, len(in))
	for i, v := range in {
		out[i] = int32(v)
	}
	return out
}

func widen16(in []int16) []int32 {
	out := make([]int32, len(in))
	for i, v := range in {
		out[i] = int32(v)
	}
	return out
}
