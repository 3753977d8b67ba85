package codec_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/andrew-torda/mmtf_read/pkg/mmtf/codec"
	"github.com/andrew-torda/mmtf_read/pkg/mmtf/mmtftest"
)

// rle is the maximal-run encoding, used to check RunLength backwards.
func rle(v []int32) []int32 {
	var out []int32
	for i := 0; i < len(v); {
		j := i
		for j < len(v) && v[j] == v[i] {
			j++
		}
		out = append(out, v[i], int32(j-i))
		i = j
	}
	return out
}

// recIndexEncode multiplies by the divisor, takes differences and
// splits any difference too big for an int16 into sentinel chains.
func recIndexEncode(v []int32) []int16 {
	var out []int16
	var prev int32
	for _, x := range v {
		d := x - prev
		prev = x
		for d >= math.MaxInt16 {
			out = append(out, math.MaxInt16)
			d -= math.MaxInt16
		}
		for d <= math.MinInt16 {
			out = append(out, math.MinInt16)
			d -= math.MinInt16
		}
		out = append(out, int16(d))
	}
	return out
}

var runLengthTests = []struct {
	in   []int32
	want []int32
}{
	{[]int32{}, []int32{}},
	{[]int32{7, 1}, []int32{7}},
	{[]int32{1, 3, 2, 2}, []int32{1, 1, 1, 2, 2}},
	{[]int32{-5, 2, 0, 1, -5, 1}, []int32{-5, -5, 0, -5}},
}

func TestRunLength(t *testing.T) {
	for _, tt := range runLengthTests {
		got, err := RunLength(tt.in)
		require.NoError(t, err)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("RunLength(%v) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestRunLengthBroken(t *testing.T) {
	for _, in := range [][]int32{{1}, {1, 2, 3}, {4, -1}} {
		_, err := RunLength(in)
		var ce *CorruptDataError
		assert.True(t, errors.As(err, &ce), "input %v should be corrupt, got %v", in, err)
	}
}

// TestRunLengthRoundTrip takes random pairs with no two neighbours
// the same value, expands them and encodes them again.
func TestRunLengthRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for iter := 0; iter < 200; iter++ {
		var pairs []int32
		sum := 0
		prev := int32(math.MinInt32)
		for i := rng.Intn(10); i > 0; i-- {
			v := int32(rng.Intn(7) - 3)
			if v == prev {
				v += 10
			}
			n := int32(rng.Intn(5) + 1)
			pairs = append(pairs, v, n)
			sum += int(n)
			prev = v
		}
		got, err := RunLength(pairs)
		require.NoError(t, err)
		require.Len(t, got, sum)
		if diff := cmp.Diff(pairs, rle(got)); len(pairs) > 0 && diff != "" {
			t.Fatalf("round trip (-want +got):\n%s", diff)
		}
	}
}

func TestRecursiveIndex(t *testing.T) {
	got, err := RecursiveIndex([]int16{1250, 20, -30}, 100)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{12.50, 12.70, 12.40}, got, 1e-5)

	// A jump of 40000 needs a sentinel in front of it.
	got, err = RecursiveIndex([]int16{math.MaxInt16, 40000 - math.MaxInt16, -5}, 1000)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{40, 39.995}, got, 1e-4)

	got, err = RecursiveIndex(nil, 1000)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = RecursiveIndex([]int16{1}, 0)
	var ce *CorruptDataError
	assert.True(t, errors.As(err, &ce))
}

func TestRecursiveIndexRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for iter := 0; iter < 100; iter++ {
		want := make([]int32, rng.Intn(50))
		for i := range want {
			want[i] = int32(rng.Intn(400000) - 200000)
		}
		enc := recIndexEncode(want)
		got, err := RecursiveIndex(enc, 1)
		require.NoError(t, err)
		require.Len(t, got, len(want))
		back := make([]int32, len(got))
		for i, f := range got {
			back[i] = int32(f)
		}
		if diff := cmp.Diff(want, back); diff != "" {
			t.Fatalf("recursive index round trip (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(enc, recIndexEncode(back)); diff != "" {
			t.Fatalf("re-encoding differs (-want +got):\n%s", diff)
		}
	}
}

func TestUnpack(t *testing.T) {
	got, err := Unpack16([]int16{1, math.MaxInt16, 5, math.MinInt16, -2, 0})
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 32767 + 5, -32768 - 2, 0}, got)

	got, err = Unpack8([]int8{math.MaxInt8, math.MaxInt8, 1, -3})
	require.NoError(t, err)
	assert.Equal(t, []int32{127 + 127 + 1, -3}, got)

	got, err = Delta([]int32{1, 2, 3, -4})
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 3, 6, 2}, got)
}

// TestSumOverflow runs each accumulating step past the int32 range.
func TestSumOverflow(t *testing.T) {
	// 65540 sentinels add up to more than MaxInt32.
	sentinels := make([]int16, 65540)
	for i := range sentinels {
		sentinels[i] = math.MaxInt16
	}
	sentinels8 := make([]int8, 1<<24+10)
	for i := range sentinels8 {
		sentinels8[i] = math.MinInt8
	}
	tests := []struct {
		name string
		run  func() error
	}{
		{"delta", func() error {
			_, err := Delta([]int32{math.MaxInt32, 1})
			return err
		}},
		{"delta down", func() error {
			_, err := Delta([]int32{math.MinInt32, -1})
			return err
		}},
		{"recursive index", func() error {
			_, err := RecursiveIndex(append(sentinels, 1), 1)
			return err
		}},
		{"unpack16", func() error {
			_, err := Unpack16(append(sentinels, 1))
			return err
		}},
		{"unpack8", func() error {
			_, err := Unpack8(append(sentinels8, 1))
			return err
		}},
		{"run-length delta", func() error {
			_, err := Decode(mmtftest.Buf(RunLengthDeltaInt, 2, 0, []int32{math.MaxInt32, 2}))
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			var ce *CorruptDataError
			assert.True(t, errors.As(err, &ce), "got %v", err)
		})
	}
}

// TestDecodeCodecs runs every codec id once.
func TestDecodeCodecs(t *testing.T) {
	type tcase struct {
		name   string
		buf    []byte
		kind   Kind
		ints   []int32
		floats []float32
		strs   []string
		chars  []rune
	}
	tests := []tcase{
		{"float", mmtftest.Buf(FloatArray, 2, 0, []float32{1.5, -2}), KindFloat, nil, []float32{1.5, -2}, nil, nil},
		{"int8", mmtftest.Buf(Int8Array, 3, 0, []int8{-1, 0, 7}), KindInt, []int32{-1, 0, 7}, nil, nil, nil},
		{"int16", mmtftest.Buf(Int16Array, 2, 0, []int16{-300, 300}), KindInt, []int32{-300, 300}, nil, nil, nil},
		{"int32", mmtftest.Ints(70000, -1), KindInt, []int32{70000, -1}, nil, nil, nil},
		{"string", mmtftest.Chains("A", "BB"), KindString, nil, nil, []string{"A", "BB"}, nil},
		{"rlchar", mmtftest.Chars('A', 'A', 0), KindChar, nil, nil, nil, []rune{'A', 'A', 0}},
		{"rlint", mmtftest.RunLength(4, 4, 4, 9), KindInt, []int32{4, 4, 4, 9}, nil, nil, nil},
		{"rldelta", mmtftest.RunLengthDelta(1, 2, 3, 10), KindInt, []int32{1, 2, 3, 10}, nil, nil, nil},
		{"rlfloat", mmtftest.Buf(RunLengthFloat, 3, 100, []int32{50, 3}), KindFloat, nil, []float32{0.5, 0.5, 0.5}, nil, nil},
		{"deltarec", mmtftest.Buf(DeltaRecursiveFloat, 3, 100, []int16{1250, 20, -30}), KindFloat, nil, []float32{12.5, 12.7, 12.4}, nil, nil},
		{"intfloat", mmtftest.Buf(IntegerFloat, 2, 10, []int16{15, -5}), KindFloat, nil, []float32{1.5, -0.5}, nil, nil},
		{"rec16float", mmtftest.Buf(Recursive16Float, 1, 10, []int16{math.MaxInt16, 3}), KindFloat, nil, []float32{3277}, nil, nil},
		{"rec8float", mmtftest.Buf(Recursive8Float, 2, 2, []int8{3, -4}), KindFloat, nil, []float32{1.5, -2}, nil, nil},
		{"rec16int", mmtftest.Buf(Recursive16Int, 2, 0, []int16{math.MinInt16, -1, 4}), KindInt, []int32{-32769, 4}, nil, nil, nil},
		{"rec8int", mmtftest.Buf(Recursive8Int, 2, 0, []int8{math.MaxInt8, 1, 2}), KindInt, []int32{128, 2}, nil, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Decode(tt.buf)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, a.Kind)
			switch tt.kind {
			case KindInt:
				got, err := a.AsInts()
				require.NoError(t, err)
				assert.Equal(t, tt.ints, got)
			case KindFloat:
				got, err := a.AsFloats()
				require.NoError(t, err)
				assert.InDeltaSlice(t, tt.floats, got, 1e-4)
			case KindString:
				got, err := a.AsStrings()
				require.NoError(t, err)
				assert.Equal(t, tt.strs, got)
			case KindChar:
				got, err := a.AsChars()
				require.NoError(t, err)
				assert.Equal(t, tt.chars, got)
			}
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	a, err := Decode(mmtftest.Buf(DeltaRecursiveFloat, 0, 1000, nil))
	require.NoError(t, err)
	f, err := a.AsFloats()
	require.NoError(t, err)
	assert.Empty(t, f)
}

func TestDecodeErrors(t *testing.T) {
	corrupt := [][]byte{
		{0, 0, 0, 4},                                             // short header
		mmtftest.Buf(Int32Array, 1, 0, []byte{1, 2, 3}),          // not a multiple of 4
		mmtftest.Buf(Int16Array, 1, 0, []byte{1, 2, 3}),          // not a multiple of 2
		mmtftest.Buf(DeltaRecursiveFloat, 1, 0, []int16{5}),      // divisor zero
		mmtftest.Buf(RunLengthFloat, 1, 0, []int32{5, 1}),        // divisor zero
		mmtftest.Buf(Int32Array, 3, 0, []int32{1, 2}),            // length mismatch
		mmtftest.Buf(RunLengthInt, 2, 0, []int32{1, 2, 3}),       // odd pairs
		mmtftest.Buf(RunLengthInt, 5, 0, []int32{1, 1000000000}), // too long
		mmtftest.Buf(StringArray, 1, 0, []byte("ABCD")),          // string length 0
		mmtftest.Buf(StringArray, 1, 3, []byte("ABCD")),          // ragged strings
	}
	for i, b := range corrupt {
		_, err := Decode(b)
		var ce *CorruptDataError
		assert.True(t, errors.As(err, &ce), "case %d: want CorruptDataError, got %v", i, err)
	}

	for _, id := range []int32{0, 16, -1, 99} {
		_, err := Decode(mmtftest.Buf(id, 0, 0, nil))
		var ue *UnsupportedCodecError
		require.True(t, errors.As(err, &ue), "codec %d: got %v", id, err)
		assert.Equal(t, id, ue.Codec)
	}
}

func TestWrongKind(t *testing.T) {
	a, err := Decode(mmtftest.Ints(1, 2))
	require.NoError(t, err)
	_, err = a.AsFloats()
	var ce *CorruptDataError
	assert.True(t, errors.As(err, &ce))
}

func TestWithField(t *testing.T) {
	_, err := Decode(mmtftest.Buf(42, 0, 0, nil))
	err = WithField(err, "bFactorList")
	var ue *UnsupportedCodecError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "bFactorList", ue.Field)
	assert.Contains(t, err.Error(), "42")

	// A field name already there is kept.
	err = WithField(&CorruptDataError{Field: "a", Detail: "x"}, "b")
	assert.Equal(t, "corrupt data in a: x", err.Error())

	other := errors.New("something else")
	assert.Equal(t, other, WithField(other, "c"))
}
