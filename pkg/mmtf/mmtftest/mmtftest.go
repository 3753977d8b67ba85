// Package mmtftest builds encoded buffers and small field maps for tests.
// It only writes headers and raw payloads. Run-length pairs and
// deltas are worked out by hand in the callers.
package mmtftest

import (
	"encoding/binary"
	"math"

	"github.com/andrew-torda/mmtf_read/pkg/mmtf/codec"
)

// Buf puts a header in front of a payload. The payload is one of
// []int8, []int16, []int32, []float32 or []byte.
func Buf(codecID, length, param int32, payload interface{}) []byte {
	b := make([]byte, codec.HeaderLen)
	binary.BigEndian.PutUint32(b[0:], uint32(codecID))
	binary.BigEndian.PutUint32(b[4:], uint32(length))
	binary.BigEndian.PutUint32(b[8:], uint32(param))
	switch p := payload.(type) {
	case []int8:
		for _, v := range p {
			b = append(b, byte(v))
		}
	case []int16:
		for _, v := range p {
			b = binary.BigEndian.AppendUint16(b, uint16(v))
		}
	case []int32:
		for _, v := range p {
			b = binary.BigEndian.AppendUint32(b, uint32(v))
		}
	case []float32:
		for _, v := range p {
			b = binary.BigEndian.AppendUint32(b, math.Float32bits(v))
		}
	case []byte:
		b = append(b, p...)
	case nil:
	default:
		panic("mmtftest: unknown payload type")
	}
	return b
}

// Ints is a plain 4 byte integer array.
func Ints(v ...int32) []byte {
	return Buf(codec.Int32Array, int32(len(v)), 0, v)
}

// RunLength encodes v as run-length pairs with codec 7.
func RunLength(v ...int32) []byte {
	return Buf(codec.RunLengthInt, int32(len(v)), 0, rle(v))
}

// RunLengthDelta encodes v as deltas, then run-length, codec 8.
func RunLengthDelta(v ...int32) []byte {
	d := make([]int32, len(v))
	var prev int32
	for i, x := range v {
		d[i] = x - prev
		prev = x
	}
	return Buf(codec.RunLengthDeltaInt, int32(len(v)), 0, rle(d))
}

// Chars encodes character codes as run-length pairs, codec 6.
func Chars(c ...rune) []byte {
	v := make([]int32, len(c))
	for i, r := range c {
		v[i] = int32(r)
	}
	return Buf(codec.RunLengthChar, int32(len(v)), 0, rle(v))
}

// Chains packs chain names into 4 byte NUL padded codes, codec 5.
func Chains(names ...string) []byte {
	raw := make([]byte, 4*len(names))
	for i, n := range names {
		copy(raw[4*i:4*i+4], n)
	}
	return Buf(codec.StringArray, int32(len(names)), 4, raw)
}

// Coords encodes floats with codec 10 at the given divisor. Values
// must be exact at that precision and differences must fit an int16.
func Coords(divisor int32, v ...float32) []byte {
	d := make([]int16, len(v))
	var prev int32
	for i, x := range v {
		n := int32(math.Round(float64(x) * float64(divisor)))
		d[i] = int16(n - prev)
		prev = n
	}
	return Buf(codec.DeltaRecursiveFloat, int32(len(v)), divisor, d)
}

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

// Minimal is a small, valid field map. One model, two chains
// "A" and "B", three groups (ALA, GLY, ALA), eight atoms.
// Callers may change it freely since each call builds a new map.
func Minimal() map[string]interface{} {
	ala := map[string]interface{}{
		"atomNameList":     []interface{}{[]byte("N"), []byte("CA"), []byte("C")},
		"elementList":      []interface{}{[]byte("N"), []byte("C"), []byte("C")},
		"bondAtomList":     []interface{}{0, 1, 1, 2},
		"bondOrderList":    []interface{}{1, 1},
		"formalChargeList": []interface{}{0, 0, 0},
		"chemCompType":     []byte("L-PEPTIDE LINKING"),
		"groupName":        []byte("ALA"),
		"singleLetterCode": []byte("A"),
	}
	gly := map[string]interface{}{
		"atomNameList":     []interface{}{[]byte("N"), []byte("CA")},
		"elementList":      []interface{}{[]byte("N"), []byte("C")},
		"bondAtomList":     []interface{}{0, 1},
		"bondOrderList":    []interface{}{1},
		"formalChargeList": []interface{}{0, 0},
		"chemCompType":     []byte("PEPTIDE LINKING"),
		"groupName":        []byte("GLY"),
		"singleLetterCode": []byte("G"),
	}
	entity := map[string]interface{}{
		"description":    []byte("TEST PROTEIN"),
		"type":           []byte("polymer"),
		"sequence":       []byte("AGA"),
		"chainIndexList": []interface{}{0, 1},
	}
	assembly := map[string]interface{}{
		"name": []byte("1"),
		"transformList": []interface{}{
			map[string]interface{}{
				"chainIndexList": []interface{}{0, 1},
				"matrix": []interface{}{
					1.0, 0.0, 0.0, 0.0,
					0.0, 1.0, 0.0, 0.0,
					0.0, 0.0, 1.0, 0.0,
					0.0, 0.0, 0.0, 1.0,
				},
			},
		},
	}
	return map[string]interface{}{
		"mmtfVersion":    []byte("1.0.0"),
		"mmtfProducer":   []byte("mmtftest"),
		"structureId":    []byte("1TST"),
		"title":          []byte("A TEST STRUCTURE"),
		"depositionDate": []byte("2020-04-20"),
		"releaseDate":    []byte("2020-05-01"),
		"spaceGroup":     []byte("P 1"),
		"unitCell":       []interface{}{10.0, 20.0, 30.0, 90.0, 90.0, 90.0},
		"resolution":     2.5,
		"rFree":          0.25,
		"rWork":          0.2,
		"experimentalMethods": []interface{}{
			[]byte("X-RAY DIFFRACTION"),
		},
		"numBonds":          7,
		"numAtoms":          8,
		"numGroups":         3,
		"numChains":         2,
		"numModels":         1,
		"chainsPerModel":    []interface{}{2},
		"groupsPerChain":    []interface{}{2, 1},
		"groupList":         []interface{}{ala, gly},
		"entityList":        []interface{}{entity},
		"bioAssemblyList":   []interface{}{assembly},
		"groupTypeList":     Ints(0, 1, 0),
		"groupIdList":       RunLengthDelta(1, 2, 1),
		"chainIdList":       Chains("A", "B"),
		"chainNameList":     Chains("A", "B"),
		"insCodeList":       Chars(0, 0, 0),
		"secStructList":     Buf(codec.Int8Array, 3, 0, []int8{-1, -1, -1}),
		"sequenceIndexList": RunLengthDelta(0, 1, 0),
		"xCoordList":        Coords(1000, 1, 2, 3, 4, 5, 6, 7, 8),
		"yCoordList":        Coords(1000, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5),
		"zCoordList":        Coords(1000, -1, -2, -3, -4, -5, -6, -7, -8),
		"bFactorList":       Coords(100, 10, 10.5, 11, 11.5, 12, 12.5, 13, 13.5),
		"occupancyList":     Buf(codec.RunLengthFloat, 8, 100, []int32{100, 8}),
		"atomIdList":        RunLengthDelta(1, 2, 3, 4, 5, 6, 7, 8),
		"altLocList":        Chars(0, 0, 0, 'A', 'B', 0, 0, 0),
		"bondAtomList":      Ints(2, 3, 5, 6),
		"bondOrderList":     Buf(codec.Int8Array, 2, 0, []int8{1, 1}),
	}
}
