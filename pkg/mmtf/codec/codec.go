// 18 Oct 2026

// Package codec decodes the compressed arrays used in MMTF files.
// Every array is a byte buffer with a 12 byte header followed by
// the payload
//
//	[0:4]   codec id
//	[4:8]   number of elements after decoding
//	[8:12]  parameter, a divisor for the float codecs or the
//	        string length for codec 5, otherwise unused
//
// All numbers are big-endian and signed.
// The codec id decides the width of the payload elements and which
// of run-length, delta and recursive index decoding have to be applied.
package codec

import (
	"encoding/binary"
	"math"
)

// HeaderLen is the number of bytes before the payload.
const HeaderLen = 12

// Codec ids, from the MMTF format.
const (
	FloatArray          int32 = iota + 1 // 4 byte floats
	Int8Array                            // 1 byte ints
	Int16Array                           // 2 byte ints
	Int32Array                           // 4 byte ints
	StringArray                          // fixed length strings
	RunLengthChar                        // run-length, 4 byte char codes
	RunLengthInt                         // run-length, 4 byte ints
	RunLengthDeltaInt                    // run-length, then delta
	RunLengthFloat                       // run-length, then divide
	DeltaRecursiveFloat                  // 2 byte recursive index with delta, then divide
	IntegerFloat                         // 2 byte ints, divide
	Recursive16Float                     // 2 byte recursive index, divide
	Recursive8Float                      // 1 byte recursive index, divide
	Recursive16Int                       // 2 byte recursive index
	Recursive8Int                        // 1 byte recursive index
)

// Kind says what sort of values come out of a codec.
type Kind byte

const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindChar
)

var kindNames = [...]string{"int", "float", "string", "char"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

type codecInfo struct {
	width   int  // bytes per payload element
	kind    Kind // what comes out
	divides bool // the parameter is a divisor
}

// codecs is the closed set. Anything not here is an UnsupportedCodecError.
var codecs = map[int32]codecInfo{
	FloatArray:          {4, KindFloat, false},
	Int8Array:           {1, KindInt, false},
	Int16Array:          {2, KindInt, false},
	Int32Array:          {4, KindInt, false},
	StringArray:         {1, KindString, false},
	RunLengthChar:       {4, KindChar, false},
	RunLengthInt:        {4, KindInt, false},
	RunLengthDeltaInt:   {4, KindInt, false},
	RunLengthFloat:      {4, KindFloat, true},
	DeltaRecursiveFloat: {2, KindFloat, true},
	IntegerFloat:        {2, KindFloat, true},
	Recursive16Float:    {2, KindFloat, true},
	Recursive8Float:     {1, KindFloat, true},
	Recursive16Int:      {2, KindInt, false},
	Recursive8Int:       {1, KindInt, false},
}

// Header is the first twelve bytes of an encoded array.
type Header struct {
	Codec  int32
	Length int32
	Param  int32
}

// Payload is the body of a buffer split into elements of the width
// the codec asks for. Exactly one slice is set.
type Payload struct {
	I8  []int8
	I16 []int16
	I32 []int32
	F32 []float32
	Raw []byte // for strings
}

// ParseHeader reads the header and checks the codec id is one we know.
// It returns the payload bytes which follow.
func ParseHeader(buf []byte) (Header, []byte, error) {
	if len(buf) < HeaderLen {
		return Header{}, nil, corruptf("buffer of %d bytes is shorter than the %d byte header", len(buf), HeaderLen)
	}
	h := Header{
		Codec:  int32(binary.BigEndian.Uint32(buf[0:4])),
		Length: int32(binary.BigEndian.Uint32(buf[4:8])),
		Param:  int32(binary.BigEndian.Uint32(buf[8:12])),
	}
	info, ok := codecs[h.Codec]
	if !ok {
		return h, nil, &UnsupportedCodecError{Codec: h.Codec}
	}
	if h.Length < 0 {
		return h, nil, corruptf("negative length %d in header", h.Length)
	}
	if info.divides && h.Param == 0 {
		return h, nil, corruptf("codec %d with divisor of zero", h.Codec)
	}
	return h, buf[HeaderLen:], nil
}

// KindOf says what a codec produces. ok is false for unknown codecs.
func KindOf(codecID int32) (Kind, bool) {
	info, ok := codecs[codecID]
	return info.kind, ok
}

// Unpack splits the payload into big-endian elements of the width
// the codec needs. No run-length, delta or division is done here.
func Unpack(h Header, payload []byte) (Payload, error) {
	info, ok := codecs[h.Codec]
	if !ok {
		return Payload{}, &UnsupportedCodecError{Codec: h.Codec}
	}
	if len(payload)%info.width != 0 {
		return Payload{}, corruptf("payload of %d bytes is not a multiple of element width %d", len(payload), info.width)
	}
	n := len(payload) / info.width
	var p Payload
	switch {
	case h.Codec == StringArray:
		p.Raw = payload
	case h.Codec == FloatArray:
		p.F32 = make([]float32, n)
		for i := range p.F32 {
			p.F32[i] = math.Float32frombits(binary.BigEndian.Uint32(payload[4*i:]))
		}
	case info.width == 1:
		p.I8 = make([]int8, n)
		for i, b := range payload {
			p.I8[i] = int8(b)
		}
	case info.width == 2:
		p.I16 = make([]int16, n)
		for i := range p.I16 {
			p.I16[i] = int16(binary.BigEndian.Uint16(payload[2*i:]))
		}
	default:
		p.I32 = make([]int32, n)
		for i := range p.I32 {
			p.I32[i] = int32(binary.BigEndian.Uint32(payload[4*i:]))
		}
	}
	return p, nil
}
