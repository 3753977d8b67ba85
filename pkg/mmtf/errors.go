package mmtf

import (
	"strconv"

	"github.com/andrew-torda/mmtf_read/pkg/mmtf/codec"
)

// The codec package defines these since it is the first to see broken
// buffers. They are repeated here so callers need only one import.
type (
	CorruptDataError      = codec.CorruptDataError
	UnsupportedCodecError = codec.UnsupportedCodecError
)

// MissingFieldError is a mandatory field not in the input map.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "mandatory field " + e.Field + " is missing"
}

// ConsumerError wraps whatever a Consumer returned and says at which
// stage of emission it happened.
type ConsumerError struct {
	Stage string
	Err   error
}

func (e *ConsumerError) Error() string {
	return "consumer failed at " + e.Stage + ": " + e.Err.Error()
}

func (e *ConsumerError) Unwrap() error { return e.Err }

// mismatch is the usual cross field complaint.
func mismatch(field string, got int, other string, want int) error {
	return &CorruptDataError{
		Field:  field,
		Other:  other,
		Detail: "length " + itoa(got) + " but " + other + " is " + itoa(want),
	}
}

func itoa(i int) string { return strconv.Itoa(i) }
