package codec

import (
	"fmt"

	"github.com/pkg/errors"
)

// CorruptDataError says the bytes of a field cannot be what the
// format promises. Field is empty when the error comes straight from
// this package. The assembler fills it in with WithField. Other names
// the second field when two fields disagree with each other.
type CorruptDataError struct {
	Field  string
	Other  string
	Detail string
}

func (e *CorruptDataError) Error() string {
	s := "corrupt data"
	if e.Field != "" {
		s += " in " + e.Field
	}
	if e.Other != "" {
		s += " vs " + e.Other
	}
	return s + ": " + e.Detail
}

// UnsupportedCodecError is a codec id outside the set we know.
type UnsupportedCodecError struct {
	Field string
	Codec int32
}

func (e *UnsupportedCodecError) Error() string {
	s := fmt.Sprintf("unsupported codec %d", e.Codec)
	if e.Field != "" {
		s += " in " + e.Field
	}
	return s
}

func corruptf(format string, args ...interface{}) error {
	return &CorruptDataError{Detail: fmt.Sprintf(format, args...)}
}

// WithField returns err with the field name set, if err is one of our
// error types and does not already have a field name. Anything else
// comes back unchanged.
func WithField(err error, field string) error {
	var ce *CorruptDataError
	if errors.As(err, &ce) {
		if ce.Field != "" {
			return err
		}
		c := *ce
		c.Field = field
		return &c
	}
	var ue *UnsupportedCodecError
	if errors.As(err, &ue) {
		if ue.Field != "" {
			return err
		}
		u := *ue
		u.Field = field
		return &u
	}
	return err
}
