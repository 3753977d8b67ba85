// Package normalize turns the group and entity records of an MMTF file
// from byte strings into text. The upstream unpacker gives us maps
// whose keys and many of whose values are raw bytes. A fixed table
// says which values are text, which are lists of text and which are
// left alone (numbers, bond lists, chain indices).
package normalize

import (
	"fmt"

	"github.com/andrew-torda/mmtf_read/pkg/mmtf/codec"
)

// Record is a group or entity with text keys.
type Record map[string]interface{}

type action byte

const (
	pass     action = iota // leave the value as it is
	text                   // one byte string
	textList               // a list of byte strings
)

var groupKeys = map[string]action{
	"atomNameList":     textList,
	"elementList":      textList,
	"chemCompType":     text,
	"groupName":        text,
	"singleLetterCode": text,
}

var entityKeys = map[string]action{
	"description": text,
	"type":        text,
	"sequence":    text,
}

// Group normalizes one entry of the groupList.
func Group(raw interface{}) (Record, error) { return apply(raw, groupKeys) }

// Entity normalizes one entry of the entityList.
func Entity(raw interface{}) (Record, error) { return apply(raw, entityKeys) }

func apply(raw interface{}, table map[string]action) (Record, error) {
	out := make(Record)
	add := func(k interface{}, v interface{}) error {
		key, err := ASCII("record key", k)
		if err != nil {
			return err
		}
		switch table[key] {
		case text:
			v, err = ASCII(key, v)
		case textList:
			v, err = ASCIIList(key, v)
		}
		if err != nil {
			return err
		}
		out[key] = v
		return nil
	}

	switch m := raw.(type) {
	case map[string]interface{}:
		for k, v := range m {
			if err := add(k, v); err != nil {
				return nil, err
			}
		}
	case Record:
		for k, v := range m {
			if err := add(k, v); err != nil {
				return nil, err
			}
		}
	case map[interface{}]interface{}:
		for k, v := range m {
			if err := add(k, v); err != nil {
				return nil, err
			}
		}
	default:
		return nil, &codec.CorruptDataError{Detail: fmt.Sprintf("record is a %T, not a map", raw)}
	}
	return out, nil
}

// ASCII decodes a byte string, or checks a string, as 7 bit ASCII.
// field is only used in the error message.
func ASCII(field string, v interface{}) (string, error) {
	var b []byte
	switch s := v.(type) {
	case []byte:
		b = s
	case string:
		b = []byte(s)
	default:
		return "", &codec.CorruptDataError{Field: field, Detail: fmt.Sprintf("wanted text, got %T", v)}
	}
	for i, c := range b {
		if c > 127 {
			return "", &codec.CorruptDataError{Field: field, Detail: fmt.Sprintf("byte 0x%02x at %d is not ASCII", c, i)}
		}
	}
	return string(b), nil
}

// ASCIIList decodes every entry of a list of byte strings.
func ASCIIList(field string, v interface{}) ([]string, error) {
	switch l := v.(type) {
	case []string:
		out := make([]string, len(l))
		for i, s := range l {
			var err error
			if out[i], err = ASCII(field, s); err != nil {
				return nil, err
			}
		}
		return out, nil
	case [][]byte:
		out := make([]string, len(l))
		for i, s := range l {
			var err error
			if out[i], err = ASCII(field, s); err != nil {
				return nil, err
			}
		}
		return out, nil
	case []interface{}:
		out := make([]string, len(l))
		for i, s := range l {
			var err error
			if out[i], err = ASCII(field, s); err != nil {
				return nil, err
			}
		}
		return out, nil
	case nil:
		return nil, nil
	}
	return nil, &codec.CorruptDataError{Field: field, Detail: fmt.Sprintf("wanted a list of text, got %T", v)}
}
