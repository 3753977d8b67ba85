// Package fieldmap reads and writes MMTF field maps as YAML. We do not
// unpack MessagePack here, so this is how structures get into the
// decoder from disk. Encoded arrays are !!binary values holding the
// raw codec buffer. The group, entity and assembly lists are ordinary
// YAML sequences of mappings. Files may be gzipped.
package fieldmap

import (
	"encoding/base64"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/andrew-torda/mmtf_read/pkg/zwrap"
)

// Load maps fname into memory, decompresses it if it is gzipped and
// parses the YAML.
func Load(fname string) (map[string]interface{}, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	fi, err := fp.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() == 0 {
		return nil, errors.Errorf("%s is empty", fname)
	}
	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "mapping %s", fname)
	}
	defer mm.Unmap()
	fields, err := Parse(mm)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", fname)
	}
	return fields, nil
}

// Read is Load for a stream, such as standard input. r is read to the
// end but not closed.
func Read(r io.Reader) (map[string]interface{}, error) {
	zr, err := zwrap.WrapMaybe(io.NopCloser(r))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.Wrap(err, "fieldmap")
	}
	if len(data) == 0 {
		return nil, errors.New("fieldmap: empty input")
	}
	return unmarshal(data)
}

// Parse turns YAML, possibly gzipped, into a field map. Nothing in the
// result points into data.
func Parse(data []byte) (map[string]interface{}, error) {
	data, err := zwrap.Gunzip(data)
	if err != nil {
		return nil, err
	}
	return unmarshal(data)
}

func unmarshal(data []byte) (map[string]interface{}, error) {
	var fields map[string]interface{}
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return nil, errors.Wrap(err, "fieldmap")
	}
	if len(fields) == 0 {
		return nil, errors.New("fieldmap: no fields")
	}
	return fields, nil
}

// Marshal writes a field map as YAML. Byte slices become !!binary,
// everything else is left to yaml.
func Marshal(fields map[string]interface{}) ([]byte, error) {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		out[k] = binaryNodes(v)
	}
	return yaml.Marshal(out)
}

func binaryNodes(v interface{}) interface{} {
	switch x := v.(type) {
	case []byte:
		return &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!binary",
			Value: base64.StdEncoding.EncodeToString(x),
		}
	case []interface{}:
		l := make([]interface{}, len(x))
		for i, e := range x {
			l[i] = binaryNodes(e)
		}
		return l
	case map[string]interface{}:
		m := make(map[string]interface{}, len(x))
		for k, e := range x {
			m[k] = binaryNodes(e)
		}
		return m
	}
	return v
}
