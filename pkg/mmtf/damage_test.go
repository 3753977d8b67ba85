package mmtf_test

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"

	"github.com/andrew-torda/mmtf_read/pkg/brokenio"
	. "github.com/andrew-torda/mmtf_read/pkg/mmtf"
	"github.com/andrew-torda/mmtf_read/pkg/mmtf/mmtftest"
)

// nopConsumer accepts everything.
type nopConsumer struct{}

func (nopConsumer) InitStructure(_, _, _, _, _ int, _ string) error { return nil }
func (nopConsumer) SetEntityInfo([]Entity) error { return nil }
func (nopConsumer) SetAtomInfo(*AtomInfo) error { return nil }
func (nopConsumer) SetHeaderInfo(*HeaderInfo) error { return nil }
func (nopConsumer) SetXtalInfo(*XtalInfo) error { return nil }
func (nopConsumer) SetBioAssembly([]BioAssembly) error { return nil }
func (nopConsumer) SetInterGroupBonds(_, _ []int32) error { return nil }
func (nopConsumer) FinalizeStructure() error { return nil }

// TestDamagedBuffers flips bytes in every encoded field in turn. Each
// time we must either get a valid structure or one of our error
// types, never a panic.
func TestDamagedBuffers(t *testing.T) {
	for name, v := range mmtftest.Minimal() {
		b, ok := v.([]byte)
		if !ok {
			continue
		}
		for seed := int64(0); seed < 50; seed++ {
			f := mmtftest.Minimal()
			d := bytes.Clone(b)
			brokenio.Flip(d, 1+int(seed%3), seed)
			f[name] = d
			s, err := Decode(f)
			if err == nil {
				err = Emit(s, nopConsumer{})
			}
			if err == nil {
				err = s.Walk(func(Visit) error { return nil })
			}
			if err == nil {
				continue
			}
			var (
				ce *CorruptDataError
				ue *UnsupportedCodecError
			)
			if !errors.As(err, &ce) && !errors.As(err, &ue) {
				t.Errorf("%s seed %d: unexpected error %v", name, seed, err)
			}
		}
	}
}

// TestTruncated cuts every encoded field short.
func TestTruncated(t *testing.T) {
	for name, v := range mmtftest.Minimal() {
		b, ok := v.([]byte)
		if !ok {
			continue
		}
		for cut := 0; cut < len(b); cut++ {
			f := mmtftest.Minimal()
			f[name] = b[:cut]
			if _, err := Decode(f); err == nil && cut < 12 {
				t.Errorf("%s cut to %d bytes decoded", name, cut)
			}
		}
	}
}
