package mmtf

import (
	"io"

	"github.com/andrew-torda/matrix"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/andrew-torda/mmtf_read/pkg/mmtf/codec"
)

// Option changes how Decode behaves.
type Option func(*options)

type options struct {
	log logrus.FieldLogger
}

// WithLogger sends a debug line per field to log.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) { o.log = log }
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Decode builds a Structure from the map of fields the upstream
// unpacker gives us. Either everything works or we return an error
// and no Structure. Errors are *MissingFieldError, *CorruptDataError
// or *UnsupportedCodecError, possibly wrapped.
// The input map and its buffers are not changed, but the Structure
// may share memory with them.
func Decode(fields map[string]interface{}, opts ...Option) (*Structure, error) {
	o := options{}
	for _, f := range opts {
		f(&o)
	}
	if o.log == nil {
		o.log = quietLogger()
	}

	s := new(Structure)
	present := make(map[string]bool, len(fieldTable))
	for _, fd := range fieldTable {
		v, ok := fields[fd.name]
		if !ok {
			if fd.mandatory {
				return nil, &MissingFieldError{Field: fd.name}
			}
			o.log.WithField("field", fd.name).Debug("absent, using default")
			continue
		}
		if err := fd.size.check(s, v); err != nil {
			return nil, errors.Wrapf(codec.WithField(err, fd.name), "decoding %s", fd.name)
		}
		if err := fd.decode(s, v); err != nil {
			return nil, errors.Wrapf(codec.WithField(err, fd.name), "decoding %s", fd.name)
		}
		present[fd.name] = true
		if b, ok := asBytes(v); ok && len(b) >= codec.HeaderLen {
			if h, _, err := codec.ParseHeader(b); err == nil {
				o.log.WithFields(logrus.Fields{"field": fd.name, "codec": h.Codec, "length": h.Length}).Debug("decoded")
			}
		}
	}

	if err := s.check(present); err != nil {
		return nil, err
	}
	s.Coords = coordMatrix(s.XCoordList, s.YCoordList, s.ZCoordList)
	o.log.WithFields(logrus.Fields{
		"id":     s.StructureID,
		"models": s.NumModels,
		"chains": s.NumChains,
		"groups": s.NumGroups,
		"atoms":  s.NumAtoms,
	}).Debug("structure decoded")
	return s, nil
}

// check goes over the cross field rules once everything is decoded.
func (s *Structure) check(present map[string]bool) error {
	type lenRule struct {
		field string
		n     int
		other string
		want  int
	}
	rules := []lenRule{
		{"chainsPerModel", len(s.ChainsPerModel), "numModels", s.NumModels},
		{"groupsPerChain", len(s.GroupsPerChain), "numChains", s.NumChains},
		{"chainIdList", len(s.ChainIDList), "numChains", s.NumChains},
		{"groupIdList", len(s.GroupIDList), "numGroups", s.NumGroups},
		{"groupTypeList", len(s.GroupTypeList), "numGroups", s.NumGroups},
		{"xCoordList", len(s.XCoordList), "numAtoms", s.NumAtoms},
		{"yCoordList", len(s.YCoordList), "numAtoms", s.NumAtoms},
		{"zCoordList", len(s.ZCoordList), "numAtoms", s.NumAtoms},
	}
	optional := []lenRule{
		{"chainNameList", len(s.ChainNameList), "numChains", s.NumChains},
		{"bFactorList", len(s.BFactorList), "numAtoms", s.NumAtoms},
		{"occupancyList", len(s.OccupancyList), "numAtoms", s.NumAtoms},
		{"atomIdList", len(s.AtomIDList), "numAtoms", s.NumAtoms},
		{"altLocList", s.altLocLen(), "numAtoms", s.NumAtoms},
		{"insCodeList", len(s.InsCodeList), "numGroups", s.NumGroups},
		{"secStructList", len(s.SecStructList), "numGroups", s.NumGroups},
		{"sequenceIndexList", len(s.SequenceIndexList), "numGroups", s.NumGroups},
	}
	for _, r := range optional {
		if present[r.field] {
			rules = append(rules, r)
		}
	}
	for _, r := range rules {
		if r.n != r.want {
			return mismatch(r.field, r.n, r.other, r.want)
		}
	}

	for i, n := range s.ChainsPerModel {
		if n < 0 {
			return &CorruptDataError{Field: "chainsPerModel", Detail: "negative count at model " + itoa(i)}
		}
	}
	for i, n := range s.GroupsPerChain {
		if n < 0 {
			return &CorruptDataError{Field: "groupsPerChain", Detail: "negative count at chain " + itoa(i)}
		}
	}
	if sum := total(s.ChainsPerModel); sum != s.NumChains {
		return &CorruptDataError{Field: "chainsPerModel", Other: "numChains",
			Detail: "sum " + itoa(sum) + " but numChains is " + itoa(s.NumChains)}
	}
	if sum := total(s.GroupsPerChain); sum != s.NumGroups {
		return &CorruptDataError{Field: "groupsPerChain", Other: "numGroups",
			Detail: "sum " + itoa(sum) + " but numGroups is " + itoa(s.NumGroups)}
	}

	for i, gt := range s.GroupTypeList {
		if gt < 0 || int(gt) >= len(s.GroupList) {
			return &CorruptDataError{Field: "groupTypeList", Other: "groupList",
				Detail: "group " + itoa(i) + " has type " + itoa(int(gt)) + ", groupList has " + itoa(len(s.GroupList)) + " entries"}
		}
	}

	if present["bondAtomList"] {
		if len(s.BondAtomList)%2 != 0 {
			return &CorruptDataError{Field: "bondAtomList", Detail: "odd length " + itoa(len(s.BondAtomList))}
		}
		for i, a := range s.BondAtomList {
			if a < 0 || int(a) >= s.NumAtoms {
				return &CorruptDataError{Field: "bondAtomList", Other: "numAtoms",
					Detail: "atom index " + itoa(int(a)) + " at " + itoa(i) + " out of range"}
			}
		}
		if present["bondOrderList"] && len(s.BondOrderList) != len(s.BondAtomList)/2 {
			return mismatch("bondOrderList", len(s.BondOrderList), "bondAtomList pairs", len(s.BondAtomList)/2)
		}
	}

	for i, e := range s.EntityList {
		for _, c := range e.ChainIndexList {
			if c < 0 || int(c) >= s.NumChains {
				return &CorruptDataError{Field: "entityList", Other: "numChains",
					Detail: "entity " + itoa(i) + " refers to chain " + itoa(int(c))}
			}
		}
	}
	return nil
}

// total adds up counts without wrapping at 32 bits.
func total(counts []int32) int {
	return lo.Sum(lo.Map(counts, func(n int32, _ int) int { return int(n) }))
}

// altLocLen is the length from the header, so we can check it
// without decoding.
func (s *Structure) altLocLen() int {
	h, _, err := codec.ParseHeader(s.altLocBuf)
	if err != nil {
		return -1
	}
	return int(h.Length)
}

// coordMatrix puts the three coordinate lists into one n x 3 matrix.
// Each axis was divided by the parameter in its own header.
func coordMatrix(x, y, z []float32) *matrix.FMatrix2d {
	m := matrix.NewFMatrix2d(len(x), 3)
	for i := range x {
		m.Mat[i][0] = x[i]
		m.Mat[i][1] = y[i]
		m.Mat[i][2] = z[i]
	}
	return m
}
