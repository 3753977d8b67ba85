package mmtf

import (
	"strconv"

	"github.com/samber/lo"

	"github.com/andrew-torda/mmtf_read/pkg/mmtf/codec"
	"github.com/andrew-torda/mmtf_read/pkg/mmtf/normalize"
)

// fieldDesc says what to do with one key of the input map.
// If an optional field is missing, nothing is done. The zero value
// of the Structure member (nil slice, nil pointer, "") is the default.
type fieldDesc struct {
	name      string
	mandatory bool
	decode    func(s *Structure, v interface{}) error
	size      *sizeRule
}

// sizeRule ties the length in the header of an encoded field to a
// count decoded before it. We look at it before decoding, since a
// run-length buffer of a few bytes can claim any length it likes.
type sizeRule struct {
	count  string
	n      func(s *Structure) int
	atMost bool
}

var (
	perAtom   = &sizeRule{count: "numAtoms", n: func(s *Structure) int { return s.NumAtoms }}
	perGroup  = &sizeRule{count: "numGroups", n: func(s *Structure) int { return s.NumGroups }}
	perChain  = &sizeRule{count: "numChains", n: func(s *Structure) int { return s.NumChains }}
	perModel  = &sizeRule{count: "numModels", n: func(s *Structure) int { return s.NumModels }}
	bondAtoms = &sizeRule{count: "numBonds", n: func(s *Structure) int { return 2 * s.NumBonds }, atMost: true}
	bondOrder = &sizeRule{count: "numBonds", n: func(s *Structure) int { return s.NumBonds }, atMost: true}
)

// check only complains about buffers with a readable header. Plain
// lists and broken headers are left to the decoder.
func (r *sizeRule) check(s *Structure, v interface{}) error {
	if r == nil {
		return nil
	}
	b, ok := asBytes(v)
	if !ok {
		return nil
	}
	h, _, err := codec.ParseHeader(b)
	if err != nil {
		return nil
	}
	got, want := int(h.Length), r.n(s)
	if got == want || (r.atMost && got < want) {
		return nil
	}
	return &CorruptDataError{Other: r.count,
		Detail: "header says " + strconv.Itoa(got) + " values but " + r.count + " is " + strconv.Itoa(want)}
}

// fieldTable is walked once by Decode, in this order.
var fieldTable = []fieldDesc{
	{"numBonds", true, count(func(s *Structure) *int { return &s.NumBonds }), nil},
	{"numAtoms", true, count(func(s *Structure) *int { return &s.NumAtoms }), nil},
	{"numGroups", true, count(func(s *Structure) *int { return &s.NumGroups }), nil},
	{"numChains", true, count(func(s *Structure) *int { return &s.NumChains }), nil},
	{"numModels", true, count(func(s *Structure) *int { return &s.NumModels }), nil},
	{"chainsPerModel", true, ints(func(s *Structure) *[]int32 { return &s.ChainsPerModel }), perModel},
	{"groupsPerChain", true, ints(func(s *Structure) *[]int32 { return &s.GroupsPerChain }), perChain},

	{"groupIdList", true, ints(func(s *Structure) *[]int32 { return &s.GroupIDList }), perGroup},
	{"groupTypeList", true, ints(func(s *Structure) *[]int32 { return &s.GroupTypeList }), perGroup},
	{"chainIdList", true, chainCodes(func(s *Structure) *[]string { return &s.ChainIDList }), perChain},
	{"groupList", true, decodeGroupList, nil},
	{"xCoordList", true, floats(func(s *Structure) *[]float32 { return &s.XCoordList }), perAtom},
	{"yCoordList", true, floats(func(s *Structure) *[]float32 { return &s.YCoordList }), perAtom},
	{"zCoordList", true, floats(func(s *Structure) *[]float32 { return &s.ZCoordList }), perAtom},

	{"chainNameList", false, chainCodes(func(s *Structure) *[]string { return &s.ChainNameList }), perChain},
	{"bFactorList", false, floats(func(s *Structure) *[]float32 { return &s.BFactorList }), perAtom},
	{"occupancyList", false, floats(func(s *Structure) *[]float32 { return &s.OccupancyList }), perAtom},
	{"atomIdList", false, ints(func(s *Structure) *[]int32 { return &s.AtomIDList }), perAtom},
	{"altLocList", false, keepAltLocs, perAtom},
	{"insCodeList", false, chars(func(s *Structure) *[]rune { return &s.InsCodeList }), perGroup},
	{"secStructList", false, ints(func(s *Structure) *[]int32 { return &s.SecStructList }), perGroup},
	{"sequenceIndexList", false, ints(func(s *Structure) *[]int32 { return &s.SequenceIndexList }), perGroup},
	{"bondAtomList", false, ints(func(s *Structure) *[]int32 { return &s.BondAtomList }), bondAtoms},
	{"bondOrderList", false, ints(func(s *Structure) *[]int32 { return &s.BondOrderList }), bondOrder},
	{"entityList", false, decodeEntityList, nil},

	{"title", false, text(func(s *Structure) *string { return &s.Title }), nil},
	{"structureId", false, text(func(s *Structure) *string { return &s.StructureID }), nil},
	{"depositionDate", false, text(func(s *Structure) *string { return &s.DepositionDate }), nil},
	{"releaseDate", false, text(func(s *Structure) *string { return &s.ReleaseDate }), nil},
	{"mmtfVersion", false, text(func(s *Structure) *string { return &s.MmtfVersion }), nil},
	{"mmtfProducer", false, text(func(s *Structure) *string { return &s.MmtfProducer }), nil},
	{"experimentalMethods", false, textList(func(s *Structure) *[]string { return &s.ExperimentalMethods }), nil},
	{"spaceGroup", false, text(func(s *Structure) *string { return &s.SpaceGroup }), nil},
	{"unitCell", false, floats(func(s *Structure) *[]float32 { return &s.UnitCell }), nil},
	{"resolution", false, optFloat(func(s *Structure) **float32 { return &s.Resolution }), nil},
	{"rFree", false, optFloat(func(s *Structure) **float32 { return &s.RFree }), nil},
	{"rWork", false, optFloat(func(s *Structure) **float32 { return &s.RWork }), nil},
	{"bioAssemblyList", false, decodeBioAssemblies, nil},
	{"ncsOperatorList", false, decodeNcsOperators, nil},
}

type decodeFunc = func(s *Structure, v interface{}) error

func count(dst func(*Structure) *int) decodeFunc {
	return func(s *Structure, v interface{}) (err error) {
		*dst(s), err = asCount(v)
		return
	}
}

func ints(dst func(*Structure) *[]int32) decodeFunc {
	return func(s *Structure, v interface{}) (err error) {
		*dst(s), err = asInt32s(v)
		return
	}
}

func floats(dst func(*Structure) *[]float32) decodeFunc {
	return func(s *Structure, v interface{}) (err error) {
		*dst(s), err = asFloat32s(v)
		return
	}
}

func text(dst func(*Structure) *string) decodeFunc {
	return func(s *Structure, v interface{}) (err error) {
		*dst(s), err = asText(v)
		return
	}
}

func textList(dst func(*Structure) *[]string) decodeFunc {
	return func(s *Structure, v interface{}) (err error) {
		*dst(s), err = normalize.ASCIIList("", v)
		return
	}
}

func optFloat(dst func(*Structure) **float32) decodeFunc {
	return func(s *Structure, v interface{}) error {
		if v == nil {
			return nil
		}
		f, err := asFloat32(v)
		if err != nil {
			return err
		}
		*dst(s) = &f
		return nil
	}
}

// chars is for run-length character codes such as insertion codes.
func chars(dst func(*Structure) *[]rune) decodeFunc {
	return func(s *Structure, v interface{}) error {
		b, ok := asBytes(v)
		if !ok {
			return wrongType("an encoded buffer", v)
		}
		a, err := codec.Decode(b)
		if err != nil {
			return err
		}
		*dst(s), err = a.AsChars()
		return err
	}
}

// chainCodes reads chain ids or names. They are stored as 4 byte
// codes padded with NULs and we only keep the first character.
func chainCodes(dst func(*Structure) *[]string) decodeFunc {
	return func(s *Structure, v interface{}) error {
		b, ok := asBytes(v)
		if !ok {
			return wrongType("an encoded buffer", v)
		}
		a, err := codec.Decode(b)
		if err != nil {
			return err
		}
		codes, err := a.AsStrings()
		if err != nil {
			return err
		}
		*dst(s) = lo.Map(codes, func(c string, _ int) string {
			if c == "" {
				return ""
			}
			return c[:1]
		})
		return nil
	}
}

// keepAltLocs only checks the header. Decoding waits for AltLocs().
func keepAltLocs(s *Structure, v interface{}) error {
	b, ok := asBytes(v)
	if !ok {
		return wrongType("an encoded buffer", v)
	}
	h, _, err := codec.ParseHeader(b)
	if err != nil {
		return err
	}
	if k, _ := codec.KindOf(h.Codec); k != codec.KindChar {
		return &codec.CorruptDataError{Detail: "codec " + strconv.Itoa(int(h.Codec)) + " does not give characters"}
	}
	s.altLocBuf = b
	return nil
}

func decodeGroupList(s *Structure, v interface{}) error {
	l, err := asList(v)
	if err != nil {
		return err
	}
	s.GroupList = make([]GroupType, len(l))
	for i, raw := range l {
		rec, err := normalize.Group(raw)
		if err != nil {
			return err
		}
		if s.GroupList[i], err = groupFromRecord(rec); err != nil {
			return err
		}
	}
	return nil
}

func groupFromRecord(rec normalize.Record) (GroupType, error) {
	var g GroupType
	var err error
	g.AtomNameList, _ = rec["atomNameList"].([]string)
	g.ElementList, _ = rec["elementList"].([]string)
	g.ChemCompType, _ = rec["chemCompType"].(string)
	g.GroupName, _ = rec["groupName"].(string)
	g.SingleLetterCode, _ = rec["singleLetterCode"].(string)
	if g.BondAtomList, err = asInt32s(rec["bondAtomList"]); err != nil {
		return g, err
	}
	if g.BondOrderList, err = asInt32s(rec["bondOrderList"]); err != nil {
		return g, err
	}
	if g.FormalChargeList, err = asInt32s(rec["formalChargeList"]); err != nil {
		return g, err
	}
	return g, nil
}

func decodeEntityList(s *Structure, v interface{}) error {
	l, err := asList(v)
	if err != nil {
		return err
	}
	s.EntityList = make([]Entity, len(l))
	for i, raw := range l {
		rec, err := normalize.Entity(raw)
		if err != nil {
			return err
		}
		e := &s.EntityList[i]
		e.Description, _ = rec["description"].(string)
		e.Type, _ = rec["type"].(string)
		e.Sequence, _ = rec["sequence"].(string)
		if e.ChainIndexList, err = asInt32s(rec["chainIndexList"]); err != nil {
			return err
		}
	}
	return nil
}

func decodeBioAssemblies(s *Structure, v interface{}) error {
	l, err := asList(v)
	if err != nil {
		return err
	}
	s.BioAssemblyList = make([]BioAssembly, len(l))
	for i, raw := range l {
		ba := &s.BioAssemblyList[i]
		if name, ok := lookup(raw, "name"); ok {
			if ba.Name, err = asText(name); err != nil {
				return err
			}
		}
		tl, _ := lookup(raw, "transformList")
		if tl == nil {
			continue
		}
		transforms, err := asList(tl)
		if err != nil {
			return err
		}
		ba.TransformList = make([]Transform, len(transforms))
		for j, rt := range transforms {
			ci, _ := lookup(rt, "chainIndexList")
			if ba.TransformList[j].ChainIndexList, err = asInt32s(ci); err != nil {
				return err
			}
			m, _ := lookup(rt, "matrix")
			if ba.TransformList[j].Matrix, err = asFloat32s(m); err != nil {
				return err
			}
		}
	}
	return nil
}

func decodeNcsOperators(s *Structure, v interface{}) error {
	l, err := asList(v)
	if err != nil {
		return err
	}
	s.NcsOperatorList = make([][]float32, len(l))
	for i, m := range l {
		if s.NcsOperatorList[i], err = asFloat32s(m); err != nil {
			return err
		}
	}
	return nil
}
