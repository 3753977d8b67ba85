package mmtf

import (
	"github.com/andrew-torda/matrix"
)

// AtomInfo is everything a consumer needs to build atoms, groups and
// chains. Slices for fields not in the file are nil.
type AtomInfo struct {
	Coords          *matrix.FMatrix2d // NumAtoms x 3
	BFactors        []float32
	Occupancies     []float32
	AltLocs         []rune
	AtomIDs         []int32
	InsCodes        []rune
	SequenceIndices []int32

	// the element information, how atoms make up groups, chains, models
	GroupList      []GroupType
	GroupTypes     []int32
	GroupIDs       []int32
	SecStruct      []int32
	ChainIDs       []string
	ChainNames     []string
	ChainsPerModel []int32
	GroupsPerChain []int32
}

// HeaderInfo is the descriptive part of the header.
type HeaderInfo struct {
	Title               string
	DepositionDate      string
	ReleaseDate         string
	MmtfVersion         string
	MmtfProducer        string
	ExperimentalMethods []string
}

// XtalInfo is the crystallographic part of the header. Pointers are
// nil when the value was not in the file.
type XtalInfo struct {
	UnitCell   []float32
	SpaceGroup string
	Resolution *float32
	RWork      *float32
	RFree      *float32
}

// Consumer receives a decoded structure. Emit calls the methods in
// the order they are listed here. If a method fails, no further
// methods are called and the consumer should throw away whatever it
// has built so far.
type Consumer interface {
	InitStructure(numBonds, numAtoms, numGroups, numChains, numModels int, structureID string) error
	SetEntityInfo(entities []Entity) error
	SetAtomInfo(info *AtomInfo) error
	SetHeaderInfo(h *HeaderInfo) error
	SetXtalInfo(x *XtalInfo) error
	SetBioAssembly(assemblies []BioAssembly) error
	SetInterGroupBonds(bondAtoms, bondOrders []int32) error
	FinalizeStructure() error
}

type stage struct {
	name string
	run  func(s *Structure, c Consumer) error
}

var stages = [...]stage{
	{"initStructure", func(s *Structure, c Consumer) error {
		return c.InitStructure(s.NumBonds, s.NumAtoms, s.NumGroups, s.NumChains, s.NumModels, s.StructureID)
	}},
	{"setEntityInfo", func(s *Structure, c Consumer) error {
		return c.SetEntityInfo(s.EntityList)
	}},
	{"setAtomInfo", func(s *Structure, c Consumer) error {
		return c.SetAtomInfo(s.atomInfo())
	}},
	{"setHeaderInfo", func(s *Structure, c Consumer) error {
		return c.SetHeaderInfo(&HeaderInfo{
			Title:               s.Title,
			DepositionDate:      s.DepositionDate,
			ReleaseDate:         s.ReleaseDate,
			MmtfVersion:         s.MmtfVersion,
			MmtfProducer:        s.MmtfProducer,
			ExperimentalMethods: s.ExperimentalMethods,
		})
	}},
	{"setXtalInfo", func(s *Structure, c Consumer) error {
		return c.SetXtalInfo(&XtalInfo{
			UnitCell:   s.UnitCell,
			SpaceGroup: s.SpaceGroup,
			Resolution: s.Resolution,
			RWork:      s.RWork,
			RFree:      s.RFree,
		})
	}},
	{"setBioAssembly", func(s *Structure, c Consumer) error {
		return c.SetBioAssembly(s.BioAssemblyList)
	}},
	{"setInterGroupBonds", func(s *Structure, c Consumer) error {
		return c.SetInterGroupBonds(s.BondAtomList, s.BondOrderList)
	}},
	{"finalizeStructure", func(s *Structure, c Consumer) error {
		return c.FinalizeStructure()
	}},
}

// StageNames lists the emission stages in the order Emit runs them.
func StageNames() []string {
	names := make([]string, len(stages))
	for i, st := range stages {
		names[i] = st.name
	}
	return names
}

// atomInfo is only called after AltLocs has succeeded in Emit, so the
// memoized value is there and there is no error to look at.
func (s *Structure) atomInfo() *AtomInfo {
	altLocs, _ := s.AltLocs()
	return &AtomInfo{
		Coords:          s.Coords,
		BFactors:        s.BFactorList,
		Occupancies:     s.OccupancyList,
		AltLocs:         altLocs,
		AtomIDs:         s.AtomIDList,
		InsCodes:        s.InsCodeList,
		SequenceIndices: s.SequenceIndexList,
		GroupList:       s.GroupList,
		GroupTypes:      s.GroupTypeList,
		GroupIDs:        s.GroupIDList,
		SecStruct:       s.SecStructList,
		ChainIDs:        s.ChainIDList,
		ChainNames:      s.ChainNameList,
		ChainsPerModel:  s.ChainsPerModel,
		GroupsPerChain:  s.GroupsPerChain,
	}
}

// Emit pushes a structure into a consumer, always running all eight
// stages in order. Missing optional fields are passed as nil, never
// skipped. The first consumer error stops everything and comes back
// as a *ConsumerError. A broken altLocList is found before any stage
// runs and comes back as a *CorruptDataError.
func Emit(s *Structure, c Consumer) error {
	if _, err := s.AltLocs(); err != nil {
		return err
	}
	for _, st := range stages {
		if err := st.run(s, c); err != nil {
			return &ConsumerError{Stage: st.name, Err: err}
		}
	}
	return nil
}
