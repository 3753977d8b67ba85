package mmtf

import (
	"github.com/andrew-torda/matrix"

	"github.com/andrew-torda/mmtf_read/pkg/mmtf/codec"
)

// GroupType is one entry of the groupList, a template shared by every
// group (residue) of the same kind.
type GroupType struct {
	AtomNameList     []string
	ElementList      []string
	BondAtomList     []int32 // pairs of indices into AtomNameList
	BondOrderList    []int32
	FormalChargeList []int32
	ChemCompType     string
	GroupName        string
	SingleLetterCode string
}

// Entity is a chemically distinct part of the structure, usually a
// polymer sequence, and the chains it occurs in.
type Entity struct {
	Description    string
	Type           string
	Sequence       string
	ChainIndexList []int32
}

// Transform is one operation of a bio-assembly. Matrix is 4x4, row major,
// and is passed on as it came.
type Transform struct {
	ChainIndexList []int32
	Matrix         []float32
}

// BioAssembly says how to build a biological assembly from chains.
type BioAssembly struct {
	Name          string
	TransformList []Transform
}

// Structure is a decoded MMTF record. It is built by Decode and not
// changed afterwards, except for the alternate locations which are
// decoded the first time someone asks for them.
type Structure struct {
	NumBonds  int
	NumAtoms  int
	NumGroups int
	NumChains int
	NumModels int

	ChainsPerModel []int32
	GroupsPerChain []int32

	// per atom
	XCoordList    []float32
	YCoordList    []float32
	ZCoordList    []float32
	Coords        *matrix.FMatrix2d // NumAtoms x 3, the three lists above
	BFactorList   []float32
	OccupancyList []float32
	AtomIDList    []int32

	altLocBuf     []byte // raw codec buffer, see AltLocs
	altLocs       []rune
	altLocSet     bool
	nAltLocDecode int

	// per group
	GroupIDList       []int32
	GroupTypeList     []int32
	InsCodeList       []rune
	SecStructList     []int32
	SequenceIndexList []int32

	// per chain
	ChainIDList   []string
	ChainNameList []string

	GroupList  []GroupType
	EntityList []Entity

	// inter group bonds
	BondAtomList  []int32
	BondOrderList []int32

	// header
	Title               string
	StructureID         string
	DepositionDate      string
	ReleaseDate         string
	MmtfVersion         string
	MmtfProducer        string
	ExperimentalMethods []string

	// crystallographic
	SpaceGroup string
	UnitCell   []float32
	Resolution *float32 // nil if not in the file
	RFree      *float32
	RWork      *float32

	BioAssemblyList []BioAssembly
	NcsOperatorList [][]float32
}

// AltLocs returns one alternate location code per atom. Zero means
// there is no alternate location. The list is kept as raw bytes
// until the first call and the decoded result is kept after that.
// A structure without altLocList gives nil.
func (s *Structure) AltLocs() ([]rune, error) {
	if s.altLocSet {
		return s.altLocs, nil
	}
	if s.altLocBuf != nil {
		s.nAltLocDecode++
		a, err := codec.Decode(s.altLocBuf)
		if err != nil {
			return nil, codec.WithField(err, "altLocList")
		}
		if s.altLocs, err = a.AsChars(); err != nil {
			return nil, codec.WithField(err, "altLocList")
		}
	}
	s.altLocSet = true
	return s.altLocs, nil
}
