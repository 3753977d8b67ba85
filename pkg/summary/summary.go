// Package summary is a Consumer that keeps a few numbers about a
// structure instead of building atoms. mmtfsum prints them.
package summary

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/andrew-torda/mmtf_read/pkg/mmtf"
)

// ChainSeq is the one letter sequence of one chain in one model.
type ChainSeq struct {
	Model int
	Chain string
	Seq   string
}

// Report is filled in by Emit. Fields for data not in the file stay
// at zero or nil.
type Report struct {
	ID        string
	Title     string
	Methods   []string
	NumModels int
	NumChains int
	NumGroups int
	NumAtoms  int
	NumBonds  int

	NumEntities   int
	NumAssemblies int
	NumInterBonds int // bonds between groups
	NumAltLoc     int // atoms with an alternate location
	Resolution    *float32
	SpaceGroup    string

	Min, Max [3]float32 // coordinate extents
	MeanB    float32
	HaveB    bool

	Chains []ChainSeq

	started, done bool
}

var errOrder = errors.New("summary: stage called before initStructure")

// InitStructure starts a fresh report.
func (r *Report) InitStructure(numBonds, numAtoms, numGroups, numChains, numModels int, id string) error {
	*r = Report{
		ID:        id,
		NumBonds:  numBonds,
		NumAtoms:  numAtoms,
		NumGroups: numGroups,
		NumChains: numChains,
		NumModels: numModels,
		started:   true,
	}
	return nil
}

func (r *Report) SetEntityInfo(entities []mmtf.Entity) error {
	if !r.started {
		return errOrder
	}
	r.NumEntities = len(entities)
	return nil
}

// SetAtomInfo works out extents, the mean B-factor and how many atoms
// have an alternate location.
func (r *Report) SetAtomInfo(info *mmtf.AtomInfo) error {
	if !r.started {
		return errOrder
	}
	if nr, _ := info.Coords.Size(); nr != r.NumAtoms {
		return errors.Errorf("summary: %d coordinates for %d atoms", nr, r.NumAtoms)
	}
	for k := range r.Min {
		r.Min[k], r.Max[k] = math.MaxFloat32, -math.MaxFloat32
	}
	for _, xyz := range info.Coords.Mat {
		for k := 0; k < 3; k++ {
			r.Min[k] = min(r.Min[k], xyz[k])
			r.Max[k] = max(r.Max[k], xyz[k])
		}
	}
	if r.NumAtoms == 0 {
		r.Min, r.Max = [3]float32{}, [3]float32{}
	}
	if len(info.BFactors) > 0 {
		r.HaveB = true
		r.MeanB = lo.Sum(info.BFactors) / float32(len(info.BFactors))
	}
	r.NumAltLoc = lo.CountBy(info.AltLocs, func(c rune) bool { return c != 0 })
	return nil
}

func (r *Report) SetHeaderInfo(h *mmtf.HeaderInfo) error {
	if !r.started {
		return errOrder
	}
	r.Title = h.Title
	r.Methods = h.ExperimentalMethods
	return nil
}

func (r *Report) SetXtalInfo(x *mmtf.XtalInfo) error {
	if !r.started {
		return errOrder
	}
	r.Resolution = x.Resolution
	r.SpaceGroup = x.SpaceGroup
	return nil
}

func (r *Report) SetBioAssembly(assemblies []mmtf.BioAssembly) error {
	if !r.started {
		return errOrder
	}
	r.NumAssemblies = len(assemblies)
	return nil
}

func (r *Report) SetInterGroupBonds(bondAtoms, bondOrders []int32) error {
	if !r.started {
		return errOrder
	}
	r.NumInterBonds = len(bondAtoms) / 2
	return nil
}

func (r *Report) FinalizeStructure() error {
	if !r.started {
		return errOrder
	}
	r.done = true
	return nil
}

// Summarize emits s into a new Report and adds the chain sequences.
func Summarize(s *mmtf.Structure) (*Report, error) {
	r := new(Report)
	if err := mmtf.Emit(s, r); err != nil {
		return nil, err
	}
	chains, err := ChainSequences(s)
	if err != nil {
		return nil, err
	}
	r.Chains = chains
	return r, nil
}

// ChainSequences walks the structure and strings together the one
// letter codes of each chain's groups. Groups without a code, or with
// "?", show up as X.
func ChainSequences(s *mmtf.Structure) ([]ChainSeq, error) {
	var out []ChainSeq
	var b strings.Builder
	last := -1
	flush := func() {
		if last >= 0 {
			out[len(out)-1].Seq = b.String()
		}
		b.Reset()
	}
	err := s.Walk(func(v mmtf.Visit) error {
		if v.Chain != last {
			flush()
			out = append(out, ChainSeq{Model: v.Model, Chain: v.ChainID})
			last = v.Chain
		}
		c := v.Type.SingleLetterCode
		if c == "" || c == "?" {
			c = "X"
		}
		b.WriteString(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	flush()
	return out, nil
}

// WriteTo prints the report as a block of text.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	id := r.ID
	if id == "" {
		id = "(no id)"
	}
	fmt.Fprintf(&b, "%s %s\n", id, r.Title)
	if len(r.Methods) > 0 {
		fmt.Fprintf(&b, "  method     %s\n", strings.Join(r.Methods, ", "))
	}
	if r.Resolution != nil {
		fmt.Fprintf(&b, "  resolution %.2f\n", *r.Resolution)
	}
	if r.SpaceGroup != "" {
		fmt.Fprintf(&b, "  spacegroup %s\n", r.SpaceGroup)
	}
	fmt.Fprintf(&b, "  models %d chains %d groups %d atoms %d bonds %d\n",
		r.NumModels, r.NumChains, r.NumGroups, r.NumAtoms, r.NumBonds)
	fmt.Fprintf(&b, "  entities %d assemblies %d inter-group bonds %d alt locs %d\n",
		r.NumEntities, r.NumAssemblies, r.NumInterBonds, r.NumAltLoc)
	fmt.Fprintf(&b, "  extent x %.3f %.3f y %.3f %.3f z %.3f %.3f\n",
		r.Min[0], r.Max[0], r.Min[1], r.Max[1], r.Min[2], r.Max[2])
	if r.HaveB {
		fmt.Fprintf(&b, "  mean B %.2f\n", r.MeanB)
	}
	for _, c := range r.Chains {
		fmt.Fprintf(&b, "  model %d chain %s %s\n", c.Model, c.Chain, c.Seq)
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// Done says if FinalizeStructure was reached.
func (r *Report) Done() bool { return r.done }
