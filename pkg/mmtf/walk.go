package mmtf

// Visit is one group as seen by Walk.
type Visit struct {
	Model     int    // model index
	Chain     int    // chain index over all models
	ChainID   string
	Group     int    // group index over all chains
	GroupID   int32  // residue number from the file
	Type      *GroupType
	FirstAtom int // index of the group's first atom
}

// Walk goes over models, their chains and the groups in each chain.
// Atoms of a group are FirstAtom up to FirstAtom+len(Type.AtomNameList).
// If fn returns an error we stop and return it.
func (s *Structure) Walk(fn func(v Visit) error) error {
	chain, group, atom := 0, 0, 0
	for m, nChain := range s.ChainsPerModel {
		for c := 0; c < int(nChain); c, chain = c+1, chain+1 {
			for g := 0; g < int(s.GroupsPerChain[chain]); g, group = g+1, group+1 {
				gt := &s.GroupList[s.GroupTypeList[group]]
				if atom+len(gt.AtomNameList) > s.NumAtoms {
					return &CorruptDataError{Field: "groupList", Other: "numAtoms",
						Detail: "group " + itoa(group) + " runs past atom " + itoa(s.NumAtoms)}
				}
				v := Visit{
					Model:     m,
					Chain:     chain,
					ChainID:   s.ChainIDList[chain],
					Group:     group,
					GroupID:   s.GroupIDList[group],
					Type:      gt,
					FirstAtom: atom,
				}
				if err := fn(v); err != nil {
					return err
				}
				atom += len(gt.AtomNameList)
			}
		}
	}
	return nil
}
