// Package mmtf decodes structures in the macromolecular transmission
// format. Someone else has already unpacked the outer MessagePack
// envelope and gives us a map from field name to value. Most of the big
// fields are byte buffers compressed with one of the codecs in
// package codec. The group and entity records are maps of byte strings
// which package normalize turns into text.
//
// Decode builds a Structure and checks that the fields agree with each
// other (atoms per coordinate list, groups per chain, ...). Emit then
// hands the Structure to a Consumer in a fixed order of eight stages.
//
// Notes about the format..
// The hierarchy is model -> chain -> group -> atom, but it is not
// stored as a tree. chainsPerModel and groupsPerChain are counts and
// the groups and atoms are in flat lists in that order. The atoms
// of a group come from its entry in groupList, so numAtoms is the sum
// of the atom name lists of every group.
// Chain ids are 4 byte codes, but only the first character is used.
// The alternate location list is rarely wanted, so we leave it
// encoded until someone calls AltLocs.
// x, y and z each carry their own divisor in their header. In practice
// they are always 1000, but we do not rely on it.
package mmtf
