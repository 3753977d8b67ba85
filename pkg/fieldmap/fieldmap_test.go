package fieldmap_test

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrew-torda/mmtf_read/pkg/fieldmap"
	"github.com/andrew-torda/mmtf_read/pkg/mmtf"
	"github.com/andrew-torda/mmtf_read/pkg/mmtf/mmtftest"
)

func TestLoad(t *testing.T) {
	for _, fname := range []string{"testdata/1tst.yaml", "testdata/1tst.yaml.gz"} {
		fields, err := fieldmap.Load(fname)
		require.NoError(t, err, fname)
		s, err := mmtf.Decode(fields)
		require.NoError(t, err, fname)
		assert.Equal(t, "1TST", s.StructureID)
		assert.Equal(t, 8, s.NumAtoms)
		assert.Equal(t, []string{"A", "B"}, s.ChainIDList)
		assert.Equal(t, "GLY", s.GroupList[1].GroupName)
		assert.Equal(t, []string{"N", "CA"}, s.GroupList[1].AtomNameList)
		assert.InDeltaSlice(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, s.XCoordList, 1e-4)
		a, err := s.AltLocs()
		require.NoError(t, err)
		assert.Equal(t, 'A', a[3])
	}
}

// TestRead feeds the fixtures through a pipe, which cannot seek, the
// way standard input arrives.
func TestRead(t *testing.T) {
	for _, fname := range []string{"testdata/1tst.yaml", "testdata/1tst.yaml.gz"} {
		b, err := os.ReadFile(fname)
		require.NoError(t, err)
		pr, pw := io.Pipe()
		go func() {
			pw.Write(b)
			pw.Close()
		}()
		fields, err := fieldmap.Read(pr)
		require.NoError(t, err, fname)
		s, err := mmtf.Decode(fields)
		require.NoError(t, err, fname)
		assert.Equal(t, "1TST", s.StructureID)
	}

	_, err := fieldmap.Read(bytes.NewReader(nil))
	assert.Error(t, err)
	_, err = fieldmap.Read(bytes.NewReader([]byte{0x1f, 0x8b, 0x08}))
	assert.Error(t, err)
}

// The fixture file and mmtftest.Minimal should describe the same thing.
func TestLoadMatchesMinimal(t *testing.T) {
	fields, err := fieldmap.Load("testdata/1tst.yaml")
	require.NoError(t, err)
	fromFile, err := mmtf.Decode(fields)
	require.NoError(t, err)
	fromMap, err := mmtf.Decode(mmtftest.Minimal())
	require.NoError(t, err)
	if diff := cmp.Diff(fromMap.GroupList, fromFile.GroupList); diff != "" {
		t.Errorf("group list differs (-map +file):\n%s", diff)
	}
	if diff := cmp.Diff(fromMap.BFactorList, fromFile.BFactorList); diff != "" {
		t.Errorf("b-factors differ (-map +file):\n%s", diff)
	}
	assert.Equal(t, fromMap.EntityList, fromFile.EntityList)
	assert.Equal(t, fromMap.BioAssemblyList, fromFile.BioAssemblyList)
}

func TestLoadBad(t *testing.T) {
	_, err := fieldmap.Load("testdata/empty.yaml")
	assert.Error(t, err)
	_, err = fieldmap.Load("testdata/not_there.yaml")
	assert.Error(t, err)

	fields, err := fieldmap.Load("testdata/bad_atoms.yaml")
	require.NoError(t, err)
	_, err = mmtf.Decode(fields)
	var ce *mmtf.CorruptDataError
	require.True(t, errors.As(err, &ce), "got %v", err)
	assert.Equal(t, "numAtoms", ce.Other)
}

func TestParse(t *testing.T) {
	_, err := fieldmap.Parse([]byte("numAtoms: [1, 2"))
	assert.Error(t, err)
	_, err = fieldmap.Parse([]byte("# nothing here\n"))
	assert.Error(t, err)

	fields, err := fieldmap.Parse([]byte("numAtoms: 3\ntitle: x\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, fields["numAtoms"])
}

func TestRoundTrip(t *testing.T) {
	b, err := fieldmap.Marshal(mmtftest.Minimal())
	require.NoError(t, err)
	assert.Contains(t, string(b), "!!binary")
	fields, err := fieldmap.Parse(b)
	require.NoError(t, err)
	s, err := mmtf.Decode(fields)
	require.NoError(t, err)
	assert.Equal(t, "A TEST STRUCTURE", s.Title)
	assert.Equal(t, []int32{2, 3, 5, 6}, s.BondAtomList)
	assert.Equal(t, "L-PEPTIDE LINKING", s.GroupList[0].ChemCompType)
}
