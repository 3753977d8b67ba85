package brokenio_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andrew-torda/mmtf_read/pkg/brokenio"
)

var tochop = [][]byte{
	[]byte(""),
	[]byte("a"),
	[]byte("abc"),
	[]byte("abcdefghij"),
	[]byte("abcdefghijklmn"),
}

const longstring = "0123456789012345678901234567890123456789"

func nopReader(s string) *brokenio.Reader {
	return brokenio.NewReader(io.NopCloser(strings.NewReader(s)), 1)
}

// lenNonNull returns the length of a byte slice up to the first null.
func lenNonNull(a []byte) int {
	if i := bytes.IndexByte(a, 0); i >= 0 {
		return i
	}
	return len(a)
}

// sameNonNull says if a and b agree up to the first null in either.
func sameNonNull(a, b []byte) bool {
	shorter := min(lenNonNull(a), lenNonNull(b))
	return bytes.Equal(a[:shorter], b[:shorter])
}

// testFrac wipes out different fractions of the input buffer.
func testFrac(t *testing.T, inb []byte, frac float32) {
	s := make([]byte, len(inb))
	rdr := nopReader(string(inb))
	rdr.SetProbFail(1)
	rdr.SetFracFail(frac)
	_, err := rdr.Read(s)
	if !sameNonNull(inb, s) {
		t.Error("contents changed with string", string(inb), "frac", frac)
	}
	nNull := bytes.Count(s, []byte{0})
	switch frac {
	case 0:
		if nNull > 0 {
			t.Error("want no null bytes, got", nNull)
		}
		if err != nil && len(inb) > 0 {
			t.Errorf("error reading from %q", inb)
		}
	case 1:
		if nNull != len(s) {
			t.Error("want", len(s), "nulls, got", nNull)
		}
		if len(s) > 0 && err == nil {
			t.Error("no error reading from", string(inb))
		}
	default:
		if nNull == 0 && len(inb) > 0 {
			t.Errorf("no nulls found in %q", s)
		}
		if nNull == len(s) && len(s) > 2 {
			t.Error("wiped out complete string in", string(inb))
		}
	}
}

func TestTrashing(t *testing.T) {
	for _, frac := range []float32{0, 0.3, 1} {
		for _, inb := range tochop {
			testFrac(t, inb, frac)
		}
	}
}

func forZeroFile(prob float32) (int, error) {
	rdr := nopReader(longstring)
	rdr.SetProbZeroFile(prob)
	tmp := make([]byte, len(longstring))
	n, err := rdr.Read(tmp)
	rdr.Close()
	return n, err
}

func TestZeroFile(t *testing.T) {
	n, err := forZeroFile(1)
	if n > 0 {
		t.Error("should have received zero bytes")
	}
	if err != io.EOF {
		t.Errorf("should have received EOF")
	}
	n, err = forZeroFile(0)
	if n < len(longstring) {
		t.Error("wanted", len(longstring), "got", n)
	}
	if err != nil {
		t.Errorf("err reading from string")
	}
}

func TestReaderSimple(t *testing.T) {
	rdr := nopReader(longstring)
	s := make([]byte, len(longstring))
	if rdr.Read(s); string(s) != longstring {
		t.Errorf("simple read fail got %q wanted %q", s, longstring)
	}
	if calls, n := rdr.Stats(); calls != 1 || n != len(longstring) {
		t.Errorf("stats %d calls %d bytes", calls, n)
	}
}

// TestClose checks the reader really calls the wrapped Close.
func TestClose(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "testclose_test")
	if err := os.WriteFile(fname, []byte(longstring), 0o600); err != nil {
		t.Fatal(err)
	}
	fp, err := os.Open(fname)
	if err != nil {
		t.Fatal(err)
	}
	rdr := brokenio.NewReader(fp, 1)
	s := make([]byte, len(longstring))
	if n, err := rdr.Read(s); n != len(longstring) || err != nil {
		t.Error("failed reading from tempfile, n, err = ", n, err)
	}
	if err = rdr.Close(); err != nil {
		t.Error("failed on close of reader")
	}
	if err := fp.Close(); err == nil {
		t.Error("file was not closed by the reader")
	}
}

func TestFlip(t *testing.T) {
	orig := []byte(longstring)
	a := bytes.Clone(orig)
	b := bytes.Clone(orig)
	brokenio.Flip(a, 5, 42)
	brokenio.Flip(b, 5, 42)
	if bytes.Equal(a, orig) {
		t.Error("nothing changed")
	}
	if !bytes.Equal(a, b) {
		t.Error("same seed gave different damage")
	}
	brokenio.Flip(nil, 3, 1) // must not panic
}
