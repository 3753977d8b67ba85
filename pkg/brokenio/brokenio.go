// Package brokenio breaks data on purpose, for testing. A Reader wraps
// an io.ReadCloser and makes reads fail at a set rate. Flip and
// TrashTail damage a byte slice in place, the way a bad download or a
// truncated file would.
// Everything takes its randomness from a seed, so a failing test can
// be repeated.
package brokenio

import (
	"fmt"
	"io"
	"math/rand"
)

// Reader is modelled on the readers in the standard library, but with
// values controlling the frequency of errors. These are the fraction
// of calls where something goes wrong, so 0.05 means 5% of them.
type Reader struct {
	src          io.ReadCloser
	rng          *rand.Rand
	probZeroFile float32 // return nothing on the first read
	probFail     float32
	fracFail     float32 // how much of a failed read is wiped out
	nCalled      int
	nByte        int
}

// NewReader wraps src. By default nothing fails.
func NewReader(src io.ReadCloser, seed int64) *Reader {
	return &Reader{
		src:      src,
		rng:      rand.New(rand.NewSource(seed)),
		fracFail: 0.5,
	}
}

// SetFracFail sets how much of the bytes of a failed read are trashed.
func (r *Reader) SetFracFail(frac float32) { r.fracFail = frac }

// SetProbZeroFile sets the rate at which we return 0 bytes on the
// first read. It must be from 0 to 1. We do not check.
func (r *Reader) SetProbZeroFile(prob float32) { r.probZeroFile = prob }

// SetProbFail sets the probability of a read failing.
func (r *Reader) SetProbFail(prob float32) { r.probFail = prob }

// Read passes the call on and counts what went through. On the first
// call it may return no data, like a zero length file. After that a
// read fails with probability probFail.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.nCalled == 0 && r.probZeroFile > 0 && r.rng.Float32() < r.probZeroFile {
		r.nCalled++
		return 0, io.EOF
	}
	n, err := r.src.Read(p)
	r.nCalled++
	r.nByte += n
	if r.probFail > 0 && r.rng.Float32() < r.probFail && r.fracFail > 0 {
		return TrashTail(p[:n], r.fracFail)
	}
	return n, err
}

// Close closes the wrapped reader.
func (r *Reader) Close() error { return r.src.Close() }

// Stats is the number of calls to Read and bytes read so far.
func (r *Reader) Stats() (calls, bytes int) { return r.nCalled, r.nByte }

// TrashTail zeroes the second part of a slice. The amount is a
// fraction, so 0.3 wipes out the last 30%. It returns the number of
// bytes left alone and an error if anything was wiped.
func TrashTail(p []byte, frac float32) (int, error) {
	nkeep := int(float32(len(p)) * (1 - frac))
	if nkeep >= len(p) {
		return len(p), nil
	}
	clear(p[nkeep:])
	return nkeep, fmt.Errorf("wiped out last %d of %d bytes", len(p)-nkeep, len(p))
}

// Flip xors n bytes at random positions with a random non-zero value.
// The same position may be hit more than once.
func Flip(p []byte, n int, seed int64) {
	if len(p) == 0 {
		return
	}
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < n; i++ {
		p[rng.Intn(len(p))] ^= byte(1 + rng.Intn(255))
	}
}
