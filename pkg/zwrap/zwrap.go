// Package zwrap hides whether an MMTF fixture or dump is gzipped.
// Files from the RCSB come as .mmtf.gz, but we also keep plain ones
// for testing. Wrap and WrapMaybe work on streams, such as standard
// input. Gunzip works on bytes that are already in memory, such as a
// mapped file.
package zwrap

import (
	"bufio"
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// gzip files start with these two bytes.
var magic = []byte{0x1f, 0x8b}

// Reader is what we return. Close closes the decompressor, then the
// underlying source.
type Reader struct {
	src  io.ReadCloser
	in   io.Reader // src, or a buffer in front of it
	zrdr *gzip.Reader
}

// Close closes the decompressor, if there is one, and then the
// backing reader. Both errors are reported.
func (r *Reader) Close() error {
	if r.zrdr == nil {
		return r.src.Close()
	}
	zerr := r.zrdr.Close()
	ferr := r.src.Close()
	switch {
	case zerr != nil && ferr != nil:
		return errors.Errorf("%v, then %v", zerr, ferr)
	case zerr != nil:
		return zerr
	}
	return ferr
}

// Read reads from the decompressor if the source was compressed.
func (r *Reader) Read(p []byte) (int, error) {
	if r.zrdr != nil {
		return r.zrdr.Read(p)
	}
	return r.in.Read(p)
}

// Compressed says if we are decompressing.
func (r *Reader) Compressed() bool { return r.zrdr != nil }

// Wrap assumes src is gzipped. It fails if the gzip header is broken.
func Wrap(src io.ReadCloser) (*Reader, error) {
	zrdr, err := gzip.NewReader(src)
	if err != nil {
		return nil, errors.Wrap(err, "zwrap")
	}
	return &Reader{src: src, in: src, zrdr: zrdr}, nil
}

// WrapMaybe peeks at the first bytes of src and only decompresses if
// they are the gzip magic number. Nothing is seeked, so pipes work.
func WrapMaybe(src io.ReadCloser) (*Reader, error) {
	br := bufio.NewReader(src)
	head, err := br.Peek(len(magic))
	if err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "zwrap")
	}
	if !IsGzip(head) {
		return &Reader{src: src, in: br}, nil
	}
	zrdr, err := gzip.NewReader(br)
	if err != nil {
		return nil, errors.Wrap(err, "zwrap")
	}
	return &Reader{src: src, in: br, zrdr: zrdr}, nil
}

// IsGzip checks the magic number at the start of b.
func IsGzip(b []byte) bool {
	return bytes.HasPrefix(b, magic)
}

// Gunzip returns b decompressed if it is gzipped, otherwise b itself.
func Gunzip(b []byte) ([]byte, error) {
	if !IsGzip(b) {
		return b, nil
	}
	zrdr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrap(err, "zwrap")
	}
	defer zrdr.Close()
	out, err := io.ReadAll(zrdr)
	if err != nil {
		return nil, errors.Wrap(err, "zwrap decompressing")
	}
	return out, nil
}
