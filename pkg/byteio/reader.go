// Package byteio provides bounded big/little-endian reads over an
// in-memory buffer, surfacing truncation as a structured error instead of
// panicking on out-of-range slices.
package byteio

import (
	"encoding/binary"

	"github.com/bgrewell/mfarchive/pkg/mferrors"
)

// Reader is a cursor over an immutable byte slice. It never mutates or
// retains ownership beyond the slice it was given.
type Reader struct {
	buf []byte
	pos int
}

// New wraps buf for bounded reading starting at offset 0.
func New(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Len returns the number of unread bytes remaining.
func (r *Reader) Len() int { return len(r.buf) - r.pos }

// Pos returns the current cursor offset.
func (r *Reader) Pos() int { return r.pos }

// Seek moves the cursor to an absolute offset.
func (r *Reader) Seek(offset int) { r.pos = offset }

// Remaining returns a slice view over everything not yet consumed.
func (r *Reader) Remaining() []byte { return r.buf[r.pos:] }

// Peek returns n bytes starting at the cursor without advancing it.
func (r *Reader) Peek(n int, context string) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.buf) {
		return nil, &mferrors.Truncated{Context: context, Need: n, Have: r.Len()}
	}
	return r.buf[r.pos : r.pos+n], nil
}

// Take returns n bytes and advances the cursor past them.
func (r *Reader) Take(n int, context string) ([]byte, error) {
	b, err := r.Peek(n, context)
	if err != nil {
		return nil, err
	}
	r.pos += n
	return b, nil
}

// Skip advances the cursor n bytes, erroring if that runs past the end.
func (r *Reader) Skip(n int, context string) error {
	_, err := r.Take(n, context)
	return err
}

// U8 reads a single byte and advances the cursor.
func (r *Reader) U8(context string) (byte, error) {
	b, err := r.Take(1, context)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// BE16/BE32 read big-endian integers and advance the cursor.
func (r *Reader) BE16(context string) (uint16, error) {
	b, err := r.Take(2, context)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *Reader) BE32(context string) (uint32, error) {
	b, err := r.Take(4, context)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// LE16/LE32 read little-endian integers and advance the cursor.
func (r *Reader) LE16(context string) (uint16, error) {
	b, err := r.Take(2, context)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) LE32(context string) (uint32, error) {
	b, err := r.Take(4, context)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// BoundedSlice extracts a sub-slice [offset:offset+n] of buf, reporting a
// Truncated error (rather than panicking) if it runs past the end.
func BoundedSlice(buf []byte, offset, n int, context string) ([]byte, error) {
	if offset < 0 || n < 0 || offset+n > len(buf) {
		have := len(buf) - offset
		if have < 0 {
			have = 0
		}
		return nil, &mferrors.Truncated{Context: context, Need: n, Have: have}
	}
	return buf[offset : offset+n], nil
}

// BE24 decodes a 3-byte big-endian integer (used for TTR addresses).
func BE24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}
