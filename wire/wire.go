// Package wire implements the zero-copy byte cursor that every parser in
// this module is built on top of.
//
// A View is a read-only "view" over a sequence of byte slices. Conceptually
// it behaves like a []byte, but appending to it never copies the slices it
// was built from. A Cursor is an immutable (offset, View) pair: every read
// advances the offset and returns a new Cursor rather than mutating the
// receiver, so a parser can always backtrack by keeping an earlier Cursor
// around.
//
// No operation in this package panics. Anything that would read or skip
// past the available bytes returns ErrTooShort instead.
package wire

import (
	"encoding/binary"
	"errors"
)

// ErrTooShort is returned by every Cursor operation that would have to read
// or skip past the available bytes.
var ErrTooShort = errors.New("wire: too short")

// View is a read-only view over a sequence of byte slices.
//
// Copying a View is cheap (like copying a slice header): the copy shares the
// same backing slices. Use DeepCopy to take an independent snapshot.
type View struct {
	buf    [][]byte
	length int64
}

// New wraps data in a View without copying it. The caller must not modify
// data for as long as the View (or any Cursor derived from it) is in use.
func New(data []byte) View {
	if len(data) == 0 {
		return View{}
	}
	return View{buf: [][]byte{data}, length: int64(len(data))}
}

// Len returns the number of bytes in the view.
func (v View) Len() int64 {
	return v.length
}

// Append adds other's bytes to the end of v without copying.
func (v *View) Append(other View) {
	v.buf = append(v.buf, other.buf...)
	v.length += other.length
}

// DeepCopy returns a View that is completely independent of v: the slice of
// slices is copied (though the underlying byte arrays are still shared).
func (v View) DeepCopy() View {
	newBuf := make([][]byte, len(v.buf))
	copy(newBuf, v.buf)
	return View{buf: newBuf, length: v.length}
}

// GetByte returns the byte at index, or 0 if index is out of bounds.
func (v View) GetByte(index int64) byte {
	if index < 0 {
		return 0
	}
	n := index
	for _, b := range v.buf {
		lb := int64(len(b))
		if n < lb {
			return b[n]
		}
		n -= lb
	}
	return 0
}

// getBytes returns a fresh copy of v[start:end], or nil if the range is
// invalid.
func (v View) getBytes(start, end int64) []byte {
	if !(0 <= start && start <= end && end <= v.length) {
		return nil
	}
	result := make([]byte, end-start)
	resultIdx := int64(0)
	for _, b := range v.buf {
		bufLen := int64(len(b))
		if start >= bufLen {
			start -= bufLen
			end -= bufLen
			continue
		}
		if start < 0 {
			break
		}
		copyEnd := end
		if copyEnd > bufLen {
			copyEnd = bufLen
		}
		copy(result[resultIdx:], b[start:copyEnd])
		copySize := copyEnd - start
		start = 0
		end -= bufLen
		resultIdx += copySize
		if end <= 0 {
			break
		}
	}
	return result
}

// Bytes materializes the entire view as a single, independent byte slice.
func (v View) Bytes() []byte {
	b := v.getBytes(0, v.length)
	if b == nil {
		return []byte{}
	}
	return b
}

// GetUint16 interprets v[offset:offset+2] as a big-endian uint16. Returns 0
// if the range is out of bounds.
func (v View) GetUint16(offset int64) uint16 {
	b := v.getBytes(offset, offset+2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

// GetUint24 interprets v[offset:offset+3] as a big-endian 24-bit unsigned
// integer. Returns 0 if the range is out of bounds.
func (v View) GetUint24(offset int64) uint32 {
	b := v.getBytes(offset, offset+3)
	if b == nil {
		return 0
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// SubView returns v[start:end). Returns an empty View if the range is
// invalid.
func (v View) SubView(start, end int64) View {
	if start >= end || start < 0 || end > v.length {
		return View{}
	}

	startBuf, endBuf := -1, -1
	var startOffset, endOffset int
	var n int64
	for i, b := range v.buf {
		lb := int64(len(b))
		if startBuf == -1 && n+lb > start {
			startBuf = i
			startOffset = int(start - n)
		}
		if endBuf == -1 && n+lb >= end {
			endBuf = i
			endOffset = int(end - n)
			break
		}
		n += lb
	}
	if startBuf == -1 || endBuf == -1 {
		return View{}
	}

	newBuf := make([][]byte, endBuf+1-startBuf)
	copy(newBuf, v.buf[startBuf:endBuf+1])
	out := View{buf: newBuf, length: end - start}
	if len(out.buf) == 1 {
		out.buf[0] = out.buf[0][startOffset:endOffset]
	} else {
		out.buf[0] = out.buf[0][startOffset:]
		out.buf[len(out.buf)-1] = out.buf[len(out.buf)-1][:endOffset]
	}
	return out
}

// Cursor is an immutable cursor into a View. Every read operation returns a
// new, advanced Cursor; the receiver is left untouched. The zero Cursor is
// not meaningful on its own — use NewCursor.
type Cursor struct {
	v   View
	pos int64
}

// NewCursor returns a cursor positioned at the start of v.
func NewCursor(v View) Cursor {
	return Cursor{v: v}
}

// Len returns the number of unread bytes.
func (c Cursor) Len() int64 {
	return c.v.Len() - c.pos
}

// Remaining returns a View of the bytes not yet consumed.
func (c Cursor) Remaining() View {
	return c.v.SubView(c.pos, c.v.Len())
}

// Skip returns a cursor advanced by n bytes. ErrTooShort if n exceeds the
// number of unread bytes.
func (c Cursor) Skip(n int64) (Cursor, error) {
	if n < 0 || n > c.Len() {
		return Cursor{}, ErrTooShort
	}
	return Cursor{v: c.v, pos: c.pos + n}, nil
}

// ReadU8 reads one byte.
func (c Cursor) ReadU8() (byte, Cursor, error) {
	if c.Len() < 1 {
		return 0, Cursor{}, ErrTooShort
	}
	return c.v.GetByte(c.pos), Cursor{v: c.v, pos: c.pos + 1}, nil
}

// ReadU16BE reads a big-endian uint16.
func (c Cursor) ReadU16BE() (uint16, Cursor, error) {
	if c.Len() < 2 {
		return 0, Cursor{}, ErrTooShort
	}
	return c.v.GetUint16(c.pos), Cursor{v: c.v, pos: c.pos + 2}, nil
}

// ReadU24BE reads a big-endian 24-bit unsigned integer into a uint32.
func (c Cursor) ReadU24BE() (uint32, Cursor, error) {
	if c.Len() < 3 {
		return 0, Cursor{}, ErrTooShort
	}
	return c.v.GetUint24(c.pos), Cursor{v: c.v, pos: c.pos + 3}, nil
}

// TakeOpaque1 reads a 1-byte length prefix L, then splits the next L bytes
// off as body; rest is the cursor positioned just after body.
func (c Cursor) TakeOpaque1() (body View, rest Cursor, err error) {
	l, next, err := c.ReadU8()
	if err != nil {
		return View{}, Cursor{}, err
	}
	return next.take(int64(l))
}

// TakeOpaque2 reads a 2-byte length prefix L, then splits the next L bytes
// off as body; rest is the cursor positioned just after body.
func (c Cursor) TakeOpaque2() (body View, rest Cursor, err error) {
	l, next, err := c.ReadU16BE()
	if err != nil {
		return View{}, Cursor{}, err
	}
	return next.take(int64(l))
}

// TakeN splits the next n bytes off the cursor as body; rest is positioned
// just after them. ErrTooShort if n exceeds the number of unread bytes.
func (c Cursor) TakeN(n int64) (body View, rest Cursor, err error) {
	return c.take(n)
}

func (c Cursor) take(n int64) (body View, rest Cursor, err error) {
	if n > c.Len() {
		return View{}, Cursor{}, ErrTooShort
	}
	body = c.v.SubView(c.pos, c.pos+n)
	rest = Cursor{v: c.v, pos: c.pos + n}
	return body, rest, nil
}
