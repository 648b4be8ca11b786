// Package msgbuf implements the scatter-capable byte buffer that holds a
// single 9P2000.u message, in either direction.
//
// A Buffer reserves its first four bytes for the size[4] prefix that every
// 9P message begins with (see the 9P wire format). The type[1] and tag[2]
// fields are written immediately after creation, since a request's tag is
// known before any of its body fields are. Outbound, a Buffer is built up
// field by field with the Append* methods and finalized with Bytes, which
// backpatches the size prefix. A complete frame can also be wrapped with
// Empty and SetRaw and walked with ReadAt/ReadStringAt; the session's
// receive engine and the wire decoders work on plain byte slices instead.
//
// This is a from-scratch, portable stand-in for the mbuf chains the
// original p9fs kernel module borrowed from the surrounding kernel
// (p9fs_msg_create/p9fs_msg_add/p9fs_msg_get in p9fs_subr.c): a single
// contiguous growable slice rather than a chain, since a userspace client
// has no reason to avoid copying.
package msgbuf

import (
	"encoding/binary"
	"errors"
	"io"
)

// HeaderLen is the number of bytes in the size[4] type[1] tag[2] header
// that begins every 9P message.
const HeaderLen = 4 + 1 + 2

// ErrTooLarge is returned by Bytes when the buffer has grown past the
// maximum representable 9P message size.
var ErrTooLarge = errors.New("msgbuf: message exceeds maximum frame size")

// A Buffer accumulates the bytes of a single 9P message.
type Buffer struct {
	b []byte
}

// New creates a Buffer for a message of the given type and tag, with the
// header already written. Use NOTAG for Tversion.
func New(mtype uint8, tag uint16) *Buffer {
	buf := &Buffer{b: make([]byte, HeaderLen, 128)}
	buf.b[4] = mtype
	binary.LittleEndian.PutUint16(buf.b[5:7], tag)
	return buf
}

// Type returns the message type written at creation.
func (buf *Buffer) Type() uint8 { return buf.b[4] }

// Tag returns the tag written at creation.
func (buf *Buffer) Tag() uint16 { return binary.LittleEndian.Uint16(buf.b[5:7]) }

// Append appends raw bytes to the message body.
func (buf *Buffer) Append(p []byte) {
	buf.b = append(buf.b, p...)
}

// AppendUint8 appends a single byte.
func (buf *Buffer) AppendUint8(v uint8) {
	buf.b = append(buf.b, v)
}

// AppendUint16 appends a little-endian 16-bit integer.
func (buf *Buffer) AppendUint16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	buf.b = append(buf.b, tmp[:]...)
}

// AppendUint32 appends a little-endian 32-bit integer.
func (buf *Buffer) AppendUint32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	buf.b = append(buf.b, tmp[:]...)
}

// AppendUint64 appends a little-endian 64-bit integer.
func (buf *Buffer) AppendUint64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	buf.b = append(buf.b, tmp[:]...)
}

// ErrBadString is returned by AppendString when s contains an embedded NUL,
// which is illegal in every 9P text string.
var ErrBadString = errors.New("msgbuf: NUL byte in string")

// AppendString appends a 9P string: a u16 byte count followed by the
// string's UTF-8 bytes, with no terminator.
func (buf *Buffer) AppendString(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return ErrBadString
		}
	}
	if len(s) > 0xFFFF {
		return io.ErrShortBuffer
	}
	buf.AppendUint16(uint16(len(s)))
	buf.b = append(buf.b, s...)
	return nil
}

// AppendFrom reads up to n bytes from r and appends them to the message
// body, returning the number of bytes appended. It corresponds to the
// count[4] data[count] tail of a Twrite message.
func (buf *Buffer) AppendFrom(r io.Reader, n int) (int, error) {
	start := len(buf.b)
	buf.b = append(buf.b, make([]byte, n)...)
	read, err := io.ReadFull(r, buf.b[start:])
	buf.b = buf.b[:start+read]
	return read, err
}

// Len returns the number of bytes appended to the message so far,
// including the header.
func (buf *Buffer) Len() int { return len(buf.b) }

// Bytes finalizes the message by writing its total length into the
// reserved size prefix, and returns the complete frame, ready to write to
// the wire.
func (buf *Buffer) Bytes() ([]byte, error) {
	if len(buf.b) > 1<<32-1 {
		return nil, ErrTooLarge
	}
	binary.LittleEndian.PutUint32(buf.b[0:4], uint32(len(buf.b)))
	return buf.b, nil
}

// ReadAt returns the n bytes at the given offset. It returns
// io.ErrShortBuffer if the read would run past the end of the message.
func (buf *Buffer) ReadAt(offset, n int) ([]byte, error) {
	if offset < 0 || n < 0 || offset+n > len(buf.b) {
		return nil, io.ErrShortBuffer
	}
	return buf.b[offset : offset+n], nil
}

// ReadStringAt reads a 9P string (u16 length-prefixed) at offset, and
// returns its bytes along with the offset of the byte following the
// string. It does not validate UTF-8; callers that need to reject
// malformed strings should do so explicitly.
func (buf *Buffer) ReadStringAt(offset int) (s []byte, newOffset int, err error) {
	lenBytes, err := buf.ReadAt(offset, 2)
	if err != nil {
		return nil, offset, err
	}
	n := int(binary.LittleEndian.Uint16(lenBytes))
	s, err = buf.ReadAt(offset+2, n)
	if err != nil {
		return nil, offset, err
	}
	return s, offset + 2 + n, nil
}

// Raw returns the full backing slice, including the header, without
// backpatching the size prefix.
func (buf *Buffer) Raw() []byte { return buf.b }

// SetRaw replaces the buffer's contents wholesale, for example with a
// complete frame that is then walked with ReadAt/ReadStringAt.
func (buf *Buffer) SetRaw(p []byte) { buf.b = p }

// Grow appends n zeroed bytes to the buffer and returns the slice backing
// them, so the caller can read directly into it.
func (buf *Buffer) Grow(n int) []byte {
	start := len(buf.b)
	buf.b = append(buf.b, make([]byte, n)...)
	return buf.b[start:]
}

// Empty creates a Buffer with no header written, to be filled with Grow
// or SetRaw.
func Empty() *Buffer {
	return &Buffer{}
}
