package wire

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"wandrews.dev/p9fsclient/internal/msgbuf"
)

// Stat is a parsed 9P2000.u directory entry, as carried by Rstat and
// Twstat and (one per entry) in the data returned by a directory Tread.
type Stat struct {
	Type   uint16
	Dev    uint32
	Qid    Qid
	Mode   uint32
	Atime  uint32
	Mtime  uint32
	Length uint64
	Name   string
	Uid    string
	Gid    string
	Muid   string

	// 9P2000.u extension.
	Extension string
	Nuid      uint32
	Ngid      uint32
	Nmuid     uint32
}

// IsDir reports whether the stat describes a directory, preferring the
// QID type bits and falling back to the stat mode's DMDIR bit.
func (s Stat) IsDir() bool {
	if s.Qid.Type&QTDIR != 0 {
		return true
	}
	return s.Mode&DMDIR != 0
}

func (s Stat) String() string {
	return fmt.Sprintf("qid=%s mode=%o length=%d name=%q uid=%q gid=%q",
		s.Qid, s.Mode, s.Length, s.Name, s.Uid, s.Gid)
}

// DecodeStat parses one length-prefixed stat record starting at b[0],
// returning the parsed Stat and the number of bytes it occupied
// (including its own 2-byte size prefix). It accepts either a bare
// 9P2000 stat or one with the 9P2000.u suffix appended; callers that
// require the suffix should check that the consumed length reaches it.
func DecodeStat(b []byte) (Stat, int, error) {
	if len(b) < 2 {
		return Stat{}, 0, ErrShortBuffer
	}
	n := int(binary.LittleEndian.Uint16(b[0:2]))
	if n+2 > len(b) {
		return Stat{}, 0, ErrShortBuffer
	}
	body := b[2 : 2+n]
	if len(body) < minStatLen {
		return Stat{}, 0, ErrShortBuffer
	}

	var s Stat
	s.Type = binary.LittleEndian.Uint16(body[0:2])
	s.Dev = binary.LittleEndian.Uint32(body[2:6])
	qid, err := DecodeQid(body[6:19])
	if err != nil {
		return Stat{}, 0, err
	}
	s.Qid = qid
	s.Mode = binary.LittleEndian.Uint32(body[19:23])
	s.Atime = binary.LittleEndian.Uint32(body[23:27])
	s.Mtime = binary.LittleEndian.Uint32(body[27:31])
	s.Length = binary.LittleEndian.Uint64(body[31:39])

	off := 39
	maxes := [4]int{MaxFilenameLen, MaxUidLen, MaxUidLen, MaxUidLen}
	strs := make([]string, 4)
	for i := range strs {
		str, next, err := readString(body, off, maxes[i])
		if err != nil {
			return Stat{}, 0, err
		}
		strs[i] = str
		off = next
	}
	s.Name, s.Uid, s.Gid, s.Muid = strs[0], strs[1], strs[2], strs[3]

	if off < len(body) {
		ext, next, err := readString(body, off, 0)
		if err != nil {
			return Stat{}, 0, err
		}
		s.Extension = ext
		off = next
		if off+12 > len(body) {
			return Stat{}, 0, ErrShortBuffer
		}
		s.Nuid = binary.LittleEndian.Uint32(body[off : off+4])
		s.Ngid = binary.LittleEndian.Uint32(body[off+4 : off+8])
		s.Nmuid = binary.LittleEndian.Uint32(body[off+8 : off+12])
	}

	return s, n + 2, nil
}

// readString reads a 9P string (u16 length-prefixed, no terminator)
// starting at offset in b, validating it is free of embedded NULs and
// valid UTF-8. A nonzero max rejects a decoded string longer than max
// with ErrTooLong; pass 0 for fields with no length bound.
func readString(b []byte, offset, max int) (string, int, error) {
	if offset+2 > len(b) {
		return "", offset, ErrShortBuffer
	}
	n := int(binary.LittleEndian.Uint16(b[offset : offset+2]))
	if offset+2+n > len(b) {
		return "", offset, ErrShortBuffer
	}
	if max > 0 && n > max {
		return "", offset, ErrTooLong
	}
	raw := b[offset+2 : offset+2+n]
	for _, c := range raw {
		if c == 0 {
			return "", offset, ErrBadString
		}
	}
	if !utf8.Valid(raw) {
		return "", offset, ErrBadString
	}
	return string(raw), offset + 2 + n, nil
}

// EncodeStat appends s's length-prefixed .u stat record to buf,
// including the leading 2-byte size field.
func EncodeStat(buf *msgbuf.Buffer, s Stat) error {
	raw, err := encodeStatBytes(s)
	if err != nil {
		return err
	}
	buf.AppendUint16(uint16(len(raw)))
	buf.Append(raw)
	return nil
}

// encodeStatBytes builds the body of a stat record (everything after the
// record's own 2-byte size field) as a plain slice, for use by EncodeStat
// and EncodeTwstat.
func encodeStatBytes(s Stat) ([]byte, error) {
	if len(s.Name) > MaxFilenameLen {
		s.Name = s.Name[:MaxFilenameLen]
	}
	if len(s.Uid) > MaxUidLen {
		s.Uid = s.Uid[:MaxUidLen]
	}
	if len(s.Gid) > MaxUidLen {
		s.Gid = s.Gid[:MaxUidLen]
	}
	if len(s.Muid) > MaxUidLen {
		s.Muid = s.Muid[:MaxUidLen]
	}

	for _, str := range []string{s.Name, s.Uid, s.Gid, s.Muid, s.Extension} {
		for i := 0; i < len(str); i++ {
			if str[i] == 0 {
				return nil, ErrBadString
			}
		}
	}

	b := make([]byte, 0, minStatuLen+len(s.Name)+len(s.Uid)+len(s.Gid)+len(s.Muid)+len(s.Extension))
	var tmp [8]byte

	binary.LittleEndian.PutUint16(tmp[:2], s.Type)
	b = append(b, tmp[:2]...)
	binary.LittleEndian.PutUint32(tmp[:4], s.Dev)
	b = append(b, tmp[:4]...)
	b = appendQid(b, s.Qid)
	binary.LittleEndian.PutUint32(tmp[:4], s.Mode)
	b = append(b, tmp[:4]...)
	binary.LittleEndian.PutUint32(tmp[:4], s.Atime)
	b = append(b, tmp[:4]...)
	binary.LittleEndian.PutUint32(tmp[:4], s.Mtime)
	b = append(b, tmp[:4]...)
	binary.LittleEndian.PutUint64(tmp[:8], s.Length)
	b = append(b, tmp[:8]...)

	for _, str := range []string{s.Name, s.Uid, s.Gid, s.Muid} {
		binary.LittleEndian.PutUint16(tmp[:2], uint16(len(str)))
		b = append(b, tmp[:2]...)
		b = append(b, str...)
	}

	binary.LittleEndian.PutUint16(tmp[:2], uint16(len(s.Extension)))
	b = append(b, tmp[:2]...)
	b = append(b, s.Extension...)
	binary.LittleEndian.PutUint32(tmp[:4], s.Nuid)
	b = append(b, tmp[:4]...)
	binary.LittleEndian.PutUint32(tmp[:4], s.Ngid)
	b = append(b, tmp[:4]...)
	binary.LittleEndian.PutUint32(tmp[:4], s.Nmuid)
	b = append(b, tmp[:4]...)

	return b, nil
}
