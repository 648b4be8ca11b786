package wire

import (
	"encoding/binary"
	"fmt"

	"wandrews.dev/p9fsclient/internal/msgbuf"
)

// QidLen is the fixed wire length of a QID.
const QidLen = 13

// A Qid is the server's unique identity for a file: two files in the
// same hierarchy are the same file if and only if their QIDs are equal.
type Qid struct {
	Type    QidType
	Version uint32
	Path    uint64
}

// QidType is a bit vector describing the type of a file; it occupies the
// high byte of a stat's Mode field as well as a QID's own type byte.
type QidType uint8

const (
	QTDIR    QidType = 0x80 // directories
	QTAPPEND QidType = 0x40 // append-only files
	QTEXCL   QidType = 0x20 // exclusive-use files
	QTAUTH   QidType = 0x08 // authentication file (afid)
	QTTMP    QidType = 0x04 // non-backed-up file
	QTLINK   QidType = 0x02 // symbolic link
	QTFILE   QidType = 0x00 // plain file
)

func (q Qid) String() string {
	return fmt.Sprintf("(%02x %d %x)", uint8(q.Type), q.Version, q.Path)
}

// DecodeQid reads a QID from the first QidLen bytes of b.
func DecodeQid(b []byte) (Qid, error) {
	if len(b) < QidLen {
		return Qid{}, ErrShortBuffer
	}
	return Qid{
		Type:    QidType(b[0]),
		Version: binary.LittleEndian.Uint32(b[1:5]),
		Path:    binary.LittleEndian.Uint64(b[5:13]),
	}, nil
}

// EncodeQid appends q's wire representation to buf.
func EncodeQid(buf *msgbuf.Buffer, q Qid) {
	buf.AppendUint8(uint8(q.Type))
	buf.AppendUint32(q.Version)
	buf.AppendUint64(q.Path)
}

// appendQid is the stat-builder equivalent of EncodeQid, writing into a
// plain slice instead of a msgbuf.Buffer.
func appendQid(b []byte, q Qid) []byte {
	var tmp [QidLen]byte
	tmp[0] = uint8(q.Type)
	binary.LittleEndian.PutUint32(tmp[1:5], q.Version)
	binary.LittleEndian.PutUint64(tmp[5:13], q.Path)
	return append(b, tmp[:]...)
}
