package wire

import (
	"encoding/binary"

	"wandrews.dev/p9fsclient/internal/msgbuf"
)

// decodeHeader validates a complete frame's size[4] type[1] tag[2]
// header and returns the tag and body. If the frame is an Rerror, it is
// always accepted regardless of want, and its contents are returned as
// a *ServerError, since a server may fail any request with Rerror
// instead of the expected reply type.
func decodeHeader(b []byte, want uint8) (tag uint16, body []byte, err error) {
	if len(b) < HeaderLen {
		return 0, nil, ErrShortBuffer
	}
	size := binary.LittleEndian.Uint32(b[0:4])
	if int(size) != len(b) || size < MinMsgSize {
		return 0, nil, ErrBadFraming
	}
	mtype := b[4]
	tag = binary.LittleEndian.Uint16(b[5:7])
	body = b[HeaderLen:]

	if mtype == Rerror {
		return tag, nil, decodeRerror(body)
	}
	if mtype != want {
		return tag, nil, ErrUnexpectedType
	}
	return tag, body, nil
}

func decodeRerror(body []byte) error {
	ename, off, err := readString(body, 0, MaxErrorLen)
	if err != nil {
		return err
	}
	se := &ServerError{Ename: ename}
	if off+4 <= len(body) {
		se.Errno = int32(binary.LittleEndian.Uint32(body[off : off+4]))
	}
	if se.Errno == EIO {
		se.Ename = "I/O error"
	}
	return se
}

// EncodeTversion builds a Tversion request. It must always use NOTAG
// and must be the first message sent on a session.
func EncodeTversion(msize uint32, version string) (*msgbuf.Buffer, error) {
	if len(version) > MaxVersionLen {
		version = version[:MaxVersionLen]
	}
	buf := msgbuf.New(Tversion, NOTAG)
	buf.AppendUint32(msize)
	if err := buf.AppendString(version); err != nil {
		return nil, err
	}
	return buf, nil
}

// DecodedRversion is the parsed response to Tversion.
type DecodedRversion struct {
	Msize   uint32
	Version string
}

// DecodeRversion parses an Rversion frame.
func DecodeRversion(b []byte) (DecodedRversion, error) {
	_, body, err := decodeHeader(b, Rversion)
	if err != nil {
		return DecodedRversion{}, err
	}
	if len(body) < 4 {
		return DecodedRversion{}, ErrShortBuffer
	}
	msize := binary.LittleEndian.Uint32(body[0:4])
	version, _, err := readString(body, 4, MaxVersionLen)
	if err != nil {
		return DecodedRversion{}, err
	}
	return DecodedRversion{Msize: msize, Version: version}, nil
}

// EncodeTattach builds a Tattach request. Authentication is always
// skipped, so afid is always NOFID.
func EncodeTattach(tag uint16, fid uint32, uname, aname string, uid uint32) (*msgbuf.Buffer, error) {
	if len(uname) > MaxUidLen {
		uname = uname[:MaxUidLen]
	}
	if len(aname) > MaxAttachLen {
		aname = aname[:MaxAttachLen]
	}
	buf := msgbuf.New(Tattach, tag)
	buf.AppendUint32(fid)
	buf.AppendUint32(NOFID)
	if err := buf.AppendString(uname); err != nil {
		return nil, err
	}
	if err := buf.AppendString(aname); err != nil {
		return nil, err
	}
	buf.AppendUint32(uid) // 9P2000.u extension: Tattach's trailing n_uname
	return buf, nil
}

// DecodeRattach parses an Rattach frame, returning the root QID.
func DecodeRattach(b []byte) (Qid, error) {
	_, body, err := decodeHeader(b, Rattach)
	if err != nil {
		return Qid{}, err
	}
	return DecodeQid(body)
}

// EncodeTwalk builds a Twalk request. This client only ever issues
// single-element walks (or clone walks with zero elements).
func EncodeTwalk(tag uint16, fid, newfid uint32, name string) (*msgbuf.Buffer, error) {
	if len(name) > MaxFilenameLen {
		name = name[:MaxFilenameLen]
	}
	buf := msgbuf.New(Twalk, tag)
	buf.AppendUint32(fid)
	buf.AppendUint32(newfid)
	if name == "" {
		buf.AppendUint16(0)
		return buf, nil
	}
	buf.AppendUint16(1)
	if err := buf.AppendString(name); err != nil {
		return nil, err
	}
	return buf, nil
}

// DecodeRwalk parses an Rwalk frame and returns the walked QIDs (zero,
// for a clone walk, or one, since this client never issues multi-element
// walks).
func DecodeRwalk(b []byte) ([]Qid, error) {
	_, body, err := decodeHeader(b, Rwalk)
	if err != nil {
		return nil, err
	}
	if len(body) < 2 {
		return nil, ErrShortBuffer
	}
	n := int(binary.LittleEndian.Uint16(body[0:2]))
	if n > MaxWElem {
		return nil, ErrTooLong
	}
	qids := make([]Qid, n)
	off := 2
	for i := 0; i < n; i++ {
		if off+QidLen > len(body) {
			return nil, ErrShortBuffer
		}
		q, err := DecodeQid(body[off : off+QidLen])
		if err != nil {
			return nil, err
		}
		qids[i] = q
		off += QidLen
	}
	return qids, nil
}

// EncodeTopen builds a Topen request.
func EncodeTopen(tag uint16, fid uint32, mode uint8) *msgbuf.Buffer {
	buf := msgbuf.New(Topen, tag)
	buf.AppendUint32(fid)
	buf.AppendUint8(mode)
	return buf
}

// DecodedRopen is the parsed response to Topen/Tcreate.
type DecodedRopen struct {
	Qid    Qid
	IOUnit uint32
}

// DecodeRopen parses an Ropen frame.
func DecodeRopen(b []byte) (DecodedRopen, error) {
	_, body, err := decodeHeader(b, Ropen)
	if err != nil {
		return DecodedRopen{}, err
	}
	if len(body) < QidLen+4 {
		return DecodedRopen{}, ErrShortBuffer
	}
	qid, err := DecodeQid(body[:QidLen])
	if err != nil {
		return DecodedRopen{}, err
	}
	return DecodedRopen{Qid: qid, IOUnit: binary.LittleEndian.Uint32(body[QidLen : QidLen+4])}, nil
}

// EncodeTcreate builds a Tcreate request.
func EncodeTcreate(tag uint16, fid uint32, name string, perm uint32, mode uint8) (*msgbuf.Buffer, error) {
	if len(name) > MaxFilenameLen {
		name = name[:MaxFilenameLen]
	}
	buf := msgbuf.New(Tcreate, tag)
	buf.AppendUint32(fid)
	if err := buf.AppendString(name); err != nil {
		return nil, err
	}
	buf.AppendUint32(perm)
	buf.AppendUint8(mode)
	return buf, nil
}

// DecodeRcreate parses an Rcreate frame; it has the same shape as Ropen.
func DecodeRcreate(b []byte) (DecodedRopen, error) {
	_, body, err := decodeHeader(b, Rcreate)
	if err != nil {
		return DecodedRopen{}, err
	}
	if len(body) < QidLen+4 {
		return DecodedRopen{}, ErrShortBuffer
	}
	qid, err := DecodeQid(body[:QidLen])
	if err != nil {
		return DecodedRopen{}, err
	}
	return DecodedRopen{Qid: qid, IOUnit: binary.LittleEndian.Uint32(body[QidLen : QidLen+4])}, nil
}

// EncodeTread builds a Tread request.
func EncodeTread(tag uint16, fid uint32, offset uint64, count uint32) (*msgbuf.Buffer, error) {
	if offset > MaxOffset {
		return nil, ErrTooLong
	}
	buf := msgbuf.New(Tread, tag)
	buf.AppendUint32(fid)
	buf.AppendUint64(offset)
	buf.AppendUint32(count)
	return buf, nil
}

// DecodeRread parses an Rread frame and returns its data portion. The
// returned slice aliases b and must not be retained past the lifetime of
// the receive buffer it came from.
func DecodeRread(b []byte) ([]byte, error) {
	_, body, err := decodeHeader(b, Rread)
	if err != nil {
		return nil, err
	}
	if len(body) < 4 {
		return nil, ErrShortBuffer
	}
	count := binary.LittleEndian.Uint32(body[0:4])
	if count > uint32(len(body)-4) {
		return nil, ErrShortBuffer
	}
	return body[4 : 4+count], nil
}

// EncodeTwrite builds a Twrite request with data as its payload.
func EncodeTwrite(tag uint16, fid uint32, offset uint64, data []byte) (*msgbuf.Buffer, error) {
	if offset > MaxOffset {
		return nil, ErrTooLong
	}
	buf := msgbuf.New(Twrite, tag)
	buf.AppendUint32(fid)
	buf.AppendUint64(offset)
	buf.AppendUint32(uint32(len(data)))
	buf.Append(data)
	return buf, nil
}

// DecodeRwrite parses an Rwrite frame and returns the accepted byte count.
func DecodeRwrite(b []byte) (uint32, error) {
	_, body, err := decodeHeader(b, Rwrite)
	if err != nil {
		return 0, err
	}
	if len(body) < 4 {
		return 0, ErrShortBuffer
	}
	return binary.LittleEndian.Uint32(body[0:4]), nil
}

// EncodeTclunk builds a Tclunk request.
func EncodeTclunk(tag uint16, fid uint32) *msgbuf.Buffer {
	buf := msgbuf.New(Tclunk, tag)
	buf.AppendUint32(fid)
	return buf
}

// DecodeRclunk parses an Rclunk frame, which carries no body.
func DecodeRclunk(b []byte) error {
	_, _, err := decodeHeader(b, Rclunk)
	return err
}

// EncodeTremove builds a Tremove request.
func EncodeTremove(tag uint16, fid uint32) *msgbuf.Buffer {
	buf := msgbuf.New(Tremove, tag)
	buf.AppendUint32(fid)
	return buf
}

// DecodeRremove parses an Rremove frame, which carries no body.
func DecodeRremove(b []byte) error {
	_, _, err := decodeHeader(b, Rremove)
	return err
}

// EncodeTstat builds a Tstat request.
func EncodeTstat(tag uint16, fid uint32) *msgbuf.Buffer {
	buf := msgbuf.New(Tstat, tag)
	buf.AppendUint32(fid)
	return buf
}

// DecodeRstat parses an Rstat frame. Rstat's body is prefixed by a
// redundant total-size u16 before the stat record itself.
func DecodeRstat(b []byte) (Stat, error) {
	_, body, err := decodeHeader(b, Rstat)
	if err != nil {
		return Stat{}, err
	}
	if len(body) < 2 {
		return Stat{}, ErrShortBuffer
	}
	st, _, err := DecodeStat(body[2:])
	return st, err
}

// EncodeTwstat builds a Twstat request. Twstat's stat field carries the
// same redundant double length prefix Rstat does: an outer total-size
// u16 (matching DecodeRstat's expectations), then the stat record's own
// inner size u16, then its fields.
func EncodeTwstat(tag uint16, fid uint32, s Stat) (*msgbuf.Buffer, error) {
	raw, err := encodeStatBytes(s)
	if err != nil {
		return nil, err
	}
	buf := msgbuf.New(Twstat, tag)
	buf.AppendUint32(fid)
	buf.AppendUint16(uint16(len(raw) + 2))
	buf.AppendUint16(uint16(len(raw)))
	buf.Append(raw)
	return buf, nil
}

// DecodeRwstat parses an Rwstat frame, which carries no body.
func DecodeRwstat(b []byte) error {
	_, _, err := decodeHeader(b, Rwstat)
	return err
}

// EncodeTflush builds a Tflush request cancelling oldtag.
func EncodeTflush(tag, oldtag uint16) *msgbuf.Buffer {
	buf := msgbuf.New(Tflush, tag)
	buf.AppendUint16(oldtag)
	return buf
}

// DecodeRflush parses an Rflush frame, which carries no body.
func DecodeRflush(b []byte) error {
	_, _, err := decodeHeader(b, Rflush)
	return err
}
