package p9fsclient

import (
	"wandrews.dev/p9fsclient/internal/msgbuf"
	"wandrews.dev/p9fsclient/wire"
)

// POSIX-style open flags accepted by Open, translated to 9P mode bytes
// the way the source's client_open does.
const (
	FREAD  = 0x0001
	FWRITE = 0x0002
	FTRUNC = 0x0400
	FRDWR  = FREAD | FWRITE
)

// Open opens fid with the given POSIX-style flags and returns the
// file's QID.
func (s *Session) Open(fid uint32, flags int) (wire.Qid, error) {
	mode := translateOpenMode(flags)
	resp, err := s.call(false, func(tag uint16, budget uint32) (*msgbuf.Buffer, error) {
		return wire.EncodeTopen(tag, fid, mode), nil
	})
	if err != nil {
		return wire.Qid{}, err
	}
	ro, err := wire.DecodeRopen(resp)
	if err != nil {
		return wire.Qid{}, s.protocolFail(err)
	}
	return ro.Qid, nil
}

func translateOpenMode(flags int) uint8 {
	var mode uint8
	switch flags & FRDWR {
	case FRDWR:
		mode = wire.ORDWR
	case FWRITE:
		mode = wire.OWRITE
	default:
		mode = wire.OREAD
	}
	if flags&FTRUNC != 0 {
		mode |= wire.OTRUNC
	}
	return mode
}
