package p9fsclient

import (
	"wandrews.dev/p9fsclient/internal/msgbuf"
	"wandrews.dev/p9fsclient/wire"
)

// Create creates a file named name under the directory fid, with the
// given permission bits and POSIX-style open flags, and leaves fid
// bound to the newly created file, opened per flags — the same
// request/response shape as Open.
func (s *Session) Create(fid uint32, name string, perm uint32, flags int) (wire.Qid, error) {
	mode := translateOpenMode(flags)
	resp, err := s.call(false, func(tag uint16, budget uint32) (*msgbuf.Buffer, error) {
		return wire.EncodeTcreate(tag, fid, name, perm, mode)
	})
	if err != nil {
		return wire.Qid{}, err
	}
	rc, err := wire.DecodeRcreate(resp)
	if err != nil {
		return wire.Qid{}, s.protocolFail(err)
	}
	return rc.Qid, nil
}
