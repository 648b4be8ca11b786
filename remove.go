package p9fsclient

import (
	"wandrews.dev/p9fsclient/internal/msgbuf"
	"wandrews.dev/p9fsclient/wire"
)

// Remove deletes the file referenced by fid and releases fid, mirroring
// Clunk's always-release invariant: a Tremove implicitly clunks the fid
// on the server whether or not the removal itself succeeds.
func (s *Session) Remove(fid uint32) error {
	defer s.fids.Release(fid)

	resp, err := s.call(false, func(tag uint16, budget uint32) (*msgbuf.Buffer, error) {
		return wire.EncodeTremove(tag, fid), nil
	})
	if err != nil {
		return err
	}
	if err := wire.DecodeRremove(resp); err != nil {
		return s.protocolFail(err)
	}
	return nil
}
