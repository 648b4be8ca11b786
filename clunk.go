package p9fsclient

import (
	"wandrews.dev/p9fsclient/internal/msgbuf"
	"wandrews.dev/p9fsclient/wire"
)

// Clunk releases fid on the server. The fid is always returned to the
// allocator, even if the server's Rclunk comes back as an error, since
// either way the client may not use it again.
func (s *Session) Clunk(fid uint32) error {
	defer s.fids.Release(fid)

	resp, err := s.call(false, func(tag uint16, budget uint32) (*msgbuf.Buffer, error) {
		return wire.EncodeTclunk(tag, fid), nil
	})
	if err != nil {
		return err
	}
	if err := wire.DecodeRclunk(resp); err != nil {
		return s.protocolFail(err)
	}
	return nil
}
