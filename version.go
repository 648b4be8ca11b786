package p9fsclient

import (
	"wandrews.dev/p9fsclient/internal/msgbuf"
	"wandrews.dev/p9fsclient/wire"
)

// version negotiates the protocol version and message size. It must be
// the first send on the session; Start calls it exactly once before
// any other client procedure can run.
func (s *Session) version(proposedMsize uint32, proposedVersion string) (uint32, error) {
	resp, err := s.call(true, func(tag uint16, budget uint32) (*msgbuf.Buffer, error) {
		return wire.EncodeTversion(proposedMsize, proposedVersion)
	})
	if err != nil {
		return 0, err
	}
	rv, err := wire.DecodeRversion(resp)
	if err != nil {
		return 0, err
	}
	if rv.Version != proposedVersion {
		return 0, wire.ErrUnsupported
	}
	if rv.Msize > proposedMsize || rv.Msize < wire.HeaderLen {
		return 0, wire.ErrBadFraming
	}
	return rv.Msize, nil
}
