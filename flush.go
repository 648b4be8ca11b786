package p9fsclient

import (
	"wandrews.dev/p9fsclient/internal/msgbuf"
	"wandrews.dev/p9fsclient/wire"
)

// Flush cancels the outstanding request identified by oldtag. A server
// may still answer the flushed tag, in which case the receive engine's
// ordinary tag lookup simply finds no pending descriptor and drops the
// frame.
func (s *Session) Flush(oldtag uint16) error {
	resp, err := s.call(false, func(tag uint16, budget uint32) (*msgbuf.Buffer, error) {
		return wire.EncodeTflush(tag, oldtag), nil
	})
	if err != nil {
		return err
	}
	if err := wire.DecodeRflush(resp); err != nil {
		return s.protocolFail(err)
	}
	return nil
}
