package p9fsclient

import (
	"wandrews.dev/p9fsclient/internal/msgbuf"
	"wandrews.dev/p9fsclient/wire"
)

// Stat returns fid's attributes. File type should be derived from the
// returned Stat's QID type bits first, falling back to the stat mode's
// DM* bits, via Stat.IsDir.
func (s *Session) Stat(fid uint32) (wire.Stat, error) {
	resp, err := s.call(false, func(tag uint16, budget uint32) (*msgbuf.Buffer, error) {
		return wire.EncodeTstat(tag, fid), nil
	})
	if err != nil {
		return wire.Stat{}, err
	}
	st, err := wire.DecodeRstat(resp)
	if err != nil {
		return wire.Stat{}, s.protocolFail(err)
	}
	return st, nil
}
