package p9fsclient

import (
	"wandrews.dev/p9fsclient/internal/msgbuf"
	"wandrews.dev/p9fsclient/wire"
)

// Walk navigates from fid to a child named by name, binding the result
// to a freshly allocated fid. Passing an empty name clones fid onto a
// new fid with a zero-element Twalk and returns a zero Qid. The new fid
// is released before
// returning any error, including ErrNotFound when the server resolves
// fewer elements than requested.
func (s *Session) Walk(fid uint32, name string) (newfid uint32, qid wire.Qid, err error) {
	newfid, err = s.fids.Acquire()
	if err != nil {
		return 0, wire.Qid{}, ErrFidsExhausted
	}

	resp, err := s.call(false, func(tag uint16, budget uint32) (*msgbuf.Buffer, error) {
		return wire.EncodeTwalk(tag, fid, newfid, name)
	})
	if err != nil {
		s.fids.Release(newfid)
		return 0, wire.Qid{}, err
	}

	qids, err := wire.DecodeRwalk(resp)
	if err != nil {
		s.fids.Release(newfid)
		return 0, wire.Qid{}, s.protocolFail(err)
	}

	if name == "" {
		return newfid, wire.Qid{}, nil
	}
	if len(qids) == 0 {
		s.fids.Release(newfid)
		return 0, wire.Qid{}, ErrNotFound
	}
	return newfid, qids[0], nil
}
