package p9fsclient

import (
	"wandrews.dev/p9fsclient/internal/msgbuf"
	"wandrews.dev/p9fsclient/wire"
)

// Write sends up to len(p) bytes from p to fid at offset in a single
// Twrite, returning the number of bytes the server accepted. Callers
// writing more than one message's worth of data must loop, advancing
// offset by the returned count, symmetric with Read. If the request
// still comes back MessageTooLarge, the send engine retries with a
// smaller slice of p, taken from its shrinking budget.
func (s *Session) Write(fid uint32, offset uint64, p []byte) (int, error) {
	if max := s.Msize() - headerSlack; uint32(len(p)) > max {
		p = p[:max]
	}

	resp, err := s.call(false, func(tag uint16, budget uint32) (*msgbuf.Buffer, error) {
		data := p
		if budget <= headerSlack {
			data = data[:0]
		} else if max := budget - headerSlack; uint32(len(data)) > max {
			data = data[:max]
		}
		return wire.EncodeTwrite(tag, fid, offset, data)
	})
	if err != nil {
		return 0, err
	}
	n, err := wire.DecodeRwrite(resp)
	if err != nil {
		return 0, s.protocolFail(err)
	}
	return int(n), nil
}
