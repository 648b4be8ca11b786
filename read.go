package p9fsclient

import (
	"wandrews.dev/p9fsclient/internal/msgbuf"
	"wandrews.dev/p9fsclient/wire"
)

// headerSlack is subtracted from msize when sizing a read/write request
// body, to leave room for the Rread/Twrite header around the data
// itself.
const headerSlack = wire.HeaderLen + 4 + 8 + 4

// Read requests up to len(p) bytes from fid at offset and copies them
// into p, returning the number of bytes actually read. It returns 0,
// nil at EOF, matching io.Reader's convention loosely but without
// claiming the interface, since a 9P read is not a stream abstraction
// over an arbitrary source.
func (s *Session) Read(fid uint32, offset uint64, p []byte) (int, error) {
	var n int
	err := s.ReadFunc(fid, offset, uint32(len(p)), func(data []byte) error {
		n = copy(p, data)
		return nil
	})
	return n, err
}

// ReadFunc issues a single Tread for up to count bytes at offset and
// invokes copyOut with the server's response bytes, letting the caller
// place the data into its own buffer without an extra copy. copyOut's
// returned error, if non-nil, is returned from ReadFunc unchanged; it
// is never retried. If the request still comes back MessageTooLarge,
// the send engine retries with a smaller count, taken from its shrinking
// budget rather than count itself.
func (s *Session) ReadFunc(fid uint32, offset uint64, count uint32, copyOut func([]byte) error) error {
	if max := s.Msize() - headerSlack; count > max {
		count = max
	}

	resp, err := s.call(false, func(tag uint16, budget uint32) (*msgbuf.Buffer, error) {
		n := count
		if budget <= headerSlack {
			n = 0
		} else if max := budget - headerSlack; n > max {
			n = max
		}
		return wire.EncodeTread(tag, fid, offset, n)
	})
	if err != nil {
		return err
	}
	data, err := wire.DecodeRread(resp)
	if err != nil {
		return s.protocolFail(err)
	}
	return copyOut(data)
}
