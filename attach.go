package p9fsclient

import (
	"wandrews.dev/p9fsclient/internal/msgbuf"
	"wandrews.dev/p9fsclient/wire"
)

// attach introduces uname/uid to the server and binds fid as the root
// of the file tree named by aname. Authentication is out of scope, so
// afid is always NOFID.
func (s *Session) attach(fid uint32, uname, aname string, uid uint32) (wire.Qid, error) {
	resp, err := s.call(false, func(tag uint16, budget uint32) (*msgbuf.Buffer, error) {
		return wire.EncodeTattach(tag, fid, uname, aname, uid)
	})
	if err != nil {
		return wire.Qid{}, err
	}
	return wire.DecodeRattach(resp)
}
