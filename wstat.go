package p9fsclient

import (
	"wandrews.dev/p9fsclient/internal/msgbuf"
	"wandrews.dev/p9fsclient/wire"
)

// Wstat writes a (partial) stat record back to the server for fid. Per
// the 9P convention, fields the caller does not want to change should
// be left at their "don't touch" value: ^uint16(0)/^uint32(0)/^uint64(0)
// for numeric fields, and the empty string for name fields.
func (s *Session) Wstat(fid uint32, st wire.Stat) error {
	resp, err := s.call(false, func(tag uint16, budget uint32) (*msgbuf.Buffer, error) {
		return wire.EncodeTwstat(tag, fid, st)
	})
	if err != nil {
		return err
	}
	if err := wire.DecodeRwstat(resp); err != nil {
		return s.protocolFail(err)
	}
	return nil
}

// DontTouchStat returns a Stat with every field set to the 9P
// "don't touch this field" sentinel, ready for the caller to override
// just the fields they want Wstat to change.
func DontTouchStat() wire.Stat {
	return wire.Stat{
		Type:   0xFFFF,
		Dev:    0xFFFFFFFF,
		Qid:    wire.Qid{Type: 0xFF, Version: 0xFFFFFFFF, Path: 0xFFFFFFFFFFFFFFFF},
		Mode:   0xFFFFFFFF,
		Atime:  0xFFFFFFFF,
		Mtime:  0xFFFFFFFF,
		Length: ^uint64(0),
		Nuid:   0xFFFFFFFF,
		Ngid:   0xFFFFFFFF,
		Nmuid:  0xFFFFFFFF,
	}
}
