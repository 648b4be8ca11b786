// Package wire implements the 9P2000.u wire format: message type
// constants, QIDs, stat records, and the encode/decode functions client
// procedures use to build requests and parse responses.
//
// Unlike a server-side codec, which can afford to validate a whole frame
// once (with a scanner sitting in front of it) and then hand out
// unchecked accessor views, a client decodes frames handed to it
// one at a time by the receive engine and must treat every byte as
// untrusted: every Decode* function here is bounds-checked and returns
// an error rather than panicking.
package wire

// Message type constants, pinned to their 9P2000.u wire values. There is
// no Terror; Rerror answers any request the server wants to fail.
const (
	Tversion uint8 = 100
	Rversion uint8 = 101
	Tauth    uint8 = 102
	Rauth    uint8 = 103
	Tattach  uint8 = 104
	Rattach  uint8 = 105
	Rerror   uint8 = 107
	Tflush   uint8 = 108
	Rflush   uint8 = 109
	Twalk    uint8 = 110
	Rwalk    uint8 = 111
	Topen    uint8 = 112
	Ropen    uint8 = 113
	Tcreate  uint8 = 114
	Rcreate  uint8 = 115
	Tread    uint8 = 116
	Rread    uint8 = 117
	Twrite   uint8 = 118
	Rwrite   uint8 = 119
	Tclunk   uint8 = 120
	Rclunk   uint8 = 121
	Tremove  uint8 = 122
	Rremove  uint8 = 123
	Tstat    uint8 = 124
	Rstat    uint8 = 125
	Twstat   uint8 = 126
	Rwstat   uint8 = 127
)

// NOTAG is the tag used only for Tversion, before the connection has
// negotiated anything.
const NOTAG uint16 = 0xFFFF

// NOFID denotes "no fid", used as Tattach's afid when authentication is
// not performed.
const NOFID uint32 = 0xFFFFFFFF

// Open mode byte, the first argument to Topen/Tcreate.
const (
	OREAD   uint8 = 0
	OWRITE  uint8 = 1
	ORDWR   uint8 = 2
	OEXEC   uint8 = 3
	OTRUNC  uint8 = 0x10
	ORCLOSE uint8 = 0x40
)

// Permission/mode bits carried in a stat record's Mode field.
const (
	DMDIR       uint32 = 0x80000000
	DMAPPEND    uint32 = 0x40000000
	DMEXCL      uint32 = 0x20000000
	DMAUTH      uint32 = 0x08000000
	DMTMP       uint32 = 0x04000000
	DMDEVICE    uint32 = 0x00800000
	DMSYMLINK   uint32 = 0x02000000
	DMSOCKET    uint32 = 0x00100000
	DMNAMEDPIPE uint32 = 0x00200000
)

// Version is the only version string this client speaks.
const Version = "9P2000.u"

// TypeName returns a short human-readable name for a message type, for
// logging; it never fails, returning "T??" for unrecognized values.
func TypeName(t uint8) string {
	switch t {
	case Tversion:
		return "Tversion"
	case Rversion:
		return "Rversion"
	case Tauth:
		return "Tauth"
	case Rauth:
		return "Rauth"
	case Tattach:
		return "Tattach"
	case Rattach:
		return "Rattach"
	case Rerror:
		return "Rerror"
	case Tflush:
		return "Tflush"
	case Rflush:
		return "Rflush"
	case Twalk:
		return "Twalk"
	case Rwalk:
		return "Rwalk"
	case Topen:
		return "Topen"
	case Ropen:
		return "Ropen"
	case Tcreate:
		return "Tcreate"
	case Rcreate:
		return "Rcreate"
	case Tread:
		return "Tread"
	case Rread:
		return "Rread"
	case Twrite:
		return "Twrite"
	case Rwrite:
		return "Rwrite"
	case Tclunk:
		return "Tclunk"
	case Rclunk:
		return "Rclunk"
	case Tremove:
		return "Tremove"
	case Rremove:
		return "Rremove"
	case Tstat:
		return "Tstat"
	case Rstat:
		return "Rstat"
	case Twstat:
		return "Twstat"
	case Rwstat:
		return "Rwstat"
	default:
		return "T??"
	}
}
