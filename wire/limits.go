package wire

// Field length limits, carried over from the upstream 9P implementation
// this client borrows its codec conventions from. They bound how much a
// single decode will ever copy out of an attacker- or bug-controlled
// frame.

// MaxVersionLen is the maximum length of the protocol version string.
const MaxVersionLen = 20

// MaxOffset is the largest legal offset in a Tread/Twrite request.
const MaxOffset = 1<<63 - 1

// MaxFilenameLen is the maximum length of a single path element.
const MaxFilenameLen = 512

// MaxWElem is the maximum number of path elements in a single Twalk.
// This client only ever issues walks with zero or one element, but the
// limit still bounds what it will accept when decoding an Rwalk's qid
// list.
const MaxWElem = 16

// MaxUidLen is the maximum length of a uid/gid/muid name.
const MaxUidLen = 45

// MaxErrorLen is the maximum length of an Rerror's ename field.
const MaxErrorLen = 512

// MaxAttachLen is the maximum length of the aname field.
const MaxAttachLen = 255

// HeaderLen is the size of the size[4] type[1] tag[2] header.
const HeaderLen = 7

// MinMsgSize is the smallest legal frame (an Rclunk/Rflush/Rwstat, which
// carry no body beyond the header).
const MinMsgSize = HeaderLen

// DefaultMsize is the client's proposed message size before negotiation,
// MAXPHYS (128 KiB, the common default on the originating platform) plus
// the 7-byte header.
const DefaultMsize = 128*1024 + HeaderLen

// There is no MaxMsgSize constant: a frame's size field is a uint32, so
// the type itself already bounds it to 1<<32-1. Actual frames are further
// bounded by the negotiated msize, which is an ordinary uint32 value, not
// a separate limit.

// minStatLen is the smallest legal 9P2000 stat body: type[2] dev[4]
// qid[13] mode[4] atime[4] mtime[4] length[8] name[s=0] uid[s=0] gid[s=0]
// muid[s=0], i.e. 2+4+13+4+4+4+8 = 39 bytes plus four empty 2-byte string
// length prefixes.
const minStatLen = 39 + 4*2

// minStatuLen adds the 9P2000.u suffix's minimum length: extension[s=0]
// n_uid[4] n_gid[4] n_muid[4].
const minStatuLen = minStatLen + 2 + 4 + 4 + 4
