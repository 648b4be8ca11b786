package p9fsclient

import "wandrews.dev/p9fsclient/wire"

// sessionError is the sentinel error type for this package, following
// the same unexported-string convention as the wire package.
type sessionError string

func (e sessionError) Error() string { return string(e) }

// Transport errors.
const (
	ErrConnectionAborted = sessionError("p9fsclient: connection aborted")
	ErrConnectionReset   = sessionError("p9fsclient: connection reset by peer")
	ErrMessageTooLarge   = sessionError("p9fsclient: message exceeds negotiated msize")
)

// Resource errors: the bounded tag/fid allocators are exhausted.
const (
	ErrTagsExhausted = sessionError("p9fsclient: no tags available")
	ErrFidsExhausted = sessionError("p9fsclient: no fids available")
)

// ErrTimeout is returned when a request's response does not arrive
// within the per-request ceiling.
const ErrTimeout = sessionError("p9fsclient: request timed out")

// ErrNotFound is returned by Walk when the server resolves fewer path
// elements than requested.
const ErrNotFound = sessionError("p9fsclient: no such file")

// Re-exported so callers can type-switch without importing wire
// themselves for the common case of inspecting a server-returned errno.
type ServerError = wire.ServerError

// Protocol errors surface directly from the wire package: ErrShortBuffer,
// ErrBadString, ErrUnexpectedType, ErrBadFraming, ErrUnsupported,
// ErrTooLong. Any of these returned by a response decoder means the
// byte stream is desynchronized and cannot be trusted for any future
// request. An encoder can also return ErrTooLong or ErrBadString for a
// bad argument; a client procedure returns that error before anything
// is sent, without passing it through protocolFail.
func isProtocolError(err error) bool {
	switch err {
	case wire.ErrShortBuffer, wire.ErrBadString, wire.ErrUnexpectedType,
		wire.ErrBadFraming, wire.ErrUnsupported, wire.ErrTooLong:
		return true
	}
	return false
}

// protocolFail drives the session toward Closing when err is a protocol
// error, since the stream can no longer be trusted for any future
// request. It always returns err unchanged, so call sites can wrap a
// decode error in place: return zero, s.protocolFail(err).
func (s *Session) protocolFail(err error) error {
	if isProtocolError(err) {
		go s.Close()
	}
	return err
}
