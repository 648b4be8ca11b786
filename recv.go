package p9fsclient

import (
	"encoding/binary"
	"io"

	"wandrews.dev/p9fsclient/internal/msgbuf"
)

// recvLoop is the session's single receive worker. It maintains the
// resumable size-pending/body-pending framing state as a straightforward
// sequential read loop, since Go gives every goroutine its own stack to
// block on instead of an explicit state machine driven by
// readable-events.
func (s *Session) recvLoop() {
	for {
		frame, err := s.readFrame()
		if err != nil {
			s.onReceiveError(err)
			return
		}
		s.dispatch(frame)
	}
}

// readFrame reads exactly one complete 9P frame: first the 4-byte size
// prefix (size-pending), then the remaining size-4 bytes (body-pending).
func (s *Session) readFrame() ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(s.endpoint, hdr[:]); err != nil {
		return nil, err
	}
	size := binary.LittleEndian.Uint32(hdr[:])
	if size < msgbuf.HeaderLen {
		return nil, ErrConnectionReset
	}

	s.mu.Lock()
	msize := s.msize
	s.mu.Unlock()
	if msize != 0 && size > msize {
		return nil, ErrConnectionReset
	}

	frame := make([]byte, size)
	copy(frame, hdr[:])
	if _, err := io.ReadFull(s.endpoint, frame[4:]); err != nil {
		return nil, err
	}
	return frame, nil
}

// dispatch extracts the tag at the fixed header offset and routes the
// frame to its pending request: found requests receive the frame and
// are signalled; unmatched tags (a duplicate reply after tag reuse, or
// a stray frame) are silently discarded.
func (s *Session) dispatch(frame []byte) {
	tag := binary.LittleEndian.Uint16(frame[5:7])

	s.mu.Lock()
	req, ok := s.reqs[tag]
	if ok {
		delete(s.reqs, tag)
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	req.complete(frame, nil)
}

// onReceiveError handles a fatal read failure: it records the error,
// fails every outstanding request with ConnectionReset, and drives the
// session toward Closing if it had not already begun shutting down.
// The receive worker always exits after this; it never restarts.
func (s *Session) onReceiveError(err error) {
	s.mu.Lock()
	s.recvErr = err
	if s.state == stateRunning || s.state == stateInit {
		s.state = stateClosing
	}
	s.failAllLocked(ErrConnectionReset)
	if s.state == stateClosing && s.workers == 0 {
		s.state = stateClosed
		if s.drained != nil {
			close(s.drained)
			s.drained = nil
		}
	}
	s.mu.Unlock()

	s.logf("p9fsclient: receive loop ending: %v", err)

	// Ensure the socket is actually torn down even when the failure
	// was detected here first rather than through an explicit Close.
	s.endpoint.Close()
}
