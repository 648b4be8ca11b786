package p9fsclient

import (
	"time"

	"aqwari.net/retry"

	"wandrews.dev/p9fsclient/internal/msgbuf"
	"wandrews.dev/p9fsclient/wire"
)

// sendBackoff paces retries after a MessageTooLarge transport error,
// waiting for send-buffer space to drain before the send engine
// recomputes and retries the request.
var sendBackoff = retry.Exponential(time.Millisecond).Max(time.Second)

// maxSendAttempts bounds how many times call retries a request that
// keeps coming back too large, so a build that can't actually shrink
// (a fixed-size Tattach/Twalk/Twstat whose oversized field is a string
// the caller chose, not a byte count call can adjust) fails with a
// terminal error instead of spinning forever behind sendBackoff.
const maxSendAttempts = 4

// build constructs a request message against a payload budget: the
// number of bytes of variable-length payload (a Tread's count, a
// Twrite's data) it may use this attempt. Most client procedures ignore
// the budget, since their request size doesn't depend on it; Read and
// Write use it to shrink their payload on a MessageTooLarge retry.
type build func(tag uint16, budget uint32) (*msgbuf.Buffer, error)

// call is the send engine: it acquires a tag, registers a
// request descriptor, transmits the built message, and waits for the
// matching response or a 30-second timeout. isVersion must be true only
// for the initial Tversion, which uses NOTAG instead of a tag from the
// pool. Like every other request, it is rejected by sendOnce once the
// session is Closing or Closed.
func (s *Session) call(isVersion bool, b build) ([]byte, error) {
	s.mu.Lock()
	if err := s.checkRunningLocked(); err != nil && !isVersion {
		s.mu.Unlock()
		return nil, err
	}
	s.workers++
	s.mu.Unlock()
	defer s.decWorker()

	var tag uint16
	var id uint32
	hasTag := false
	if isVersion {
		tag = wire.NOTAG
	} else {
		var err error
		id, err = s.tags.Acquire()
		if err != nil {
			return nil, ErrTagsExhausted
		}
		tag = uint16(id)
		hasTag = true
	}

	budget := s.Msize()
	var resp []byte
	var err error
	for attempt := 0; attempt < maxSendAttempts; attempt++ {
		resp, err = s.sendOnce(tag, budget, b)
		if err != ErrMessageTooLarge {
			break
		}
		if attempt == maxSendAttempts-1 {
			break
		}
		time.Sleep(sendBackoff(attempt + 1))
		budget /= 2
	}

	if hasTag {
		if err == ErrTimeout {
			// A timed-out request's tag must not go back to the pool
			// until the server has confirmed it will send no more
			// replies under it; otherwise a late reply to the abandoned
			// request could be misdelivered to whoever reuses the tag
			// next. Flush runs in the background so a slow or wedged
			// flush round-trip doesn't also make the timed-out caller
			// wait; the tag is released once it completes, best-effort.
			go func(tag uint16, id uint32) {
				s.Flush(tag)
				s.tags.Release(id)
			}(tag, id)
		} else {
			s.tags.Release(id)
		}
	}
	return resp, err
}

// sendOnce performs a single transmit-and-wait cycle for one tag.
func (s *Session) sendOnce(tag uint16, budget uint32, b build) ([]byte, error) {
	buf, err := b(tag, budget)
	if err != nil {
		return nil, err
	}
	frame, err := buf.Bytes()
	if err != nil {
		return nil, ErrMessageTooLarge
	}

	s.mu.Lock()
	msize := s.msize
	s.mu.Unlock()
	if msize != 0 && uint32(len(frame)) > msize {
		return nil, ErrMessageTooLarge
	}

	s.mu.Lock()
	if err := s.checkRunningLocked(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	req := newPendingRequest(tag)
	s.reqs[tag] = req
	s.mu.Unlock()

	if _, err := s.writer.Write(frame); err != nil {
		s.mu.Lock()
		delete(s.reqs, tag)
		s.mu.Unlock()
		return nil, ErrConnectionReset
	}

	select {
	case <-req.done:
		return req.resp, req.err
	case <-time.After(requestTimeout):
		s.mu.Lock()
		delete(s.reqs, tag)
		s.mu.Unlock()
		return nil, ErrTimeout
	}
}

// decWorker accounts for one client procedure call finishing, and
// completes the session's transition to Closed if this was the last
// outstanding worker during shutdown.
func (s *Session) decWorker() {
	s.mu.Lock()
	s.workers--
	if s.state == stateClosing && s.workers == 0 {
		s.state = stateClosed
		if s.drained != nil {
			close(s.drained)
			s.drained = nil
		}
	}
	s.mu.Unlock()
}
