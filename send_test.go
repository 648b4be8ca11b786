package p9fsclient

import (
	"encoding/binary"
	"testing"

	"wandrews.dev/p9fsclient/internal/idpool"
	"wandrews.dev/p9fsclient/internal/msgbuf"
	"wandrews.dev/p9fsclient/wire"
)

// loopbackEndpoint answers every Write by immediately completing the
// matching pending request, so call's retry logic can be exercised
// without a real transport or a receive goroutine.
type loopbackEndpoint struct {
	s *Session
}

func (l *loopbackEndpoint) Write(p []byte) (int, error) {
	tag := binary.LittleEndian.Uint16(p[5:7])
	l.s.mu.Lock()
	req, ok := l.s.reqs[tag]
	if ok {
		delete(l.s.reqs, tag)
	}
	l.s.mu.Unlock()
	if ok {
		req.complete(p, nil)
	}
	return len(p), nil
}

func (l *loopbackEndpoint) Read(p []byte) (int, error) { select {} }
func (l *loopbackEndpoint) Close() error               { return nil }

func newLoopbackSession(msize uint32) *Session {
	ep := &loopbackEndpoint{}
	s := &Session{
		state: stateRunning,
		msize: msize,
		reqs:  make(reqtable),
		tags:  idpool.New(1, 0xFFFE),
	}
	ep.s = s
	s.endpoint = ep
	s.writer = &txWriter{w: ep}
	return s
}

func TestCallShrinksPayloadOnMessageTooLarge(t *testing.T) {
	s := newLoopbackSession(1000)

	var budgets []uint32
	b := build(func(tag uint16, budget uint32) (*msgbuf.Buffer, error) {
		budgets = append(budgets, budget)
		buf := msgbuf.New(wire.Tstat, tag)
		payload := budget
		if payload > 1000 {
			payload = 1000
		}
		buf.Append(make([]byte, payload))
		return buf, nil
	})

	if _, err := s.call(false, b); err != nil {
		t.Fatalf("call: %v", err)
	}
	if len(budgets) < 2 {
		t.Fatalf("expected at least 2 attempts, got %d: %v", len(budgets), budgets)
	}
	if budgets[0] != 1000 {
		t.Fatalf("first attempt budget = %d, want 1000", budgets[0])
	}
	if budgets[1] >= budgets[0] {
		t.Fatalf("second attempt budget %d did not shrink from %d", budgets[1], budgets[0])
	}
}

func TestCallGivesUpAfterMaxSendAttempts(t *testing.T) {
	s := newLoopbackSession(100)

	attempts := 0
	b := build(func(tag uint16, budget uint32) (*msgbuf.Buffer, error) {
		attempts++
		buf := msgbuf.New(wire.Tstat, tag)
		buf.Append(make([]byte, 1000)) // always oversized, ignores budget
		return buf, nil
	})

	_, err := s.call(false, b)
	if err != ErrMessageTooLarge {
		t.Fatalf("err = %v, want ErrMessageTooLarge", err)
	}
	if attempts != maxSendAttempts {
		t.Fatalf("attempts = %d, want %d", attempts, maxSendAttempts)
	}
}
