// Package p9fsclient implements the core of a 9P2000.u client: the
// protocol engine that turns a connected byte-stream endpoint into a
// tag-multiplexed request/response transport, plus the per-operation
// client procedures built on top of it.
//
// A Session is created by an enclosing mount orchestrator that has
// already resolved an address and connected a byte stream (see the
// dial package for a reference implementation of that step, which is
// deliberately outside this package's scope). Start performs the
// version and attach handshake and returns a Session ready for use by
// any number of concurrent callers.
package p9fsclient

import (
	"sync"
	"time"

	"wandrews.dev/p9fsclient/internal/idpool"
	"wandrews.dev/p9fsclient/wire"
)

// state is the session's lifecycle state, advancing monotonically
// through Init -> Running -> Closing -> Closed.
type state int32

const (
	stateInit state = iota
	stateRunning
	stateClosing
	stateClosed
)

func (s state) String() string {
	switch s {
	case stateInit:
		return "init"
	case stateRunning:
		return "running"
	case stateClosing:
		return "closing"
	case stateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// requestTimeout is the per-request ceiling a descriptor may wait for
// its response before failing with ErrTimeout. It is a var, not a
// const, so tests can shorten it instead of waiting 30 seconds.
var requestTimeout = 30 * time.Second

// Session owns a connection to a 9P2000.u server: its allocators,
// request table, and state machine. It is safe for concurrent use by
// any number of client procedure callers; exactly one goroutine (its
// own receive worker) ever reads from the endpoint.
type Session struct {
	endpoint Endpoint
	writer   *txWriter
	logger   Logger

	mu       sync.Mutex
	state    state
	msize    uint32
	reqs     reqtable
	workers  int
	recvErr  error
	drained  chan struct{}

	tags *idpool.Pool
	fids *idpool.Pool

	RemoteAddr string
	Uname      string
	Aname      string
	Uid        uint32
	RootFid    uint32
	RootQid    wire.Qid
}

// Start performs the version and attach handshake over endpoint and
// returns a running Session. remoteAddr is advisory: it is stored in
// RemoteAddr and not otherwise used.
func Start(endpoint Endpoint, remoteAddr, uname, aname string, uid uint32, opts ...SessionOption) (*Session, error) {
	cfg := newConfig(opts)

	s := &Session{
		endpoint:   endpoint,
		writer:     &txWriter{w: endpoint},
		logger:     cfg.logger,
		state:      stateInit,
		msize:      cfg.msize,
		reqs:       make(reqtable),
		tags:       idpool.New(1, 0xFFFE),
		fids:       idpool.New(1, 0xFFFF),
		RemoteAddr: remoteAddr,
		Uname:      uname,
		Aname:      aname,
		Uid:        uid,
	}

	go s.recvLoop()

	negotiated, err := s.version(cfg.msize, wire.Version)
	if err != nil {
		s.abort(err)
		return nil, err
	}
	s.mu.Lock()
	s.msize = negotiated
	s.mu.Unlock()

	const rootFid = 0 // fid 0 is reserved for the root attach
	qid, err := s.attach(rootFid, uname, aname, uid)
	if err != nil {
		s.abort(err)
		return nil, err
	}

	s.mu.Lock()
	s.RootFid = rootFid
	s.RootQid = qid
	s.state = stateRunning
	s.mu.Unlock()

	return s, nil
}

// Msize returns the negotiated maximum message size. Read and Write use
// it to cap how many bytes they request or send per call.
func (s *Session) Msize() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.msize
}

// State returns the session's current lifecycle state, mainly for
// logging and tests.
func (s *Session) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.String()
}

// GetFid allocates a fresh fid for a caller (such as a VFS adapter) that
// manages its own file handles outside of the client procedures in this
// package.
func (s *Session) GetFid() (uint32, error) {
	fid, err := s.fids.Acquire()
	if err != nil {
		return 0, ErrFidsExhausted
	}
	return fid, nil
}

// RelFid returns a fid obtained from GetFid (or from a client procedure
// that allocated one on the caller's behalf) to the session's fid
// allocator.
func (s *Session) RelFid(fid uint32) {
	s.fids.Release(fid)
}

// Close drives the session to Closed: it stops accepting new requests,
// fails every outstanding one with ErrConnectionAborted, closes the
// endpoint, and waits for any in-flight client procedure calls to
// observe their completion.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.state == stateClosing || s.state == stateClosed {
		s.mu.Unlock()
		return nil
	}
	s.state = stateClosing
	if s.drained == nil {
		s.drained = make(chan struct{})
	}
	s.failAllLocked(ErrConnectionAborted)
	workers := s.workers
	drained := s.drained
	if workers == 0 {
		s.state = stateClosed
		close(s.drained)
		s.drained = nil
	}
	s.mu.Unlock()

	err := s.endpoint.Close()

	if workers > 0 {
		<-drained
	}
	return err
}

// abort is called when startup fails before the session ever reaches
// Running; no caller can be waiting on a request table entry other
// than the handshake goroutine itself, so it skips the drain wait.
func (s *Session) abort(cause error) {
	s.mu.Lock()
	s.state = stateClosing
	s.failAllLocked(cause)
	s.state = stateClosed
	s.mu.Unlock()
	s.endpoint.Close()
}

// failAllLocked completes every outstanding request with err. Callers
// must hold s.mu.
func (s *Session) failAllLocked(err error) {
	for tag, req := range s.reqs {
		req.complete(nil, err)
		delete(s.reqs, tag)
	}
}

// checkRunningLocked returns ErrConnectionAborted once the session has
// begun shutting down, the same error a request already in flight sees
// from failAllLocked. Callers must hold s.mu.
func (s *Session) checkRunningLocked() error {
	if s.state == stateClosing || s.state == stateClosed {
		return ErrConnectionAborted
	}
	return nil
}
