package p9fsclient

// pendingRequest is the Request Table's descriptor for one outstanding
// request: it is created by the send engine before the request is
// written to the wire, and completed at most once, either by the
// receive engine delivering a matching response, or by failAllLocked
// when the session shuts down or its receive worker fails. On timeout
// or a write error the send engine removes the descriptor from the
// table without completing it.
//
// done is a buffered channel of capacity 1 so that whoever completes
// the descriptor writes to done without waiting for a reader, even if
// the sender has already stopped listening.
type pendingRequest struct {
	tag  uint16
	resp []byte
	err  error
	done chan struct{}
}

func newPendingRequest(tag uint16) *pendingRequest {
	return &pendingRequest{tag: tag, done: make(chan struct{}, 1)}
}

// complete fills in the descriptor's outcome and signals done. It must
// be called at most once per descriptor.
func (p *pendingRequest) complete(resp []byte, err error) {
	p.resp, p.err = resp, err
	p.done <- struct{}{}
}

// reqtable is the Session's map from outstanding tag to pending
// request, guarded by the Session's own lock.
type reqtable map[uint16]*pendingRequest
