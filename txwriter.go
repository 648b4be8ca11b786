package p9fsclient

import (
	"io"
	"sync"
)

// txWriter serializes Write calls onto an underlying io.Writer so that
// concurrent client procedures never interleave their frames on the
// wire. It is independent of the Session's own mutex, since holding
// that lock across a blocking Write would stall every other client
// procedure, not just other writers.
type txWriter struct {
	w  io.Writer
	mu sync.Mutex
}

func (t *txWriter) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.w.Write(p)
}
