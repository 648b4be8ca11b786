package p9fsclient

import "io"

// Endpoint is the connected byte-stream connection a Session is built
// on, supplied by an enclosing mount orchestrator that has already
// performed DNS resolution and connect.
//
// Read is called only from the session's single receive worker and may
// block; a dedicated goroutine doing a blocking Read already yields the
// rest of the program while waiting for data, the idiomatic Go
// equivalent of a non-blocking-read-plus-readable-callback model. Write
// may be called concurrently by any number of client procedures; Session
// wraps the Endpoint in a txWriter so those calls are serialized before
// any byte reaches Write, and an Endpoint implementation need not add
// its own locking for that purpose.
type Endpoint interface {
	io.Reader
	io.Writer
	io.Closer
}
