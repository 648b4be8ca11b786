package p9fsclient

import "wandrews.dev/p9fsclient/wire"

type config struct {
	msize  uint32
	logger Logger
}

// A SessionOption changes a parameter of a session before it starts.
// Like styxmount's Option, a SessionOption returns the SessionOption
// that would undo its effect, so callers can save and restore settings,
// though most callers simply pass a list of options to Start.
type SessionOption func(*config) SessionOption

// WithMsize proposes a maximum message size other than the default.
// The server may negotiate it down further.
func WithMsize(msize uint32) SessionOption {
	return func(c *config) SessionOption {
		prev := c.msize
		c.msize = msize
		return WithMsize(prev)
	}
}

// WithLogger attaches a Logger for diagnostic output. The default is a
// no-op logger.
func WithLogger(l Logger) SessionOption {
	return func(c *config) SessionOption {
		prev := c.logger
		c.logger = l
		return WithLogger(prev)
	}
}

func newConfig(opts []SessionOption) config {
	c := config{msize: wire.DefaultMsize}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
