package p9fsclient

// Logger receives diagnostic information during a session's operation.
// The session logs one event, the end of its receive loop
// and the error that ended it; dropped frames and retries are not
// logged. It is implemented by *log.Logger.
type Logger interface {
	Printf(format string, v ...interface{})
}

func (s *Session) logf(format string, v ...interface{}) {
	if s.logger != nil {
		s.logger.Printf(format, v...)
	}
}
