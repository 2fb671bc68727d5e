package log

import "context"

// nopLogger discards every log event. Returned by NewNop and used wherever a
// nil logger must degrade safely.
type nopLogger struct{}

// NewNop returns a Logger that discards all events.
//
//nolint:ireturn
func NewNop() Logger {
	return nopLogger{}
}

func (nopLogger) Log(context.Context, Level, string, ...Field) {}

//nolint:ireturn
func (n nopLogger) With(...Field) Logger { return n }

func (nopLogger) Enabled(Level) bool { return false }

func (nopLogger) Sync(context.Context) error { return nil }
