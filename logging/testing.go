package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

// tbAppender forwards entries to a test's log so they interleave with its output and are only
// shown on failure or with -v.
type tbAppender struct {
	tb testing.TB
}

// NewTestAppender returns an appender writing through tb.Log in local time.
func NewTestAppender(tb testing.TB) Appender {
	return tbAppender{tb: tb}
}

func (a tbAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	a.tb.Helper()
	line, err := formatEntry(entry, fields)
	a.tb.Log(line)
	return err
}

func (a tbAppender) Sync() error {
	return nil
}
