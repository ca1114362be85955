package logging

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap/zapcore"
)

// Level is a log level. The values line up with zapcore levels.
type Level int

// The supported levels.
const (
	DEBUG Level = iota - 1
	INFO
	WARN
	ERROR
)

// String implements fmt.Stringer.
func (level Level) String() string {
	switch level {
	case DEBUG:
		return "Debug"
	case INFO:
		return "Info"
	case WARN:
		return "Warn"
	case ERROR:
		return "Error"
	}
	return "Unknown"
}

// AsZap converts the level to its zapcore equivalent.
func (level Level) AsZap() zapcore.Level {
	return zapcore.Level(level)
}

// LevelFromString parses a case insensitive level name.
func LevelFromString(inp string) (Level, error) {
	switch strings.ToLower(inp) {
	case "debug":
		return DEBUG, nil
	case "info":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	}
	return DEBUG, errors.Errorf("unknown log level: %q", inp)
}

// AtomicLevel is a Level shared by reference and safe for concurrent use.
type AtomicLevel struct {
	v *atomic.Int32
}

// NewAtomicLevelAt returns an AtomicLevel holding level.
func NewAtomicLevelAt(level Level) AtomicLevel {
	return AtomicLevel{v: atomic.NewInt32(int32(level))}
}

// Set stores level.
func (a AtomicLevel) Set(level Level) {
	a.v.Store(int32(level))
}

// Get loads the level.
func (a AtomicLevel) Get() Level {
	return Level(a.v.Load())
}
