package logging

import (
	"slices"
	"sync"

	"github.com/samber/lo"
)

// Registry tracks named loggers so their levels can be changed by pattern at runtime.
type Registry struct {
	mu       sync.RWMutex
	loggers  map[string]Logger
	patterns []compiled
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{loggers: map[string]Logger{}}
}

// NewLogger returns a logger registered with r, writing at level and above to appenders in UTC.
// Its subloggers are registered too. An existing logger of the same name is returned instead.
func (r *Registry) NewLogger(name string, level Level, appenders ...Appender) Logger {
	return r.getOrRegister(name, &impl{
		name:      name,
		level:     NewAtomicLevelAt(level),
		inUTC:     true,
		appenders: appenders,
		registry:  r,
	})
}

// LoggerNamed returns the logger registered under name.
func (r *Registry) LoggerNamed(name string) (Logger, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	logger, ok := r.loggers[name]
	return logger, ok
}

// Names returns the sorted names of all registered loggers.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := lo.Keys(r.loggers)
	slices.Sort(names)
	return names
}

// UpdateConfig applies patterns to every registered logger. Loggers no pattern matches go back
// to defaultLevel, and a later pattern wins over an earlier one. Malformed patterns are reported
// to errorLogger and skipped. An unknown level fails the whole update.
func (r *Registry) UpdateConfig(patterns []LoggerPatternConfig, defaultLevel Level, errorLogger Logger) error {
	ready := make([]compiled, 0, len(patterns))
	for _, p := range patterns {
		if !ValidatePattern(p.Pattern) {
			errorLogger.Warnw("ignoring invalid logger pattern", "pattern", p.Pattern)
			continue
		}
		c, err := compileConfig(p)
		if err != nil {
			return err
		}
		ready = append(ready, c)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.patterns = ready
	for name, logger := range r.loggers {
		logger.SetLevel(levelFor(ready, name, defaultLevel))
	}
	return nil
}

// levelFor returns the level of the last pattern matching name, or fallback.
func levelFor(patterns []compiled, name string, fallback Level) Level {
	last, _, found := lo.FindLastIndexOf(patterns, func(c compiled) bool {
		return c.matcher.MatchString(name)
	})
	if !found {
		return fallback
	}
	return last.level
}

// getOrRegister returns the logger already registered as name, or registers logger under that
// name with the current patterns applied. Concurrent registrations of one name all receive the
// first logger stored.
func (r *Registry) getOrRegister(name string, logger Logger) Logger {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.loggers[name]; ok {
		return existing
	}
	r.loggers[name] = logger
	logger.SetLevel(levelFor(r.patterns, name, logger.GetLevel()))
	return logger
}
