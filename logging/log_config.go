package logging

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// LoggerPatternConfig sets the level of every logger whose dotted name matches Pattern. A "*"
// section matches any run of characters, dots included.
type LoggerPatternConfig struct {
	Pattern string `json:"pattern"`
	Level   string `json:"level"`
}

var (
	patternSection = `([a-zA-Z0-9]+([_-]*[a-zA-Z0-9]+)*|\*)`
	patternSyntax  = regexp.MustCompile(`^` + patternSection + `(\.` + patternSection + `)*$`)
)

// ValidatePattern reports whether pattern is a dotted logger name in which any section may be
// the "*" wildcard.
func ValidatePattern(pattern string) bool {
	return patternSyntax.MatchString(pattern)
}

// compilePattern turns a validated pattern into an anchored matcher over logger names.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	if !ValidatePattern(pattern) {
		return nil, errors.Errorf("invalid logger pattern %q", pattern)
	}
	sections := strings.Split(pattern, ".")
	for i, s := range sections {
		if s == "*" {
			sections[i] = ".*"
		} else {
			sections[i] = regexp.QuoteMeta(s)
		}
	}
	return regexp.Compile(`^` + strings.Join(sections, `\.`) + `$`)
}

// compiled is a pattern ready to be matched.
type compiled struct {
	matcher *regexp.Regexp
	level   Level
}

func compileConfig(cfg LoggerPatternConfig) (compiled, error) {
	matcher, err := compilePattern(cfg.Pattern)
	if err != nil {
		return compiled{}, err
	}
	level, err := LevelFromString(cfg.Level)
	if err != nil {
		return compiled{}, errors.Wrapf(err, "pattern %q", cfg.Pattern)
	}
	return compiled{matcher: matcher, level: level}, nil
}
