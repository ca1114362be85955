package logging

import (
	"testing"

	"go.viam.com/test"
)

// registryWith registers an Info logger for each name.
func registryWith(names ...string) *Registry {
	r := NewRegistry()
	for _, name := range names {
		logger := NewBlankLogger(name)
		logger.SetLevel(INFO)
		r.getOrRegister(name, logger)
	}
	return r
}

func levelsOf(t *testing.T, r *Registry) map[string]Level {
	t.Helper()
	levels := map[string]Level{}
	for _, name := range r.Names() {
		logger, ok := r.LoggerNamed(name)
		test.That(t, ok, test.ShouldBeTrue)
		levels[name] = logger.GetLevel()
	}
	return levels
}

func TestValidatePattern(t *testing.T) {
	for _, valid := range []string{
		"pathfollower.tracker",
		"pathfollower.tracker.*",
		"pathfollower.*.locator",
		"pathfollower.*.*",
		"*.tracker",
		"*",
		"pathfollower.base-sim",
		"locator.odometry_2",
	} {
		test.That(t, ValidatePattern(valid), test.ShouldBeTrue)
	}
	for _, invalid := range []string{
		"",
		"pathfollower..tracker",
		"pathfollower.tracker.",
		".pathfollower",
		"pathfollower.**",
		"pathfollower.**.tracker",
		"_.pathfollower",
		"-.pathfollower",
		"pathfollower.-",
		"pathfollower tracker",
		"tracker.(follow)",
	} {
		test.That(t, ValidatePattern(invalid), test.ShouldBeFalse)
	}
}

func TestUpdateConfig(t *testing.T) {
	names := []string{
		"pathfollower",
		"pathfollower.tracker",
		"pathfollower.tracker.follow",
		"pathfollower.locator",
		"pathfollower.locator.rtk",
	}
	for _, tc := range []struct {
		name     string
		patterns []LoggerPatternConfig
		expected map[string]Level
	}{
		{
			name:     "exact name",
			patterns: []LoggerPatternConfig{{Pattern: "pathfollower.tracker", Level: "warn"}},
			expected: map[string]Level{"pathfollower.tracker": WARN},
		},
		{
			name:     "trailing wildcard spans sections",
			patterns: []LoggerPatternConfig{{Pattern: "pathfollower.*", Level: "debug"}},
			expected: map[string]Level{
				"pathfollower.tracker":        DEBUG,
				"pathfollower.tracker.follow": DEBUG,
				"pathfollower.locator":        DEBUG,
				"pathfollower.locator.rtk":    DEBUG,
			},
		},
		{
			name:     "inner wildcard",
			patterns: []LoggerPatternConfig{{Pattern: "pathfollower.*.rtk", Level: "error"}},
			expected: map[string]Level{"pathfollower.locator.rtk": ERROR},
		},
		{
			name: "later pattern wins",
			patterns: []LoggerPatternConfig{
				{Pattern: "pathfollower.*", Level: "debug"},
				{Pattern: "pathfollower.tracker", Level: "warn"},
			},
			expected: map[string]Level{
				"pathfollower.tracker":        WARN,
				"pathfollower.tracker.follow": DEBUG,
				"pathfollower.locator":        DEBUG,
				"pathfollower.locator.rtk":    DEBUG,
			},
		},
		{
			name:     "invalid pattern is skipped",
			patterns: []LoggerPatternConfig{{Pattern: "_.*.rtk", Level: "debug"}},
		},
		{
			name:     "prefix does not match",
			patterns: []LoggerPatternConfig{{Pattern: "pathfollower.track", Level: "debug"}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := registryWith(names...)
			test.That(t, r.UpdateConfig(tc.patterns, INFO, NewTestLogger(t)), test.ShouldBeNil)
			for name, level := range levelsOf(t, r) {
				expected, ok := tc.expected[name]
				if !ok {
					expected = INFO
				}
				test.That(t, level, test.ShouldEqual, expected)
			}
		})
	}

	r := registryWith("x")
	err := r.UpdateConfig([]LoggerPatternConfig{{Pattern: "x", Level: "loud"}}, INFO, NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRegisterAfterConfig(t *testing.T) {
	r := NewRegistry()
	err := r.UpdateConfig([]LoggerPatternConfig{{Pattern: "tracker.*", Level: "error"}}, INFO, NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	first := r.getOrRegister("tracker.follow", NewBlankLogger("tracker.follow"))
	test.That(t, first.GetLevel(), test.ShouldEqual, ERROR)

	second := r.getOrRegister("tracker.follow", NewBlankLogger("tracker.follow"))
	test.That(t, second, test.ShouldEqual, first)
	test.That(t, r.Names(), test.ShouldResemble, []string{"tracker.follow"})

	unmatched := r.getOrRegister("locator", NewBlankLogger("locator"))
	test.That(t, unmatched.GetLevel(), test.ShouldEqual, DEBUG)
}
