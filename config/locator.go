package config

import (
	"context"
	"time"

	geo "github.com/kellydunn/golang-geo"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/pathfollower/locator"
)

// The pose source types.
const (
	SourceTypeFix      = "fix"
	SourceTypeOdometry = "odometry"
)

// LocatorConfig configures pose sources and how they are fused.
type LocatorConfig struct {
	RestartDelay Duration       `json:"restart_delay"`
	Sources      []SourceConfig `json:"sources,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (c *LocatorConfig) Validate(path string) error {
	if c.RestartDelay < 0 {
		return goutils.NewConfigValidationError(path, errors.New("restart_delay must not be negative"))
	}
	seen := map[string]bool{}
	for i, s := range c.Sources {
		if s.Name == "" {
			return goutils.NewConfigValidationFieldRequiredError(path+".sources", "name")
		}
		if seen[s.Name] {
			return goutils.NewConfigValidationError(path, errors.Errorf("source name %q is not unique", s.Name))
		}
		seen[s.Name] = true
		if err := s.Validate(path + ".sources." + s.Name); err != nil {
			return errors.Wrapf(err, "source %d", i)
		}
	}
	return nil
}

// Options converts the config to locator options.
func (c *LocatorConfig) Options() locator.Options {
	return locator.Options{RestartDelay: time.Duration(c.RestartDelay)}
}

// Source returns the config of the first source of the given type.
func (c *LocatorConfig) Source(typ string) (SourceConfig, bool) {
	for _, s := range c.Sources {
		if s.Type == typ {
			return s, true
		}
	}
	return SourceConfig{}, false
}

// SourceConfig names a pose source. Attributes are type specific.
type SourceConfig struct {
	Name       string       `json:"name"`
	Type       string       `json:"type"`
	Attributes AttributeMap `json:"attributes,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (c *SourceConfig) Validate(path string) error {
	switch c.Type {
	case SourceTypeFix:
		attrs, err := TransformAttributeMap[*FixAttributes](c.Attributes)
		if err != nil {
			return goutils.NewConfigValidationError(path, err)
		}
		return attrs.Validate(path)
	case SourceTypeOdometry:
		if _, err := TransformAttributeMap[*OdometryAttributes](c.Attributes); err != nil {
			return goutils.NewConfigValidationError(path, err)
		}
		return nil
	default:
		return goutils.NewConfigValidationError(path, errors.Errorf("unknown source type %q", c.Type))
	}
}

// FixAttributes configure a global positioning source.
type FixAttributes struct {
	OriginLatitude  float64 `json:"origin_latitude"`
	OriginLongitude float64 `json:"origin_longitude"`
	// MinQuality defaults to locator.DefaultMinQuality.
	MinQuality int `json:"min_quality,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (a *FixAttributes) Validate(path string) error {
	if a.OriginLatitude < -90 || a.OriginLatitude > 90 {
		return goutils.NewConfigValidationError(path, errors.Errorf("origin_latitude %v out of range", a.OriginLatitude))
	}
	if a.OriginLongitude < -180 || a.OriginLongitude > 180 {
		return goutils.NewConfigValidationError(path, errors.Errorf("origin_longitude %v out of range", a.OriginLongitude))
	}
	if a.MinQuality < 0 {
		return goutils.NewConfigValidationError(path, errors.New("min_quality must not be negative"))
	}
	return nil
}

// Origin returns the point the local frame is centred on.
func (a *FixAttributes) Origin() *geo.Point {
	return geo.NewPoint(a.OriginLatitude, a.OriginLongitude)
}

// Quality returns the configured quality gate.
func (a *FixAttributes) Quality() int {
	if a.MinQuality == 0 {
		return locator.DefaultMinQuality
	}
	return a.MinQuality
}

// OdometryAttributes configure a relative pose source.
type OdometryAttributes struct {
	// Timeout is how long the stream may stay silent before the source is restarted. Zero
	// disables it.
	Timeout time.Duration `json:"timeout,omitempty"`
}

// Source builds the odometry source named name, reading from open.
func (a *OdometryAttributes) Source(name string, open func(ctx context.Context) (<-chan locator.Odometry, error)) *locator.OdometrySource {
	return &locator.OdometrySource{SourceName: name, Timeout: a.Timeout, Open: open}
}
