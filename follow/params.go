package follow

import (
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
)

// Parameters configure a follow task. They are fixed for the lifetime of the task.
type Parameters struct {
	// SearchRadius bounds relocalization.
	SearchRadius float64 `json:"search_radius"`
	// LightRadius is the radius of the lookahead disc.
	LightRadius float64 `json:"light_radius"`
	// Loop makes the path cyclic.
	Loop bool `json:"loop"`
	// AutoReinitialize re-enters the approach phase instead of failing when the path is lost.
	AutoReinitialize bool `json:"auto_reinitialize"`
	// TipIgnore bounds the lookback used to bridge kinks while segmenting.
	TipIgnore int `json:"tip_ignore"`
}

// DefaultParameters returns the parameters used when nothing is configured.
func DefaultParameters() Parameters {
	return Parameters{
		SearchRadius:     5,
		LightRadius:      0.4,
		Loop:             false,
		AutoReinitialize: true,
		TipIgnore:        10,
	}
}

// Validate ensures all parts of the parameters are valid.
func (p *Parameters) Validate(path string) error {
	if p.LightRadius <= 0 {
		return goutils.NewConfigValidationError(path, errors.New("light_radius must be positive"))
	}
	if p.SearchRadius < p.LightRadius {
		return goutils.NewConfigValidationError(path,
			errors.Errorf("search_radius %v must not be smaller than light_radius %v", p.SearchRadius, p.LightRadius))
	}
	if p.TipIgnore < 0 {
		return goutils.NewConfigValidationError(path, errors.New("tip_ignore must not be negative"))
	}
	return nil
}
