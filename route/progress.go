package route

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Progress is a human readable position along a path: either a waypoint index into the
// flattened path or a fraction of its length.
type Progress struct {
	index    int
	fraction float64
	percent  bool
}

// ProgressIndex returns the progress at flattened waypoint i.
func ProgressIndex(i int) Progress {
	return Progress{index: i}
}

// ProgressFraction returns the progress at fraction f of the path, f in [0, 1).
func ProgressFraction(f float64) Progress {
	return Progress{fraction: f, percent: true}
}

// ParseProgress accepts "12" (an index), "30%" (a percentage below 100) or "0.3" (a fraction
// below 1).
func ParseProgress(s string) (Progress, error) {
	s = strings.TrimSpace(s)
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		f, err := strconv.ParseFloat(pct, 64)
		if err != nil || math.IsNaN(f) || f < 0 || f >= 100 {
			return Progress{}, errors.Errorf("invalid percentage %q", s)
		}
		return ProgressFraction(f / 100), nil
	}
	if i, err := strconv.Atoi(s); err == nil {
		if i < 0 {
			return Progress{}, errors.Errorf("invalid index %q", s)
		}
		return ProgressIndex(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f < 0 || f >= 1 {
		return Progress{}, errors.Errorf("invalid progress %q", s)
	}
	return ProgressFraction(f), nil
}

// Cursor resolves the progress against p. Indices past the end clamp to the last waypoint.
func (pr Progress) Cursor(p *Path) Cursor {
	if pr.percent {
		return p.CursorAt(int(float64(p.NumPoints()) * pr.fraction))
	}
	return p.CursorAt(pr.index)
}

// String implements fmt.Stringer.
func (pr Progress) String() string {
	if pr.percent {
		return strconv.FormatFloat(pr.fraction*100, 'g', -1, 64) + "%"
	}
	return strconv.Itoa(pr.index)
}

// DescribeCursor renders c as "NN%(i/n)" where n is the last flattened index.
func DescribeCursor(p *Path, c Cursor) string {
	last := p.NumPoints() - 1
	if last <= 0 {
		return "100%(0/0)"
	}
	i := p.Ordinal(c)
	return fmt.Sprintf("%d%%(%d/%d)", i*100/last, i, last)
}
