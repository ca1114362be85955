// Package routeplot renders recorded paths and driven traces to image files.
package routeplot

import (
	"fmt"
	"image/color"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"go.viam.com/pathfollower/route"
	"go.viam.com/pathfollower/spatialmath"
)

// Default output size.
const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 8 * vg.Inch
)

// New draws every segment of p in its own colour. If trace is non-empty it is drawn on top as
// a dashed black line.
func New(title string, p *route.Path, trace []spatialmath.Pose) (*plot.Plot, error) {
	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = "x (m)"
	pl.Y.Label.Text = "y (m)"
	pl.Legend.Top = true

	for i, s := range p.Segments() {
		line, err := plotter.NewLine(toXYs(s))
		if err != nil {
			return nil, errors.Wrapf(err, "segment %d", i)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		pl.Add(line)
		pl.Legend.Add(fmt.Sprintf("segment %d", i), line)

		start, err := plotter.NewScatter(toXYs(s[:1]))
		if err != nil {
			return nil, errors.Wrapf(err, "segment %d start", i)
		}
		start.GlyphStyle.Color = plotutil.Color(i)
		pl.Add(start)
	}

	if len(trace) > 0 {
		line, err := plotter.NewLine(toXYs(trace))
		if err != nil {
			return nil, errors.Wrap(err, "trace")
		}
		line.Color = color.Black
		line.Width = vg.Points(1)
		line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		pl.Add(line)
		pl.Legend.Add("trace", line)
	}
	return pl, nil
}

// Save renders p (and an optional trace) to filename. The format follows the file extension.
func Save(filename, title string, p *route.Path, trace []spatialmath.Pose) error {
	pl, err := New(title, p, trace)
	if err != nil {
		return err
	}
	return errors.Wrapf(pl.Save(DefaultWidth, DefaultHeight, filename), "saving plot to %q", filename)
}

func toXYs(poses []spatialmath.Pose) plotter.XYs {
	xys := make(plotter.XYs, len(poses))
	for i, p := range poses {
		xys[i] = plotter.XY{X: p.X(), Y: p.Y()}
	}
	return xys
}
