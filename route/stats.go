package route

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/pathfollower/spatialmath"
)

// SegmentStats summarises one segment.
type SegmentStats struct {
	Points int
	Length float64
}

// Stats summarises a segmented path.
type Stats struct {
	Segments       []SegmentStats
	Points         int
	Length         float64
	MeanSpacing    float64
	MedianSpacing  float64
	SpacingStdDev  float64
	LongestSegment int
}

// SegmentLength returns the polyline length of s.
func SegmentLength(s Segment) float64 {
	if len(s) < 2 {
		return 0
	}
	steps := make([]float64, len(s)-1)
	for i := range steps {
		steps[i] = spatialmath.Distance(s[i], s[i+1])
	}
	return floats.Sum(steps)
}

// ComputeStats walks every segment of p.
func ComputeStats(p *Path) Stats {
	var (
		out     Stats
		spacing stats.Float64Data
		lengths = make([]float64, 0, p.NumSegments())
	)
	for _, s := range p.Segments() {
		for i := 1; i < len(s); i++ {
			spacing = append(spacing, spatialmath.Distance(s[i-1], s[i]))
		}
		length := SegmentLength(s)
		lengths = append(lengths, length)
		out.Segments = append(out.Segments, SegmentStats{Points: len(s), Length: length})
		out.Points += len(s)
	}
	if len(lengths) > 0 {
		out.Length = floats.Sum(lengths)
		out.LongestSegment = floats.MaxIdx(lengths)
	}
	if len(spacing) > 0 {
		// errors only signal empty input, which is excluded above.
		out.MeanSpacing, _ = spacing.Mean()
		out.MedianSpacing, _ = spacing.Median()
		out.SpacingStdDev, _ = spacing.StandardDeviation()
	}
	return out
}
