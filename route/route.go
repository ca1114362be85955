// Package route holds recorded paths: segmentation of a raw pose stream into continuous runs,
// cursor bookkeeping, relocalization, and the plain-text path file format.
package route

import (
	"fmt"

	"github.com/samber/lo"

	"go.viam.com/pathfollower/spatialmath"
)

// Segment is a non-empty run of waypoints in which every consecutive pair is continuous.
type Segment []spatialmath.Pose

// Path is an ordered list of segments. A Path is immutable once built.
type Path struct {
	segments []Segment
}

// Cursor points at a single waypoint of a Path.
type Cursor struct {
	Segment int
	Index   int
}

// String implements fmt.Stringer.
func (c Cursor) String() string {
	return fmt.Sprintf("(%d, %d)", c.Segment, c.Index)
}

// NewPath wraps already segmented waypoints. Empty segments are dropped.
func NewPath(segments ...Segment) *Path {
	return &Path{segments: lo.Filter(segments, func(s Segment, _ int) bool { return len(s) > 0 })}
}

// Empty reports whether the path has no waypoints at all.
func (p *Path) Empty() bool {
	return len(p.segments) == 0
}

// NumSegments returns the number of segments.
func (p *Path) NumSegments() int {
	return len(p.segments)
}

// Segments returns the segments of the path. Callers must not modify them.
func (p *Path) Segments() []Segment {
	return p.segments
}

// Segment returns segment i.
func (p *Path) Segment(i int) Segment {
	return p.segments[i]
}

// NumPoints returns the total number of waypoints across all segments.
func (p *Path) NumPoints() int {
	n := 0
	for _, s := range p.segments {
		n += len(s)
	}
	return n
}

// Valid reports whether c indexes a waypoint of the path.
func (p *Path) Valid(c Cursor) bool {
	return c.Segment >= 0 && c.Segment < len(p.segments) &&
		c.Index >= 0 && c.Index < len(p.segments[c.Segment])
}

// Pose returns the waypoint under c. c must be valid.
func (p *Path) Pose(c Cursor) spatialmath.Pose {
	return p.segments[c.Segment][c.Index]
}

// Slice returns the remainder of the cursor's segment starting at the cursor.
func (p *Path) Slice(c Cursor) Segment {
	return p.segments[c.Segment][c.Index:]
}

// NextSegment returns a cursor at the start of the segment after c's. When c is on the last
// segment the cursor wraps to segment 0 if loop is set, otherwise ok is false.
func (p *Path) NextSegment(c Cursor, loop bool) (Cursor, bool) {
	if c.Segment >= len(p.segments)-1 {
		if !loop || p.Empty() {
			return c, false
		}
		return Cursor{}, true
	}
	return Cursor{Segment: c.Segment + 1}, true
}

// Flatten concatenates every segment back into one pose stream.
func (p *Path) Flatten() []spatialmath.Pose {
	return lo.Flatten(lo.Map(p.segments, func(s Segment, _ int) []spatialmath.Pose { return s }))
}

// Ordinal returns the position of c when the path is flattened.
func (p *Path) Ordinal(c Cursor) int {
	n := c.Index
	for _, s := range p.segments[:c.Segment] {
		n += len(s)
	}
	return n
}

// CursorAt is the inverse of Ordinal. Ordinals past the end clamp to the last waypoint.
func (p *Path) CursorAt(ordinal int) Cursor {
	if p.Empty() {
		return Cursor{}
	}
	if ordinal < 0 {
		ordinal = 0
	}
	for i, s := range p.segments {
		if ordinal < len(s) {
			return Cursor{Segment: i, Index: ordinal}
		}
		ordinal -= len(s)
	}
	last := len(p.segments) - 1
	return Cursor{Segment: last, Index: len(p.segments[last]) - 1}
}
