// Package testutils contains helpers for tests that need stored paths.
package testutils

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/pathfollower/repository"
	"go.viam.com/pathfollower/spatialmath"
)

// StraightLine returns n waypoints spaced along the x axis starting at the origin, all facing +x.
func StraightLine(n int, spacing float64) []spatialmath.Pose {
	poses := make([]spatialmath.Pose, n)
	for i := range poses {
		poses[i] = spatialmath.NewPose(float64(i)*spacing, 0, 0)
	}
	return poses
}

// NewRepository creates a repository in a temporary directory holding the given paths.
func NewRepository(t *testing.T, paths map[string][]spatialmath.Pose) *repository.Repository {
	t.Helper()
	repo, err := repository.New(t.TempDir())
	test.That(t, err, test.ShouldBeNil)
	for name, poses := range paths {
		test.That(t, repo.Append(name, poses), test.ShouldBeNil)
	}
	return repo
}
