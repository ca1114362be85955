package sim

import (
	"context"
	"math"
	"testing"
	"time"

	"go.viam.com/test"

	"go.viam.com/pathfollower/control"
	"go.viam.com/pathfollower/spatialmath"
)

func TestBase(t *testing.T) {
	ctx := context.Background()

	_, err := NewBase(Config{MaxLinear: 0, MaxAngular: 1}, spatialmath.NewZeroPose())
	test.That(t, err, test.ShouldNotBeNil)

	b, err := NewBase(DefaultConfig(), spatialmath.NewZeroPose())
	test.That(t, err, test.ShouldBeNil)

	t.Run("straight", func(t *testing.T) {
		test.That(t, b.Drive(ctx, control.Command{Speed: 1}), test.ShouldBeNil)
		for i := 0; i < 10; i++ {
			b.Step(100 * time.Millisecond)
		}
		test.That(t, b.Pose().X(), test.ShouldAlmostEqual, 0.5, 1e-9)
		test.That(t, b.Pose().Y(), test.ShouldAlmostEqual, 0, 1e-9)
	})

	t.Run("positive turn spins clockwise in place", func(t *testing.T) {
		test.That(t, b.Drive(ctx, control.Command{Speed: 1, Turn: math.Pi / 2}), test.ShouldBeNil)
		p := b.Step(time.Second)
		test.That(t, p.Theta, test.ShouldAlmostEqual, -1, 1e-9)
		test.That(t, p.X(), test.ShouldAlmostEqual, 0.5, 1e-9)
	})

	t.Run("stop holds the pose", func(t *testing.T) {
		before := b.Pose()
		test.That(t, b.Stop(ctx), test.ShouldBeNil)
		test.That(t, b.Step(time.Second), test.ShouldResemble, before)
	})

	t.Run("closed", func(t *testing.T) {
		test.That(t, b.Close(ctx), test.ShouldBeNil)
		test.That(t, b.Drive(ctx, control.Command{Speed: 1}), test.ShouldNotBeNil)
	})
}

func TestVelocity(t *testing.T) {
	b, err := NewBase(Config{MaxLinear: 2, MaxAngular: 3}, spatialmath.NewZeroPose())
	test.That(t, err, test.ShouldBeNil)

	v, omega := b.Velocity(control.Command{Speed: 0.5, Turn: -math.Pi / 6})
	test.That(t, v, test.ShouldAlmostEqual, math.Cos(math.Pi/6))
	test.That(t, omega, test.ShouldAlmostEqual, 0.75)

	v, omega = b.Velocity(control.Command{Speed: -1, Turn: -0.1})
	test.That(t, v, test.ShouldBeLessThan, 0)
	test.That(t, omega, test.ShouldBeLessThan, 0)
}
