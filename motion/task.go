// Package motion plans and executes pick-and-place transfers: deriving the
// fixed waypoint sequence for a task, resolving waypoints to joint
// configurations through the ik solver, and commanding the arm and gripper
// in order. Everything here is strictly sequential; no goroutines are
// spawned.
package motion

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/pickplace/referenceframe"
	"go.viam.com/pickplace/spatialmath"
)

const (
	// DefaultClearance is the vertical offset in meters for the approach,
	// lift, and retreat waypoints.
	DefaultClearance = 0.20
	// DefaultGripperOpening is the jaw fraction used to grasp.
	DefaultGripperOpening = 0.7
)

// DefaultOrientation returns the canonical grasp orientation, the gripper
// pointing straight down.
func DefaultOrientation() spatialmath.Orientation {
	return spatialmath.NewOrientationFromAxisAngle(math.Pi, r3.Vector{Y: 1})
}

// Task describes one object transfer: where to grasp, where to release,
// how high to stage the motion above both, and how far to close the jaws.
// Positions are in the arm base frame; the z of each position is the
// grasp or release height itself. The pickup orientation is held through
// approach, grasp, and lift, the place orientation through transfer,
// descend, and retreat.
type Task struct {
	PickupPosition    r3.Vector
	PlacePosition     r3.Vector
	Clearance         float64
	GripperOpening    float64
	PickupOrientation spatialmath.Orientation
	PlaceOrientation  spatialmath.Orientation
	// Seed, when set, starts the task's first solve instead of the arm's
	// current configuration.
	Seed *referenceframe.JointConfiguration
}

// TaskOption configures a Task.
type TaskOption func(*Task)

// WithClearance overrides the vertical staging offset.
func WithClearance(clearance float64) TaskOption {
	return func(t *Task) {
		t.Clearance = clearance
	}
}

// WithGripperOpening overrides the grasp jaw fraction.
func WithGripperOpening(fraction float64) TaskOption {
	return func(t *Task) {
		t.GripperOpening = fraction
	}
}

// WithOrientation overrides the tool orientation at both ends of the
// transfer.
func WithOrientation(o spatialmath.Orientation) TaskOption {
	return func(t *Task) {
		t.PickupOrientation = o
		t.PlaceOrientation = o
	}
}

// WithPickupOrientation overrides the tool orientation held through
// approach, grasp, and lift.
func WithPickupOrientation(o spatialmath.Orientation) TaskOption {
	return func(t *Task) {
		t.PickupOrientation = o
	}
}

// WithPlaceOrientation overrides the tool orientation held through
// transfer, descend, and retreat.
func WithPlaceOrientation(o spatialmath.Orientation) TaskOption {
	return func(t *Task) {
		t.PlaceOrientation = o
	}
}

// WithSeed gives the task an explicit starting configuration for its
// first solve instead of reading the arm.
func WithSeed(jc referenceframe.JointConfiguration) TaskOption {
	return func(t *Task) {
		t.Seed = &jc
	}
}

// NewTask builds a transfer task with the canonical defaults.
func NewTask(pickup, place r3.Vector, opts ...TaskOption) Task {
	t := Task{
		PickupPosition:    pickup,
		PlacePosition:     place,
		Clearance:         DefaultClearance,
		GripperOpening:    DefaultGripperOpening,
		PickupOrientation: DefaultOrientation(),
		PlaceOrientation:  DefaultOrientation(),
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// Validate checks the task's parameters.
func (t Task) Validate() error {
	if t.Clearance <= 0 {
		return errors.Errorf("clearance must be positive, got %f", t.Clearance)
	}
	if t.GripperOpening < 0 || t.GripperOpening > 1 {
		return errors.Errorf("gripper opening must be in [0, 1], got %f", t.GripperOpening)
	}
	return nil
}
