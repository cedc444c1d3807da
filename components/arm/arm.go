// Package arm defines the robot arm commanded in joint space.
package arm

import (
	"context"

	"go.viam.com/pickplace/referenceframe"
)

// Arm is a 7-DOF limb. Motion commands block until the motion completes;
// callers serialize all commands, implementations never run them
// concurrently.
type Arm interface {
	// MoveToJointPositions moves every joint to the given configuration.
	MoveToJointPositions(ctx context.Context, jc referenceframe.JointConfiguration) error

	// MoveToNeutral moves the arm to its factory neutral posture.
	MoveToNeutral(ctx context.Context) error

	// JointPositions returns the arm's current configuration.
	JointPositions(ctx context.Context) (referenceframe.JointConfiguration, error)
}
