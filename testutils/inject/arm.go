// Package inject provides dependency-injected doubles for tests. Set the
// function fields you need; unset functions fall through to the embedded
// value.
package inject

import (
	"context"

	"go.viam.com/pickplace/components/arm"
	"go.viam.com/pickplace/referenceframe"
)

// Arm is an injected arm.
type Arm struct {
	arm.Arm
	MoveToJointPositionsFunc func(ctx context.Context, jc referenceframe.JointConfiguration) error
	MoveToNeutralFunc        func(ctx context.Context) error
	JointPositionsFunc       func(ctx context.Context) (referenceframe.JointConfiguration, error)
}

// MoveToJointPositions calls the injected MoveToJointPositions or the real version.
func (a *Arm) MoveToJointPositions(ctx context.Context, jc referenceframe.JointConfiguration) error {
	if a.MoveToJointPositionsFunc == nil {
		return a.Arm.MoveToJointPositions(ctx, jc)
	}
	return a.MoveToJointPositionsFunc(ctx, jc)
}

// MoveToNeutral calls the injected MoveToNeutral or the real version.
func (a *Arm) MoveToNeutral(ctx context.Context) error {
	if a.MoveToNeutralFunc == nil {
		return a.Arm.MoveToNeutral(ctx)
	}
	return a.MoveToNeutralFunc(ctx)
}

// JointPositions calls the injected JointPositions or the real version.
func (a *Arm) JointPositions(ctx context.Context) (referenceframe.JointConfiguration, error) {
	if a.JointPositionsFunc == nil {
		return a.Arm.JointPositions(ctx)
	}
	return a.JointPositionsFunc(ctx)
}
