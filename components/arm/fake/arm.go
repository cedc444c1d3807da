// Package fake implements a fake arm that tracks the configurations it is
// commanded to.
package fake

import (
	"context"
	"sync"

	"github.com/edaniels/golog"

	"go.viam.com/pickplace/referenceframe"
)

// neutralConfiguration is the Sawyer factory neutral posture.
var neutralConfiguration = referenceframe.JointConfiguration{0, -1.18, 0, 2.18, 0, 0.57, 3.3161}

// NeutralConfiguration returns the posture MoveToNeutral moves to.
func NeutralConfiguration() referenceframe.JointConfiguration {
	return neutralConfiguration
}

// Arm is a fake arm that can simply read and set joint positions.
type Arm struct {
	mu           sync.Mutex
	logger       golog.Logger
	joints       referenceframe.JointConfiguration
	commanded    []referenceframe.JointConfiguration
	neutralMoves int
}

// NewArm returns a new fake arm at the neutral posture.
func NewArm(logger golog.Logger) *Arm {
	return &Arm{logger: logger, joints: neutralConfiguration}
}

// MoveToJointPositions sets the joints and records the command.
func (a *Arm) MoveToJointPositions(ctx context.Context, jc referenceframe.JointConfiguration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.joints = jc
	a.commanded = append(a.commanded, jc)
	a.logger.Debugw("arm moved", "joints", jc.Named())
	return nil
}

// MoveToNeutral sets the joints to the neutral posture.
func (a *Arm) MoveToNeutral(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.joints = neutralConfiguration
	a.neutralMoves++
	a.logger.Debug("arm moved to neutral")
	return nil
}

// JointPositions returns the current configuration.
func (a *Arm) JointPositions(ctx context.Context) (referenceframe.JointConfiguration, error) {
	if err := ctx.Err(); err != nil {
		return referenceframe.JointConfiguration{}, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.joints, nil
}

// Commanded returns every configuration passed to MoveToJointPositions, in
// order.
func (a *Arm) Commanded() []referenceframe.JointConfiguration {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]referenceframe.JointConfiguration, len(a.commanded))
	copy(out, a.commanded)
	return out
}

// NeutralMoves returns how many times MoveToNeutral was called.
func (a *Arm) NeutralMoves() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.neutralMoves
}
