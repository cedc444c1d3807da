// Package fake implements a fake gripper that records its action sequence.
package fake

import (
	"context"
	"fmt"
	"sync"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"go.viam.com/pickplace/utils"
)

// Gripper is a fake gripper. Set FailCalibration before use to exercise
// the no-gripper-attached path.
type Gripper struct {
	FailCalibration bool

	mu         sync.Mutex
	logger     golog.Logger
	calibrated bool
	fraction   float64
	actions    []string
}

// NewGripper returns a new fake gripper with the jaws at rest.
func NewGripper(logger golog.Logger) *Gripper {
	return &Gripper{logger: logger}
}

// Calibrate homes the jaws, or fails if FailCalibration is set.
func (g *Gripper) Calibrate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FailCalibration {
		return errors.New("no gripper detected on limb")
	}
	g.calibrated = true
	g.actions = append(g.actions, "calibrate")
	g.logger.Debug("gripper calibrated")
	return nil
}

// SetPosition moves the jaws to the given fraction of full travel.
func (g *Gripper) SetPosition(ctx context.Context, fraction float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.calibrated {
		return errors.New("gripper not calibrated")
	}
	g.fraction = utils.Clamp(fraction, 0, 1)
	g.actions = append(g.actions, fmt.Sprintf("set:%.2f", g.fraction))
	g.logger.Debugw("gripper set", "fraction", g.fraction)
	return nil
}

// Open moves the jaws to full travel.
func (g *Gripper) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.calibrated {
		return errors.New("gripper not calibrated")
	}
	g.fraction = 1
	g.actions = append(g.actions, "open")
	g.logger.Debug("gripper opened")
	return nil
}

// Fraction returns the current jaw opening.
func (g *Gripper) Fraction() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fraction
}

// Actions returns the command sequence so far.
func (g *Gripper) Actions() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.actions))
	copy(out, g.actions)
	return out
}
