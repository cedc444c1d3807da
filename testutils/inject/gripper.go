package inject

import (
	"context"

	"go.viam.com/pickplace/components/gripper"
)

// Gripper is an injected gripper.
type Gripper struct {
	gripper.Gripper
	CalibrateFunc   func(ctx context.Context) error
	SetPositionFunc func(ctx context.Context, fraction float64) error
	OpenFunc        func(ctx context.Context) error
}

// Calibrate calls the injected Calibrate or the real version.
func (g *Gripper) Calibrate(ctx context.Context) error {
	if g.CalibrateFunc == nil {
		return g.Gripper.Calibrate(ctx)
	}
	return g.CalibrateFunc(ctx)
}

// SetPosition calls the injected SetPosition or the real version.
func (g *Gripper) SetPosition(ctx context.Context, fraction float64) error {
	if g.SetPositionFunc == nil {
		return g.Gripper.SetPosition(ctx, fraction)
	}
	return g.SetPositionFunc(ctx, fraction)
}

// Open calls the injected Open or the real version.
func (g *Gripper) Open(ctx context.Context) error {
	if g.OpenFunc == nil {
		return g.Gripper.Open(ctx)
	}
	return g.OpenFunc(ctx)
}
