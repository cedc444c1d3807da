// Package gripper defines the parallel-jaw end effector.
package gripper

import "context"

// Gripper is the arm's end effector. Calibrate must succeed before any
// other command; a calibration failure means no gripper is attached.
type Gripper interface {
	// Calibrate homes the jaws.
	Calibrate(ctx context.Context) error

	// SetPosition commands the jaw opening as a fraction of full travel.
	// Implementations clamp the fraction to [0, 1].
	SetPosition(ctx context.Context, fraction float64) error

	// Open moves the jaws to full travel.
	Open(ctx context.Context) error
}
