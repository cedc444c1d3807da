package motion

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/pickplace/components/arm"
	"go.viam.com/pickplace/components/gripper"
)

// Runner drives a whole session around the controller: gripper
// calibration, the neutral moves bracketing the work, the pre-open, and
// one transfer per task.
type Runner struct {
	controller *Controller
	arm        arm.Arm
	gripper    gripper.Gripper
	logger     golog.Logger
}

// NewRunner returns a runner over the given hardware.
func NewRunner(controller *Controller, a arm.Arm, g gripper.Gripper, logger golog.Logger) *Runner {
	return &Runner{
		controller: controller,
		arm:        a,
		gripper:    g,
		logger:     logger,
	}
}

// Run executes every task in order. A gripper calibration failure is
// fatal and returns immediately; per-task failures are collected and do
// not stop later tasks.
func (r *Runner) Run(ctx context.Context, tasks []Task) error {
	if err := r.gripper.Calibrate(ctx); err != nil {
		return errors.Wrap(err, "could not detect a gripper on the limb")
	}
	if err := r.arm.MoveToNeutral(ctx); err != nil {
		return errors.Wrap(err, "could not move the arm to neutral")
	}
	if err := r.gripper.Open(ctx); err != nil {
		return errors.Wrap(err, "could not open the gripper")
	}

	var errs error
	for i, task := range tasks {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		result, err := r.controller.Execute(ctx, task, r.arm, r.gripper)
		if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "transfer %d", i))
			continue
		}
		r.logger.Infow("transfer finished",
			"task", i,
			"moved", len(result.Moved),
			"skipped", len(result.Skipped),
		)
	}

	if err := r.arm.MoveToNeutral(ctx); err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "could not return the arm to neutral"))
	}
	return errs
}
