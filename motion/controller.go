package motion

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"go.viam.com/pickplace/components/arm"
	"go.viam.com/pickplace/components/gripper"
	"go.viam.com/pickplace/ik"
	"go.viam.com/pickplace/referenceframe"
)

// DefaultSettleDuration is the pause after each gripper action, giving the
// jaws and the object time to settle before the next motion.
const DefaultSettleDuration = time.Second

// FailurePolicy bounds how many waypoints a transfer may skip before it
// aborts. Zero values mean unbounded: every unreachable waypoint is
// skipped and the rest of the transfer continues.
type FailurePolicy struct {
	MaxFailures            int
	MaxConsecutiveFailures int
}

// exceeded reports whether the given failure counts pass the policy's
// bounds.
func (p FailurePolicy) exceeded(total, consecutive int) bool {
	if p.MaxFailures > 0 && total > p.MaxFailures {
		return true
	}
	if p.MaxConsecutiveFailures > 0 && consecutive > p.MaxConsecutiveFailures {
		return true
	}
	return false
}

// Result summarizes one executed transfer: which waypoints the arm reached
// and which were skipped for lack of a kinematic solution.
type Result struct {
	Moved   []State
	Skipped []State
}

// Controller executes transfer plans against an arm and a gripper,
// resolving each waypoint through the ik solver. Execution is strictly
// sequential on the calling goroutine.
type Controller struct {
	resolver *ik.Resolver
	logger   golog.Logger
	clock    clock.Clock
	settle   time.Duration
	policy   FailurePolicy
}

// Option configures a Controller.
type Option func(*Controller)

// WithSettleDuration changes the pause after gripper actions.
func WithSettleDuration(d time.Duration) Option {
	return func(c *Controller) {
		c.settle = d
	}
}

// WithClock injects the clock used for settle pauses.
func WithClock(clk clock.Clock) Option {
	return func(c *Controller) {
		c.clock = clk
	}
}

// WithFailurePolicy bounds how many waypoints a transfer may skip.
func WithFailurePolicy(policy FailurePolicy) Option {
	return func(c *Controller) {
		c.policy = policy
	}
}

// NewController returns a controller for the given solver.
func NewController(resolver *ik.Resolver, logger golog.Logger, opts ...Option) *Controller {
	c := &Controller{
		resolver: resolver,
		logger:   logger,
		clock:    clock.New(),
		settle:   DefaultSettleDuration,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute runs one transfer. Each waypoint is resolved with the previous
// valid solution as the seed; the first seed is the task's explicit seed
// when it has one, otherwise the arm's current configuration. Waypoints
// the solver cannot reach are skipped under the failure policy, leaving
// the seed unchanged. Arm and gripper command failures abort immediately.
func (c *Controller) Execute(ctx context.Context, task Task, a arm.Arm, g gripper.Gripper) (Result, error) {
	var res Result
	if err := task.Validate(); err != nil {
		return res, err
	}
	plan := NewTransferPlan(task)

	var seed referenceframe.JointConfiguration
	if task.Seed != nil {
		seed = *task.Seed
	} else {
		var err error
		seed, err = a.JointPositions(ctx)
		if err != nil {
			return res, errors.Wrap(err, "could not read the starting joint positions")
		}
	}

	var failures, consecutive int
	for _, step := range plan.Steps {
		if err := ctx.Err(); err != nil {
			return res, errors.Wrapf(err, "transfer canceled in state %s", step.State)
		}
		c.logger.Debugw("entering state", "state", step.State.String())

		solution, err := c.resolver.Resolve(ctx, step.Pose, seed)
		if err != nil {
			failures++
			consecutive++
			res.Skipped = append(res.Skipped, step.State)
			c.logger.Warnw("skipping waypoint, no usable ik solution",
				"state", step.State.String(), "error", err.Error())
			if c.policy.exceeded(failures, consecutive) {
				return res, errors.Errorf("aborting transfer after %d skipped waypoints (states %v)", failures, res.Skipped)
			}
			continue
		}
		consecutive = 0

		if err := a.MoveToJointPositions(ctx, solution); err != nil {
			return res, errors.Wrapf(err, "arm move failed in state %s", step.State)
		}
		seed = solution
		res.Moved = append(res.Moved, step.State)

		if step.Action != GripperNone {
			if err := c.runGripperAction(ctx, g, step); err != nil {
				return res, err
			}
		}
	}

	c.logger.Debugw("transfer complete",
		"state", StateDone.String(),
		"moved", len(res.Moved),
		"skipped", len(res.Skipped),
	)
	return res, nil
}

// runGripperAction fires the step's jaw command and then waits out the
// settle pause.
func (c *Controller) runGripperAction(ctx context.Context, g gripper.Gripper, step Step) error {
	switch step.Action {
	case GripperClose:
		c.logger.Debugw("entering state", "state", StateClose.String())
		if err := g.SetPosition(ctx, step.Opening); err != nil {
			return errors.Wrapf(err, "gripper close failed in state %s", step.State)
		}
	case GripperOpen:
		c.logger.Debugw("entering state", "state", StateOpen.String())
		if err := g.Open(ctx); err != nil {
			return errors.Wrapf(err, "gripper open failed in state %s", step.State)
		}
	case GripperNone:
		return nil
	}

	select {
	case <-ctx.Done():
		return errors.Wrapf(ctx.Err(), "transfer canceled settling after state %s", step.State)
	case <-c.clock.After(c.settle):
	}
	return nil
}
