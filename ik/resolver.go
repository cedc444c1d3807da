package ik

import (
	"context"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"go.viam.com/pickplace/referenceframe"
	"go.viam.com/pickplace/spatialmath"
)

// DefaultReadyTimeout bounds how long a solve waits for the solver to
// become available.
const DefaultReadyTimeout = 5 * time.Second

var (
	// ErrServiceUnavailable means the solver did not become ready in time.
	ErrServiceUnavailable = errors.New("ik service unavailable")
	// ErrNoSolution means the solver found no configuration for the pose.
	ErrNoSolution = errors.New("no kinematic solution for pose")
	// ErrCommunication means the exchange with the solver failed or the
	// response was malformed.
	ErrCommunication = errors.New("ik service communication fault")
)

// Resolver turns Cartesian poses into joint configurations through a
// solver Service. All of its failures are per-pose; callers decide whether
// to skip the pose or abort the run.
type Resolver struct {
	service      Service
	logger       golog.Logger
	readyTimeout time.Duration
	tipLink      string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithReadyTimeout changes how long Resolve waits for solver availability.
func WithReadyTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.readyTimeout = d
	}
}

// WithTipLink changes which end effector link solutions are computed for.
func WithTipLink(link string) ResolverOption {
	return func(r *Resolver) {
		r.tipLink = link
	}
}

// NewResolver wraps a solver Service.
func NewResolver(service Service, logger golog.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		service:      service,
		logger:       logger,
		readyTimeout: DefaultReadyTimeout,
		tipLink:      DefaultTipLink,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve asks the solver for a joint configuration reaching the pose,
// seeding the search with the given configuration. Failures map onto the
// package sentinels and can be tested with errors.Is.
func (r *Resolver) Resolve(
	ctx context.Context,
	pose spatialmath.Pose,
	seed referenceframe.JointConfiguration,
) (referenceframe.JointConfiguration, error) {
	var zero referenceframe.JointConfiguration

	readyCtx, cancel := context.WithTimeout(ctx, r.readyTimeout)
	defer cancel()
	if err := r.service.WaitForReady(readyCtx); err != nil {
		return zero, errors.Wrapf(ErrServiceUnavailable, "solver not ready within %s: %s", r.readyTimeout, err)
	}

	req := NewRequest(pose, r.tipLink, seed)
	resp, err := r.service.Solve(ctx, req)
	if err != nil {
		return zero, errors.Wrapf(ErrCommunication, "solve call failed: %s", err)
	}
	if resp == nil {
		return zero, errors.Wrap(ErrCommunication, "solver returned no response")
	}
	if resp.ResultCode <= 0 {
		return zero, errors.Wrapf(ErrNoSolution, "result code %d", resp.ResultCode)
	}
	if len(resp.Solutions) == 0 {
		return zero, errors.Wrapf(ErrCommunication, "result code %d but response has no solutions", resp.ResultCode)
	}
	solution, err := resp.Solutions[0].JointConfiguration()
	if err != nil {
		return zero, errors.Wrapf(ErrCommunication, "malformed solution: %s", err)
	}

	r.logger.Debugw("ik solve succeeded",
		"seed_mode", req.SeedMode.String(),
		"result_code", resp.ResultCode,
		"seed_distance", referenceframe.JointConfigurationDistance(seed, solution),
	)
	return solution, nil
}
