// Package fake implements an in-process inverse kinematics service for
// demos and tests.
package fake

import (
	"context"
	"math"
	"sync"

	"github.com/edaniels/golog"

	"go.viam.com/pickplace/ik"
	"go.viam.com/pickplace/referenceframe"
)

// Service is a fake solver. It is always ready and derives a deterministic
// configuration from each target pose. A z floor can be configured to make
// low poses unreachable.
type Service struct {
	mu       sync.Mutex
	logger   golog.Logger
	solves   int
	floorZ   float64
	hasFloor bool
}

// NewService returns a new fake solver.
func NewService(logger golog.Logger) *Service {
	return &Service{logger: logger}
}

// RefuseBelowZ makes the solver report no solution for poses with a z
// coordinate below the given floor.
func (s *Service) RefuseBelowZ(z float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.floorZ = z
	s.hasFloor = true
}

// WaitForReady returns immediately; the fake is always ready.
func (s *Service) WaitForReady(ctx context.Context) error {
	return ctx.Err()
}

// Solve derives a configuration from the target pose. The base yaw tracks
// the target bearing and the inner pitch joints track radius and height;
// the remaining joints keep their seed values.
func (s *Service) Solve(ctx context.Context, req *ik.Request) (*ik.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.solves++

	if s.hasFloor && req.Point.Z < s.floorZ {
		s.logger.Debugw("pose below solver floor", "z", req.Point.Z, "floor", s.floorZ)
		return &ik.Response{ResultCode: 0}, nil
	}

	jc, err := req.Seed()
	if err != nil {
		return nil, err
	}
	jc[0] = math.Atan2(req.Point.Y, req.Point.X)
	jc[1] = -(req.Point.Z - 0.3)
	jc[3] = math.Hypot(req.Point.X, req.Point.Y)
	jc[5] = req.Point.Z

	return &ik.Response{
		ResultCode: 1,
		Solutions: []ik.Solution{{
			JointNames:     referenceframe.JointNames(),
			JointPositions: jc.Floats(),
		}},
	}, nil
}

// Solves returns how many solve calls the service has handled.
func (s *Service) Solves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.solves
}
