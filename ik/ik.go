// Package ik is the boundary to the external inverse kinematics solver.
// It owns the request and response shapes and the Resolver that drives the
// exchange; transports (ROS service, RPC, in-process fake) live behind the
// Service interface.
package ik

import (
	"context"
	"time"

	"github.com/golang/geo/r3"

	"go.viam.com/pickplace/referenceframe"
	"go.viam.com/pickplace/spatialmath"
)

// DefaultServicePath is where the Sawyer-series position kinematics node
// registers its solver.
const DefaultServicePath = "ExternalTools/right/PositionKinematicsNode/IKService"

// DefaultTipLink is the end effector link solutions are computed for.
const DefaultTipLink = "right_hand"

// BaseFrame is the frame all solve targets are expressed in.
const BaseFrame = "base"

// SeedMode tells the solver where to start its search.
type SeedMode int

// The solver's seed modes, in wire order.
const (
	SeedAuto SeedMode = iota
	SeedUser
	SeedCurrent
)

func (m SeedMode) String() string {
	switch m {
	case SeedAuto:
		return "auto"
	case SeedUser:
		return "user"
	case SeedCurrent:
		return "current"
	default:
		return "unknown"
	}
}

// Request asks the solver for a joint configuration that reaches a target
// pose. The seed travels as parallel name and position arrays, the shape
// joint states take on the wire. Stamp marks when the request was built;
// the solver does not act on it.
type Request struct {
	Stamp         time.Time               `json:"stamp"`
	FrameID       string                  `json:"frame_id"`
	Point         r3.Vector               `json:"point"`
	Orientation   spatialmath.Orientation `json:"orientation"`
	TipLink       string                  `json:"tip_link"`
	SeedMode      SeedMode                `json:"seed_mode"`
	SeedNames     []string                `json:"seed_names"`
	SeedPositions []float64               `json:"seed_positions"`
}

// NewRequest builds a user-seeded request for the given pose in the base
// frame, stamped with the current time.
func NewRequest(pose spatialmath.Pose, tipLink string, seed referenceframe.JointConfiguration) *Request {
	return &Request{
		Stamp:         time.Now(),
		FrameID:       BaseFrame,
		Point:         pose.Point(),
		Orientation:   pose.Orientation(),
		TipLink:       tipLink,
		SeedMode:      SeedUser,
		SeedNames:     referenceframe.JointNames(),
		SeedPositions: seed.Floats(),
	}
}

// Pose returns the request's target pose.
func (req *Request) Pose() spatialmath.Pose {
	return spatialmath.NewPose(req.Point, req.Orientation)
}

// Seed returns the request's seed configuration.
func (req *Request) Seed() (referenceframe.JointConfiguration, error) {
	return referenceframe.NewJointConfigurationFromPairs(req.SeedNames, req.SeedPositions)
}

// Solution is one joint configuration returned by the solver, as parallel
// name and position arrays in solver order.
type Solution struct {
	JointNames     []string  `json:"joint_names"`
	JointPositions []float64 `json:"joint_positions"`
}

// JointConfiguration maps the solution pairs onto the arm's kinematic
// order.
func (s Solution) JointConfiguration() (referenceframe.JointConfiguration, error) {
	return referenceframe.NewJointConfigurationFromPairs(s.JointNames, s.JointPositions)
}

// Response carries the solver's verdict. A ResultCode greater than zero
// means Solutions holds at least one valid configuration.
type Response struct {
	ResultCode int        `json:"result_code"`
	Solutions  []Solution `json:"solutions"`
}

// Service is a connection to an inverse kinematics solver.
type Service interface {
	// WaitForReady blocks until the solver accepts requests or ctx ends.
	WaitForReady(ctx context.Context) error
	// Solve runs one query against the solver.
	Solve(ctx context.Context, req *Request) (*Response, error)
}
