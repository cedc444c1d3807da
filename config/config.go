// Package config loads transfer scripts: JSON5 files listing the objects
// to move with their grasp and release positions, read with environment
// variable substitution.
package config

import (
	"fmt"
	"io"

	"github.com/a8m/envsubst"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/yosuke-furukawa/json5/encoding/json5"
	goutils "go.viam.com/utils"

	"go.viam.com/pickplace/motion"
	"go.viam.com/pickplace/spatialmath"
	"go.viam.com/pickplace/utils"
)

// Vec3 is a point in the arm base frame, in meters.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) vector() r3.Vector {
	return r3.Vector(v)
}

// AxisAngle is an orientation written as a rotation axis and an angle in
// degrees.
type AxisAngle struct {
	Axis     Vec3    `json:"axis"`
	ThetaDeg float64 `json:"theta_deg"`
}

func (aa AxisAngle) orientation() spatialmath.Orientation {
	return spatialmath.NewOrientationFromAxisAngle(utils.DegToRad(aa.ThetaDeg), aa.Axis.vector())
}

// Defaults are script-wide settings for objects that do not override
// them.
type Defaults struct {
	ClearanceM     float64    `json:"clearance_m"`
	GripperOpening float64    `json:"gripper_opening"`
	Orientation    *AxisAngle `json:"orientation,omitempty"`
}

// FailurePolicy is the script form of motion.FailurePolicy.
type FailurePolicy struct {
	MaxFailures    int `json:"max_failures"`
	MaxConsecutive int `json:"max_consecutive"`
}

// Object is one item to transfer.
type Object struct {
	Name           string     `json:"name"`
	Pickup         Vec3       `json:"pickup"`
	Place          Vec3       `json:"place"`
	ClearanceM     *float64   `json:"clearance_m,omitempty"`
	GripperOpening *float64   `json:"gripper_opening,omitempty"`
	Orientation    *AxisAngle `json:"orientation,omitempty"`
}

// Script is a parsed transfer script.
type Script struct {
	Defaults      Defaults      `json:"defaults"`
	FailurePolicy FailurePolicy `json:"failure_policy"`
	Objects       []Object      `json:"objects"`
}

// Read loads and validates a script file, substituting environment
// variables first.
func Read(filePath string, logger golog.Logger) (*Script, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read script %q", filePath)
	}
	return fromBytes(filePath, buf, logger)
}

// FromReader parses and validates a script from a reader.
func FromReader(r io.Reader, logger golog.Logger) (*Script, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not read script")
	}
	buf, err := envsubst.Bytes(raw)
	if err != nil {
		return nil, errors.Wrap(err, "could not substitute environment variables")
	}
	return fromBytes("script", buf, logger)
}

func fromBytes(path string, buf []byte, logger golog.Logger) (*Script, error) {
	script := &Script{
		Defaults: Defaults{
			ClearanceM:     motion.DefaultClearance,
			GripperOpening: motion.DefaultGripperOpening,
		},
	}
	if err := json5.Unmarshal(buf, script); err != nil {
		return nil, errors.Wrap(err, "could not parse script")
	}
	if err := script.Validate(path); err != nil {
		return nil, err
	}
	logger.Debugw("script loaded", "objects", len(script.Objects))
	return script, nil
}

// Validate ensures all parts of the script are valid.
func (s *Script) Validate(path string) error {
	if len(s.Objects) == 0 {
		return goutils.NewConfigValidationError(path, errors.New("script has no objects"))
	}
	if err := validateClearance(s.Defaults.ClearanceM); err != nil {
		return goutils.NewConfigValidationError(fmt.Sprintf("%s.defaults", path), err)
	}
	if err := validateOpening(s.Defaults.GripperOpening); err != nil {
		return goutils.NewConfigValidationError(fmt.Sprintf("%s.defaults", path), err)
	}
	if err := validateOrientation(s.Defaults.Orientation); err != nil {
		return goutils.NewConfigValidationError(fmt.Sprintf("%s.defaults", path), err)
	}
	if s.FailurePolicy.MaxFailures < 0 || s.FailurePolicy.MaxConsecutive < 0 {
		return goutils.NewConfigValidationError(fmt.Sprintf("%s.failure_policy", path),
			errors.New("failure bounds cannot be negative"))
	}

	seen := map[string]bool{}
	for i, obj := range s.Objects {
		objPath := fmt.Sprintf("%s.objects.%d", path, i)
		if obj.Name == "" {
			return goutils.NewConfigValidationFieldRequiredError(objPath, "name")
		}
		if seen[obj.Name] {
			return goutils.NewConfigValidationError(objPath, errors.Errorf("duplicate object name %q", obj.Name))
		}
		seen[obj.Name] = true
		if obj.ClearanceM != nil {
			if err := validateClearance(*obj.ClearanceM); err != nil {
				return goutils.NewConfigValidationError(objPath, err)
			}
		}
		if obj.GripperOpening != nil {
			if err := validateOpening(*obj.GripperOpening); err != nil {
				return goutils.NewConfigValidationError(objPath, err)
			}
		}
		if err := validateOrientation(obj.Orientation); err != nil {
			return goutils.NewConfigValidationError(objPath, err)
		}
	}
	return nil
}

func validateClearance(clearance float64) error {
	if clearance <= 0 {
		return errors.Errorf("clearance_m must be positive, got %f", clearance)
	}
	return nil
}

func validateOpening(fraction float64) error {
	if fraction < 0 || fraction > 1 {
		return errors.Errorf("gripper_opening must be in [0, 1], got %f", fraction)
	}
	return nil
}

func validateOrientation(aa *AxisAngle) error {
	if aa == nil {
		return nil
	}
	if aa.Axis.vector().Norm() == 0 {
		return errors.New("orientation axis cannot be zero")
	}
	return nil
}

// Tasks converts the script's objects into motion tasks, applying the
// script defaults. The script must have passed Validate; Read and
// FromReader always validate.
func (s *Script) Tasks() []motion.Task {
	tasks := make([]motion.Task, 0, len(s.Objects))
	for _, obj := range s.Objects {
		opts := []motion.TaskOption{
			motion.WithClearance(valueOr(obj.ClearanceM, s.Defaults.ClearanceM)),
			motion.WithGripperOpening(valueOr(obj.GripperOpening, s.Defaults.GripperOpening)),
		}
		if aa := firstAxisAngle(obj.Orientation, s.Defaults.Orientation); aa != nil {
			opts = append(opts, motion.WithOrientation(aa.orientation()))
		}
		tasks = append(tasks, motion.NewTask(obj.Pickup.vector(), obj.Place.vector(), opts...))
	}
	return tasks
}

// MotionPolicy returns the script's failure policy in motion form.
func (s *Script) MotionPolicy() motion.FailurePolicy {
	return motion.FailurePolicy{
		MaxFailures:            s.FailurePolicy.MaxFailures,
		MaxConsecutiveFailures: s.FailurePolicy.MaxConsecutive,
	}
}

func valueOr(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}

func firstAxisAngle(a, b *AxisAngle) *AxisAngle {
	if a != nil {
		return a
	}
	return b
}
