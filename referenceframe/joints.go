// Package referenceframe describes the arm's joint space. The arm is a
// 7-DOF Sawyer-class right limb with a fixed, ordered set of revolute
// joints; a JointConfiguration is one angle for every joint, always
// complete, indexed by the static kinematic order.
package referenceframe

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/pickplace/utils"
)

// NumJoints is the degrees of freedom of the arm.
const NumJoints = 7

// jointNames is the kinematic order of the limb's joints. All name-keyed
// boundary data is mapped onto this order.
var jointNames = [NumJoints]string{
	"right_j0",
	"right_j1",
	"right_j2",
	"right_j3",
	"right_j4",
	"right_j5",
	"right_j6",
}

// JointNames returns the arm's joint names in kinematic order.
func JointNames() []string {
	names := make([]string, NumJoints)
	copy(names, jointNames[:])
	return names
}

// JointIndex returns the position of the named joint in the kinematic
// order, or false if the name is not one of the arm's joints.
func JointIndex(name string) (int, bool) {
	for i, n := range jointNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// JointConfiguration holds one angle in radians per arm joint, in
// kinematic order. There is no partial state; the zero value is a valid,
// all-zeros configuration.
type JointConfiguration [NumJoints]float64

// NewJointConfigurationFromFloats builds a configuration from angles
// already in kinematic order.
func NewJointConfigurationFromFloats(values []float64) (JointConfiguration, error) {
	var jc JointConfiguration
	if len(values) != NumJoints {
		return jc, errors.Errorf("need %d joint angles, got %d", NumJoints, len(values))
	}
	copy(jc[:], values)
	return jc, nil
}

// NewJointConfigurationFromNamed builds a configuration from a name-keyed
// map. Every joint must be present; unknown names are rejected as corrupt
// boundary data.
func NewJointConfigurationFromNamed(named map[string]float64) (JointConfiguration, error) {
	var jc JointConfiguration
	if len(named) != NumJoints {
		return jc, errors.Errorf("need %d named joint angles, got %d", NumJoints, len(named))
	}
	for name, value := range named {
		idx, ok := JointIndex(name)
		if !ok {
			return jc, errors.Errorf("unknown joint name %q", name)
		}
		jc[idx] = value
	}
	return jc, nil
}

// NewJointConfigurationFromPairs builds a configuration from parallel
// name and angle slices, the shape joint states arrive in over the wire.
// Pair order is arbitrary; the result is in kinematic order. Length
// mismatches, duplicates, and unknown names are errors.
func NewJointConfigurationFromPairs(names []string, positions []float64) (JointConfiguration, error) {
	var jc JointConfiguration
	if len(names) != len(positions) {
		return jc, errors.Errorf("got %d joint names but %d positions", len(names), len(positions))
	}
	if len(names) != NumJoints {
		return jc, errors.Errorf("need %d joints, got %d", NumJoints, len(names))
	}
	var seen [NumJoints]bool
	for i, name := range names {
		idx, ok := JointIndex(name)
		if !ok {
			return jc, errors.Errorf("unknown joint name %q", name)
		}
		if seen[idx] {
			return jc, errors.Errorf("duplicate joint name %q", name)
		}
		seen[idx] = true
		jc[idx] = positions[i]
	}
	return jc, nil
}

// Floats returns the angles as a fresh slice in kinematic order.
func (jc JointConfiguration) Floats() []float64 {
	values := make([]float64, NumJoints)
	copy(values, jc[:])
	return values
}

// Named returns the angles keyed by joint name, for boundaries that speak
// name/value pairs.
func (jc JointConfiguration) Named() map[string]float64 {
	named := make(map[string]float64, NumJoints)
	for i, name := range jointNames {
		named[name] = jc[i]
	}
	return named
}

// AlmostEqual reports whether every joint of the two configurations is
// within tol radians.
func (jc JointConfiguration) AlmostEqual(other JointConfiguration, tol float64) bool {
	for i := range jc {
		if !utils.Float64AlmostEqual(jc[i], other[i], tol) {
			return false
		}
	}
	return true
}

// JointConfigurationDistance returns the L2 distance between two
// configurations in joint space.
func JointConfigurationDistance(a, b JointConfiguration) float64 {
	diff := make([]float64, NumJoints)
	for i := range a {
		diff[i] = a[i] - b[i]
	}
	return floats.Norm(diff, 2)
}
