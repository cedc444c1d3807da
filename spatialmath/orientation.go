// Package spatialmath defines the geometric primitives used to describe
// where the arm's tool is and how it is oriented: positions, orientations,
// and poses in the arm base frame. Positions are in meters with x forward,
// y left, and z up.
package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Orientation is a rotation in 3D space, stored as a unit quaternion.
// The zero value is not valid; use NewZeroOrientation for the identity.
type Orientation struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NewZeroOrientation returns an orientation which signifies no rotation.
func NewZeroOrientation() Orientation {
	return Orientation{W: 1}
}

// NewOrientationFromQuaternion returns the orientation for the given
// quaternion, normalized to unit length. A zero quaternion yields the
// identity orientation.
func NewOrientationFromQuaternion(q quat.Number) Orientation {
	length := math.Sqrt(q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	if length == 0 {
		return NewZeroOrientation()
	}
	return Orientation{W: q.Real / length, X: q.Imag / length, Y: q.Jmag / length, Z: q.Kmag / length}
}

// NewOrientationFromAxisAngle returns the orientation produced by rotating
// theta radians about the given axis. The axis need not be unit length but
// must be nonzero.
func NewOrientationFromAxisAngle(theta float64, axis r3.Vector) Orientation {
	norm := axis.Norm()
	if norm == 0 {
		panic("cannot normalize rotation axis, divide by zero")
	}
	sinA := math.Sin(theta / 2)
	return NewOrientationFromQuaternion(quat.Number{
		Real: math.Cos(theta / 2),
		Imag: axis.X / norm * sinA,
		Jmag: axis.Y / norm * sinA,
		Kmag: axis.Z / norm * sinA,
	})
}

// Quaternion returns the orientation in quaternion representation.
func (o Orientation) Quaternion() quat.Number {
	return quat.Number{Real: o.W, Imag: o.X, Jmag: o.Y, Kmag: o.Z}
}

// String returns the quaternion components for logging.
func (o Orientation) String() string {
	return fmt.Sprintf("quat(w:%.4f, x:%.4f, y:%.4f, z:%.4f)", o.W, o.X, o.Y, o.Z)
}

// OrientationAlmostEqual will return a bool describing whether two
// orientations are approximately the same rotation.
func OrientationAlmostEqual(o1, o2 Orientation) bool {
	return QuaternionAlmostEqual(o1.Quaternion(), o2.Quaternion(), 1e-5)
}

// QuaternionAlmostEqual is an equality test for quaternions that can have
// opposite signs and still represent the same rotation.
func QuaternionAlmostEqual(a, b quat.Number, tol float64) bool {
	return quat.Abs(quat.Sub(a, b)) < tol || quat.Abs(quat.Sub(a, Flip(b))) < tol
}

// Flip multiplies a quaternion by -1, giving a quaternion representing the
// same orientation in the opposing octant.
func Flip(q quat.Number) quat.Number {
	return quat.Number{Real: -q.Real, Imag: -q.Imag, Jmag: -q.Jmag, Kmag: -q.Kmag}
}
