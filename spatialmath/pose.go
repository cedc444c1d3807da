package spatialmath

import (
	"github.com/golang/geo/r3"

	"go.viam.com/pickplace/utils"
)

// Pose couples a position in the arm base frame with an orientation. Pose
// values are copied, never aliased; deriving a new pose leaves the original
// untouched.
type Pose struct {
	point       r3.Vector
	orientation Orientation
}

// NewPose takes in a position and orientation and returns a Pose.
func NewPose(point r3.Vector, o Orientation) Pose {
	return Pose{point: point, orientation: o}
}

// NewPoseFromPoint takes in a position and returns a Pose with that position
// and the identity orientation.
func NewPoseFromPoint(point r3.Vector) Pose {
	return Pose{point: point, orientation: NewZeroOrientation()}
}

// Point returns the position of the pose.
func (p Pose) Point() r3.Vector {
	return p.point
}

// Orientation returns the orientation of the pose.
func (p Pose) Orientation() Orientation {
	return p.orientation
}

// WithZOffset returns the pose translated by dz along the base frame z axis,
// orientation unchanged.
func (p Pose) WithZOffset(dz float64) Pose {
	return Pose{
		point:       r3.Vector{X: p.point.X, Y: p.point.Y, Z: p.point.Z + dz},
		orientation: p.orientation,
	}
}

// PoseAlmostEqual checks that both poses have nearly identical positions and
// orientations.
func PoseAlmostEqual(a, b Pose) bool {
	return utils.Float64AlmostEqual(a.point.X, b.point.X, 1e-8) &&
		utils.Float64AlmostEqual(a.point.Y, b.point.Y, 1e-8) &&
		utils.Float64AlmostEqual(a.point.Z, b.point.Z, 1e-8) &&
		OrientationAlmostEqual(a.orientation, b.orientation)
}
