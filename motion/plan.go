package motion

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"go.viam.com/pickplace/spatialmath"
)

// State labels a stage of a transfer.
type State int

// The transfer states, in execution order. Close and Open are the gripper
// stages attached to Grasp and Descend.
const (
	StateApproachStart State = iota
	StateGrasp
	StateClose
	StateLift
	StateTransfer
	StateDescend
	StateOpen
	StateRetreat
	StateDone
)

func (s State) String() string {
	switch s {
	case StateApproachStart:
		return "ApproachStart"
	case StateGrasp:
		return "Grasp"
	case StateClose:
		return "Close"
	case StateLift:
		return "Lift"
	case StateTransfer:
		return "Transfer"
	case StateDescend:
		return "Descend"
	case StateOpen:
		return "Open"
	case StateRetreat:
		return "Retreat"
	case StateDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// GripperAction is a jaw command attached to a plan step, run after the
// step's motion completes.
type GripperAction int

// The jaw commands a step can carry.
const (
	GripperNone GripperAction = iota
	GripperClose
	GripperOpen
)

// Step is one waypoint of a plan: move the tool to Pose, then run the
// gripper action if there is one. Opening is meaningful only for
// GripperClose.
type Step struct {
	State   State
	Pose    spatialmath.Pose
	Action  GripperAction
	Opening float64
}

// Plan is the ordered waypoint sequence of one transfer.
type Plan struct {
	Steps []Step
}

// NewTransferPlan derives the fixed six-waypoint plan for a task. The
// first three poses hold the pickup orientation and the last three the
// place orientation; approach, lift, and retreat sit exactly the task
// clearance above their grasp or release pose.
func NewTransferPlan(task Task) Plan {
	grasp := spatialmath.NewPose(task.PickupPosition, task.PickupOrientation)
	release := spatialmath.NewPose(task.PlacePosition, task.PlaceOrientation)
	return Plan{Steps: []Step{
		{State: StateApproachStart, Pose: grasp.WithZOffset(task.Clearance)},
		{State: StateGrasp, Pose: grasp, Action: GripperClose, Opening: task.GripperOpening},
		{State: StateLift, Pose: grasp.WithZOffset(task.Clearance)},
		{State: StateTransfer, Pose: release.WithZOffset(task.Clearance)},
		{State: StateDescend, Pose: release, Action: GripperOpen},
		{State: StateRetreat, Pose: release.WithZOffset(task.Clearance)},
	}}
}

// String prints the plan as a table of waypoints with their gripper
// actions.
func (p Plan) String() string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"#", "State", "X", "Y", "Z", "Gripper"})
	for i, step := range p.Steps {
		pt := step.Pose.Point()
		action := ""
		switch step.Action {
		case GripperClose:
			action = fmt.Sprintf("close to %.2f", step.Opening)
		case GripperOpen:
			action = "open"
		case GripperNone:
		}
		tw.AppendRow(table.Row{
			i + 1,
			step.State.String(),
			fmt.Sprintf("%.3f", pt.X),
			fmt.Sprintf("%.3f", pt.Y),
			fmt.Sprintf("%.3f", pt.Z),
			action,
		})
	}
	return tw.Render()
}
