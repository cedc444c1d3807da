package motion

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/pickplace/ik"
	"go.viam.com/pickplace/referenceframe"
	"go.viam.com/pickplace/testutils/inject"
)

func startConfiguration(t *testing.T) referenceframe.JointConfiguration {
	t.Helper()
	jc, err := referenceframe.NewJointConfigurationFromFloats([]float64{0, -1.18, 0, 2.18, 0, 0.57, 3.3161})
	test.That(t, err, test.ShouldBeNil)
	return jc
}

// echoZService answers every solve with the seed configuration, carrying
// the target height in joint 5 so tests can see which pose produced a
// move.
func echoZService() *inject.IKService {
	return &inject.IKService{
		WaitForReadyFunc: func(ctx context.Context) error { return nil },
		SolveFunc: func(ctx context.Context, req *ik.Request) (*ik.Response, error) {
			jc, err := req.Seed()
			if err != nil {
				return nil, err
			}
			jc[5] = req.Point.Z
			return &ik.Response{
				ResultCode: 1,
				Solutions: []ik.Solution{{
					JointNames:     referenceframe.JointNames(),
					JointPositions: jc.Floats(),
				}},
			}, nil
		},
	}
}

// countingService answers solve n with a configuration whose first joint
// is n, and fails the solve numbers in failOn.
func countingService(seeds *[][]float64, failOn map[int]bool) *inject.IKService {
	count := 0
	return &inject.IKService{
		WaitForReadyFunc: func(ctx context.Context) error { return nil },
		SolveFunc: func(ctx context.Context, req *ik.Request) (*ik.Response, error) {
			count++
			*seeds = append(*seeds, req.SeedPositions)
			if failOn[count] {
				return &ik.Response{ResultCode: 0}, nil
			}
			var jc referenceframe.JointConfiguration
			jc[0] = float64(count)
			return &ik.Response{
				ResultCode: 1,
				Solutions: []ik.Solution{{
					JointNames:     referenceframe.JointNames(),
					JointPositions: jc.Floats(),
				}},
			}, nil
		},
	}
}

func quietGripper(events *[]string) *inject.Gripper {
	return &inject.Gripper{
		SetPositionFunc: func(ctx context.Context, fraction float64) error {
			*events = append(*events, fmt.Sprintf("close %.2f", fraction))
			return nil
		},
		OpenFunc: func(ctx context.Context) error {
			*events = append(*events, "open")
			return nil
		},
	}
}

func TestExecuteOrdersMovesAndGripper(t *testing.T) {
	logger, logs := golog.NewObservedTestLogger(t)
	start := startConfiguration(t)

	var events []string
	a := &inject.Arm{
		JointPositionsFunc: func(ctx context.Context) (referenceframe.JointConfiguration, error) {
			return start, nil
		},
		MoveToJointPositionsFunc: func(ctx context.Context, jc referenceframe.JointConfiguration) error {
			events = append(events, fmt.Sprintf("move z=%.2f", jc[5]))
			return nil
		},
	}
	g := quietGripper(&events)

	ctrl := NewController(ik.NewResolver(echoZService(), logger), logger, WithSettleDuration(time.Millisecond))
	res, err := ctrl.Execute(context.Background(), demoTask(), a, g)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Skipped, test.ShouldBeEmpty)
	test.That(t, res.Moved, test.ShouldResemble, []State{
		StateApproachStart, StateGrasp, StateLift, StateTransfer, StateDescend, StateRetreat,
	})

	// the gripper closes only after the grasp move and opens only after
	// the descend move
	test.That(t, events, test.ShouldResemble, []string{
		"move z=0.23",
		"move z=0.03",
		"close 0.70",
		"move z=0.23",
		"move z=0.22",
		"move z=0.02",
		"open",
		"move z=0.22",
	})

	// every state including the gripper stages was entered once
	test.That(t, logs.FilterMessageSnippet("entering state").Len(), test.ShouldEqual, 8)
	done := logs.FilterMessageSnippet("transfer complete").All()
	test.That(t, done, test.ShouldHaveLength, 1)
	test.That(t, done[0].ContextMap()["state"], test.ShouldEqual, "Done")
}

func TestExecuteSeedPropagation(t *testing.T) {
	logger := golog.NewTestLogger(t)
	start := startConfiguration(t)

	var seeds [][]float64
	a := &inject.Arm{
		JointPositionsFunc: func(ctx context.Context) (referenceframe.JointConfiguration, error) {
			return start, nil
		},
		MoveToJointPositionsFunc: func(ctx context.Context, jc referenceframe.JointConfiguration) error {
			return nil
		},
	}
	var events []string

	ctrl := NewController(ik.NewResolver(countingService(&seeds, nil), logger), logger, WithSettleDuration(time.Millisecond))
	res, err := ctrl.Execute(context.Background(), demoTask(), a, quietGripper(&events))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Moved, test.ShouldHaveLength, 6)

	test.That(t, seeds, test.ShouldHaveLength, 6)
	test.That(t, seeds[0], test.ShouldResemble, start.Floats())
	for i := 1; i < 6; i++ {
		// each solve is seeded with the previous solution
		test.That(t, seeds[i][0], test.ShouldEqual, float64(i))
	}
}

func TestExecuteExplicitSeed(t *testing.T) {
	logger := golog.NewTestLogger(t)

	var given referenceframe.JointConfiguration
	given[0] = 7

	var reads int
	a := &inject.Arm{
		JointPositionsFunc: func(ctx context.Context) (referenceframe.JointConfiguration, error) {
			reads++
			return referenceframe.JointConfiguration{}, nil
		},
		MoveToJointPositionsFunc: func(ctx context.Context, jc referenceframe.JointConfiguration) error {
			return nil
		},
	}
	var events []string

	var seeds [][]float64
	ctrl := NewController(ik.NewResolver(countingService(&seeds, nil), logger), logger, WithSettleDuration(time.Millisecond))
	_, err := ctrl.Execute(context.Background(), demoTask(WithSeed(given)), a, quietGripper(&events))
	test.That(t, err, test.ShouldBeNil)

	// the first solve starts from the task seed and the arm is never read
	test.That(t, seeds[0], test.ShouldResemble, given.Floats())
	test.That(t, reads, test.ShouldEqual, 0)
}

func TestExecuteSkipKeepsSeed(t *testing.T) {
	logger := golog.NewTestLogger(t)
	start := startConfiguration(t)

	var seeds [][]float64
	var moves int
	a := &inject.Arm{
		JointPositionsFunc: func(ctx context.Context) (referenceframe.JointConfiguration, error) {
			return start, nil
		},
		MoveToJointPositionsFunc: func(ctx context.Context, jc referenceframe.JointConfiguration) error {
			moves++
			return nil
		},
	}
	var events []string

	// the lift waypoint (third solve) is unreachable
	svc := countingService(&seeds, map[int]bool{3: true})
	ctrl := NewController(ik.NewResolver(svc, logger), logger, WithSettleDuration(time.Millisecond))
	res, err := ctrl.Execute(context.Background(), demoTask(), a, quietGripper(&events))
	test.That(t, err, test.ShouldBeNil)

	test.That(t, res.Skipped, test.ShouldResemble, []State{StateLift})
	test.That(t, res.Moved, test.ShouldResemble, []State{
		StateApproachStart, StateGrasp, StateTransfer, StateDescend, StateRetreat,
	})
	test.That(t, moves, test.ShouldEqual, 5)

	// the transfer solve is still seeded with the grasp solution
	test.That(t, seeds[3][0], test.ShouldEqual, 2.0)
	// both gripper stages ran; their waypoints were reachable
	test.That(t, events, test.ShouldResemble, []string{"close 0.70", "open"})
}

func TestExecuteFirstWaypointUnreachable(t *testing.T) {
	logger := golog.NewTestLogger(t)
	var start referenceframe.JointConfiguration
	start[0] = 42

	var seeds [][]float64
	a := &inject.Arm{
		JointPositionsFunc: func(ctx context.Context) (referenceframe.JointConfiguration, error) {
			return start, nil
		},
		MoveToJointPositionsFunc: func(ctx context.Context, jc referenceframe.JointConfiguration) error {
			return nil
		},
	}
	var events []string

	svc := countingService(&seeds, map[int]bool{1: true})
	ctrl := NewController(ik.NewResolver(svc, logger), logger, WithSettleDuration(time.Millisecond))
	res, err := ctrl.Execute(context.Background(), demoTask(), a, quietGripper(&events))
	test.That(t, err, test.ShouldBeNil)

	test.That(t, res.Skipped, test.ShouldResemble, []State{StateApproachStart})
	// the grasp solve falls back to the starting configuration as its seed
	test.That(t, seeds[1][0], test.ShouldEqual, 42.0)
}

func TestExecuteAllWaypointsUnreachable(t *testing.T) {
	logger := golog.NewTestLogger(t)

	var moves int
	a := &inject.Arm{
		JointPositionsFunc: func(ctx context.Context) (referenceframe.JointConfiguration, error) {
			return referenceframe.JointConfiguration{}, nil
		},
		MoveToJointPositionsFunc: func(ctx context.Context, jc referenceframe.JointConfiguration) error {
			moves++
			return nil
		},
	}
	var events []string

	svc := &inject.IKService{
		WaitForReadyFunc: func(ctx context.Context) error { return nil },
		SolveFunc: func(ctx context.Context, req *ik.Request) (*ik.Response, error) {
			return &ik.Response{ResultCode: 0}, nil
		},
	}
	ctrl := NewController(ik.NewResolver(svc, logger), logger, WithSettleDuration(time.Millisecond))
	res, err := ctrl.Execute(context.Background(), demoTask(), a, quietGripper(&events))

	// the default policy never aborts; the transfer just does nothing
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Moved, test.ShouldBeEmpty)
	test.That(t, res.Skipped, test.ShouldResemble, []State{
		StateApproachStart, StateGrasp, StateLift, StateTransfer, StateDescend, StateRetreat,
	})
	test.That(t, moves, test.ShouldEqual, 0)
	test.That(t, events, test.ShouldBeEmpty)
}

func TestExecuteFailurePolicies(t *testing.T) {
	logger := golog.NewTestLogger(t)

	newArm := func() *inject.Arm {
		return &inject.Arm{
			JointPositionsFunc: func(ctx context.Context) (referenceframe.JointConfiguration, error) {
				return referenceframe.JointConfiguration{}, nil
			},
			MoveToJointPositionsFunc: func(ctx context.Context, jc referenceframe.JointConfiguration) error {
				return nil
			},
		}
	}

	t.Run("max consecutive", func(t *testing.T) {
		var seeds [][]float64
		svc := countingService(&seeds, map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true})
		ctrl := NewController(ik.NewResolver(svc, logger), logger,
			WithSettleDuration(time.Millisecond),
			WithFailurePolicy(FailurePolicy{MaxConsecutiveFailures: 2}),
		)
		var events []string
		res, err := ctrl.Execute(context.Background(), demoTask(), newArm(), quietGripper(&events))
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "aborting transfer")
		test.That(t, err.Error(), test.ShouldContainSubstring, "Lift")
		test.That(t, res.Skipped, test.ShouldResemble, []State{StateApproachStart, StateGrasp, StateLift})
	})

	t.Run("max total", func(t *testing.T) {
		var seeds [][]float64
		svc := countingService(&seeds, map[int]bool{1: true, 4: true})
		ctrl := NewController(ik.NewResolver(svc, logger), logger,
			WithSettleDuration(time.Millisecond),
			WithFailurePolicy(FailurePolicy{MaxFailures: 1}),
		)
		var events []string
		res, err := ctrl.Execute(context.Background(), demoTask(), newArm(), quietGripper(&events))
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, res.Skipped, test.ShouldResemble, []State{StateApproachStart, StateTransfer})
		test.That(t, res.Moved, test.ShouldResemble, []State{StateGrasp, StateLift})
	})
}

func TestExecuteHardwareFailuresAbort(t *testing.T) {
	logger := golog.NewTestLogger(t)

	t.Run("arm", func(t *testing.T) {
		var moves int
		a := &inject.Arm{
			JointPositionsFunc: func(ctx context.Context) (referenceframe.JointConfiguration, error) {
				return referenceframe.JointConfiguration{}, nil
			},
			MoveToJointPositionsFunc: func(ctx context.Context, jc referenceframe.JointConfiguration) error {
				moves++
				if moves == 2 {
					return errors.New("joint fault")
				}
				return nil
			},
		}
		var events []string
		ctrl := NewController(ik.NewResolver(echoZService(), logger), logger, WithSettleDuration(time.Millisecond))
		res, err := ctrl.Execute(context.Background(), demoTask(), a, quietGripper(&events))
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "arm move failed in state Grasp")
		test.That(t, res.Moved, test.ShouldResemble, []State{StateApproachStart})
	})

	t.Run("gripper", func(t *testing.T) {
		a := &inject.Arm{
			JointPositionsFunc: func(ctx context.Context) (referenceframe.JointConfiguration, error) {
				return referenceframe.JointConfiguration{}, nil
			},
			MoveToJointPositionsFunc: func(ctx context.Context, jc referenceframe.JointConfiguration) error {
				return nil
			},
		}
		g := &inject.Gripper{
			SetPositionFunc: func(ctx context.Context, fraction float64) error {
				return errors.New("jaw stalled")
			},
		}
		ctrl := NewController(ik.NewResolver(echoZService(), logger), logger, WithSettleDuration(time.Millisecond))
		_, err := ctrl.Execute(context.Background(), demoTask(), a, g)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "gripper close failed in state Grasp")
	})
}

func TestExecuteContextCancellation(t *testing.T) {
	logger := golog.NewTestLogger(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var moves int
	a := &inject.Arm{
		JointPositionsFunc: func(ctx context.Context) (referenceframe.JointConfiguration, error) {
			return referenceframe.JointConfiguration{}, nil
		},
		MoveToJointPositionsFunc: func(ctx context.Context, jc referenceframe.JointConfiguration) error {
			moves++
			if moves == 3 {
				cancel()
			}
			return nil
		},
	}
	var events []string

	ctrl := NewController(ik.NewResolver(echoZService(), logger), logger, WithSettleDuration(time.Millisecond))
	res, err := ctrl.Execute(ctx, demoTask(), a, quietGripper(&events))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "state Transfer")
	test.That(t, res.Moved, test.ShouldResemble, []State{StateApproachStart, StateGrasp, StateLift})
}

func TestExecuteSettleUsesClock(t *testing.T) {
	logger := golog.NewTestLogger(t)
	mock := clock.NewMock()
	epoch := mock.Now()

	type timedEvent struct {
		label string
		at    time.Duration
	}
	var events []timedEvent
	record := func(label string) {
		events = append(events, timedEvent{label, mock.Now().Sub(epoch)})
	}

	a := &inject.Arm{
		JointPositionsFunc: func(ctx context.Context) (referenceframe.JointConfiguration, error) {
			return referenceframe.JointConfiguration{}, nil
		},
		MoveToJointPositionsFunc: func(ctx context.Context, jc referenceframe.JointConfiguration) error {
			record(fmt.Sprintf("move z=%.2f", jc[5]))
			return nil
		},
	}
	g := &inject.Gripper{
		SetPositionFunc: func(ctx context.Context, fraction float64) error {
			record("close")
			return nil
		},
		OpenFunc: func(ctx context.Context) error {
			record("open")
			return nil
		},
	}

	ctrl := NewController(ik.NewResolver(echoZService(), logger), logger, WithClock(mock))
	done := make(chan struct{})
	var execErr error
	go func() {
		defer close(done)
		_, execErr = ctrl.Execute(context.Background(), demoTask(), a, g)
	}()

	// drive the mock clock until the run finishes
	for {
		select {
		case <-done:
		default:
			mock.Add(50 * time.Millisecond)
			time.Sleep(100 * time.Microsecond)
			continue
		}
		break
	}
	test.That(t, execErr, test.ShouldBeNil)

	indexOf := func(label string) int {
		for i, ev := range events {
			if ev.label == label {
				return i
			}
		}
		return -1
	}
	// the moves after each gripper action wait out the full settle pause
	closeIdx := indexOf("close")
	test.That(t, closeIdx, test.ShouldBeGreaterThan, 0)
	test.That(t, events[closeIdx+1].at-events[closeIdx].at, test.ShouldBeGreaterThanOrEqualTo, DefaultSettleDuration)
	openIdx := indexOf("open")
	test.That(t, openIdx, test.ShouldBeGreaterThan, closeIdx)
	test.That(t, events[openIdx+1].at-events[openIdx].at, test.ShouldBeGreaterThanOrEqualTo, DefaultSettleDuration)
}
