// Package main runs a transfer script against a fake arm, gripper, and
// inverse kinematics service.
package main

import (
	"context"
	_ "embed"
	"strings"
	"time"

	"github.com/edaniels/golog"
	"go.viam.com/utils"

	armfake "go.viam.com/pickplace/components/arm/fake"
	gripperfake "go.viam.com/pickplace/components/gripper/fake"
	"go.viam.com/pickplace/config"
	"go.viam.com/pickplace/ik"
	ikfake "go.viam.com/pickplace/ik/fake"
	"go.viam.com/pickplace/motion"
)

var logger = golog.NewDevelopmentLogger("pickplace")

//go:embed cups.json5
var demoScript string

// Arguments for the command.
type Arguments struct {
	ScriptFile string        `flag:"0,usage=transfer script (JSON5); the built-in cup demo runs when omitted"`
	Debug      bool          `flag:"debug,usage=enable debug logging"`
	Settle     time.Duration `flag:"settle,usage=pause after gripper actions"`
	FloorZ     float64       `flag:"floor,usage=make the fake solver refuse poses below this height (meters)"`
}

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	if argsParsed.Debug {
		logger = golog.NewDebugLogger("pickplace")
	}

	var script *config.Script
	var err error
	if argsParsed.ScriptFile == "" {
		logger.Info("no script given, running the built-in cup demo")
		script, err = config.FromReader(strings.NewReader(demoScript), logger)
	} else {
		script, err = config.Read(argsParsed.ScriptFile, logger)
	}
	if err != nil {
		return err
	}

	a := armfake.NewArm(logger)
	g := gripperfake.NewGripper(logger)
	service := ikfake.NewService(logger)
	if argsParsed.FloorZ != 0 {
		service.RefuseBelowZ(argsParsed.FloorZ)
	}

	opts := []motion.Option{motion.WithFailurePolicy(script.MotionPolicy())}
	if argsParsed.Settle > 0 {
		opts = append(opts, motion.WithSettleDuration(argsParsed.Settle))
	}
	controller := motion.NewController(ik.NewResolver(service, logger), logger, opts...)

	return motion.NewRunner(controller, a, g, logger).Run(ctx, script.Tasks())
}
