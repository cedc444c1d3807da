// Package main is the scriptcheck command, which validates transfer
// scripts and previews the waypoint plans they produce.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/edaniels/golog"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"go.viam.com/pickplace/config"
	"go.viam.com/pickplace/motion"
)

func main() {
	var logger golog.Logger

	app := &cli.App{
		Name:  "scriptcheck",
		Usage: "validate transfer scripts and preview their plans",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				logger = golog.NewDebugLogger("scriptcheck")
			} else {
				logger = zap.NewNop().Sugar()
			}

			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "parse and validate a script",
				ArgsUsage: "<script>",
				Action: func(c *cli.Context) error {
					script, err := readScript(c, logger)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "%s: %d objects ok\n", c.Args().First(), len(script.Objects))
					return nil
				},
			},
			{
				Name:      "plan",
				Usage:     "print the waypoint plan for each object in a script",
				ArgsUsage: "<script>",
				Action: func(c *cli.Context) error {
					script, err := readScript(c, logger)
					if err != nil {
						return err
					}
					for i, task := range script.Tasks() {
						fmt.Fprintf(c.App.Writer, "%s\n%s\n\n", script.Objects[i].Name, motion.NewTransferPlan(task))
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func readScript(c *cli.Context, logger golog.Logger) (*config.Script, error) {
	scriptPath := c.Args().First()
	if scriptPath == "" {
		fmt.Fprintln(c.App.ErrWriter, "script file required")
		cli.ShowSubcommandHelpAndExit(c, 1)
		return nil, nil
	}
	return config.Read(scriptPath, logger)
}
