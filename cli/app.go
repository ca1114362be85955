// Package cli contains the pathfollower command line interface.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	configFlag  = "config"
	repoFlag    = "repo"
	debugFlag   = "debug"
	fromFlag    = "from"
	fuseFlag    = "fuse"
	outFlag     = "out"
	startFlag   = "start"
	stepFlag    = "step"
	timeoutFlag = "timeout"
	loopFlag    = "loop"
)

// NewApp returns a new app with the CLI API, Reader set to in, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(in io.Reader, out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "pathfollower",
		Usage:           "record, inspect and follow paths",
		HideHelpCommand: true,
		Reader:          in,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    configFlag,
				Aliases: []string{"c"},
				Usage:   "load configuration from `FILE`",
			},
			&cli.StringFlag{
				Name:  repoFlag,
				Usage: "path repository `DIR`, overriding the configuration",
			},
			&cli.BoolFlag{
				Name:    debugFlag,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "list the paths in the repository",
				Action: ListAction,
			},
			{
				Name:      "show",
				Usage:     "print the segments of a path",
				ArgsUsage: "<name>",
				Action:    ShowAction,
			},
			{
				Name:      "plot",
				Usage:     "render a segmented path to an image",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     outFlag,
						Usage:    "image `FILE`; the extension selects the format",
						Required: true,
					},
				},
				Action: PlotAction,
			},
			{
				Name:      "delete",
				Usage:     "remove a path from the repository",
				ArgsUsage: "<name>",
				Action:    DeleteAction,
			},
			{
				Name:      "record",
				Usage:     "record x,y,theta poses read from stdin into a path",
				ArgsUsage: "<name>",
				Action:    RecordAction,
			},
			{
				Name:      "follow",
				Usage:     "follow a path, reading poses from stdin and printing drive commands",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  fromFlag,
						Usage: "start relocalizing at a waypoint index (12) or fraction (30%, 0.3)",
						Value: "0",
					},
					&cli.BoolFlag{
						Name:  fuseFlag,
						Usage: "read tagged fix,... and odom,... lines and fuse them into poses",
					},
				},
				Action: FollowAction,
			},
			{
				Name:      "simulate",
				Usage:     "drive a simulated base along a path",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  startFlag,
						Usage: "start pose as x,y,theta; defaults to the first waypoint",
					},
					&cli.StringFlag{
						Name:  fromFlag,
						Usage: "start relocalizing at a waypoint index (12) or fraction (30%, 0.3)",
						Value: "0",
					},
					&cli.DurationFlag{
						Name:  stepFlag,
						Usage: "simulation time step",
						Value: defaultSimStep,
					},
					&cli.DurationFlag{
						Name:  timeoutFlag,
						Usage: "give up after this much simulated time",
						Value: defaultSimTimeout,
					},
					&cli.BoolFlag{
						Name:  loopFlag,
						Usage: "treat the path as a loop, overriding the configuration",
					},
					&cli.StringFlag{
						Name:  outFlag,
						Usage: "also plot the driven trace to `FILE`",
					},
				},
				Action: SimulateAction,
			},
			{
				Name:   "watch",
				Usage:  "print repository changes until interrupted",
				Action: WatchAction,
			},
		},
	}
}
