// Command pcdbuilding extracts building walls and roofs from LiDAR point
// clouds.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/edaniels/golog"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/seqsense/pcdbuilding/config"
	"github.com/seqsense/pcdbuilding/pcd/sac"
	"github.com/seqsense/pcdbuilding/stage"
)

const (
	flagConfig   = "config"
	flagDebug    = "debug"
	flagOutDir   = "out-dir"
	flagNoRender = "no-render"
	flagOutput   = "output"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runner holds what every command needs once the global flags are parsed.
type runner struct {
	out    io.Writer
	logger golog.Logger
	conf   config.Config
	fitter sac.RANSAC
}

func (r *runner) newContext() *stage.Context {
	return stage.NewContext(r.logger, stage.NewTableReporter(r.out))
}

func newApp(out io.Writer) *cli.App {
	r := &runner{out: out, logger: zap.NewNop().Sugar()}
	return &cli.App{
		Name:            "pcdbuilding",
		Usage:           "extract building walls and roofs from LiDAR point clouds",
		HideHelpCommand: true,
		Writer:          out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load pipeline configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool(flagDebug) {
				r.logger = golog.NewDevelopmentLogger("pcdbuilding")
			} else {
				r.logger = golog.NewLogger("pcdbuilding")
			}
			conf, err := config.Load(c.String(flagConfig))
			if err != nil {
				return err
			}
			r.conf = conf
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "load, segment, classify and render a point cloud",
				ArgsUsage: "INPUT",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  flagOutDir,
						Value: ".",
						Usage: "write images and the classified cloud to `DIR`",
					},
					&cli.BoolFlag{
						Name:  flagNoRender,
						Usage: "skip rendering images",
					},
				},
				Action: r.runAction,
			},
			{
				Name:      "segment",
				Usage:     "preprocess and segment a point cloud",
				ArgsUsage: "INPUT",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     flagOutput,
						Aliases:  []string{"o"},
						Required: true,
						Usage:    "write the segmented cloud to `FILE` (.pcd or .las)",
					},
				},
				Action: r.segmentAction,
			},
			{
				Name:      "planes",
				Usage:     "detect and classify the planes of a point cloud",
				ArgsUsage: "INPUT",
				Action:    r.planesAction,
			},
		},
	}
}
