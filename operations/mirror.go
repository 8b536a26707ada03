package operations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/writing3d/releaser/mirror"
)

// Mirror returns a command that runs only the sync stage, publishing
// the build directory to the release bucket.
func Mirror() cli.Command {
	return cli.Command{
		Name:  "mirror",
		Usage: "mirror the build directory to the release bucket (destructive)",
		Flags: []cli.Flag{
			configFlag(),
			cli.BoolFlag{
				Name:  "dry-run",
				Usage: "log sync operations without mutating the bucket",
			},
		},
		Before: requireFileExists("config", true),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			conf, paths, err := loadEnvironment(c)
			if err != nil {
				return errors.WithStack(err)
			}

			return withExitCode(mirror.Push(ctx, mirror.Options{
				BuildDir: paths.BuildDir,
				Remote:   conf.Remote,
				DryRun:   c.Bool("dry-run"),
			}))
		},
	}
}
