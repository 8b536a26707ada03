package operations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/writing3d/releaser/bundle"
	"github.com/writing3d/releaser/gitcli"
)

// Bundle returns a command that runs only the packaging stage,
// optionally restricted to named platforms.
func Bundle() cli.Command {
	return cli.Command{
		Name:  "bundle",
		Usage: "rebuild the per-platform package trees and archives",
		Flags: []cli.Flag{
			configFlag(),
			cli.StringSliceFlag{
				Name:  "platform",
				Usage: "restrict packaging to the named platform (may be repeated)",
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

			if err = conf.DiscoverPlatforms(paths.ScriptsDir()); err != nil {
				return errors.WithStack(err)
			}

			if selected := c.StringSlice("platform"); len(selected) > 0 {
				conf.Platforms, err = filterPlatforms(conf.Platforms, selected)
				if err != nil {
					return errors.WithStack(err)
				}
			}

			packager := bundle.NewPackager(conf, paths, gitcli.NewRunner())
			return withExitCode(packager.BuildAll(ctx))
		},
	}
}

func filterPlatforms(platforms []bundle.PlatformDefinition, names []string) ([]bundle.PlatformDefinition, error) {
	byName := map[string]bundle.PlatformDefinition{}
	for _, p := range platforms {
		byName[p.Name] = p
	}

	var out []bundle.PlatformDefinition
	for _, name := range names {
		p, ok := byName[name]
		if !ok {
			return nil, errors.Errorf("platform '%s' is not configured", name)
		}
		out = append(out, p)
	}

	return out, nil
}
