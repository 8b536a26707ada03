package operations

import (
	"context"
	"fmt"
	"os"

	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/writing3d/releaser/bundle"
	"github.com/writing3d/releaser/gitcli"
	"github.com/writing3d/releaser/mirror"
	"github.com/writing3d/releaser/prompt"
)

// Release returns the full release driver: it shows the working tree
// status, asks for confirmation, and then runs the tag, bundle, and
// mirror stages in order, stopping at the first failure.
func Release() cli.Command {
	return cli.Command{
		Name:  "release",
		Usage: "tag, package, and publish a new Writing3D release",
		Flags: []cli.Flag{
			configFlag(),
			cli.StringFlag{
				Name:  "version",
				Usage: "bare version number for the release tag; prompted for when unset",
			},
			cli.BoolFlag{
				Name:  "yes",
				Usage: "skip the confirmation prompt (requires --version)",
			},
		},
		Before: mergeBeforeFuncs(
			requireFileExists("config", true),
			func(c *cli.Context) error {
				if c.Bool("yes") && c.String("version") == "" {
					return errors.New("--yes requires --version")
				}
				return nil
			},
		),
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			prompter := prompt.NewTerminal(os.Stdin, os.Stdout)
			return withExitCode(runRelease(ctx, c, prompter, gitcli.NewRunner()))
		},
	}
}

// runRelease implements the driver with its collaborators injected,
// so tests can script the prompt and observe git invocations.
func runRelease(ctx context.Context, c *cli.Context, prompter prompt.Prompter, runner gitcli.Runner) error {
	conf, paths, err := loadEnvironment(c)
	if err != nil {
		return errors.WithStack(err)
	}

	if conf.Remote.Bucket == "" {
		return errors.New("no release bucket configured")
	}

	if err = conf.DiscoverPlatforms(paths.ScriptsDir()); err != nil {
		return errors.WithStack(err)
	}

	tagFlags, err := conf.TagFlags()
	if err != nil {
		return errors.WithStack(err)
	}

	repo := gitcli.NewRepo(paths.RepoDir, runner)

	status, err := repo.Status(ctx)
	if err != nil {
		return errors.Wrap(err, "problem reading working tree status")
	}
	fmt.Println(status)

	if !c.Bool("yes") {
		ok, err := prompter.Confirm("Build and release a new version?")
		if err != nil {
			return errors.WithStack(err)
		}
		if !ok {
			grip.Info("release aborted, no changes made")
			return nil
		}
	}

	tagger := gitcli.NewTagger(repo, prompter, conf.Git.MainBranch)
	tagger.Version = c.String("version")
	tagger.TagFlags = tagFlags

	packager := bundle.NewPackager(conf, paths, runner)

	steps := []releaseStep{
		{name: "tag", run: func(ctx context.Context) error {
			_, err := tagger.Run(ctx)
			return err
		}},
		{name: "bundle", run: packager.BuildAll},
		{name: "mirror", run: func(ctx context.Context) error {
			return mirror.Push(ctx, mirror.Options{
				BuildDir: paths.BuildDir,
				Remote:   conf.Remote,
			})
		}},
	}

	if err := runPipeline(ctx, steps); err != nil {
		return err
	}

	grip.Info("release complete")
	return nil
}
