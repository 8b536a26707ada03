package operations

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/writing3d/releaser/gitcli"
	"github.com/writing3d/releaser/prompt"
)

// Tag returns a command that runs only the tagging stage: checkout of
// the main branch, push, and creation of a new signed, pushed release
// tag.
func Tag() cli.Command {
	return cli.Command{
		Name:  "tag",
		Usage: "create and push a signed release tag",
		Flags: []cli.Flag{
			configFlag(),
			cli.StringFlag{
				Name:  "version",
				Usage: "bare version number for the release tag; prompted for when unset",
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

			tagFlags, err := conf.TagFlags()
			if err != nil {
				return errors.WithStack(err)
			}

			repo := gitcli.NewRepo(paths.RepoDir, gitcli.NewRunner())

			tagger := gitcli.NewTagger(repo, prompt.NewTerminal(os.Stdin, os.Stdout), conf.Git.MainBranch)
			tagger.Version = c.String("version")
			tagger.TagFlags = tagFlags

			_, err = tagger.Run(ctx)
			return withExitCode(err)
		},
	}
}
