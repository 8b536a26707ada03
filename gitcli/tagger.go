package gitcli

import (
	"context"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"

	"github.com/writing3d/releaser"
	"github.com/writing3d/releaser/prompt"
)

// Tagger drives the tagging stage of a release: it moves the source
// repository to the main branch, pushes pending commits, reports the
// last released version for context, collects the next version from
// the operator, then creates and pushes a signed tag.
//
// There is no rollback. A tag created but not pushed stays in place;
// a rerun fails at tag creation and the operator resolves it by hand.
type Tagger struct {
	// Version, when non-empty, is used as the bare version string
	// instead of prompting (the --version flag, for CI use).
	Version string

	// TagFlags are appended to the tag creation invocation, e.g. a
	// signing key override from the configuration.
	TagFlags []string

	repo     *Repo
	prompter prompt.Prompter
	branch   string
}

// NewTagger constructs a Tagger for the given repository. branch is
// the main branch to release from.
func NewTagger(repo *Repo, prompter prompt.Prompter, branch string) *Tagger {
	return &Tagger{
		repo:     repo,
		prompter: prompter,
		branch:   branch,
	}
}

// Run performs the full tagging sequence and returns the name of the
// created tag. Every step is fatal on failure.
func (t *Tagger) Run(ctx context.Context) (string, error) {
	if err := t.repo.Checkout(ctx, t.branch); err != nil {
		return "", errors.Wrapf(err, "problem checking out branch '%s'", t.branch)
	}

	if err := t.repo.Push(ctx); err != nil {
		return "", errors.Wrap(err, "problem pushing pending commits")
	}

	last, err := t.repo.LastTag(ctx)
	if err != nil {
		return "", errors.Wrap(err, "problem listing tags")
	}

	if last == "" {
		grip.Info("no existing release tags")
	} else {
		grip.Infof("last version: %s", last)
	}

	version := t.Version
	if version == "" {
		version, err = t.prompter.ReadLine("new version number")
		if err != nil {
			return "", errors.Wrap(err, "problem reading version number")
		}
	}
	if version == "" {
		return "", errors.New("no version number specified")
	}

	tag := "v" + version

	next := releaser.NewReleaseVersion(tag)
	prev := releaser.NewReleaseVersion(last)
	if last != "" && next.IsValid && prev.IsValid && !next.After(prev) {
		grip.Warning(message.Fields{
			"message": "new version does not sort after the last release",
			"last":    last,
			"new":     tag,
		})
	}

	if err := t.repo.CreateSignedTag(ctx, tag, t.TagFlags); err != nil {
		return "", errors.Wrapf(err, "problem creating signed tag '%s'", tag)
	}

	if err := t.repo.PushTags(ctx); err != nil {
		return "", errors.Wrapf(err, "problem pushing tag '%s'", tag)
	}

	grip.Infof("created and pushed release tag %s", tag)

	return tag, nil
}
