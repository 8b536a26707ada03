/*
Package gitcli wraps the git command line porcelain for the release
process. All interaction with git goes through the standard porcelain
rather than a protocol-level library so that signing, credential, and
remote configuration behave exactly as they do for an operator at a
terminal.

Commands run through jasper; streamed commands send their output to
the process logger, and query commands capture stdout for parsing.
*/
package gitcli

import (
	"bytes"
	"context"
	"strings"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/mongodb/grip/send"
	"github.com/mongodb/jasper"
	"github.com/mongodb/jasper/options"
	"github.com/pkg/errors"
)

// Runner executes a single git invocation in a working directory. Run
// streams output to the logger; Output captures and returns stdout.
// The release commands accept an injected Runner so tests can observe
// argument construction without a git binary.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) error
	Output(ctx context.Context, dir string, args ...string) (string, error)
}

type jasperRunner struct {
	sender send.Sender
}

// NewRunner returns a Runner backed by jasper that logs command
// output through the global grip sender.
func NewRunner() Runner {
	return &jasperRunner{sender: grip.GetSender()}
}

func (r *jasperRunner) Run(ctx context.Context, dir string, args ...string) error {
	cmd := jasper.NewCommand().
		Add(append([]string{"git"}, args...)).
		Directory(dir).
		SetOutputSender(level.Info, r.sender).
		SetErrorSender(level.Error, r.sender)

	return errors.Wrapf(cmd.Run(ctx), "git %s", strings.Join(args, " "))
}

func (r *jasperRunner) Output(ctx context.Context, dir string, args ...string) (string, error) {
	out := &bytes.Buffer{}

	cmd := jasper.NewCommand().
		Add(append([]string{"git"}, args...)).
		Directory(dir).
		SetOutputOptions(options.Output{Output: out}).
		SetErrorSender(level.Error, r.sender)

	if err := cmd.Run(ctx); err != nil {
		return "", errors.Wrapf(err, "git %s", strings.Join(args, " "))
	}

	return strings.TrimRight(out.String(), "\n"), nil
}

// Repo represents one git working copy.
type Repo struct {
	dir    string
	runner Runner
}

// NewRepo constructs a Repo for the working copy rooted at dir, using
// the provided runner for all git invocations.
func NewRepo(dir string, runner Runner) *Repo {
	return &Repo{dir: dir, runner: runner}
}

// Dir returns the root of the working copy.
func (r *Repo) Dir() string { return r.dir }

// Status returns the human-readable `git status` report.
func (r *Repo) Status(ctx context.Context) (string, error) {
	return r.runner.Output(ctx, r.dir, "status")
}

// Checkout switches the working copy to the named branch.
func (r *Repo) Checkout(ctx context.Context, branch string) error {
	return r.runner.Run(ctx, r.dir, "checkout", branch)
}

// Push publishes the current branch to its configured remote.
func (r *Repo) Push(ctx context.Context) error {
	return r.runner.Run(ctx, r.dir, "push")
}

// Tags lists all tags in creation order, oldest first.
func (r *Repo) Tags(ctx context.Context) ([]string, error) {
	out, err := r.runner.Output(ctx, r.dir, "tag", "--sort=creatordate")
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var tags []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			tags = append(tags, line)
		}
	}

	return tags, nil
}

// LastTag returns the most recently created tag, or the empty string
// when the repository has no tags.
func (r *Repo) LastTag(ctx context.Context) (string, error) {
	tags, err := r.Tags(ctx)
	if err != nil {
		return "", errors.WithStack(err)
	}

	if len(tags) == 0 {
		return "", nil
	}

	return tags[len(tags)-1], nil
}

// CreateSignedTag creates a signed, annotated tag at the current
// commit. extraFlags are appended to the invocation before the tag
// name (e.g. a "-u <keyid>" override from the configuration).
func (r *Repo) CreateSignedTag(ctx context.Context, name string, extraFlags []string) error {
	args := append([]string{"tag", "-s", "-m", name}, extraFlags...)
	args = append(args, name)

	return r.runner.Run(ctx, r.dir, args...)
}

// PushTags publishes the current branch along with any annotated tags
// reachable from it.
func (r *Repo) PushTags(ctx context.Context) error {
	return r.runner.Run(ctx, r.dir, "push", "--follow-tags")
}

// FetchTags refreshes tag metadata from the remote.
func (r *Repo) FetchTags(ctx context.Context) error {
	return r.runner.Run(ctx, r.dir, "fetch", "--tags")
}

// HardReset discards all local state and points the working tree at
// the given ref.
func (r *Repo) HardReset(ctx context.Context, ref string) error {
	return r.runner.Run(ctx, r.dir, "reset", "--hard", ref)
}
