package gitcli

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
)

// fakeRunner records every invocation and replays canned results.
type fakeRunner struct {
	commands [][]string
	dirs     []string

	// outputs maps the first git subcommand to the stdout it should
	// produce; failOn makes any invocation of that subcommand fail.
	outputs map[string]string
	failOn  map[string]bool
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		outputs: map[string]string{},
		failOn:  map[string]bool{},
	}
}

func (r *fakeRunner) record(dir string, args []string) error {
	r.commands = append(r.commands, args)
	r.dirs = append(r.dirs, dir)

	if len(args) > 0 && r.failOn[args[0]] {
		return errors.Errorf("git %s failed", args[0])
	}
	return nil
}

func (r *fakeRunner) Run(_ context.Context, dir string, args ...string) error {
	return r.record(dir, args)
}

func (r *fakeRunner) Output(_ context.Context, dir string, args ...string) (string, error) {
	if err := r.record(dir, args); err != nil {
		return "", err
	}
	return r.outputs[args[0]], nil
}

func (r *fakeRunner) joined() []string {
	out := make([]string, 0, len(r.commands))
	for _, cmd := range r.commands {
		out = append(out, strings.Join(cmd, " "))
	}
	return out
}

type RepoSuite struct {
	suite.Suite

	runner *fakeRunner
	repo   *Repo
	ctx    context.Context
}

func TestRepoSuite(t *testing.T) {
	suite.Run(t, new(RepoSuite))
}

func (s *RepoSuite) SetupTest() {
	s.runner = newFakeRunner()
	s.repo = NewRepo("/srv/checkout", s.runner)
	s.ctx = context.Background()
}

func (s *RepoSuite) TestCommandConstruction() {
	s.NoError(s.repo.Checkout(s.ctx, "master"))
	s.NoError(s.repo.Push(s.ctx))
	s.NoError(s.repo.FetchTags(s.ctx))
	s.NoError(s.repo.HardReset(s.ctx, "v2.0"))
	s.NoError(s.repo.PushTags(s.ctx))

	s.Equal([]string{
		"checkout master",
		"push",
		"fetch --tags",
		"reset --hard v2.0",
		"push --follow-tags",
	}, s.runner.joined())

	for _, dir := range s.runner.dirs {
		s.Equal("/srv/checkout", dir)
	}
}

func (s *RepoSuite) TestTagsUseCreationOrder() {
	s.runner.outputs["tag"] = "v1.0\nv1.2\nv1.1\n"

	tags, err := s.repo.Tags(s.ctx)
	s.NoError(err)
	s.Equal([]string{"v1.0", "v1.2", "v1.1"}, tags)

	s.Equal([]string{"tag --sort=creatordate"}, s.runner.joined())
}

func (s *RepoSuite) TestLastTagIsMostRecentlyCreatedNotGreatest() {
	s.runner.outputs["tag"] = "v1.0\nv1.2\nv1.1"

	last, err := s.repo.LastTag(s.ctx)
	s.NoError(err)
	s.Equal("v1.1", last)
}

func (s *RepoSuite) TestLastTagEmptyRepository() {
	s.runner.outputs["tag"] = ""

	last, err := s.repo.LastTag(s.ctx)
	s.NoError(err)
	s.Equal("", last)
}

func (s *RepoSuite) TestCreateSignedTagIncludesExtraFlags() {
	s.NoError(s.repo.CreateSignedTag(s.ctx, "v2.1", []string{"-u", "ABCD1234"}))

	s.Equal([]string{"tag -s -m v2.1 -u ABCD1234 v2.1"}, s.runner.joined())
}

func (s *RepoSuite) TestCreateSignedTagWithoutFlags() {
	s.NoError(s.repo.CreateSignedTag(s.ctx, "v2.1", nil))

	s.Equal([]string{"tag -s -m v2.1 v2.1"}, s.runner.joined())
}

func (s *RepoSuite) TestErrorsPropagate() {
	s.runner.failOn["reset"] = true

	s.Error(s.repo.HardReset(s.ctx, "v1.0"))
}
