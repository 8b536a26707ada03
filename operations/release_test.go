package operations

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"
	"github.com/urfave/cli"

	"github.com/writing3d/releaser/prompt"
)

// recordingRunner satisfies gitcli.Runner and records every git
// invocation without executing anything.
type recordingRunner struct {
	commands [][]string
}

func (r *recordingRunner) Run(_ context.Context, _ string, args ...string) error {
	r.commands = append(r.commands, args)
	return nil
}

func (r *recordingRunner) Output(_ context.Context, _ string, args ...string) (string, error) {
	r.commands = append(r.commands, args)
	return "", nil
}

func (r *recordingRunner) joined() []string {
	out := make([]string, 0, len(r.commands))
	for _, cmd := range r.commands {
		out = append(out, strings.Join(cmd, " "))
	}
	return out
}

type ReleaseDriverSuite struct {
	suite.Suite

	runner   *recordingRunner
	prompter *prompt.Scripted
	ctx      context.Context
}

func TestReleaseDriverSuite(t *testing.T) {
	suite.Run(t, new(ReleaseDriverSuite))
}

func (s *ReleaseDriverSuite) SetupTest() {
	s.runner = &recordingRunner{}
	s.prompter = &prompt.Scripted{}
	s.ctx = context.Background()
}

func (s *ReleaseDriverSuite) writeConfig() string {
	path := filepath.Join(s.T().TempDir(), "w3d-release.yaml")
	content := `
platforms:
  - name: Linux
remote:
  bucket: writing3d-releases
`
	s.Require().NoError(os.WriteFile(path, []byte(content), 0644))
	return path
}

func (s *ReleaseDriverSuite) cliContext(configPath string) *cli.Context {
	set := flag.NewFlagSet("release", flag.ContinueOnError)
	set.String("config", configPath, "")
	set.String("version", "", "")
	set.Bool("yes", false, "")
	return cli.NewContext(nil, set, nil)
}

func (s *ReleaseDriverSuite) TestDecliningConfirmationPerformsNoMutations() {
	c := s.cliContext(s.writeConfig())

	err := runRelease(s.ctx, c, s.prompter, s.runner)
	s.NoError(err)

	// the only git invocation is the read-only status report
	s.Equal([]string{"status"}, s.runner.joined())
	s.Equal([]string{"Build and release a new version?"}, s.prompter.Questions)
}

func (s *ReleaseDriverSuite) TestMissingBucketFailsBeforePrompting() {
	path := filepath.Join(s.T().TempDir(), "w3d-release.yaml")
	s.Require().NoError(os.WriteFile(path, []byte("platforms:\n  - name: Linux\n"), 0644))

	err := runRelease(s.ctx, s.cliContext(path), s.prompter, s.runner)
	s.Error(err)
	s.Empty(s.prompter.Questions)
	s.Empty(s.runner.commands)
}

func (s *ReleaseDriverSuite) TestAcceptedConfirmationStartsTagging() {
	s.prompter.Confirmations = []bool{true}
	s.prompter.Lines = []string{"1.0"}

	// the tag stage proceeds against the recording runner; the bundle
	// stage then fails because no companion checkout exists, proving
	// the pipeline stopped there and never reached the mirror stage
	err := runRelease(s.ctx, s.cliContext(s.writeConfig()), s.prompter, s.runner)
	s.Error(err)
	s.Contains(err.Error(), "bundle")

	joined := s.runner.joined()
	s.Contains(joined, "checkout master")
	s.Contains(joined, "push --follow-tags")
}

type PipelineSuite struct {
	suite.Suite
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}

func (s *PipelineSuite) TestStepsRunInOrder() {
	var order []string
	step := func(name string) releaseStep {
		return releaseStep{name: name, run: func(context.Context) error {
			order = append(order, name)
			return nil
		}}
	}

	err := runPipeline(context.Background(), []releaseStep{
		step("tag"), step("bundle"), step("mirror"),
	})
	s.NoError(err)
	s.Equal([]string{"tag", "bundle", "mirror"}, order)
}

func (s *PipelineSuite) TestFirstFailureHaltsLaterSteps() {
	var order []string

	err := runPipeline(context.Background(), []releaseStep{
		{name: "tag", run: func(context.Context) error {
			order = append(order, "tag")
			return nil
		}},
		{name: "bundle", run: func(context.Context) error {
			order = append(order, "bundle")
			return errors.New("archive failed")
		}},
		{name: "mirror", run: func(context.Context) error {
			order = append(order, "mirror")
			return nil
		}},
	})

	s.Error(err)
	s.Contains(err.Error(), "bundle")
	s.Equal([]string{"tag", "bundle"}, order)
}

type codedError struct{ code int }

func (e *codedError) Error() string { return "exit status" }
func (e *codedError) ExitCode() int { return e.code }

func (s *PipelineSuite) TestExitCodePropagation() {
	s.NoError(withExitCode(nil))

	plain := errors.New("boom")
	s.Equal(plain, withExitCode(plain))

	wrapped := errors.Wrap(&codedError{code: 3}, "step failed")
	err := withExitCode(wrapped)
	s.Require().Error(err)

	coder, ok := err.(cli.ExitCoder)
	s.Require().True(ok)
	s.Equal(3, coder.ExitCode())
}
