package operations

import (
	"context"

	"github.com/google/uuid"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// releaseStep is one stage of the fail-fast release sequence. Steps
// run strictly in order; the first failure stops the run with no
// compensating actions, leaving partial state for operator
// inspection.
type releaseStep struct {
	name string
	run  func(context.Context) error
}

func runPipeline(ctx context.Context, steps []releaseStep) error {
	runID := uuid.New().String()

	for _, step := range steps {
		grip.Info(message.Fields{
			"message": "starting release step",
			"run_id":  runID,
			"step":    step.name,
		})

		if err := step.run(ctx); err != nil {
			grip.Error(message.WrapError(err, message.Fields{
				"message": "release step failed, aborting",
				"run_id":  runID,
				"step":    step.name,
			}))
			return errors.Wrapf(err, "release step '%s' failed", step.name)
		}
	}

	return nil
}

// withExitCode converts an error whose cause carries a process exit
// code into a cli exit error, so the process exits with the failing
// collaborator's own code.
func withExitCode(err error) error {
	if err == nil {
		return nil
	}

	type exitCoder interface {
		ExitCode() int
	}

	if coded, ok := errors.Cause(err).(exitCoder); ok && coded.ExitCode() > 0 {
		return cli.NewExitError(err.Error(), coded.ExitCode())
	}

	return err
}
