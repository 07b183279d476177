package exec

import (
	"context"
	"errors"
	osexec "os/exec"
	"strings"

	"github.com/acre-dev/stevedore/pkg/domain/interfaces"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

type runner struct {
	dir string
}

// Option is a functional option for the subprocess runner
type Option func(*runner)

// WithDir sets the working directory for every invoked command
func WithDir(dir string) Option {
	return func(r *runner) {
		r.dir = dir
	}
}

// NewRunner creates a CommandRunner backed by os/exec. Commands inherit the
// process environment; combined output is attached to the error on failure.
func NewRunner(opts ...Option) interfaces.CommandRunner {
	r := &runner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run invokes the command and waits for it to exit
func (r *runner) Run(ctx context.Context, name string, args ...string) error {
	logger := ctxlog.From(ctx)
	logger.Debug("Running command", "name", name, "args", args, "dir", r.dir)

	cmd := osexec.CommandContext(ctx, name, args...)
	cmd.Dir = r.dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		options := []goerr.Option{
			goerr.V("command", name),
			goerr.V("args", args),
			goerr.V("output", strings.TrimSpace(string(out))),
		}
		var exitErr *osexec.ExitError
		if errors.As(err, &exitErr) {
			options = append(options, goerr.V("exit_code", exitErr.ExitCode()))
		}
		return goerr.Wrap(err, "command failed", options...)
	}

	return nil
}
