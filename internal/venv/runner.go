package venv

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	oerrors "github.com/opmodel/apigen/internal/errors"
	"github.com/opmodel/apigen/internal/output"
)

// Runner executes an external command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name with args in dir. A non-zero exit or a missing binary is
// returned as a *errors.SubprocessError carrying the captured output.
func (ExecRunner) Run(ctx context.Context, dir string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	output.Debug("running command", "cmd", name, "args", strings.Join(args, " "), "dir", dir)

	if err := cmd.Run(); err != nil {
		return buf.String(), &oerrors.SubprocessError{
			Command: append([]string{name}, args...),
			Output:  buf.String(),
			Err:     err,
		}
	}
	return buf.String(), nil
}
