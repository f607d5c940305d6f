// Package runner executes Cobra commands from other tools while capturing
// their output.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// CommandResult captures the stdout and stderr collected during a Cobra
// command execution, including any output produced before an error occurred.
type CommandResult struct {
	Stdout string
	Stderr string
}

// CommandRunner executes Cobra commands while capturing their output.
// Implementations should display output in real-time while also capturing
// it for programmatic access via CommandResult.
type CommandRunner interface {
	Run(ctx context.Context, cmd *cobra.Command, args []string) (CommandResult, error)
}

// CobraCommandRunner executes any Cobra command with console output.
type CobraCommandRunner struct {
	stdout io.Writer
	stderr io.Writer
}

// NewCobraCommandRunner creates a command runner that streams output to the
// given writers while capturing it for the result. Nil writers default to
// os.Stdout and os.Stderr.
func NewCobraCommandRunner(stdout, stderr io.Writer) *CobraCommandRunner {
	if stdout == nil {
		stdout = os.Stdout
	}

	if stderr == nil {
		stderr = os.Stderr
	}

	return &CobraCommandRunner{stdout: stdout, stderr: stderr}
}

// Run executes a Cobra command with the provided context and arguments.
// Output is written to the configured writers in real-time and captured in
// the returned CommandResult. Usage and error messages are silenced since
// callers handle error reporting.
func (r *CobraCommandRunner) Run(
	ctx context.Context,
	cmd *cobra.Command,
	args []string,
) (CommandResult, error) {
	var outBuf, errBuf bytes.Buffer

	cmd.SetOut(io.MultiWriter(&outBuf, r.stdout))
	cmd.SetErr(io.MultiWriter(&errBuf, r.stderr))

	cmd.SetContext(ctx)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	execErr := cmd.ExecuteContext(ctx)

	result := CommandResult{
		Stdout: outBuf.String(),
		Stderr: errBuf.String(),
	}

	if execErr != nil {
		return result, fmt.Errorf("command execution failed: %w", execErr)
	}

	return result, nil
}
