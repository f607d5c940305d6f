// Package tools prepares the host toolchain before any cluster operation.
package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// ErrInstallScriptNotFound is returned when the configured install script
// does not exist on disk.
var ErrInstallScriptNotFound = errors.New("install script not found")

// EnginePinger reports whether the container runtime daemon is reachable.
type EnginePinger interface {
	Ping(ctx context.Context) error
}

// Installer runs the toolchain install script and verifies the container
// runtime is usable. The script is expected to be idempotent; repeated runs
// must succeed on an already-prepared host.
type Installer struct {
	// ScriptPath is the install script to execute. An empty path disables
	// script execution and only the engine preflight runs.
	ScriptPath string
	// Engine is pinged after the script completes. Nil disables the check.
	Engine EnginePinger
	// Out and Err receive the script's streamed output. Nil writers default
	// to the process's stdout and stderr.
	Out io.Writer
	Err io.Writer
}

// Install runs the install script (if configured), streaming its output,
// then pings the container runtime daemon. Any failure is fatal to the
// bootstrap run.
func (i *Installer) Install(ctx context.Context) error {
	if i.ScriptPath != "" {
		err := i.runScript(ctx)
		if err != nil {
			return err
		}
	}

	if i.Engine != nil {
		err := i.Engine.Ping(ctx)
		if err != nil {
			return fmt.Errorf("container runtime preflight failed: %w", err)
		}
	}

	return nil
}

func (i *Installer) runScript(ctx context.Context) error {
	_, statErr := os.Stat(i.ScriptPath)
	if statErr != nil {
		return fmt.Errorf("%w: %s", ErrInstallScriptNotFound, i.ScriptPath)
	}

	cmd := exec.CommandContext(ctx, i.ScriptPath)
	cmd.Stdout = i.outWriter()
	cmd.Stderr = i.errWriter()

	err := cmd.Run()
	if err != nil {
		return fmt.Errorf("install script %s failed: %w", i.ScriptPath, err)
	}

	return nil
}

func (i *Installer) outWriter() io.Writer {
	if i.Out != nil {
		return i.Out
	}

	return os.Stdout
}

func (i *Installer) errWriter() io.Writer {
	if i.Err != nil {
		return i.Err
	}

	return os.Stderr
}
