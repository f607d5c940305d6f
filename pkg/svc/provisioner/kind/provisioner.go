// Package kindprovisioner manages kind clusters through kind's own Cobra
// commands (create, delete, get clusters).
package kindprovisioner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kindstrap/kindstrap/pkg/runner"

	kindcmd "sigs.k8s.io/kind/pkg/cmd"
	createcluster "sigs.k8s.io/kind/pkg/cmd/kind/create/cluster"
	deletecluster "sigs.k8s.io/kind/pkg/cmd/kind/delete/cluster"
	getclusters "sigs.k8s.io/kind/pkg/cmd/kind/get/clusters"
)

// Provisioner creates, deletes, and lists kind clusters. Commands stream
// their output to the configured writers while it is also captured for
// programmatic use.
type Provisioner struct {
	kubeconfig string
	runner     runner.CommandRunner
	out        io.Writer
	errOut     io.Writer
}

// NewProvisioner constructs a Provisioner writing to stdout/stderr.
// kubeconfig may be empty to use kind's default kubeconfig handling.
func NewProvisioner(kubeconfig string) *Provisioner {
	return NewProvisionerWithRunner(
		kubeconfig,
		runner.NewCobraCommandRunner(os.Stdout, os.Stderr),
		os.Stdout,
		os.Stderr,
	)
}

// NewProvisionerWithRunner constructs a Provisioner with an explicit command
// runner and output writers for testing purposes.
func NewProvisionerWithRunner(
	kubeconfig string,
	cmdRunner runner.CommandRunner,
	out io.Writer,
	errOut io.Writer,
) *Provisioner {
	if out == nil {
		out = os.Stdout
	}

	if errOut == nil {
		errOut = os.Stderr
	}

	return &Provisioner{
		kubeconfig: kubeconfig,
		runner:     cmdRunner,
		out:        out,
		errOut:     errOut,
	}
}

// Create creates a kind cluster from the given config file, blocking until
// the control plane reports ready or the wait bound elapses. kind treats a
// zero wait as "do not wait".
func (p *Provisioner) Create(
	ctx context.Context,
	name string,
	configPath string,
	wait time.Duration,
) error {
	logger := &streamLogger{writer: p.out}
	streams := kindcmd.IOStreams{Out: p.out, ErrOut: p.errOut}

	cmd := createcluster.NewCommand(logger, streams)

	args := []string{"--name", name, "--config", configPath, "--wait", wait.String()}
	args = p.appendKubeconfig(args)

	_, err := p.runner.Run(ctx, cmd, args)
	if err != nil {
		return fmt.Errorf("failed to create kind cluster %q: %w", name, err)
	}

	return nil
}

// Delete deletes a kind cluster by name. Deleting a cluster that does not
// exist is not an error; kind treats it as a no-op.
func (p *Provisioner) Delete(ctx context.Context, name string) error {
	logger := &streamLogger{writer: p.out}
	streams := kindcmd.IOStreams{Out: p.out, ErrOut: p.errOut}

	cmd := deletecluster.NewCommand(logger, streams)

	args := []string{"--name", name}
	args = p.appendKubeconfig(args)

	_, err := p.runner.Run(ctx, cmd, args)
	if err != nil {
		return fmt.Errorf("failed to delete kind cluster %q: %w", name, err)
	}

	return nil
}

// List returns the names of all kind clusters on this host.
func (p *Provisioner) List(ctx context.Context) ([]string, error) {
	// Capture output without displaying it; get clusters writes names via
	// fmt.Fprintln on streams.Out rather than through cmd.SetOut.
	var outBuf bytes.Buffer

	logger := &streamLogger{writer: &outBuf}
	streams := kindcmd.IOStreams{Out: &outBuf, ErrOut: io.Discard}

	cmd := getclusters.NewCommand(logger, streams)

	result, err := p.runner.Run(ctx, cmd, []string{})
	if err != nil {
		return nil, fmt.Errorf("failed to list kind clusters: %w", err)
	}

	output := outBuf.Bytes()
	if len(output) == 0 {
		output = []byte(result.Stdout)
	}

	const noKindClustersMsg = "No kind clusters found."

	var clusters []string

	for _, line := range bytes.Split(output, []byte("\n")) {
		name := string(bytes.TrimSpace(line))
		if name != "" && name != noKindClustersMsg {
			clusters = append(clusters, name)
		}
	}

	return clusters, nil
}

// DeleteAll deletes every kind cluster on this host, regardless of who
// created it, and returns the names that were deleted. Zero existing
// clusters is a successful no-op, which keeps repeated resets idempotent.
func (p *Provisioner) DeleteAll(ctx context.Context) ([]string, error) {
	clusters, err := p.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, name := range clusters {
		err = p.Delete(ctx, name)
		if err != nil {
			return nil, err
		}
	}

	return clusters, nil
}

func (p *Provisioner) appendKubeconfig(args []string) []string {
	if p.kubeconfig != "" {
		return append(args, "--kubeconfig", p.kubeconfig)
	}

	return args
}
