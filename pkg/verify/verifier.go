// Package verify runs the fixed post-creation inspection checks that turn
// "create returned success" into "the cluster is reachable and functional".
package verify

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/kindstrap/kindstrap/pkg/k8s"
	"github.com/kindstrap/kindstrap/pkg/provision"
	"github.com/kindstrap/kindstrap/pkg/svc/provider/docker"
	"github.com/kindstrap/kindstrap/pkg/ui/notify"

	"k8s.io/client-go/kubernetes"
)

// RuntimeLister is the container runtime query the verifier needs.
type RuntimeLister interface {
	ListContainers(ctx context.Context) ([]docker.ContainerInfo, error)
}

// Verifier executes the fixed, ordered inspection checks. Each check is
// fatal; later checks do not run after a failure.
type Verifier struct {
	// Runtime lists running containers for the runtime health check.
	Runtime RuntimeLister
	// Clientset queries the cluster for the Kubernetes checks.
	Clientset kubernetes.Interface
	// ControlPlaneURL is the API server endpoint reported by cluster-info.
	ControlPlaneURL string
	// Writer receives the streamed check output. Nil defaults to stdout.
	Writer io.Writer
}

// Steps returns the verification checks in their fixed execution order.
func (v *Verifier) Steps() []provision.Step {
	return []provision.Step{
		{Name: "docker ps", Fn: v.checkContainers},
		{Name: "kubectl version", Fn: v.checkServerVersion},
		{Name: "kubectl cluster-info", Fn: v.checkClusterInfo},
		{Name: "kubectl get nodes", Fn: v.checkNodes},
		{Name: "kubectl get pods --all-namespaces", Fn: v.checkAllPods},
	}
}

func (v *Verifier) checkContainers(ctx context.Context) error {
	containers, err := v.Runtime.ListContainers(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", provision.ErrTooling, err)
	}

	writer := v.tabWriter()
	_, _ = fmt.Fprintln(writer, "NAME\tIMAGE\tSTATUS")

	for _, ctr := range containers {
		_, _ = fmt.Fprintf(writer, "%s\t%s\t%s\n", ctr.Name, ctr.Image, ctr.Status)
	}

	return v.flush(writer)
}

func (v *Verifier) checkServerVersion(_ context.Context) error {
	version, err := k8s.ServerVersion(v.Clientset)
	if err != nil {
		return fmt.Errorf("%w: %w", provision.ErrTooling, err)
	}

	notify.Infof(v.writer(), "server version: %s", version)

	return nil
}

func (v *Verifier) checkClusterInfo(ctx context.Context) error {
	lines, err := k8s.ClusterInfo(ctx, v.Clientset, v.ControlPlaneURL)
	if err != nil {
		return fmt.Errorf("%w: %w", provision.ErrTooling, err)
	}

	for _, line := range lines {
		_, _ = fmt.Fprintln(v.writer(), line)
	}

	return nil
}

func (v *Verifier) checkNodes(ctx context.Context) error {
	nodes, err := k8s.ListNodes(ctx, v.Clientset)
	if err != nil {
		return fmt.Errorf("%w: %w", provision.ErrTooling, err)
	}

	writer := v.tabWriter()
	_, _ = fmt.Fprintln(writer, "NAME\tSTATUS\tROLES\tVERSION")

	for _, node := range nodes {
		_, _ = fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\n",
			node.Name, node.Status, node.Roles, node.Version,
		)
	}

	return v.flush(writer)
}

func (v *Verifier) checkAllPods(ctx context.Context) error {
	pods, err := k8s.ListAllPods(ctx, v.Clientset)
	if err != nil {
		return fmt.Errorf("%w: %w", provision.ErrTooling, err)
	}

	writer := v.tabWriter()
	_, _ = fmt.Fprintln(writer, "NAMESPACE\tNAME\tREADY\tSTATUS")

	for _, pod := range pods {
		_, _ = fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\n",
			pod.Namespace, pod.Name, pod.Ready, pod.Phase,
		)
	}

	return v.flush(writer)
}

func (v *Verifier) writer() io.Writer {
	if v.Writer != nil {
		return v.Writer
	}

	return os.Stdout
}

func (v *Verifier) tabWriter() *tabwriter.Writer {
	const (
		minWidth = 0
		tabWidth = 8
		padding  = 3
	)

	return tabwriter.NewWriter(v.writer(), minWidth, tabWidth, padding, ' ', 0)
}

func (v *Verifier) flush(writer *tabwriter.Writer) error {
	err := writer.Flush()
	if err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	return nil
}
