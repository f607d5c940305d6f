package kindprovisioner_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/kindstrap/kindstrap/pkg/runner"
	kindprovisioner "github.com/kindstrap/kindstrap/pkg/svc/provisioner/kind"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	errCreateClusterFailed = errors.New("create cluster failed")
	errDeleteClusterFailed = errors.New("delete cluster failed")
	errListClustersFailed  = errors.New("list clusters failed")
)

// mockCommandRunner mocks the command runner and records the arguments of
// every invocation.
type mockCommandRunner struct {
	mock.Mock

	argHistory [][]string
}

func (m *mockCommandRunner) Run(
	_ context.Context,
	_ *cobra.Command,
	args []string,
) (runner.CommandResult, error) {
	callArgs := m.Called()

	m.argHistory = append(m.argHistory, append([]string(nil), args...))

	result, ok := callArgs.Get(0).(runner.CommandResult)
	if !ok {
		result = runner.CommandResult{}
	}

	err := callArgs.Error(1)
	if err != nil {
		return result, fmt.Errorf("mock run error: %w", err)
	}

	return result, nil
}

func (m *mockCommandRunner) lastArgs() []string {
	if len(m.argHistory) == 0 {
		return nil
	}

	return m.argHistory[len(m.argHistory)-1]
}

func newProvisionerForTest(kubeconfig string) (*kindprovisioner.Provisioner, *mockCommandRunner) {
	cmdRunner := &mockCommandRunner{}
	provisioner := kindprovisioner.NewProvisionerWithRunner(
		kubeconfig,
		cmdRunner,
		io.Discard,
		io.Discard,
	)

	return provisioner, cmdRunner
}

func TestCreatePassesConfigAndWait(t *testing.T) {
	t.Parallel()

	provisioner, cmdRunner := newProvisionerForTest("")
	cmdRunner.On("Run").Return(runner.CommandResult{}, nil)

	err := provisioner.Create(context.Background(), "ci", "ci/k8s/kind.config.yaml", 2*time.Minute)

	require.NoError(t, err)
	assert.Equal(
		t,
		[]string{"--name", "ci", "--config", "ci/k8s/kind.config.yaml", "--wait", "2m0s"},
		cmdRunner.lastArgs(),
	)
}

func TestCreateIncludesKubeconfigFlag(t *testing.T) {
	t.Parallel()

	provisioner, cmdRunner := newProvisionerForTest("/tmp/kubeconfig")
	cmdRunner.On("Run").Return(runner.CommandResult{}, nil)

	err := provisioner.Create(context.Background(), "ci", "kind.yaml", time.Minute)

	require.NoError(t, err)
	assert.Contains(t, cmdRunner.lastArgs(), "--kubeconfig")
	assert.Contains(t, cmdRunner.lastArgs(), "/tmp/kubeconfig")
}

func TestCreateErrorCreateFailed(t *testing.T) {
	t.Parallel()

	provisioner, cmdRunner := newProvisionerForTest("")
	cmdRunner.On("Run").Return(runner.CommandResult{}, errCreateClusterFailed)

	err := provisioner.Create(context.Background(), "ci", "kind.yaml", time.Minute)

	require.ErrorIs(t, err, errCreateClusterFailed)
}

func TestDeleteSuccess(t *testing.T) {
	t.Parallel()

	provisioner, cmdRunner := newProvisionerForTest("")
	cmdRunner.On("Run").Return(runner.CommandResult{}, nil)

	err := provisioner.Delete(context.Background(), "ci")

	require.NoError(t, err)
	assert.Equal(t, []string{"--name", "ci"}, cmdRunner.lastArgs())
}

func TestDeleteErrorDeleteFailed(t *testing.T) {
	t.Parallel()

	provisioner, cmdRunner := newProvisionerForTest("")
	cmdRunner.On("Run").Return(runner.CommandResult{}, errDeleteClusterFailed)

	err := provisioner.Delete(context.Background(), "ci")

	require.ErrorIs(t, err, errDeleteClusterFailed)
}

func TestListParsesClusterNames(t *testing.T) {
	t.Parallel()

	provisioner, cmdRunner := newProvisionerForTest("")
	cmdRunner.On("Run").Return(runner.CommandResult{Stdout: "ci\nscratch\n"}, nil)

	clusters, err := provisioner.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"ci", "scratch"}, clusters)
}

func TestListNoClusters(t *testing.T) {
	t.Parallel()

	provisioner, cmdRunner := newProvisionerForTest("")
	cmdRunner.On("Run").Return(runner.CommandResult{Stdout: "No kind clusters found.\n"}, nil)

	clusters, err := provisioner.List(context.Background())

	require.NoError(t, err)
	assert.Empty(t, clusters)
}

func TestListErrorListFailed(t *testing.T) {
	t.Parallel()

	provisioner, cmdRunner := newProvisionerForTest("")
	cmdRunner.On("Run").Return(runner.CommandResult{}, errListClustersFailed)

	_, err := provisioner.List(context.Background())

	require.ErrorIs(t, err, errListClustersFailed)
}

func TestDeleteAllDeletesEveryCluster(t *testing.T) {
	t.Parallel()

	provisioner, cmdRunner := newProvisionerForTest("")

	// First call lists, the next two delete.
	cmdRunner.On("Run").Return(runner.CommandResult{Stdout: "ci\nscratch\n"}, nil).Once()
	cmdRunner.On("Run").Return(runner.CommandResult{}, nil).Twice()

	deleted, err := provisioner.DeleteAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"ci", "scratch"}, deleted)
	cmdRunner.AssertNumberOfCalls(t, "Run", 3)
}

func TestDeleteAllNoClustersIsNoOp(t *testing.T) {
	t.Parallel()

	provisioner, cmdRunner := newProvisionerForTest("")
	cmdRunner.On("Run").Return(runner.CommandResult{Stdout: "No kind clusters found.\n"}, nil)

	deleted, err := provisioner.DeleteAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, deleted)
	cmdRunner.AssertNumberOfCalls(t, "Run", 1)
}

func TestDeleteAllStopsOnDeleteFailure(t *testing.T) {
	t.Parallel()

	provisioner, cmdRunner := newProvisionerForTest("")

	cmdRunner.On("Run").Return(runner.CommandResult{Stdout: "ci\nscratch\n"}, nil).Once()
	cmdRunner.On("Run").Return(runner.CommandResult{}, errDeleteClusterFailed).Once()

	_, err := provisioner.DeleteAll(context.Background())

	require.ErrorIs(t, err, errDeleteClusterFailed)
	cmdRunner.AssertNumberOfCalls(t, "Run", 2)
}
