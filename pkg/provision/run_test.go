package provision_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kindstrap/kindstrap/pkg/provision"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStepFailed = errors.New("step failed")

func stepNames(results []provision.StepResult) []string {
	names := make([]string, 0, len(results))
	for _, result := range results {
		names = append(names, result.Name)
	}

	return names
}

func TestExecuteRunsStepsInOrder(t *testing.T) {
	t.Parallel()

	var order []string

	recordStep := func(name string) provision.Step {
		return provision.Step{
			Name: name,
			Fn: func(_ context.Context) error {
				order = append(order, name)

				return nil
			},
		}
	}

	run := provision.NewRun()

	err := run.Execute(
		context.Background(),
		recordStep("install"),
		recordStep("reset"),
		recordStep("create"),
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"install", "reset", "create"}, order)
	assert.Equal(t, []string{"install", "reset", "create"}, stepNames(run.Results()))
}

func TestExecuteHaltsAtFirstFailure(t *testing.T) {
	t.Parallel()

	laterRan := false

	run := provision.NewRun()

	err := run.Execute(
		context.Background(),
		provision.Step{Name: "ok", Fn: func(_ context.Context) error { return nil }},
		provision.Step{Name: "boom", Fn: func(_ context.Context) error { return errStepFailed }},
		provision.Step{Name: "later", Fn: func(_ context.Context) error {
			laterRan = true

			return nil
		}},
	)

	require.ErrorIs(t, err, errStepFailed)
	assert.Contains(t, err.Error(), `step "boom"`)
	assert.False(t, laterRan, "steps after a failure must not run")

	// Results are a strict prefix of the step list: nothing past the failure.
	results := run.Results()
	require.Len(t, results, 2)
	assert.Equal(t, []string{"ok", "boom"}, stepNames(results))
	require.Error(t, results[1].Err)
}

func TestExecuteAccumulatesAcrossCalls(t *testing.T) {
	t.Parallel()

	run := provision.NewRun()
	noop := func(_ context.Context) error { return nil }

	require.NoError(t, run.Execute(context.Background(), provision.Step{Name: "install", Fn: noop}))
	require.NoError(t, run.Execute(context.Background(), provision.Step{Name: "reset", Fn: noop}))

	assert.Equal(t, []string{"install", "reset"}, stepNames(run.Results()))
}

func TestMarkSkipped(t *testing.T) {
	t.Parallel()

	run := provision.NewRun()
	assert.False(t, run.Skipped())

	run.MarkSkipped()
	assert.True(t, run.Skipped())
}

func TestErrorClassesAreDistinct(t *testing.T) {
	t.Parallel()

	assert.NotErrorIs(t, provision.ErrTooling, provision.ErrClusterOperation)
	assert.NotErrorIs(t, provision.ErrClusterOperation, provision.ErrTooling)
}
