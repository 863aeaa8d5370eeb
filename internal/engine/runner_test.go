package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerScratchDirLifecycle(t *testing.T) {
	root := t.TempDir()
	r := &Runner{Root: root}

	m := NewModel(nil)
	m.Options.SetNum("duration", 7200)
	m.Options.SetNum("reportstep", 3600)
	m.AddNode(ElemJunction, "J1").SetNum("elevation", 10)

	res, err := r.Run(context.Background(), &StubEngine{}, m)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Steps())

	// The scratch dir is gone after the run.
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunnerKeepsScratchDirOnRequest(t *testing.T) {
	root := t.TempDir()
	r := &Runner{Root: root, Keep: true}

	_, err := r.Run(context.Background(), &StubEngine{}, NewModel(nil))
	require.NoError(t, err)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	_, err = os.Stat(filepath.Join(root, entries[0].Name(), "stub.log"))
	assert.NoError(t, err)
}

func TestRunnerCleansUpOnFailure(t *testing.T) {
	root := t.TempDir()
	r := &Runner{Root: root}

	eng := &StubEngine{}
	eng.Fail.Stage = "hydraulics"
	eng.Fail.Diagnostics = "Error 110: cannot solve network hydraulic equations\n  at trial 40\n"

	_, err := r.Run(context.Background(), eng, NewModel(nil))
	require.Error(t, err)

	var engErr *EngineError
	require.True(t, errors.As(err, &engErr))
	assert.Equal(t, "hydraulics", engErr.Stage)
	require.Len(t, engErr.Lines, 2)
	assert.Contains(t, engErr.Lines[0], "Error 110")

	entries, readErr := os.ReadDir(root)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestRunnerProgressMilestones(t *testing.T) {
	var seen []int
	r := &Runner{Root: t.TempDir(), Progress: func(pct int) { seen = append(seen, pct) }}

	_, err := r.Run(context.Background(), &StubEngine{}, NewModel(nil))
	require.NoError(t, err)
	require.NotEmpty(t, seen)
	assert.Equal(t, 0, seen[0])
	assert.Equal(t, 100, seen[len(seen)-1])
}

func TestRunnerHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{Root: t.TempDir()}
	_, err := r.Run(ctx, &StubEngine{}, NewModel(nil))
	assert.ErrorIs(t, err, context.Canceled)
}
