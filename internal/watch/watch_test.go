package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherFiresOnYAMLChange(t *testing.T) {
	dir := t.TempDir()

	jobs := make(chan Job, 4)
	w, err := New(dir, func(j Job) { jobs <- j })
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	path := filepath.Join(dir, "star.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: star\n"), 0o644))

	select {
	case job := <-jobs:
		require.NotEmpty(t, job.ID)
		require.Contains(t, job.Files, path)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for watcher to fire")
	}
}

func TestWatcherIgnoresNonYAML(t *testing.T) {
	dir := t.TempDir()

	jobs := make(chan Job, 4)
	w, err := New(dir, func(j Job) { jobs <- j })
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hi"), 0o644))

	select {
	case job := <-jobs:
		t.Fatalf("did not expect a job for a non-yaml file, got %v", job)
	case <-time.After(debounceWindow + 200*time.Millisecond):
	}
}
