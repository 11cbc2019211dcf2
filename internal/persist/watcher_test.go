package persist

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func TestWatchImportsDroppedFiles(t *testing.T) {
	dir := t.TempDir()
	var imports atomic.Int32

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, quietLogger(), func(data []byte) error {
			imports.Add(1)
			return nil
		})
	}()
	// Give the watcher a moment to register the directory.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "graph.json")
	if err := os.WriteFile(path, []byte(`{"nodes":[],"edges":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return imports.Load() == 1 })

	// Same contents again: checksum suppression skips the re-import.
	if err := os.WriteFile(path, []byte(`{"nodes":[],"edges":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(400 * time.Millisecond)
	if got := imports.Load(); got != 1 {
		t.Errorf("imports = %d after identical rewrite, want 1", got)
	}

	// Changed contents trigger a new import.
	if err := os.WriteFile(path, []byte(`{"nodes":[{"id":"ann"}],"edges":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return imports.Load() == 2 })

	// Non-JSON files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(400 * time.Millisecond)
	if got := imports.Load(); got != 2 {
		t.Errorf("imports = %d after txt drop, want 2", got)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("watch returned %v", err)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
