package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-aspectmodel/internal/watch"
	"github.com/goliatone/go-aspectmodel/pkg/logging"
)

func TestNewRequiresPaths(t *testing.T) {
	if _, err := watch.New(watch.Config{}); err == nil {
		t.Fatalf("expected error without paths")
	}
	if _, err := watch.New(watch.Config{Paths: []string{filepath.Join(t.TempDir(), "missing")}}); err == nil {
		t.Fatalf("expected error for missing path")
	}
}

func TestRunBatchesMatchingChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := watch.New(watch.Config{
		Paths:      []string{dir},
		Extensions: []string{".ttl"},
		Debounce:   50 * time.Millisecond,
		Logger:     logging.Discard(),
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	batches := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, changed []string) error {
			batches <- changed
			return nil
		})
	}()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	model := filepath.Join(dir, "Movement.ttl")
	if err := os.WriteFile(model, []byte("@prefix : <urn:samm:io.example:1.0.0#> ."), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case changed := <-batches:
		if len(changed) != 1 || changed[0] != model {
			t.Fatalf("unexpected batch %v", changed)
		}
	case <-ctx.Done():
		t.Fatalf("timed out waiting for change batch")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
}
