package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcher_TriggersRebuildOnChange(t *testing.T) {
	dir := t.TempDir()
	rebuilt := make(chan struct{}, 1)
	w := NewWatcher(dir, func() {
		select {
		case rebuilt <- struct{}{}:
		default:
		}
	}, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "new.txt"), []byte("cat dog"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-rebuilt:
	case <-time.After(5 * time.Second):
		t.Fatal("rebuild callback not invoked")
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	var count atomic.Int32
	done := make(chan struct{})
	var doneOnce sync.Once
	w := NewWatcher(dir, func() {
		count.Add(1)
		doneOnce.Do(func() { close(done) })
	}, WithDebounce(200*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, "burst.txt")
		if err := os.WriteFile(name, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after burst")
	}
	// Allow a grace period for any spurious extra rebuilds.
	time.Sleep(300 * time.Millisecond)
	if n := count.Load(); n > 2 {
		t.Errorf("burst of writes caused %d rebuilds", n)
	}
}

func TestWatcher_IgnoresForeignExtensions(t *testing.T) {
	dir := t.TempDir()
	rebuilt := make(chan struct{}, 1)
	w := NewWatcher(dir, func() {
		select {
		case rebuilt <- struct{}{}:
		default:
		}
	}, WithDebounce(50*time.Millisecond), WithExtensions([]string{".txt", ".md"}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	// A colocated database and an editor temp file must not trigger.
	for _, name := range []string{"documents.db", "notes.txt~"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	select {
	case <-rebuilt:
		t.Fatal("non-corpus file triggered a rebuild")
	case <-time.After(300 * time.Millisecond):
	}

	if err := os.WriteFile(filepath.Join(dir, "doc.txt"), []byte("cat dog"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-rebuilt:
	case <-time.After(5 * time.Second):
		t.Fatal("corpus file did not trigger a rebuild")
	}
}

func TestWatcher_MissingRoot(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "missing"), func() {})
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Error("expected error for missing root")
	}
}
