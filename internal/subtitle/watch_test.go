package subtitle_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/wader/osleaktest"
	"github.com/wader/subcat/internal/subtitle"
)

func leakChecks(t *testing.T) func() {
	leakFn := leaktest.Check(t)
	osLeakFn := osleaktest.Check(t)
	return func() {
		leakFn()
		osLeakFn()
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ass")
	other := filepath.Join(dir, "b.ass")
	if err := os.WriteFile(path, []byte(assScript), 0o644); err != nil {
		t.Fatal(err)
	}

	defer leakChecks(t)()

	ctx, cancel := context.WithCancel(context.Background())
	called := make(chan struct{}, 1)
	done := make(chan error)
	go func() {
		done <- subtitle.Watch(ctx, path, func() {
			select {
			case called <- struct{}{}:
			default:
			}
		})
	}()

	// keep writing, slower than the debounce, as the watcher might not be set up yet
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(300 * time.Millisecond)
	defer tick.Stop()
	n := 0
	for seen := false; !seen; {
		select {
		case <-called:
			seen = true
		case <-tick.C:
			if err := os.WriteFile(other, []byte("ignored"), 0o644); err != nil {
				t.Fatal(err)
			}
			n++
			if err := os.WriteFile(path, []byte(assScript+strconv.Itoa(n)), 0o644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			cancel()
			<-done
			t.Fatal("expected fn to be called")
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

func TestWatchMissingDir(t *testing.T) {
	err := subtitle.Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "a.ass"), func() {})
	if err == nil {
		t.Error("expected error")
	}
}

func TestWatchSameContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ass")
	if err := os.WriteFile(path, []byte(assScript), 0o644); err != nil {
		t.Fatal(err)
	}

	defer leakChecks(t)()

	ctx, cancel := context.WithCancel(context.Background())
	called := make(chan struct{}, 1)
	done := make(chan error)
	go func() {
		done <- subtitle.Watch(ctx, path, func() {
			select {
			case called <- struct{}{}:
			default:
			}
		})
	}()

	for i := 0; i < 5; i++ {
		time.Sleep(50 * time.Millisecond)
		if err := os.WriteFile(path, []byte(assScript), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-called:
		t.Error("expected no call for unchanged content")
	case <-time.After(500 * time.Millisecond):
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}
