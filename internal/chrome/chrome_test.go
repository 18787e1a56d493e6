package chrome

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestBrowser_ClosedBeforeLaunch(t *testing.T) {
	t.Parallel()

	b := New(0)
	if b.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", b.timeout, DefaultTimeout)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}
	if _, err := b.Page(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Page() after Close error = %v, want ErrClosed", err)
	}
}

func TestBrowser_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(0).Page(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Page() error = %v, want context.Canceled", err)
	}
}

func TestLookPath_EnvOverride(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "chrome")
	t.Setenv(EnvBrowserBin, missing)

	got, ok := LookPath()
	if ok || got != missing {
		t.Errorf("LookPath() = %q, %v; want %q, false", got, ok, missing)
	}
}
