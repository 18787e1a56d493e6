// Package chrome owns a lazily launched headless Chrome shared by the
// browser measurer and PDF printing.
package chrome

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-cvkit/internal/process"
)

// Sentinel errors for browser operations.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page content")
	ErrClosed         = errors.New("browser closed")
)

// Environment variables honored when launching.
const (
	EnvBrowserBin = "ROD_BROWSER_BIN"
	EnvNoSandbox  = "ROD_NO_SANDBOX"
	EnvCI         = "CI"
)

// DefaultTimeout bounds a single page operation.
const DefaultTimeout = 30 * time.Second

// Browser launches Chrome on first use. Safe for concurrent use; each
// caller gets its own page.
type Browser struct {
	timeout time.Duration

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	closed   bool
}

// New creates a Browser. A non-positive timeout selects DefaultTimeout.
func New(timeout time.Duration) *Browser {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Browser{timeout: timeout}
}

func (b *Browser) ensure() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}
	if b.browser != nil {
		return b.browser, nil
	}

	l := launcher.New()
	// Use a pre-installed browser when provided (containers, CI images).
	if bin := os.Getenv(EnvBrowserBin); bin != "" {
		l = l.Bin(bin)
	}
	if os.Getenv(EnvCI) == "true" || os.Getenv(EnvBrowserBin) != "" || os.Getenv(EnvNoSandbox) == "1" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	br := rod.New().ControlURL(u)
	if err := br.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	b.browser, b.launcher = br, l
	return br, nil
}

// Page opens a blank page bound to ctx and the browser timeout. The
// caller must close it.
func (b *Browser) Page(ctx context.Context) (*rod.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	br, err := b.ensure()
	if err != nil {
		return nil, err
	}
	page, err := br.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	return page.Context(ctx).Timeout(b.timeout), nil
}

// Load opens a page with html as its document.
func (b *Browser) Load(ctx context.Context, html string) (*rod.Page, error) {
	page, err := b.Page(ctx)
	if err != nil {
		return nil, err
	}
	if err := page.SetDocumentContent(html); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := page.WaitLoad(); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	return page, nil
}

// Close shuts Chrome down and kills its process group. Later calls to
// Page fail with ErrClosed.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	if pid := b.launcher.PID(); pid > 0 {
		process.KillProcessGroup(pid)
	}
	b.launcher.Cleanup()
	b.browser, b.launcher = nil, nil
	return err
}

// LookPath reports the Chrome binary that would be launched.
func LookPath() (string, bool) {
	if bin := os.Getenv(EnvBrowserBin); bin != "" {
		if _, err := os.Stat(bin); err == nil {
			return bin, true
		}
		return bin, false
	}
	return launcher.LookPath()
}
