// Package export produces the DOCX download for a résumé.
//
// The document is derived from the same layout tree as the HTML preview,
// so both outputs agree on ordering, suppression and grouping. An export
// moves through Idle, Building, Packaging and then Done or Failed; a
// failure yields no bytes. Identical concurrent requests share one build.
package export

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/alnah/go-cvkit/internal/docx"
	"github.com/alnah/go-cvkit/internal/layout"
	"github.com/alnah/go-cvkit/internal/style"
	"github.com/alnah/go-cvkit/resume"
)

// ErrExportFailed wraps every export failure.
var ErrExportFailed = errors.New("export failed")

// ErrInvalidTransition indicates a state change the export lifecycle
// does not allow.
var ErrInvalidTransition = errors.New("invalid export state transition")

// State is a step of the export lifecycle.
type State string

const (
	StateIdle      State = "idle"
	StateBuilding  State = "building"
	StatePackaging State = "packaging"
	StateDone      State = "done"
	StateFailed    State = "failed"
)

var transitions = map[State][]State{
	StateIdle:      {StateBuilding},
	StateBuilding:  {StatePackaging, StateFailed},
	StatePackaging: {StateDone, StateFailed},
}

// CanTransition reports whether the lifecycle allows from -> to.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// PhotoSource rasterizes profile images. *imaging.Processor implements it.
// Each method returns nil when the image cannot be produced.
type PhotoSource interface {
	Circular(ctx context.Context, src string, size int) []byte
	Square(ctx context.Context, src string, size int) []byte
	InitialsBadge(initials string, size int, hex string) []byte
}

// Tracker records completed exports. It receives the template name only.
type Tracker interface {
	TrackExport(ctx context.Context, template string) error
}

// Result is an exported file.
type Result struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Exporter builds DOCX files. Safe for concurrent use.
type Exporter struct {
	photos  PhotoSource
	tracker Tracker
	observe func(State)
	logger  *slog.Logger
	flight  singleflight.Group
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithPhotos sets the image rasterizer. Without one, photo slots use a
// shaded text badge.
func WithPhotos(p PhotoSource) Option {
	return func(e *Exporter) { e.photos = p }
}

// WithTracker sets the analytics collaborator.
func WithTracker(t Tracker) Option {
	return func(e *Exporter) { e.tracker = t }
}

// WithObserver receives every state change. It must not block.
func WithObserver(fn func(State)) Option {
	return func(e *Exporter) { e.observe = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Exporter.
func New(opts ...Option) *Exporter {
	e := &Exporter{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export builds the DOCX for doc in style s. Concurrent calls with the
// same template and content share one build and receive equal bytes.
func (e *Exporter) Export(ctx context.Context, doc resume.Document, s *style.Style) (Result, error) {
	if s == nil {
		return Result{}, fmt.Errorf("%w: no template", ErrExportFailed)
	}
	key, err := flightKey(doc, s)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	v, err, shared := e.flight.Do(key, func() (any, error) {
		return e.run(ctx, doc, s)
	})
	if err != nil && shared && ctx.Err() == nil && isContextErr(err) {
		// The build was started by a caller that has since gone away.
		return e.run(ctx, doc, s)
	}
	if err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	if shared {
		e.logger.Debug("export shared with in-flight request", "template", s.Name)
	}
	res := v.(Result)
	res.Data = append([]byte(nil), res.Data...)
	return res, nil
}

// run is one export through the lifecycle.
func (e *Exporter) run(ctx context.Context, doc resume.Document, s *style.Style) (res Result, err error) {
	m := &machine{state: StateIdle, observe: e.observe}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrExportFailed, r)
		}
		if err != nil {
			m.fail()
			e.logger.Debug("export failed", "template", s.Name, "error", err)
			res = Result{}
		}
	}()

	m.to(StateBuilding)
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	tree := layout.Build(doc, s)
	// Other callers may be waiting on this build, so it outlives ctx.
	b := &builder{ctx: context.WithoutCancel(ctx), s: s, photos: e.photos, logger: e.logger}
	d := b.build(tree)

	m.to(StatePackaging)
	data, err := d.Bytes()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	m.to(StateDone)
	e.track(ctx, s.Name)
	return Result{Data: data, Filename: doc.Filename(), ContentType: docx.ContentType}, nil
}

// track fires the analytics call without waiting for it.
func (e *Exporter) track(ctx context.Context, template string) {
	if e.tracker == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				e.logger.Debug("export tracker panicked", "panic", r)
			}
		}()
		if err := e.tracker.TrackExport(ctx, template); err != nil {
			e.logger.Debug("export tracking failed", "error", err)
		}
	}()
}

// flightKey identifies an export by template and document content.
func flightKey(doc resume.Document, s *style.Style) (string, error) {
	data, err := resume.Encode(doc, resume.FormatJSON)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return s.Name + ":" + s.Page.Size + ":" + hex.EncodeToString(sum[:]), nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// machine enforces the lifecycle and reports changes.
type machine struct {
	state   State
	observe func(State)
}

func (m *machine) to(next State) {
	if !CanTransition(m.state, next) {
		panic(fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.state, next))
	}
	m.state = next
	if m.observe != nil {
		m.observe(next)
	}
}

// fail moves to Failed from any unfinished state.
func (m *machine) fail() {
	if m.state == StateDone || m.state == StateFailed {
		return
	}
	if m.state == StateIdle {
		m.to(StateBuilding)
	}
	m.to(StateFailed)
}
