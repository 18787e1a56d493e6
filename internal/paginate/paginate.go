// Package paginate splits a flowed HTML fragment into fixed-height pages.
//
// Top-level children of the fragment are packed greedily, in order, into
// pages no taller than the page height. A child is never split, so a
// section taller than a page overflows its page. Measurement is delegated
// to a Measurer: MetricsMeasurer computes heights from font metrics in
// pure Go, BrowserMeasurer asks headless Chrome.
package paginate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrMeasure indicates a measurement that could not be completed.
var ErrMeasure = errors.New("measurement failed")

// Container is the offscreen box a fragment is measured in.
type Container struct {
	HTML  string
	Width float64 // CSS pixels
	Style string  // inline style of the container
}

// Measurement holds the outer heights of the fragment's top-level
// children, margins included, in document order.
type Measurement struct {
	Total    float64
	Children []float64
}

// Measurer lays out a fragment and reports its heights.
type Measurer interface {
	Measure(ctx context.Context, c Container) (Measurement, error)
}

// Paginator packs fragments into pages.
type Paginator struct {
	measurer  Measurer
	baseStyle string
	logger    *slog.Logger
}

// Option configures a Paginator.
type Option func(*Paginator)

// WithBaseStyle sets the inline style applied to the measuring container.
func WithBaseStyle(css string) Option {
	return func(p *Paginator) { p.baseStyle = css }
}

// WithLogger sets the logger for measurement failures.
func WithLogger(l *slog.Logger) Option {
	return func(p *Paginator) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Paginator using m.
func New(m Measurer, opts ...Option) *Paginator {
	p := &Paginator{measurer: m, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Paginate splits fragment into pages of at most height pixels at the
// given width. It never fails: when measurement is impossible the whole
// fragment is returned as a single page.
func (p *Paginator) Paginate(ctx context.Context, fragment string, width, height float64) []string {
	trimmed := strings.TrimSpace(fragment)

	nodes, err := topLevel(trimmed)
	if err != nil || len(nodes) == 0 {
		return []string{fragment}
	}
	if height <= 0 || width <= 0 {
		p.logger.Debug("pagination skipped", "width", width, "height", height)
		return []string{trimmed}
	}

	m, err := p.measurer.Measure(ctx, Container{HTML: trimmed, Width: width, Style: p.baseStyle})
	switch {
	case err != nil:
		p.logger.Debug("measurement failed", "error", err)
		return []string{trimmed}
	case m.Total <= 0:
		p.logger.Debug("measurement returned zero height")
		return []string{trimmed}
	case len(m.Children) != len(nodes):
		p.logger.Debug("measurement child count mismatch", "measured", len(m.Children), "parsed", len(nodes))
		return []string{trimmed}
	case m.Total <= height:
		return []string{trimmed}
	}

	return pack(nodes, m.Children, height)
}

// pack is the greedy insertion-order packing. A page is closed only when
// it already holds content, so an oversized child gets a page of its own.
func pack(nodes []*html.Node, heights []float64, limit float64) []string {
	var pages []string
	var cur strings.Builder
	used := 0.0
	count := 0

	for i, n := range nodes {
		h := heights[i]
		if count > 0 && used+h > limit {
			pages = append(pages, cur.String())
			cur.Reset()
			used, count = 0, 0
		}
		_ = html.Render(&cur, n)
		used += h
		count++
	}
	if count > 0 {
		pages = append(pages, cur.String())
	}
	return pages
}

// topLevel parses a fragment in a <div> context and returns its element
// children and non-blank text nodes. Comments and whitespace are dropped.
func topLevel(fragment string) ([]*html.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	out := nodes[:0]
	for _, n := range nodes {
		switch n.Type {
		case html.ElementNode:
			out = append(out, n)
		case html.TextNode:
			if strings.TrimSpace(n.Data) != "" {
				out = append(out, n)
			}
		}
	}
	return out, nil
}
