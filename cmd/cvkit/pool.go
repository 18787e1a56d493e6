package main

import (
	"context"
	"fmt"

	cvkit "github.com/alnah/go-cvkit"
	"github.com/alnah/go-cvkit/resume"
)

// Converter is the slice of cvkit.Converter the commands use.
type Converter interface {
	Preview(ctx context.Context, doc resume.Document, template string) (*cvkit.Preview, error)
	Export(ctx context.Context, doc resume.Document, template string) (*cvkit.File, error)
	ExportPDF(ctx context.Context, doc resume.Document, template string) (*cvkit.File, error)
	Templates() ([]cvkit.Template, error)
}

// Compile-time interface implementation check.
var _ Converter = (*cvkit.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() (Converter, error)
	Release(Converter)
	Size() int
	Close() error
}

// converterPool adapts cvkit.ConverterPool to Pool.
type converterPool struct {
	pool *cvkit.ConverterPool
}

var _ Pool = (*converterPool)(nil)

// newConverterPool is the production Environment.NewPool.
func newConverterPool(n int, opts ...cvkit.Option) (Pool, error) {
	p, err := cvkit.NewConverterPool(n, opts...)
	if err != nil {
		return nil, err
	}
	return &converterPool{pool: p}, nil
}

func (p *converterPool) Acquire() (Converter, error) {
	conv, err := p.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// Release panics when c did not come from this pool.
func (p *converterPool) Release(c Converter) {
	conv, ok := c.(*cvkit.Converter)
	if !ok {
		panic(fmt.Sprintf("converterPool.Release: unexpected type %T", c))
	}
	p.pool.Release(conv)
}

func (p *converterPool) Size() int    { return p.pool.Size() }
func (p *converterPool) Close() error { return p.pool.Close() }
