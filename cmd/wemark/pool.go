package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	wemark "github.com/alnah/go-wemark"
)

// Converter is the slice of *wemark.Converter the CLI uses.
type Converter interface {
	Convert(ctx context.Context, input wemark.Input) (*wemark.ConvertResult, error)
	Export(ctx context.Context, fragment string, format wemark.ExportFormat) ([]byte, error)
	Themes() []string
	CodeThemes() []string
}

// Compile-time interface implementation check.
var _ Converter = (*wemark.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire(ctx context.Context) (Converter, error)
	Release(Converter)
	Size() int
}

// poolAdapter exposes a *wemark.ConverterPool as a Pool.
type poolAdapter struct {
	pool *wemark.ConverterPool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

// Acquire gets a converter, creating one if needed.
func (a *poolAdapter) Acquire(ctx context.Context) (Converter, error) {
	conv, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// Release returns a converter to the pool. Panics if conv did not come
// from a *wemark.ConverterPool (programmer error).
func (a *poolAdapter) Release(conv Converter) {
	c, ok := conv.(*wemark.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", conv))
	}
	a.pool.Release(c)
}

// Size returns the pool capacity.
func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

// newPool builds a pool sized for the file count.
func newPool(s *settings, files int) *wemark.ConverterPool {
	size := wemark.ResolvePoolSize(s.workers)
	if size > files {
		size = max(files, 1)
	}
	s.logger.Debug("converter pool ready", zap.Int("size", size))
	return wemark.NewConverterPool(size, s.converterOptions()...)
}
