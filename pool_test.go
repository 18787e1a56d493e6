package cvkit

import (
	"errors"
	"runtime"
	"testing"
)

// Compile-time interface check.
var _ interface {
	Acquire() (*Converter, error)
	Release(*Converter)
	Size() int
	Close() error
} = (*ConverterPool)(nil)

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{name: "explicit takes priority", workers: 4, want: 4},
		{name: "explicit=1 for sequential", workers: 1, want: 1},
		{name: "explicit can exceed max", workers: MaxPoolSize + 4, want: MaxPoolSize + 4},
		{name: "zero uses auto calculation", workers: 0, want: min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize)},
		{name: "negative uses auto calculation", workers: -3, want: min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolvePoolSize(tt.workers); got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func TestConverterPool_AcquireRelease(t *testing.T) {
	t.Parallel()

	pool, err := NewConverterPool(2)
	if err != nil {
		t.Fatalf("NewConverterPool() unexpected error: %v", err)
	}
	defer func() { _ = pool.Close() }()

	if pool.Size() != 2 {
		t.Errorf("Size() = %d, want 2", pool.Size())
	}

	a, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() unexpected error: %v", err)
	}
	b, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() unexpected error: %v", err)
	}
	if a == b {
		t.Error("two acquires returned the same converter")
	}

	pool.Release(a)
	c, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() unexpected error: %v", err)
	}
	if c != a {
		t.Error("Acquire() should reuse the released converter")
	}
	pool.Release(b)
	pool.Release(c)
}

func TestConverterPool_MinimumSize(t *testing.T) {
	t.Parallel()

	pool, err := NewConverterPool(0)
	if err != nil {
		t.Fatalf("NewConverterPool() unexpected error: %v", err)
	}
	defer func() { _ = pool.Close() }()

	if pool.Size() != MinPoolSize {
		t.Errorf("Size() = %d, want %d", pool.Size(), MinPoolSize)
	}
}

func TestConverterPool_InvalidOptions(t *testing.T) {
	t.Parallel()

	if _, err := NewConverterPool(2, WithMeasurer("ruler")); !errors.Is(err, ErrInvalidMeasurer) {
		t.Errorf("NewConverterPool() error = %v, want ErrInvalidMeasurer", err)
	}
}

func TestConverterPool_Close(t *testing.T) {
	t.Parallel()

	pool, err := NewConverterPool(2)
	if err != nil {
		t.Fatalf("NewConverterPool() unexpected error: %v", err)
	}
	conv, _ := pool.Acquire()

	if err := pool.Close(); err != nil {
		t.Errorf("Close() unexpected error: %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Errorf("second Close() unexpected error: %v", err)
	}

	// Releasing into a closed pool is a no-op.
	pool.Release(conv)

	if _, err := pool.Acquire(); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Acquire() after Close() error = %v, want ErrPoolClosed", err)
	}
}

func TestConverterPool_AcquireAfterCloseWithIdleConverter(t *testing.T) {
	t.Parallel()

	pool, err := NewConverterPool(1)
	if err != nil {
		t.Fatalf("NewConverterPool() unexpected error: %v", err)
	}
	conv, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() unexpected error: %v", err)
	}
	pool.Release(conv)

	if err := pool.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}

	got, err := pool.Acquire()
	if !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Acquire() error = %v, want ErrPoolClosed", err)
	}
	if got != nil {
		t.Error("Acquire() after Close() returned a closed converter")
	}
}
