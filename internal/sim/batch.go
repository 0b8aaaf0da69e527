package sim

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/san-kum/sitnikov/internal/ode"
	"github.com/san-kum/sitnikov/internal/scan"
)

// RowError annotates a trajectory failure with the originating grid row.
type RowError struct {
	Row     int
	Cond    scan.Condition
	Wrapped error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("grid row %d (z0=%g, v0=%g): %v", e.Row, e.Cond.Z0, e.Cond.V0, e.Wrapped)
}

func (e *RowError) Unwrap() error { return e.Wrapped }

// Solution aggregates every trajectory of a grid scan into one flat
// state sequence in row-major order: the state of grid row i at sample k
// sits at index i*Stride + k. Stride and the originating conditions are
// kept so individual rows stay addressable after flattening.
type Solution struct {
	Anomalies  []float64
	States     []ode.State
	Stride     int
	Conditions []scan.Condition
}

func (s *Solution) Rows() int { return len(s.Conditions) }

// Row returns the state sequence of one grid row as a subslice of the
// flat sequence.
func (s *Solution) Row(i int) []ode.State {
	return s.States[i*s.Stride : (i+1)*s.Stride]
}

// At returns the state of grid row i at sample k.
func (s *Solution) At(i, k int) ode.State {
	return s.States[i*s.Stride+k]
}

// Batch drives one Simulator run per grid row. Rows are fully
// independent, so they fan out across a worker pool; each worker owns a
// private integrator and results merge deterministically by row index
// regardless of completion order.
type Batch struct {
	sys           ode.System
	newIntegrator func() ode.Integrator
	workers       int
}

// NewBatch builds a batch runner. The integrator factory is invoked once
// per worker because fixed-grid integrators are not safe to share.
func NewBatch(sys ode.System, newIntegrator func() ode.Integrator) *Batch {
	return &Batch{sys: sys, newIntegrator: newIntegrator}
}

// SetWorkers bounds the worker pool. Zero or negative means one worker
// per CPU; 1 degenerates to a sequential scan.
func (b *Batch) SetWorkers(n int) { b.workers = n }

// Run integrates every grid row and concatenates the results. The first
// row failure aborts the whole batch: remaining rows are cancelled and
// the error surfaces wrapped in *RowError. Callers wanting partial
// results must scan row by row themselves.
func (b *Batch) Run(ctx context.Context, grid []scan.Condition, cfg Config) (*Solution, error) {
	es, err := cfg.Anomalies()
	if err != nil {
		return nil, err
	}

	sol := &Solution{
		Anomalies:  es,
		Stride:     len(es),
		Conditions: grid,
	}
	if len(grid) == 0 {
		sol.States = []ode.State{}
		return sol, nil
	}

	results := make([]*Trajectory, len(grid))
	errs := make([]error, len(grid))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := b.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(grid) {
		workers = len(grid)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			s := New(b.sys, b.newIntegrator())
			for idx := range jobs {
				if ctx.Err() != nil {
					errs[idx] = ctx.Err()
					continue
				}
				x0 := ode.State{grid[idx].Z0, grid[idx].V0}
				results[idx], errs[idx] = s.Run(ctx, x0, cfg)
				if errs[idx] != nil {
					cancel()
				}
			}
		}()
	}

	for idx := range grid {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	if err := firstRowError(grid, errs); err != nil {
		return nil, err
	}

	sol.States = make([]ode.State, 0, len(grid)*len(es))
	for _, tr := range results {
		sol.States = append(sol.States, tr.States...)
	}
	return sol, nil
}

// firstRowError picks the error to surface. Rows cancelled as collateral
// of another row's failure report context.Canceled; the genuine failure
// is preferred over those.
func firstRowError(grid []scan.Condition, errs []error) error {
	fallback := -1
	for i, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) {
			if fallback < 0 {
				fallback = i
			}
			continue
		}
		return &RowError{Row: i, Cond: grid[i], Wrapped: err}
	}
	if fallback >= 0 {
		return &RowError{Row: fallback, Cond: grid[fallback], Wrapped: errs[fallback]}
	}
	return nil
}
