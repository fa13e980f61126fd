package sat

import (
	"context"
	"fmt"

	"github.com/crillab/gophersat/solver"
	"github.com/go-logr/logr"
)

type gophersatSolver struct{}

// NewGophersatSolver returns an in-process pseudo-boolean optimiser. Every improving model is
// streamed back, so the best one found before the time limit is kept. The search itself cannot be
// interrupted: past the deadline it runs on in the background with its results discarded.
func NewGophersatSolver() Solver {
	return &gophersatSolver{}
}

func (s *gophersatSolver) Solve(ctx context.Context, model *Model, params Params) (*Solution, error) {
	logger := logr.FromContextOrDiscard(ctx).WithValues("solver", "gophersat")

	prog, err := lower(model)
	if err != nil {
		return nil, err
	}
	if prog.infeasible() {
		return nil, ErrUnsatisfiable
	}

	problem := prog.toProblem()
	if problem.Status == solver.Unsat {
		return nil, ErrUnsatisfiable
	}
	if params.Threads > 1 {
		logger.Info("engine is single-threaded, ignoring thread count", "threads", params.Threads)
	}

	ctx, cancel := withTimeLimit(ctx, params)
	defer cancel()

	results := make(chan solver.Result)
	stop := make(chan struct{})
	go solver.New(problem).Optimal(results, stop)

	var best []bool
	for {
		select {
		case result, ok := <-results:
			if !ok {
				if best == nil {
					return nil, ErrUnsatisfiable
				}
				return newSolution(model, best, true), nil
			}
			if result.Status != solver.Sat {
				continue
			}
			best = make([]bool, prog.variables)
			for key, binding := range result.Model {
				if i, ok := any(key).(int); ok && i >= 0 && i < len(best) {
					best[i] = binding
				}
			}
			logger.V(1).Info("improving model", "cost", result.Weight+prog.offset)
		case <-ctx.Done():
			close(stop)
			go func() {
				for range results {
				}
			}()
			if best == nil {
				return nil, fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
			}
			return newSolution(model, best, false), nil
		}
	}
}
