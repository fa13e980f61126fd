package sat

import (
	"context"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
	"github.com/go-logr/logr"
)

type giniSolver struct{}

// NewGiniSolver returns an in-process CDCL engine driven by a linear search on the objective.
// Clauses learnt under one bound stay valid under the next, tighter one.
func NewGiniSolver() Solver {
	return &giniSolver{}
}

func (s *giniSolver) Solve(ctx context.Context, model *Model, params Params) (*Solution, error) {
	logger := logr.FromContextOrDiscard(ctx).WithValues("solver", "gini")
	if params.Threads > 1 {
		logger.Info("engine is single-threaded, ignoring thread count", "threads", params.Threads)
	}
	return linearSearch(ctx, model, params, &giniBackend{g: gini.New()}, logger)
}

type giniBackend struct {
	g *gini.Gini
	// Highest variable mentioned in a clause; gini knows nothing about the others.
	variables int64
}

func (backend *giniBackend) add(clauses [][]int64, _ uint64) error {
	for _, clause := range clauses {
		for _, literal := range clause {
			backend.g.Add(z.Dimacs2Lit(int(literal)))
			backend.variables = max(backend.variables, literal, -literal)
		}
		backend.g.Add(z.LitNull)
	}
	return nil
}

func (backend *giniBackend) solve(ctx context.Context) (SATSolution, error) {
	var result int
	if deadline, ok := ctx.Deadline(); ok {
		result = backend.g.GoSolve().Try(time.Until(deadline))
	} else {
		result = backend.g.Solve()
	}

	switch result {
	case 1:
		solution := make(SATSolution, 0, backend.variables)
		for v := int64(1); v <= backend.variables; v++ {
			if backend.g.Value(z.Dimacs2Lit(int(v))) {
				solution = append(solution, v)
			} else {
				solution = append(solution, -v)
			}
		}
		return solution, nil
	case -1:
		return nil, nil
	default:
		return nil, errInterrupted
	}
}
