package sat

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"
)

// errInterrupted is returned by a backend whose solve was cut short by the context.
var errInterrupted = errors.New("solve interrupted")

// cnfBackend is a SAT engine that accepts clauses incrementally.
type cnfBackend interface {
	add(clauses [][]int64, variables uint64) error
	// solve returns nil when the clauses are unsatisfiable.
	solve(ctx context.Context) (SATSolution, error)
}

// linearSearch minimises the model over a CNF backend: it finds any model, then repeatedly asks
// for one whose objective is strictly smaller, until the backend proves there is none or the time
// limit elapses. The objective is summed by a binary adder once; each step only adds the clauses
// comparing its output with the new bound.
func linearSearch(ctx context.Context, model *Model, params Params, backend cnfBackend, logger logr.Logger) (*Solution, error) {
	ctx, cancel := withTimeLimit(ctx, params)
	defer cancel()

	prog, err := lower(model)
	if err != nil {
		return nil, err
	}
	if prog.infeasible() {
		return nil, ErrUnsatisfiable
	}
	encoder := newCNFEncoder(prog.variables)
	if err := encoder.encode(ctx, prog); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
		}
		return nil, err
	}
	if err := backend.add(encoder.sat.Clauses, encoder.sat.Variables); err != nil {
		return nil, err
	}

	solution, err := backend.solve(ctx)
	if errors.Is(err, errInterrupted) {
		return nil, fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
	} else if err != nil {
		return nil, err
	} else if solution == nil {
		return nil, ErrUnsatisfiable
	}

	// Auxiliaries may come back loose; the model objective is what an assignment can reach.
	best := solution.Assignment(prog.variables)
	count := Eval(model.objective, best) - prog.offset
	logger.V(1).Info("initial model", "cost", count+prog.offset)
	if count <= 0 {
		return newSolution(model, best, true), nil
	}

	clauses := len(encoder.sat.Clauses)
	bits, err := encoder.adder(ctx, prog.objective)
	if err != nil {
		logger.V(1).Info("time limit reached while encoding the objective", "cost", count+prog.offset)
		return newSolution(model, best, false), nil
	}
	logger.V(1).Info("objective encoded", "bits", len(bits), "clauses", len(encoder.sat.Clauses)-clauses)

	for count > 0 {
		encoder.atMostValue(bits, count-1)
		if err := backend.add(encoder.sat.Clauses[clauses:], encoder.sat.Variables); err != nil {
			return nil, err
		}
		clauses = len(encoder.sat.Clauses)

		solution, err := backend.solve(ctx)
		if errors.Is(err, errInterrupted) {
			logger.V(1).Info("time limit reached", "cost", count+prog.offset)
			return newSolution(model, best, false), nil
		} else if err != nil {
			return nil, err
		} else if solution == nil {
			break
		}
		best = solution.Assignment(prog.variables)
		count = Eval(model.objective, best) - prog.offset
		logger.V(1).Info("improving model", "cost", count+prog.offset)
	}
	return newSolution(model, best, true), nil
}
