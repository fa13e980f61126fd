package sat

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnavailable reports that the engine could not be started at all.
	ErrUnavailable = errors.New("solver unavailable")
	// ErrTimeout reports that the time limit elapsed before any candidate was found.
	ErrTimeout = errors.New("solver timed out without a candidate")
	// ErrUnsatisfiable reports that the hard constraints admit no assignment.
	ErrUnsatisfiable = errors.New("model is unsatisfiable")
	// ErrUnsupported reports a model construct the engine cannot express.
	ErrUnsupported = errors.New("unsupported model construct")
)

type Params struct {
	TimeLimit time.Duration // Zero means no limit
	Threads   int
}

// Solution is a candidate assignment. It is not a proof of feasibility: when the time limit
// interrupts the search the best assignment found so far is returned with Optimal unset.
type Solution struct {
	Objective int
	Values    []bool // Values[v-1] is the binding of variable v
	Optimal   bool
}

func (solution *Solution) Value(v Var) bool {
	return int(v) <= len(solution.Values) && solution.Values[v-1]
}

type Solver interface {
	// Solve searches the model until it proves optimality or params.TimeLimit elapses.
	Solve(ctx context.Context, model *Model, params Params) (*Solution, error)
}

// withTimeLimit derives the search context from the caller's one and the time limit.
func withTimeLimit(ctx context.Context, params Params) (context.Context, context.CancelFunc) {
	if params.TimeLimit <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, params.TimeLimit)
}

// newSolution trims the engine's bindings to the model's variables and evaluates the
// model objective on them.
func newSolution(model *Model, values []bool, optimal bool) *Solution {
	trimmed := make([]bool, model.variables)
	copy(trimmed, values)
	return &Solution{
		Objective: Eval(model.objective, trimmed),
		Values:    trimmed,
		Optimal:   optimal,
	}
}
