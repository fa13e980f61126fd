package model

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/limaJavier/socialgolfer/pkg/sat"
)

type Scheduler interface {
	Build(
		ctx context.Context,
		instance Instance,
		params sat.Params,
	) (schedule Schedule, variables uint64, constraints uint64, err error)

	Verify(
		schedule Schedule,
		instance Instance,
	) bool
}

type solverScheduler struct {
	solver       sat.Solver
	maxVariables uint64
}

func NewScheduler(solver sat.Solver, maxVariables uint64) Scheduler {
	return &solverScheduler{
		solver:       solver,
		maxVariables: maxVariables,
	}
}

func (scheduler *solverScheduler) Build(ctx context.Context, instance Instance, params sat.Params) (Schedule, uint64, uint64, error) {
	logger := logr.FromContextOrDiscard(ctx).WithValues("groups", instance.Groups, "groupSize", instance.GroupSize, "weeks", instance.Weeks)

	//** Build model
	formulation, err := Formulate(instance, scheduler.maxVariables)
	if err != nil {
		return Schedule{}, 0, 0, err
	}
	variables, constraints := uint64(formulation.Model.Variables()), uint64(formulation.Model.Constraints())
	logger.Info("model built", "variables", variables, "constraints", constraints)

	//** Solve model
	solution, err := scheduler.solver.Solve(logr.NewContext(ctx, logger), formulation.Model, params)
	if err != nil {
		return Schedule{}, variables, constraints, fmt.Errorf("cannot solve model: %w", err)
	}
	logger.Info("model solved", "objective", solution.Objective, "optimal", solution.Optimal)

	return formulation.Encode(solution), variables, constraints, nil
}

func (scheduler *solverScheduler) Verify(schedule Schedule, instance Instance) bool {
	return Validate(schedule, instance.Weeks, instance.Groups, instance.Golfers(), instance.GroupSize)
}
