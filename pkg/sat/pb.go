package sat

import (
	"github.com/crillab/gophersat/solver"
	"github.com/samber/lo"
)

// toProblem hands the program to gophersat as constraint values, clauses being constraints with
// a right-hand side of 1. A constraint with a zero bound mentions every variable so that the
// problem knows them all, including those only the objective uses.
func (prog *program) toProblem() *solver.Problem {
	constrs := make([]solver.PBConstr, 0, 1+len(prog.clauses)+len(prog.constraints))
	constrs = append(constrs, solver.PBConstr{Lits: lo.RangeFrom(1, prog.variables)})
	for _, clause := range prog.clauses {
		constrs = append(constrs, solver.PropClause(clause...))
	}
	for _, constraint := range prog.constraints {
		constrs = append(constrs, solver.GtEq(constraint.lits, constraint.coeffs, constraint.atLeast))
	}

	problem := solver.ParsePBConstrs(constrs)
	if len(prog.objective) > 0 {
		lits := lo.Map(prog.objective, func(term weightedLit, _ int) solver.Lit { return gophersatLit(term.lit) })
		weights := lo.Map(prog.objective, func(term weightedLit, _ int) int { return term.weight })
		problem.SetCostFunc(lits, weights)
	}
	return problem
}

// gophersatLit converts a DIMACS literal; gophersat numbers variables from 0.
func gophersatLit(lit int) solver.Lit {
	v := lit
	if v < 0 {
		v = -v
	}
	return solver.Var(v - 1).SignedLit(lit < 0)
}
