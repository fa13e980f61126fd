package sat

import (
	"testing"

	"github.com/crillab/gophersat/solver"
	"github.com/stretchr/testify/assert"
)

func TestToProblem(t *testing.T) {
	//** Arrange
	// Variable 3 appears only in a clause and the objective, variable 4 nowhere
	prog := &program{
		variables:   4,
		clauses:     [][]int{{-3, 1}},
		constraints: []pbConstraint{{lits: []int{1, -2}, coeffs: []int{2, 1}, atLeast: 2}},
		objective:   []weightedLit{{lit: 3, weight: 1}, {lit: 1, weight: 2}, {lit: -4, weight: 5}},
	}

	//** Act
	problem := prog.toProblem()

	//** Assert
	assert.Equal(t, 4, problem.NbVars)
	assert.NotEqual(t, solver.Unsat, problem.Status)
	// x1 is forced by the constraint, x3 and x4 are free
	assert.Equal(t, 2, solver.New(problem).Minimize())
}

func TestToProblemInfeasible(t *testing.T) {
	//** Arrange
	prog := &program{
		variables:   1,
		constraints: []pbConstraint{{lits: []int{1}, coeffs: []int{1}, atLeast: 2}},
	}

	//** Act
	problem := prog.toProblem()

	//** Assert
	assert.Equal(t, solver.Unsat, problem.Status)
}

func TestGophersatLit(t *testing.T) {
	assert.Equal(t, solver.Var(0).SignedLit(false), gophersatLit(1))
	assert.Equal(t, solver.Var(2).SignedLit(true), gophersatLit(-3))
}
