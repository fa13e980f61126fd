package sat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModelDeclarations(t *testing.T) {
	//** Arrange
	model := NewModel()

	//** Act
	a, b := model.Bool(), model.Bool()
	both := model.And(a, b)
	first := model.Equals(Sum(a, b), Constant(1))
	second := model.Equals(both, Constant(0))
	model.Minimize(Sum(a, both))

	//** Assert
	assert.Equal(t, []Var{1, 2, 3}, []Var{a, b, both})
	assert.Equal(t, 3, model.Variables())
	assert.Equal(t, 2, model.Constraints())
	assert.Equal(t, []Constraint{0, 1}, []Constraint{first, second})
	assert.NotNil(t, model.Objective())
}

func TestEval(t *testing.T) {
	//** Arrange
	values := []bool{true, false, true}
	scenarios := []struct {
		name     string
		expr     Expr
		expected int
	}{
		{name: "nil", expr: nil, expected: 0},
		{name: "true variable", expr: Var(1), expected: 1},
		{name: "false variable", expr: Var(2), expected: 0},
		{name: "unbound variable", expr: Var(9), expected: 0},
		{name: "constant", expr: Constant(-4), expected: -4},
		{name: "empty sum", expr: Sum(), expected: 0},
		{name: "sum", expr: Sum(Var(1), Var(2), Var(3), Constant(-1)), expected: 1},
		{name: "nested sum", expr: Sum(Sum(Var(1), Var(3)), Sum(Constant(2))), expected: 4},
		{name: "max above floor", expr: Max(Sum(Var(1), Var(3)), 1), expected: 2},
		{name: "max at floor", expr: Max(Sum(Var(2), Constant(-1)), 0), expected: 0},
		{name: "sum of max", expr: Sum(Max(Var(1), 0), Max(Var(2), 0)), expected: 1},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			//** Act
			actual := Eval(scenario.expr, values)

			//** Assert
			assert.Equal(t, scenario.expected, actual)
		})
	}
}

func TestSolutionValue(t *testing.T) {
	//** Arrange
	solution := &Solution{Values: []bool{false, true}}

	//** Assert
	assert.False(t, solution.Value(1))
	assert.True(t, solution.Value(2))
	assert.False(t, solution.Value(3))
}

func TestNewSolutionEvaluatesObjective(t *testing.T) {
	//** Arrange
	model := NewModel()
	a, b := model.Bool(), model.Bool()
	model.Minimize(Max(Sum(a, b, Constant(-1)), 0))

	//** Act
	// Auxiliary bindings beyond the model's variables are dropped
	solution := newSolution(model, []bool{true, true, false, true}, false)

	//** Assert
	assert.Equal(t, 1, solution.Objective)
	assert.Equal(t, []bool{true, true}, solution.Values)
	assert.False(t, solution.Optimal)
}
