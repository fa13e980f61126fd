package sat

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var params = Params{TimeLimit: time.Minute, Threads: 1}

func TestGophersat(t *testing.T) {
	solver := NewGophersatSolver()
	t.Run("Optimal models", func(t *testing.T) {
		optimalExecution(t, solver)
	})
	t.Run("Unsatisfiable models", func(t *testing.T) {
		unsatisfiableExecution(t, solver)
	})
}

func TestGini(t *testing.T) {
	solver := NewGiniSolver()
	t.Run("Optimal models", func(t *testing.T) {
		optimalExecution(t, solver)
	})
	t.Run("Unsatisfiable models", func(t *testing.T) {
		unsatisfiableExecution(t, solver)
	})
}

func TestKissat(t *testing.T) {
	if _, err := exec.LookPath(DefaultKissatPath); err != nil {
		t.Skip("kissat is not installed")
	}
	solver := NewKissatSolver("")
	t.Run("Optimal models", func(t *testing.T) {
		optimalExecution(t, solver)
	})
	t.Run("Unsatisfiable models", func(t *testing.T) {
		unsatisfiableExecution(t, solver)
	})
}

func TestCadical(t *testing.T) {
	if _, err := exec.LookPath(DefaultCadicalPath); err != nil {
		t.Skip("cadical is not installed")
	}
	solver := NewCadicalSolver("")
	t.Run("Optimal models", func(t *testing.T) {
		optimalExecution(t, solver)
	})
	t.Run("Unsatisfiable models", func(t *testing.T) {
		unsatisfiableExecution(t, solver)
	})
}

func TestMinisat(t *testing.T) {
	if _, err := exec.LookPath(DefaultMinisatPath); err != nil {
		t.Skip("minisat is not installed")
	}
	solver := NewMinisatSolver("")
	t.Run("Optimal models", func(t *testing.T) {
		optimalExecution(t, solver)
	})
	t.Run("Unsatisfiable models", func(t *testing.T) {
		unsatisfiableExecution(t, solver)
	})
}

func TestExternalSolverUnavailable(t *testing.T) {
	//** Arrange
	missing := filepath.Join(t.TempDir(), "kissat")
	model := NewModel()
	model.Bool()

	//** Act
	_, kissatErr := NewKissatSolver(missing).Solve(context.Background(), model, params)
	_, cadicalErr := NewCadicalSolver(missing).Solve(context.Background(), model, params)
	_, minisatErr := NewMinisatSolver(missing).Solve(context.Background(), model, params)
	_, glucoseErr := NewGlucoseSolver(missing).Solve(context.Background(), model, params)

	//** Assert
	assert.ErrorIs(t, kissatErr, ErrUnavailable)
	assert.ErrorIs(t, cadicalErr, ErrUnavailable)
	assert.ErrorIs(t, minisatErr, ErrUnavailable)
	assert.ErrorIs(t, glucoseErr, ErrUnavailable)
}

type optimalScenario struct {
	name      string
	build     func(model *Model) Expr
	objective int
}

var optimalScenarios = []optimalScenario{
	{
		name: "choose two of three",
		build: func(model *Model) Expr {
			a, b, c := model.Bool(), model.Bool(), model.Bool()
			model.Equals(Sum(a, b, c), Constant(2))
			return Sum(a, b)
		},
		objective: 1,
	},
	{
		name: "no objective",
		build: func(model *Model) Expr {
			a, b := model.Bool(), model.Bool()
			model.Equals(Sum(a, b), Constant(1))
			return nil
		},
		objective: 0,
	},
	{
		name: "forced conjunction",
		build: func(model *Model) Expr {
			a, b, c := model.Bool(), model.Bool(), model.Bool()
			model.Equals(Sum(a, b), Constant(2))
			ab := model.And(a, b)
			return Sum(Max(Sum(ab, c, Constant(-1)), 0), Constant(2))
		},
		objective: 2,
	},
	{
		name: "repeated meetings",
		build: func(model *Model) Expr {
			// Two slots of two seats for four players, each player seated once per round, over two rounds
			seat := make([][][]Var, 2)
			for round := range seat {
				seat[round] = make([][]Var, 2)
				for slot := range seat[round] {
					seat[round][slot] = []Var{model.Bool(), model.Bool(), model.Bool(), model.Bool()}
					model.Equals(Sum(seat[round][slot][0], seat[round][slot][1], seat[round][slot][2], seat[round][slot][3]), Constant(2))
				}
				for player := range 4 {
					model.Equals(Sum(seat[round][0][player], seat[round][1][player]), Constant(1))
				}
			}
			var redundant []Expr
			for p0 := range 4 {
				for p1 := p0 + 1; p1 < 4; p1++ {
					var meetings []Expr
					for round := range 2 {
						for slot := range 2 {
							meetings = append(meetings, model.And(seat[round][slot][p0], seat[round][slot][p1]))
						}
					}
					redundant = append(redundant, Max(Sum(append(meetings, Constant(-1))...), 0))
				}
			}
			return Sum(redundant...)
		},
		objective: 0,
	},
}

func optimalExecution(t *testing.T, solver Solver) {
	for _, scenario := range optimalScenarios {
		//** Arrange
		model := NewModel()
		objective := scenario.build(model)
		if objective != nil {
			model.Minimize(objective)
		}

		//** Act
		solution, err := solver.Solve(context.Background(), model, params)

		//** Assert
		require.NoError(t, err, scenario.name)
		assert.True(t, solution.Optimal, scenario.name)
		assert.Equal(t, scenario.objective, solution.Objective, scenario.name)
		assert.Len(t, solution.Values, model.Variables(), scenario.name)
		assert.True(t, holds(model, solution.Values), scenario.name)
	}
}

func unsatisfiableExecution(t *testing.T, solver Solver) {
	scenarios := map[string]func(model *Model){
		"out of range": func(model *Model) {
			model.Equals(model.Bool(), Constant(2))
		},
		"contradiction": func(model *Model) {
			a, b := model.Bool(), model.Bool()
			model.Equals(Sum(a, b), Constant(2))
			model.Equals(model.And(a, b), Constant(0))
		},
	}

	for name, build := range scenarios {
		//** Arrange
		model := NewModel()
		build(model)

		//** Act
		_, err := solver.Solve(context.Background(), model, params)

		//** Assert
		assert.ErrorIs(t, err, ErrUnsatisfiable, name)
	}
}

// holds checks the model's constraints on values directly.
func holds(model *Model, values []bool) bool {
	for _, def := range model.ands {
		if values[def.out-1] != (values[def.a-1] && values[def.b-1]) {
			return false
		}
	}
	for _, eq := range model.equalities {
		if Eval(eq.lhs, values) != Eval(eq.rhs, values) {
			return false
		}
	}
	return true
}
