package sat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/go-logr/logr"
)

const (
	DefaultKissatPath  = "kissat"
	DefaultCadicalPath = "cadical"
)

// externalSolver runs a DIMACS SAT binary once per bound of the linear search. The binary
// must exit with 10 (SAT) or 20 (UNSAT). By default the instance is fed on stdin and the model
// read from "v" lines; with files set, input and output files are passed as arguments instead.
type externalSolver struct {
	name  string
	path  string
	args  []string
	files bool
}

func NewKissatSolver(path string) Solver {
	if path == "" {
		path = DefaultKissatPath
	}
	return &externalSolver{name: "kissat", path: path, args: []string{"-q", "--relaxed"}}
}

func NewCadicalSolver(path string) Solver {
	if path == "" {
		path = DefaultCadicalPath
	}
	return &externalSolver{name: "cadical", path: path, args: []string{"-q"}}
}

func (solver *externalSolver) Solve(ctx context.Context, model *Model, params Params) (*Solution, error) {
	logger := logr.FromContextOrDiscard(ctx).WithValues("solver", solver.name)
	if _, err := exec.LookPath(solver.path); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrUnavailable)
	}
	if params.Threads > 1 {
		logger.Info("engine is single-threaded, ignoring thread count", "threads", params.Threads)
	}
	return linearSearch(ctx, model, params, &externalBackend{solver: solver}, logger)
}

// externalBackend keeps the accumulated instance and replays it on every call.
type externalBackend struct {
	solver   *externalSolver
	instance SAT
}

func (backend *externalBackend) add(clauses [][]int64, variables uint64) error {
	backend.instance.Clauses = append(backend.instance.Clauses, clauses...)
	backend.instance.Variables = variables
	return nil
}

func (backend *externalBackend) solve(ctx context.Context) (SATSolution, error) {
	dimacs := backend.instance.ToDIMACS() // Transform SAT into DIMACS-CNF string format

	var (
		solution SATSolution
		err      error
	)
	if backend.solver.files {
		solution, err = backend.solver.runWithFiles(ctx, dimacs)
	} else {
		solution, err = backend.solver.run(ctx, dimacs)
	}
	if ctx.Err() != nil {
		return nil, errInterrupted
	}
	return solution, err
}

func (solver *externalSolver) run(ctx context.Context, dimacs string) (SATSolution, error) {
	cmd := exec.CommandContext(ctx, solver.path, solver.args...)
	cmd.Stdin = strings.NewReader(dimacs) // Feed dimacs into the solver's standard input

	stdOut, err := solver.execute(cmd)
	if err != nil || stdOut == nil {
		return nil, err
	}
	return parseSolution(stdOut.String())
}

// execute runs cmd and returns its standard output when the instance is satisfiable, nil when
// it is not.
func (solver *externalSolver) execute(cmd *exec.Cmd) (*bytes.Buffer, error) {
	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return nil, fmt.Errorf("cannot run %v: %v: %w", solver.name, err, ErrUnavailable)
	}
	// Exit-code of 10 stands for satisfiable and exit-code 20 stands for unsatisfiable
	switch cmd.ProcessState.ExitCode() {
	case 10:
		return &stdOut, nil
	case 20:
		return nil, nil
	default:
		return nil, fmt.Errorf("an error occurred during %v execution: %v : %v", solver.name, err, stderr.String())
	}
}
