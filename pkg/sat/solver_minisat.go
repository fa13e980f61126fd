package sat

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const (
	DefaultMinisatPath = "minisat"
	DefaultGlucosePath = "glucose-simp"
)

// NewMinisatSolver runs minisat, which reads the instance from a file and writes the model to
// another one.
func NewMinisatSolver(path string) Solver {
	if path == "" {
		path = DefaultMinisatPath
	}
	return &externalSolver{name: "minisat", path: path, args: []string{"-verb=0"}, files: true}
}

func NewGlucoseSolver(path string) Solver {
	if path == "" {
		path = DefaultGlucosePath
	}
	return &externalSolver{name: "glucose", path: path, args: []string{"-verb=0"}, files: true}
}

func (solver *externalSolver) runWithFiles(ctx context.Context, dimacs string) (SATSolution, error) {
	// Create temporary files to hold the DIMACS content and the model
	inputTempFile, err := os.CreateTemp("", "dimacs-*.cnf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %v", err)
	}
	defer os.Remove(inputTempFile.Name())

	outputTempFile, err := os.CreateTemp("", solver.name+"_output-*.cnf")
	if err != nil {
		inputTempFile.Close()
		return nil, fmt.Errorf("failed to create temporary file: %v", err)
	}
	defer os.Remove(outputTempFile.Name())
	defer outputTempFile.Close()

	if _, err := inputTempFile.WriteString(dimacs); err != nil {
		inputTempFile.Close()
		return nil, fmt.Errorf("failed to write DIMACS to temporary file: %v", err)
	}
	if err := inputTempFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temporary file: %v", err)
	}

	args := append(append([]string{}, solver.args...), inputTempFile.Name(), outputTempFile.Name())
	stdOut, err := solver.execute(exec.CommandContext(ctx, solver.path, args...))
	if err != nil || stdOut == nil {
		return nil, err
	}

	output, err := io.ReadAll(outputTempFile) // Read the output file
	if err != nil {
		return nil, fmt.Errorf("failed to read output file: %v", err)
	}
	return parseModelFile(string(output))
}

// parseModelFile reads a model written as an optional SAT/UNSAT header followed by the literals
// and a terminating 0.
func parseModelFile(output string) (SATSolution, error) {
	fields := strings.Fields(output)
	if len(fields) > 0 && lo.Contains([]string{"SAT", "UNSAT", "INDET"}, fields[0]) {
		if fields[0] != "SAT" {
			return nil, nil
		}
		fields = fields[1:]
	}

	solution := make(SATSolution, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid literal in solver output: %v", err)
		}
		if value != 0 {
			solution = append(solution, value)
		}
	}
	return solution, nil
}
