package sat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// parseSolution collects the literals printed on the solver's "v" lines. The terminating 0 is
// dropped.
func parseSolution(solverOutput string) (SATSolution, error) {
	fields := lo.Reduce(
		lo.Filter(strings.Split(solverOutput, "\n"), func(line string, _ int) bool {
			return len(line) > 0 && line[0] == 'v'
		}),
		func(fields []string, line string, _ int) []string {
			return append(fields, strings.Fields(line[1:])...)
		},
		[]string{},
	)

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
