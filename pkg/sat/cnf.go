package sat

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// SATSolution lists DIMACS literals, one per assigned variable.
type SATSolution []int64

type SAT struct {
	Variables uint64
	Clauses   [][]int64
}

func (s SAT) ToDIMACS() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "p cnf %d %d\n", s.Variables, len(s.Clauses))
	for _, clause := range s.Clauses {
		for _, literal := range clause {
			fmt.Fprintf(&builder, "%d ", literal)
		}
		builder.WriteString("0\n")
	}
	return builder.String()
}

// Assignment converts the solution into per-variable bindings for variables 1..variables.
func (solution SATSolution) Assignment(variables int) []bool {
	values := make([]bool, variables)
	for _, literal := range solution {
		if literal > 0 && literal <= int64(variables) {
			values[literal-1] = true
		}
	}
	return values
}

// cnfEncoder appends clauses to a SAT instance, allocating auxiliary variables as needed.
type cnfEncoder struct {
	sat *SAT
}

func newCNFEncoder(variables int) *cnfEncoder {
	return &cnfEncoder{sat: &SAT{Variables: uint64(variables)}}
}

func (enc *cnfEncoder) newVar() int64 {
	enc.sat.Variables++
	return int64(enc.sat.Variables)
}

func (enc *cnfEncoder) clause(literals ...int64) {
	enc.sat.Clauses = append(enc.sat.Clauses, literals)
}

// encode translates the program's hard part. Pseudo-boolean constraints must have unit
// coefficients; they become cardinality constraints.
func (enc *cnfEncoder) encode(ctx context.Context, prog *program) error {
	for _, clause := range prog.clauses {
		enc.clause(lo.Map(clause, func(lit int, _ int) int64 { return int64(lit) })...)
	}
	for i, constraint := range prog.constraints {
		if lo.SomeBy(constraint.coeffs, func(coeff int) bool { return coeff != 1 }) {
			return fmt.Errorf("constraint %d has non-unit coefficients: %w", i, ErrUnsupported)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		enc.atLeast(lo.Map(constraint.lits, func(lit int, _ int) int64 { return int64(lit) }), constraint.atLeast)
	}
	return nil
}

// atMost posts Σ literals <= k.
func (enc *cnfEncoder) atMost(literals []int64, k int) {
	switch {
	case k >= len(literals):
		return
	case k < 0:
		enc.clause()
	case k == 0:
		for _, literal := range literals {
			enc.clause(-literal)
		}
	default:
		outputs := enc.totalizer(literals, k+1)
		enc.clause(-outputs[k])
	}
}

// atLeast posts Σ literals >= k as at most len-k of the negations.
func (enc *cnfEncoder) atLeast(literals []int64, k int) {
	if k <= 0 {
		return
	} else if k == 1 {
		enc.clause(literals...)
		return
	}
	negated := lo.Map(literals, func(literal int64, _ int) int64 { return -literal })
	enc.atMost(negated, len(literals)-k)
}

// totalizer returns outputs o[0..m) with m = min(len(literals), limit) such that at least j+1
// true literals force o[j]. Counting stops at limit, which is enough to forbid limit or more.
// Only the upward implications are emitted.
func (enc *cnfEncoder) totalizer(literals []int64, limit int) []int64 {
	if len(literals) == 1 {
		return []int64{literals[0]}
	}
	middle := len(literals) / 2
	left := enc.totalizer(literals[:middle], limit)
	right := enc.totalizer(literals[middle:], limit)

	outputs := make([]int64, min(len(left)+len(right), limit))
	for i := range outputs {
		outputs[i] = enc.newVar()
	}
	for i := 0; i <= len(left); i++ {
		for j := 0; j <= len(right); j++ {
			if i+j == 0 {
				continue
			}
			clause := make([]int64, 0, 3)
			if i > 0 {
				clause = append(clause, -left[i-1])
			}
			if j > 0 {
				clause = append(clause, -right[j-1])
			}
			clause = append(clause, outputs[min(i+j, len(outputs))-1])
			enc.clause(clause...)
		}
	}
	return outputs
}

// adder sums weighted literals into binary output bits, least significant first. Each adder
// output is defined by an equivalence, so the bits always spell the exact sum. A zero bit is
// constantly false. The encoding grows linearly with the number of set weight bits.
func (enc *cnfEncoder) adder(ctx context.Context, terms []weightedLit) ([]int64, error) {
	var buckets [][]int64
	for _, term := range terms {
		for bit, weight := 0, term.weight; weight > 0; bit, weight = bit+1, weight>>1 {
			if weight&1 == 0 {
				continue
			}
			for len(buckets) <= bit {
				buckets = append(buckets, nil)
			}
			buckets[bit] = append(buckets[bit], int64(term.lit))
		}
	}

	outputs := make([]int64, 0, len(buckets))
	for bit := 0; bit < len(buckets); bit++ {
		queue := buckets[bit]
		for len(queue) > 1 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			inputs := queue[:min(3, len(queue))]
			sum, carry := enc.newVar(), enc.newVar()
			enc.define(sum, inputs, func(ones int) bool { return ones%2 == 1 })
			enc.define(carry, inputs, func(ones int) bool { return ones >= 2 })
			queue = append(queue[len(inputs):], sum)
			if bit+1 == len(buckets) {
				buckets = append(buckets, nil)
			}
			buckets[bit+1] = append(buckets[bit+1], carry)
		}
		var output int64
		if len(queue) == 1 {
			output = queue[0]
		}
		outputs = append(outputs, output)
	}
	return outputs, nil
}

// define constrains out to fn(number of true inputs) under every binding of the inputs.
func (enc *cnfEncoder) define(out int64, inputs []int64, fn func(ones int) bool) {
	for mask := 0; mask < 1<<len(inputs); mask++ {
		clause := make([]int64, 0, len(inputs)+1)
		ones := 0
		for i, input := range inputs {
			if mask&(1<<i) != 0 {
				clause = append(clause, -input)
				ones++
			} else {
				clause = append(clause, input)
			}
		}
		if fn(ones) {
			clause = append(clause, out)
		} else {
			clause = append(clause, -out)
		}
		enc.clause(clause...)
	}
}

// atMostValue posts that the binary number spelled by bits is at most k. The sum exceeds k
// exactly when some bit i is set where k has a 0 and every set bit of k above i is set too.
func (enc *cnfEncoder) atMostValue(bits []int64, k int) {
	if k < 0 {
		enc.clause()
		return
	} else if k>>len(bits) != 0 {
		return
	}
	var prefix []int64
	for i := len(bits) - 1; i >= 0; i-- {
		if k>>i&1 == 1 {
			if bits[i] == 0 {
				return
			}
			prefix = append(prefix, -bits[i])
		} else if bits[i] != 0 {
			enc.clause(append([]int64{-bits[i]}, prefix...)...)
		}
	}
}
