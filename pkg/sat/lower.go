package sat

import (
	"fmt"

	"github.com/samber/lo"
)

// pbConstraint states Σ coeffs[i]*lits[i] >= atLeast. Literals are DIMACS-coded and every
// coefficient is positive.
type pbConstraint struct {
	lits    []int
	coeffs  []int
	atLeast int
}

type weightedLit struct {
	lit    int
	weight int
}

// program is a Model lowered to clauses, pseudo-boolean constraints and a linear objective over
// literals. Variables above the model's own are auxiliaries introduced by the lowering.
type program struct {
	variables   int
	clauses     [][]int
	constraints []pbConstraint
	objective   []weightedLit
	offset      int
}

// linear accumulates Σ coeff*var + constant, keeping variables in first-seen order.
type linear struct {
	vars     []Var
	coeffs   map[Var]int
	constant int
}

func newLinear() *linear {
	return &linear{coeffs: make(map[Var]int)}
}

func (lin *linear) addVar(v Var, coeff int) {
	if _, ok := lin.coeffs[v]; !ok {
		lin.vars = append(lin.vars, v)
	}
	lin.coeffs[v] += coeff
}

// add accumulates mult*expr. Max nodes are handed to onMax; a nil onMax rejects them.
func (lin *linear) add(expr Expr, mult int, onMax func(node maximum, mult int) error) error {
	switch node := expr.(type) {
	case Var:
		lin.addVar(node, mult)
	case constant:
		lin.constant += mult * int(node)
	case sum:
		for _, term := range node.terms {
			if err := lin.add(term, mult, onMax); err != nil {
				return err
			}
		}
	case maximum:
		if onMax == nil {
			return fmt.Errorf("max is only supported inside the objective: %w", ErrUnsupported)
		}
		return onMax(node, mult)
	default:
		return fmt.Errorf("unknown expression %T: %w", expr, ErrUnsupported)
	}
	return nil
}

// upper returns the largest value the expression can take.
func (lin *linear) upper() int {
	upper := lin.constant
	for _, v := range lin.vars {
		if coeff := lin.coeffs[v]; coeff > 0 {
			upper += coeff
		}
	}
	return upper
}

// lowest returns the smallest value the expression can take.
func (lin *linear) lowest() int {
	lowest := lin.constant
	for _, v := range lin.vars {
		if coeff := lin.coeffs[v]; coeff < 0 {
			lowest += coeff
		}
	}
	return lowest
}

// addLinear accumulates mult*other.
func (lin *linear) addLinear(other *linear, mult int) {
	for _, v := range other.vars {
		lin.addVar(v, mult*other.coeffs[v])
	}
	lin.constant += mult * other.constant
}

func lower(model *Model) (*program, error) {
	prog := &program{variables: model.variables}

	for _, def := range model.ands {
		out, a, b := int(def.out), int(def.a), int(def.b)
		prog.clauses = append(prog.clauses,
			[]int{-out, a},
			[]int{-out, b},
			[]int{out, -a, -b},
		)
	}

	for i, eq := range model.equalities {
		lin := newLinear()
		if err := lin.add(eq.lhs, 1, nil); err != nil {
			return nil, fmt.Errorf("constraint %d: %w", i, err)
		}
		if err := lin.add(eq.rhs, -1, nil); err != nil {
			return nil, fmt.Errorf("constraint %d: %w", i, err)
		}
		// Σ c*v + k == 0 holds iff Σ c*v >= -k and Σ -c*v >= k
		prog.addAtLeast(lin, 1, -lin.constant)
		prog.addAtLeast(lin, -1, lin.constant)
	}

	if model.objective == nil {
		return prog, nil
	}
	objective := newLinear()
	err := objective.add(model.objective, 1, func(node maximum, mult int) error {
		if mult <= 0 {
			return fmt.Errorf("max under a non-positive coefficient cannot be minimised: %w", ErrUnsupported)
		}
		return prog.addMax(node, mult, objective)
	})
	if err != nil {
		return nil, fmt.Errorf("objective: %w", err)
	}

	prog.offset = objective.constant
	for _, v := range objective.vars {
		coeff := objective.coeffs[v]
		switch {
		case coeff > 0:
			prog.objective = append(prog.objective, weightedLit{lit: int(v), weight: coeff})
		case coeff < 0:
			// c*v == c + |c|*¬v
			prog.objective = append(prog.objective, weightedLit{lit: -int(v), weight: -coeff})
			prog.offset += coeff
		}
	}
	return prog, nil
}

// addAtLeast posts Σ sign*c*v >= atLeast from lin's variable terms, normalising negative
// coefficients onto negated literals. Trivially satisfied constraints are dropped.
func (prog *program) addAtLeast(lin *linear, sign int, atLeast int) {
	constraint := pbConstraint{atLeast: atLeast}
	for _, v := range lin.vars {
		coeff := sign * lin.coeffs[v]
		switch {
		case coeff > 0:
			constraint.lits = append(constraint.lits, int(v))
			constraint.coeffs = append(constraint.coeffs, coeff)
		case coeff < 0:
			// c*v == c + |c|*¬v
			constraint.lits = append(constraint.lits, -int(v))
			constraint.coeffs = append(constraint.coeffs, -coeff)
			constraint.atLeast -= coeff
		}
	}
	if constraint.atLeast <= 0 {
		return
	}
	prog.constraints = append(prog.constraints, constraint)
}

// addMax adds mult*max(arg, floor) to objective. A unary counter u covers the narrower side of
// the floor: either floor + Σu with floor + Σu >= arg, or arg + Σu with arg + Σu >= floor.
// Minimising Σu leaves the counter tight in both forms.
func (prog *program) addMax(node maximum, mult int, objective *linear) error {
	arg := newLinear()
	if err := arg.add(node.arg, 1, nil); err != nil {
		return fmt.Errorf("max argument: %w", err)
	}
	above, below := arg.upper()-node.floor, node.floor-arg.lowest()

	bound := newLinear()
	switch {
	case above <= 0:
		objective.constant += mult * node.floor
		return nil
	case below <= 0:
		objective.addLinear(arg, mult)
		return nil
	case above <= below:
		objective.constant += mult * node.floor
		bound.addLinear(arg, -1)
		bound.constant = 0
		for _, u := range prog.unary(above) {
			bound.addVar(u, 1)
			objective.addVar(u, mult)
		}
		// Σu - Σ c*v >= constant - floor
		prog.addAtLeast(bound, 1, arg.constant-node.floor)
	default:
		objective.addLinear(arg, mult)
		bound.addLinear(arg, 1)
		bound.constant = 0
		for _, u := range prog.unary(below) {
			bound.addVar(u, 1)
			objective.addVar(u, mult)
		}
		// Σu + Σ c*v >= floor - constant
		prog.addAtLeast(bound, 1, node.floor-arg.constant)
	}
	return nil
}

// unary introduces k fresh variables with u_i >= u_{i+1}.
func (prog *program) unary(k int) []Var {
	units := make([]Var, k)
	for i := range units {
		prog.variables++
		units[i] = Var(prog.variables)
		if i > 0 {
			prog.clauses = append(prog.clauses, []int{-int(units[i]), int(units[i-1])})
		}
	}
	return units
}

// cost evaluates the lowered objective, which may exceed the model objective when auxiliaries
// are set loosely.
func (prog *program) cost(values []bool) int {
	cost := prog.offset
	for _, term := range prog.objective {
		if literalValue(term.lit, values) {
			cost += term.weight
		}
	}
	return cost
}

func literalValue(lit int, values []bool) bool {
	v := lit
	if v < 0 {
		v = -v
	}
	value := v <= len(values) && values[v-1]
	if lit < 0 {
		return !value
	}
	return value
}

// infeasible reports constraints that no assignment can satisfy.
func (prog *program) infeasible() bool {
	for _, clause := range prog.clauses {
		if len(clause) == 0 {
			return true
		}
	}
	for _, constraint := range prog.constraints {
		if lo.Sum(constraint.coeffs) < constraint.atLeast {
			return true
		}
	}
	return false
}
