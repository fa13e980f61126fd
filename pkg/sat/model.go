package sat

// Var is a boolean decision variable. Variables are numbered from 1, as in DIMACS.
type Var int

// Expr is a node of the declarative expression graph built on a Model.
// Booleans evaluate to 0 or 1.
type Expr interface {
	eval(values []bool) int
}

// Constraint identifies a constraint posted on a Model.
type Constraint int

type constant int

type sum struct {
	terms []Expr
}

type maximum struct {
	arg   Expr
	floor int
}

type and struct {
	out, a, b Var
}

type equality struct {
	lhs, rhs Expr
}

// Model is a declarative constraint model: boolean variables, linear equalities, logical
// conjunctions, max nodes and a single minimisation objective. It is handed as a whole to a Solver.
type Model struct {
	variables  int
	ands       []and
	equalities []equality
	objective  Expr
}

func NewModel() *Model {
	return &Model{}
}

// Bool declares a new boolean decision variable.
func (m *Model) Bool() Var {
	m.variables++
	return Var(m.variables)
}

// And declares a derived variable that is true if and only if both a and b are true.
func (m *Model) And(a, b Var) Var {
	out := m.Bool()
	m.ands = append(m.ands, and{out: out, a: a, b: b})
	return out
}

// Equals posts lhs == rhs.
func (m *Model) Equals(lhs, rhs Expr) Constraint {
	m.equalities = append(m.equalities, equality{lhs: lhs, rhs: rhs})
	return Constraint(len(m.equalities) - 1)
}

// Minimize declares the objective. A later call replaces the previous objective.
func (m *Model) Minimize(objective Expr) {
	m.objective = objective
}

func (m *Model) Variables() int {
	return m.variables
}

func (m *Model) Constraints() int {
	return len(m.equalities)
}

func (m *Model) Objective() Expr {
	return m.objective
}

// Sum returns the sum of the given expressions. An empty sum evaluates to 0.
func Sum(terms ...Expr) Expr {
	return sum{terms: terms}
}

func Constant(value int) Expr {
	return constant(value)
}

// Max returns max(arg, floor).
func Max(arg Expr, floor int) Expr {
	return maximum{arg: arg, floor: floor}
}

// Eval evaluates expr under values, where values[v-1] is the binding of variable v.
// Variables beyond len(values) are false.
func Eval(expr Expr, values []bool) int {
	if expr == nil {
		return 0
	}
	return expr.eval(values)
}

func (v Var) eval(values []bool) int {
	if int(v) <= len(values) && values[v-1] {
		return 1
	}
	return 0
}

func (c constant) eval([]bool) int {
	return int(c)
}

func (s sum) eval(values []bool) int {
	total := 0
	for _, term := range s.terms {
		total += term.eval(values)
	}
	return total
}

func (m maximum) eval(values []bool) int {
	return max(m.arg.eval(values), m.floor)
}
