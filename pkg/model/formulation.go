package model

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/limaJavier/socialgolfer/pkg/sat"
)

var ErrInstanceTooLarge = errors.New("instance too large")

// Formulation is the constraint model of an instance together with handles on its variables.
type Formulation struct {
	Instance Instance
	Model    *sat.Model

	// OneGroup holds Σ_g x[w][g][p] == 1 for every week and golfer
	OneGroup []sat.Constraint
	// GroupSize holds Σ_p x[w][g][p] == GroupSize for every week and group
	GroupSize []sat.Constraint
	// Redundant holds max(meetings(p0,p1) - 1, 0) per pair, laid out by the pair indexer
	Redundant []sat.Expr
	Objective sat.Expr

	indexer     indexer
	pairIndexer pairIndexer
	x           []sat.Var
	meet        []sat.Var
}

// Formulate builds the model of instance:
//
//	x[w][g][p]           golfer p plays in group g on week w
//	meet[w][g][p0][p1]   x[w][g][p0] AND x[w][g][p1], for p0 < p1
//	minimize Σ_{p0<p1} max(Σ_{w,g} meet[w][g][p0][p1] - 1, 0)
//
// The meeting cube has weeks*groups*golfers² entries, so memory and time grow with the fourth
// power of the number of golfers. Formulate refuses instances whose variable count would exceed
// maxVariables; zero disables the check.
func Formulate(instance Instance, maxVariables uint64) (*Formulation, error) {
	variables, ok := estimateVariables(instance)
	if !ok {
		return nil, fmt.Errorf("%w: variable count of %+v overflows", ErrInstanceTooLarge, instance)
	} else if maxVariables > 0 && variables > maxVariables {
		return nil, fmt.Errorf("%w: %+v needs %d variables, the limit is %d", ErrInstanceTooLarge, instance, variables, maxVariables)
	}

	weeks, groups, golfers, pairs := instance.Weeks, instance.Groups, instance.Golfers(), instance.Pairs()
	formulation := &Formulation{
		Instance:    instance,
		Model:       sat.NewModel(),
		indexer:     newIndexer(weeks, groups, golfers),
		pairIndexer: newPairIndexer(golfers),
		x:           make([]sat.Var, weeks*groups*golfers),
		meet:        make([]sat.Var, weeks*groups*pairs),
		Redundant:   make([]sat.Expr, pairs),
	}
	model := formulation.Model

	//** Decision variables
	for i := range formulation.x {
		formulation.x[i] = model.Bool()
	}

	//** Each week, each golfer is assigned to exactly one group
	for week := range weeks {
		for golfer := range golfers {
			terms := make([]sat.Expr, groups)
			for group := range groups {
				terms[group] = formulation.X(week, group, golfer)
			}
			formulation.OneGroup = append(formulation.OneGroup, model.Equals(sat.Sum(terms...), sat.Constant(1)))
		}
	}

	//** Each week, each group contains exactly GroupSize golfers
	for week := range weeks {
		for group := range groups {
			terms := make([]sat.Expr, golfers)
			for golfer := range golfers {
				terms[golfer] = formulation.X(week, group, golfer)
			}
			formulation.GroupSize = append(formulation.GroupSize, model.Equals(sat.Sum(terms...), sat.Constant(instance.GroupSize)))
		}
	}

	//** Golfers p0 and p1 meet in group g on week w if both are assigned to it
	for week := range weeks {
		for group := range groups {
			for golfer1 := range golfers {
				for golfer2 := golfer1 + 1; golfer2 < golfers; golfer2++ {
					offset := formulation.meetOffset(week, group, golfer1, golfer2)
					formulation.meet[offset] = model.And(formulation.X(week, group, golfer1), formulation.X(week, group, golfer2))
				}
			}
		}
	}

	//** Every meeting of a pair beyond the first one is redundant
	for pair := range pairs {
		golfer1, golfer2 := formulation.pairIndexer.Golfers(pair)
		meetings := make([]sat.Expr, 0, weeks*groups+1)
		for week := range weeks {
			for group := range groups {
				meetings = append(meetings, formulation.Meet(week, group, golfer1, golfer2))
			}
		}
		meetings = append(meetings, sat.Constant(-1))
		formulation.Redundant[pair] = sat.Max(sat.Sum(meetings...), 0)
	}

	formulation.Objective = sat.Sum(formulation.Redundant...)
	model.Minimize(formulation.Objective)

	return formulation, nil
}

// X returns the variable stating that golfer plays in group on week.
func (formulation *Formulation) X(week, group, golfer int) sat.Var {
	return formulation.x[formulation.indexer.Index(week, group, golfer)]
}

// Meet returns the variable stating that golfer1 and golfer2 share group on week; golfer1 < golfer2.
func (formulation *Formulation) Meet(week, group, golfer1, golfer2 int) sat.Var {
	return formulation.meet[formulation.meetOffset(week, group, golfer1, golfer2)]
}

func (formulation *Formulation) meetOffset(week, group, golfer1, golfer2 int) int {
	return (week*formulation.Instance.Groups+group)*formulation.Instance.Pairs() + formulation.pairIndexer.Pair(golfer1, golfer2)
}

// Encode reads the schedule off a solution: for every week and group, the golfers whose x
// variable is true, in ascending order.
func (formulation *Formulation) Encode(solution *sat.Solution) Schedule {
	instance := formulation.Instance
	schedule := Schedule{
		Objective: solution.Objective,
		Weeks:     make([][][]int, instance.Weeks),
	}
	for week := range schedule.Weeks {
		schedule.Weeks[week] = make([][]int, instance.Groups)
		for group := range schedule.Weeks[week] {
			schedule.Weeks[week][group] = make([]int, 0, instance.GroupSize)
		}
	}
	// Offsets run golfer-fastest, so every group fills in ascending order
	for index, variable := range formulation.x {
		if solution.Value(variable) {
			week, group, golfer := formulation.indexer.Attributes(index)
			schedule.Weeks[week][group] = append(schedule.Weeks[week][group], golfer)
		}
	}
	return schedule
}

// estimateVariables counts the cube and meeting variables, reporting false on overflow.
func estimateVariables(instance Instance) (uint64, bool) {
	multiply := func(a, b uint64) (uint64, bool) {
		hi, lo := bits.Mul64(a, b)
		return lo, hi == 0
	}

	golfers, ok := multiply(uint64(instance.Groups), uint64(instance.GroupSize))
	if !ok {
		return 0, false
	}
	slots, ok := multiply(uint64(instance.Weeks), uint64(instance.Groups))
	if !ok {
		return 0, false
	}
	cube, ok := multiply(slots, golfers)
	if !ok {
		return 0, false
	}
	// pairs = golfers*(golfers-1)/2, one of the two factors is even
	a, b := golfers, golfers-1
	if a%2 == 0 {
		a /= 2
	} else {
		b /= 2
	}
	pairs, ok := multiply(a, b)
	if !ok {
		return 0, false
	}
	meetings, ok := multiply(slots, pairs)
	if !ok {
		return 0, false
	}
	total, carry := bits.Add64(cube, meetings, 0)
	return total, carry == 0 && total <= uint64(int(^uint(0)>>1))
}
