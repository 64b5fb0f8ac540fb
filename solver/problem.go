package solver

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// A Problem is a list of clauses & a nb of vars.
type Problem struct {
	NbVars  int        // Total nb of vars
	Clauses []*Clause  // List of non-empty, non-unit clauses
	Status  Status     // Status of the problem. Unsat if an empty clause was met or inferred, Indet else.
	Units   []Lit      // List of unit literals found in the problem.
	Model   []decLevel // For each var, its root-level binding. 0 means unbound, 1 bound to true, -1 bound to false.
}

// CNF returns a DIMACS CNF representation of the problem.
func (pb *Problem) CNF() string {
	res := fmt.Sprintf("p cnf %d %d\n", pb.NbVars, len(pb.Clauses)+len(pb.Units))
	for _, unit := range pb.Units {
		res += fmt.Sprintf("%d 0\n", unit.Int())
	}
	for _, clause := range pb.Clauses {
		res += fmt.Sprintf("%s\n", clause.CNF())
	}
	return res
}

// CheckModel verifies the given total assignment against all the clauses
// of the problem. It returns nil if every clause contains at least one
// true literal, and a descriptive error naming the first unsatisfied
// clause otherwise.
func (pb *Problem) CheckModel(model []bool) error {
	if len(model) < pb.NbVars {
		return errors.Errorf("model binds %d vars, problem has %d", len(model), pb.NbVars)
	}
	for _, unit := range pb.Units {
		if model[unit.Var()] != unit.IsPositive() {
			return errors.Errorf("unsatisfied unit clause: %d 0", unit.Int())
		}
	}
	for _, c := range pb.Clauses {
		sat := false
		for i := 0; i < c.Len(); i++ {
			lit := c.Get(i)
			if model[lit.Var()] == lit.IsPositive() {
				sat = true
				break
			}
		}
		if !sat {
			return errors.Errorf("unsatisfied clause: %s", c.CNF())
		}
	}
	return nil
}

// appendClause installs a clause given as a list of CNF literals:
// an empty clause makes the problem unsatisfiable, a unit clause becomes a
// root-level binding, anything longer is normalized and registered.
func (pb *Problem) appendClause(lits []int) {
	switch len(lits) {
	case 0:
		pb.Status = Unsat
	case 1:
		pb.addUnit(IntToLit(lits[0]))
	default:
		clause := make([]Lit, len(lits))
		for i, val := range lits {
			clause[i] = IntToLit(val)
		}
		clause, tautology := normalize(clause)
		if tautology {
			return
		}
		if len(clause) == 1 {
			pb.addUnit(clause[0])
			return
		}
		pb.Clauses = append(pb.Clauses, NewClause(clause))
	}
}

// addUnit binds the given literal at the root level.
// Two contradictory units make the problem unsatisfiable.
func (pb *Problem) addUnit(lit Lit) {
	v := lit.Var()
	if pb.Model[v] != 0 {
		if pb.Model[v] > 0 != lit.IsPositive() {
			pb.Status = Unsat
		}
		return
	}
	if lit.IsPositive() {
		pb.Model[v] = 1
	} else {
		pb.Model[v] = -1
	}
	pb.Units = append(pb.Units, lit)
}

// normalize sorts the lits, removes duplicates and detects tautologies,
// i.e clauses containing both a literal and its negation.
func normalize(lits []Lit) ([]Lit, bool) {
	sort.Slice(lits, func(i, j int) bool { return lits[i] < lits[j] })
	j := 1
	for i := 1; i < len(lits); i++ {
		if lits[i] == lits[i-1] {
			continue
		}
		if lits[i] == lits[i-1].Negation() {
			return nil, true
		}
		lits[j] = lits[i]
		j++
	}
	return lits[:j], false
}
