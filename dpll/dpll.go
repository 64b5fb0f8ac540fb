// Package dpll implements a plain DPLL SAT solver: recursive search with
// unit propagation over literal occurrence lists and chronological
// backtracking, flipping the last decision on conflict. It shares its
// input format with the solver package but learns nothing from conflicts.
package dpll

import "github.com/schustemtf/SAT/solver"

// Stats are statistics about the resolution of the problem.
type Stats struct {
	NbConflicts    int64 // How many falsified clauses were met
	NbDecisions    int64 // How many decisions were made
	NbPropagations int64 // How many literals were propagated
}

// A Solver decides satisfiability by recursion: propagate, decide,
// recurse, and on conflict backtrack one level and flip the decision.
type Solver struct {
	Stats      Stats
	nbVars     int
	status     solver.Status
	matrix     [][]*solver.Clause // For each literal, the clauses in which it occurs
	values     []int8             // For each literal, 1 if true, -1 if false, 0 if unbound
	trail      []solver.Lit       // Current assignment stack
	control    []int              // For each open decision level, the trail length at which it began
	propagated int                // Trail positions below it have been propagated
	model      []bool
}

// New makes a solver for the given problem.
func New(pb *solver.Problem) *Solver {
	if pb.Status == solver.Unsat {
		return &Solver{status: solver.Unsat}
	}
	s := &Solver{
		nbVars: pb.NbVars,
		status: pb.Status,
		matrix: make([][]*solver.Clause, pb.NbVars*2),
		values: make([]int8, pb.NbVars*2),
		trail:  make([]solver.Lit, 0, pb.NbVars),
	}
	for _, c := range pb.Clauses {
		for i := 0; i < c.Len(); i++ {
			lit := c.Get(i)
			s.matrix[lit] = append(s.matrix[lit], c)
		}
	}
	for _, unit := range pb.Units {
		s.assign(unit)
	}
	return s
}

func (s *Solver) assign(lit solver.Lit) {
	s.values[lit] = 1
	s.values[lit.Negation()] = -1
	s.trail = append(s.trail, lit)
}

func (s *Solver) unassign(lit solver.Lit) {
	s.values[lit] = 0
	s.values[lit.Negation()] = 0
}

// propagate deals with all the pending literals of the trail. It returns
// false if a falsified clause was met, true once all literals have been
// propagated, binding the forced literal of every unit clause on the way.
func (s *Solver) propagate() bool {
	for s.propagated < len(s.trail) {
		lit := s.trail[s.propagated]
		s.propagated++
		s.Stats.NbPropagations++
		for _, c := range s.matrix[lit.Negation()] {
			nbUnbound := 0
			var unbound solver.Lit
			sat := false
			for i := 0; i < c.Len(); i++ {
				l := c.Get(i)
				if s.values[l] > 0 {
					sat = true
					break
				}
				if s.values[l] == 0 {
					nbUnbound++
					unbound = l
				}
			}
			if sat {
				continue
			}
			switch nbUnbound {
			case 0: // Falsified
				s.Stats.NbConflicts++
				return false
			case 1: // Forcing
				s.assign(unbound)
			}
		}
	}
	return true
}

// decide opens a new decision level and binds the lowest-indexed unbound
// variable positively, returning the decision literal.
func (s *Solver) decide() solver.Lit {
	s.Stats.NbDecisions++
	v := solver.Var(0)
	for s.values[v.Lit()] != 0 {
		v++
	}
	s.control = append(s.control, len(s.trail))
	lit := v.Lit()
	s.assign(lit)
	return lit
}

// backtrack unwinds the trail to the previous decision level, restoring
// the propagation cursor.
func (s *Solver) backtrack() {
	bound := s.control[len(s.control)-1]
	s.control = s.control[:len(s.control)-1]
	for len(s.trail) > bound {
		last := len(s.trail) - 1
		s.unassign(s.trail[last])
		s.trail = s.trail[:last]
	}
	s.propagated = bound
}

// search is the recursive DPLL procedure. Unsat only means the current
// partial assignment cannot be extended: the caller flips its decision.
func (s *Solver) search() solver.Status {
	for {
		if !s.propagate() {
			return solver.Unsat
		}
		if len(s.trail) == s.nbVars {
			return solver.Sat
		}
		lit := s.decide()
		if st := s.search(); st == solver.Sat {
			return st
		}
		s.backtrack()
		s.assign(lit.Negation())
	}
}

// Solve solves the problem associated with the solver and returns the
// appropriate status.
func (s *Solver) Solve() solver.Status {
	if s.status == solver.Unsat {
		return s.status
	}
	s.status = s.search()
	if s.status == solver.Sat {
		s.model = make([]bool, s.nbVars)
		for v := solver.Var(0); int(v) < s.nbVars; v++ {
			s.model[v] = s.values[v.Lit()] > 0
		}
	}
	return s.status
}

// Model returns a slice that associates, to each variable, its binding.
// If s's status is not Sat, the method will panic.
func (s *Solver) Model() []bool {
	if s.status != solver.Sat {
		panic("cannot call Model() from a non-Sat solver")
	}
	return s.model
}
