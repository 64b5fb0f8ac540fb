// Package cdcl implements a conflict-driven clause learning SAT solver
// with unit propagation over plain literal occurrence lists. It learns
// 1-UIP clauses and backjumps non-chronologically, like the watched-
// literal core in the solver package, but every propagation step scans
// the full occurrence list of the falsified literal. It is the middle
// tier between the dpll and solver packages.
package cdcl

import (
	"math"

	"github.com/schustemtf/SAT/solver"
)

// Stats are statistics about the resolution of the problem.
type Stats struct {
	NbConflicts    int64 // How many conflicting clauses were met
	NbDecisions    int64 // How many decisions were made
	NbPropagations int64 // How many literals were propagated
	NbBackjumps    int64 // How many non-chronological backjumps were made
	NbLearned      int64 // How many clauses were learned
	NbUnitLearned  int64 // How many unit clauses were learned
}

// A Solver solves a given problem with clause learning over occurrence
// lists. Decision levels are counted from 0, the root level.
type Solver struct {
	ConflictLimit int64 // Give up after that many conflicts. No limit by default.
	Stats         Stats
	nbVars        int
	status        solver.Status
	matrix        [][]*solver.Clause // For each literal, the clauses in which it occurs
	values        []int8             // For each literal, 1 if true, -1 if false, 0 if unbound
	levels        []int32            // For each var, the level at which it was bound
	reason        []*solver.Clause   // For each var, the clause that forced its binding, or nil
	stamped       []int64            // For each var, the conflict nb at which it was last stamped
	trail         []solver.Lit       // Current assignment stack
	control       []int              // For each decision level >= 1, the trail length at which it began
	qhead         int                // Propagation cursor into the trail
	level         int32              // Current decision level
	searched      solver.Var         // Search cursor: all vars below it are bound
	model         []bool
}

// New makes a solver for the given problem.
func New(pb *solver.Problem) *Solver {
	if pb.Status == solver.Unsat {
		return &Solver{status: solver.Unsat}
	}
	s := &Solver{
		ConflictLimit: math.MaxInt64,
		nbVars:        pb.NbVars,
		status:        pb.Status,
		matrix:        make([][]*solver.Clause, pb.NbVars*2),
		values:        make([]int8, pb.NbVars*2),
		levels:        make([]int32, pb.NbVars),
		reason:        make([]*solver.Clause, pb.NbVars),
		stamped:       make([]int64, pb.NbVars),
		trail:         make([]solver.Lit, 0, pb.NbVars),
	}
	for _, c := range pb.Clauses {
		s.connectClause(c)
	}
	for _, unit := range pb.Units {
		s.assign(unit, nil)
	}
	return s
}

// connectClause registers the clause in the occurrence list of each of
// its literals.
func (s *Solver) connectClause(c *solver.Clause) {
	for i := 0; i < c.Len(); i++ {
		lit := c.Get(i)
		s.matrix[lit] = append(s.matrix[lit], c)
	}
}

func (s *Solver) assign(lit solver.Lit, reason *solver.Clause) {
	v := lit.Var()
	s.values[lit] = 1
	s.values[lit.Negation()] = -1
	s.levels[v] = s.level
	s.reason[v] = reason
	s.trail = append(s.trail, lit)
}

func (s *Solver) unassign(lit solver.Lit) {
	v := lit.Var()
	s.values[lit] = 0
	s.values[lit.Negation()] = 0
	s.reason[v] = nil
	if v < s.searched {
		s.searched = v
	}
}

// propagate deals with all the pending literals of the trail, scanning
// the occurrence list of the negation of each. It returns the first
// conflicting clause met, or nil if no conflict arose.
func (s *Solver) propagate() *solver.Clause {
	for s.qhead < len(s.trail) {
		lit := s.trail[s.qhead]
		s.qhead++
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
			case 0: // Conflict
				s.Stats.NbConflicts++
				return c
			case 1: // Unit
				s.assign(unbound, c)
			}
		}
	}
	return nil
}

// decide opens a new decision level and binds the lowest-indexed unbound
// variable positively.
func (s *Solver) decide() {
	s.Stats.NbDecisions++
	for s.values[s.searched.Lit()] != 0 {
		s.searched++
	}
	s.level++
	s.control = append(s.control, len(s.trail))
	s.stamped[s.searched] = 0 // The stamp field is reused across analyses
	s.assign(s.searched.Lit(), nil)
}

// backtrack unwinds the trail down to the given level, restoring the
// propagation cursor and the search cursor. Pre: lvl < current level.
func (s *Solver) backtrack(lvl int32) {
	bound := s.control[lvl]
	for len(s.trail) > bound {
		last := len(s.trail) - 1
		s.unassign(s.trail[last])
		s.trail = s.trail[:last]
	}
	s.control = s.control[:lvl]
	s.qhead = bound
	s.level = lvl
}

// analyzeLiteral stamps the given false literal's variable if it was not
// dealt with yet, counting current-level marks and collecting lower-level
// literals for the learned clause. Root-level literals are skipped.
func (s *Solver) analyzeLiteral(lit solver.Lit, current *int, lits *[]solver.Lit) {
	v := lit.Var()
	if s.levels[v] == 0 || s.stamped[v] == s.Stats.NbConflicts {
		return
	}
	s.stamped[v] = s.Stats.NbConflicts
	if s.levels[v] == s.level {
		*current++
	} else {
		*lits = append(*lits, lit)
	}
}

// analyze learns a 1-UIP clause from the given conflict, backjumps and
// asserts the negation of the UIP. Pre: the current level is > 0.
func (s *Solver) analyze(conflict *solver.Clause) {
	lits := make([]solver.Lit, 1, conflict.Len()) // Leave room for the asserting literal
	current := 0
	for i := 0; i < conflict.Len(); i++ {
		s.analyzeLiteral(conflict.Get(i), &current, &lits)
	}
	ptr := len(s.trail) - 1
	for current > 1 {
		for s.stamped[s.trail[ptr].Var()] != s.Stats.NbConflicts {
			ptr--
		}
		v := s.trail[ptr].Var()
		ptr--
		current--
		if reason := s.reason[v]; reason != nil {
			for i := 0; i < reason.Len(); i++ {
				s.analyzeLiteral(reason.Get(i), &current, &lits)
			}
		}
	}
	for s.stamped[s.trail[ptr].Var()] != s.Stats.NbConflicts {
		ptr--
	}
	uip := s.trail[ptr]
	lits[0] = uip.Negation()
	lits = lits[:s.minimizeLearned(lits)]
	var bjLevel int32
	if len(lits) > 1 {
		maxIdx := 1
		for i := 2; i < len(lits); i++ {
			if s.levels[lits[i].Var()] > s.levels[lits[maxIdx].Var()] {
				maxIdx = i
			}
		}
		lits[1], lits[maxIdx] = lits[maxIdx], lits[1]
		bjLevel = s.levels[lits[1].Var()]
	}
	if bjLevel < s.level-1 {
		s.Stats.NbBackjumps++
	}
	s.backtrack(bjLevel)
	if len(lits) == 1 {
		s.Stats.NbUnitLearned++
		s.assign(lits[0], nil)
		return
	}
	learned := solver.NewLearnedClause(append(make([]solver.Lit, 0, len(lits)), lits...))
	s.Stats.NbLearned++
	s.connectClause(learned)
	s.assign(lits[0], learned)
}

// minimizeLearned removes the literals whose reason is subsumed by the
// rest of the learned clause (self-subsumption), in a single pass, and
// returns the new size. lits[0], the asserting literal, is always kept.
func (s *Solver) minimizeLearned(lits []solver.Lit) int {
	sz := 1
	for i := 1; i < len(lits); i++ {
		if reason := s.reason[lits[i].Var()]; reason == nil {
			lits[sz] = lits[i]
			sz++
		} else {
			for k := 0; k < reason.Len(); k++ {
				v := reason.Get(k).Var()
				if s.stamped[v] != s.Stats.NbConflicts && s.levels[v] > 0 {
					lits[sz] = lits[i]
					sz++
					break
				}
			}
		}
	}
	return sz
}

// Solve solves the problem associated with the solver and returns the
// appropriate status: Sat or Unsat, or Indet if the conflict budget was
// exhausted first.
func (s *Solver) Solve() solver.Status {
	if s.status == solver.Unsat {
		return s.status
	}
	for {
		conflict := s.propagate()
		if conflict != nil {
			if s.level == 0 {
				s.status = solver.Unsat
				return s.status
			}
			s.analyze(conflict)
		} else if len(s.trail) == s.nbVars {
			s.status = solver.Sat
			s.model = make([]bool, s.nbVars)
			for v := solver.Var(0); int(v) < s.nbVars; v++ {
				s.model[v] = s.values[v.Lit()] > 0
			}
			return s.status
		} else if s.Stats.NbConflicts >= s.ConflictLimit {
			return solver.Indet
		} else {
			s.decide()
		}
	}
}

// Model returns a slice that associates, to each variable, its binding.
// If s's status is not Sat, the method will panic.
func (s *Solver) Model() []bool {
	if s.status != solver.Sat {
		panic("cannot call Model() from a non-Sat solver")
	}
	return s.model
}
