package solver

import (
	"math"

	"github.com/sirupsen/logrus"
)

// Stats are statistics about the resolution of the problem.
// They are provided for information purpose only.
type Stats struct {
	NbConflicts    int64 // How many conflicting clauses were met
	NbDecisions    int64 // How many decisions were made
	NbPropagations int64 // How many literals were propagated
	NbBackjumps    int64 // How many non-chronological backjumps were made
	NbLearned      int64 // How many clauses were learned
	NbUnitLearned  int64 // How many unit clauses were learned
}

// The level a binding was made.
// A negative value means "negative assignment at that level".
// A positive value means "positive assignment at that level".
// Level 1 holds root-level (fixed) bindings; decision levels start at 2.
type decLevel int32

// A Model is a binding for several variables.
// Each var, in order, is associated with a binding. Bindings are
// implemented as decision levels:
// - a 0 value means the variable is free,
// - a positive value means the variable was set to true at the given decLevel,
// - a negative value means the variable was set to false at the given decLevel.
type Model []decLevel

// A ProgressFunc is called by the solver at reporting checkpoints, i.e
// every time the number of decisions reaches a power of two. The event
// byte identifies the kind of checkpoint.
type ProgressFunc func(event byte)

// A Solver solves a given problem with conflict-driven clause learning
// and two-watched-literal propagation. It is the main data structure.
type Solver struct {
	ConflictLimit int64        // Give up after that many conflicts. No limit by default.
	Progress      ProgressFunc // Called at reporting checkpoints. May be nil.
	Stats         Stats        // Statistics about the solving process.
	nbVars        int
	status        Status
	wl            watcherList
	trail         []Lit     // Current assignment stack
	control       []int     // For each open decision level, the trail length at which it began
	qhead         int       // Propagation cursor: trail positions below it have been propagated
	model         Model     // 0 means unbound, other value is a binding
	reason        []*Clause // For each var, the clause that forced its binding, or nil
	stamped       []int64   // For each var, the conflict nb at which it was last stamped during analysis
	level         decLevel  // Current decision level
	searched      Var       // Search cursor: all vars below it are bound
	fixed         int       // Nb of vars bound at root level
	logger        *logrus.Logger
}

// New makes a solver, given a problem to solve.
func New(pb *Problem) *Solver {
	if pb.Status == Unsat {
		return &Solver{status: Unsat}
	}
	nbVars := pb.NbVars
	s := &Solver{
		ConflictLimit: math.MaxInt64,
		nbVars:        nbVars,
		status:        pb.Status,
		trail:         make([]Lit, 0, nbVars),
		model:         make(Model, nbVars),
		reason:        make([]*Clause, nbVars),
		stamped:       make([]int64, nbVars),
		level:         1,
	}
	s.initWatcherList(pb.Clauses)
	for _, lit := range pb.Units {
		s.assign(lit, nil)
	}
	return s
}

// SetLogger installs a trace logger. Tracing is only performed at the
// debug level, so the solver stays silent unless asked otherwise.
func (s *Solver) SetLogger(logger *logrus.Logger) {
	s.logger = logger
}

// NbVars returns the nb of vars of the underlying problem.
func (s *Solver) NbVars() int {
	return s.nbVars
}

// NbFixed returns the nb of vars bound at the root level.
func (s *Solver) NbFixed() int {
	return s.fixed
}

// litStatus returns whether the literal is made true (Sat) or false
// (Unsat) by the current bindings, or if it is unbound (Indet).
func (s *Solver) litStatus(l Lit) Status {
	assign := s.model[l.Var()]
	if assign == 0 {
		return Indet
	}
	if assign > 0 == l.IsPositive() {
		return Sat
	}
	return Unsat
}

func abs(val decLevel) decLevel {
	if val < 0 {
		return -val
	}
	return val
}

// If l is negative, -lvl is returned. Else, lvl is returned.
func lvlToSignedLvl(l Lit, lvl decLevel) decLevel {
	if l.IsPositive() {
		return lvl
	}
	return -lvl
}

// assign binds the given literal to true at the current level and pushes
// it on the trail. Pre: the literal's variable is unbound.
func (s *Solver) assign(lit Lit, reason *Clause) {
	v := lit.Var()
	s.model[v] = lvlToSignedLvl(lit, s.level)
	s.reason[v] = reason
	s.trail = append(s.trail, lit)
	if s.level == 1 {
		s.fixed++
	}
}

// unassign clears the binding of the given literal's variable and lowers
// the search cursor if needed.
func (s *Solver) unassign(lit Lit) {
	v := lit.Var()
	s.model[v] = 0
	s.reason[v] = nil
	if v < s.searched {
		s.searched = v
	}
}

// decide opens a new decision level and binds the lowest-indexed unbound
// variable positively.
func (s *Solver) decide() {
	s.Stats.NbDecisions++
	for s.model[s.searched] != 0 {
		s.searched++
	}
	s.level++
	s.control = append(s.control, len(s.trail))
	s.stamped[s.searched] = 0 // The stamp field is reused across analyses
	if s.logger != nil && s.logger.IsLevelEnabled(logrus.DebugLevel) {
		s.logger.WithFields(logrus.Fields{
			"var":   s.searched + 1,
			"level": s.level - 1,
		}).Debug("decision")
	}
	s.assign(s.searched.Lit(), nil)
	if s.Progress != nil && isPowerOfTwo(s.Stats.NbDecisions) {
		s.Progress('d')
	}
}

func isPowerOfTwo(n int64) bool {
	return n > 0 && n&(n-1) == 0
}

// backtrack unwinds the trail down to the given level, restoring the
// propagation cursor and the search cursor. Pre: lvl < current level.
func (s *Solver) backtrack(lvl decLevel) {
	bound := s.control[lvl-1]
	for len(s.trail) > bound {
		last := len(s.trail) - 1
		s.unassign(s.trail[last])
		s.trail = s.trail[:last]
	}
	s.control = s.control[:lvl-1]
	s.qhead = bound
	s.level = lvl
}

// Solve solves the problem associated with the solver and returns the
// appropriate status: Sat or Unsat, or Indet if the conflict budget was
// exhausted first.
func (s *Solver) Solve() Status {
	if s.status == Unsat {
		return s.status
	}
	for {
		conflict := s.propagate()
		if conflict != nil {
			if s.level == 1 {
				s.status = Unsat
				return s.status
			}
			s.analyze(conflict)
		} else if len(s.trail) == s.nbVars {
			s.status = Sat
			return s.status
		} else if s.Stats.NbConflicts >= s.ConflictLimit {
			return Indet
		} else {
			s.decide()
		}
	}
}

// Model returns a slice that associates, to each variable, its binding.
// If s's status is not Sat, the method will panic.
func (s *Solver) Model() []bool {
	if s.status != Sat {
		panic("cannot call Model() from a non-Sat solver")
	}
	res := make([]bool, s.nbVars)
	for i, lvl := range s.model {
		res[i] = lvl > 0
	}
	return res
}
