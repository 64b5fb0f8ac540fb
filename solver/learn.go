package solver

import "github.com/sirupsen/logrus"

// analyzeLiteral stamps the given false literal's variable if it was not
// dealt with yet. Literals bound at the current level only bump the
// counter; lower-level ones are collected for the learned clause.
// Root-level literals are permanently false and never part of it.
func (s *Solver) analyzeLiteral(lit Lit, current *int, lits *[]Lit) {
	v := lit.Var()
	lvl := abs(s.model[v])
	if lvl == 1 || s.stamped[v] == s.Stats.NbConflicts {
		return
	}
	s.stamped[v] = s.Stats.NbConflicts
	if lvl == s.level {
		*current++
	} else {
		*lits = append(*lits, lit)
	}
}

// analyze learns a clause from the given conflict by stamp-guided
// traversal of the implication graph along the trail, stopping at the
// first unique implication point of the current level. It then backjumps
// to the highest level found among the remaining literals and asserts
// the negation of the UIP, with the learned clause as its reason.
// Pre: the current level is > 1.
func (s *Solver) analyze(conflict *Clause) {
	lits := make([]Lit, 1, conflict.Len()) // Leave room for the asserting literal
	current := 0                           // Nb of stamped lits at the current level not yet resolved
	for i := 0; i < conflict.Len(); i++ {
		s.analyzeLiteral(conflict.Get(i), &current, &lits)
	}
	ptr := len(s.trail) - 1
	for current > 1 {
		// Level monotonicity on the trail guarantees the next stamped
		// literal from the top is a current-level one.
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
	bjLevel := decLevel(1)
	if len(lits) > 1 {
		// Watch the asserted literal and a literal from the backjump
		// level: under backtracking those are unbound last.
		maxIdx := 1
		for i := 2; i < len(lits); i++ {
			if abs(s.model[lits[i].Var()]) > abs(s.model[lits[maxIdx].Var()]) {
				maxIdx = i
			}
		}
		lits[1], lits[maxIdx] = lits[maxIdx], lits[1]
		bjLevel = abs(s.model[lits[1].Var()])
	}
	if bjLevel < s.level-1 {
		s.Stats.NbBackjumps++
	}
	if s.logger != nil && s.logger.IsLevelEnabled(logrus.DebugLevel) {
		s.logger.WithFields(logrus.Fields{
			"conflict": s.Stats.NbConflicts,
			"size":     len(lits),
			"backjump": bjLevel - 1,
		}).Debug("learned clause")
	}
	s.backtrack(bjLevel)
	if len(lits) == 1 {
		s.Stats.NbUnitLearned++
		s.assign(lits[0], nil)
		return
	}
	learned := NewLearnedClause(append(make([]Lit, 0, len(lits)), lits...))
	s.addLearned(learned)
	s.assign(lits[0], learned)
}

// minimizeLearned removes the literals whose reason is subsumed by the
// rest of the learned clause (self-subsumption), in a single pass, and
// returns the new size. lits[0], the asserting literal, is always kept.
func (s *Solver) minimizeLearned(lits []Lit) int {
	sz := 1
	for i := 1; i < len(lits); i++ {
		if reason := s.reason[lits[i].Var()]; reason == nil {
			lits[sz] = lits[i]
			sz++
		} else {
			for k := 0; k < reason.Len(); k++ {
				v := reason.Get(k).Var()
				if s.stamped[v] != s.Stats.NbConflicts && abs(s.model[v]) > 1 {
					lits[sz] = lits[i]
					sz++
					break
				}
			}
		}
	}
	return sz
}
