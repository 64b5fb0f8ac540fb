package solver

// A watcherList stores all the clauses of the solver and, for each
// literal, the list of clauses currently watching it.
type watcherList struct {
	nbOriginal int         // Original # of clauses; learned ones are stored after them
	wlist      [][]*Clause // For each literal, a list of clauses in which it is watched
	clauses    []*Clause   // All the clauses
}

// initWatcherList makes a new watcherList for the solver.
func (s *Solver) initWatcherList(clauses []*Clause) {
	newClauses := make([]*Clause, len(clauses), len(clauses)*2) // Make room for future learned clauses
	copy(newClauses, clauses)
	s.wl = watcherList{
		nbOriginal: len(clauses),
		wlist:      make([][]*Clause, s.nbVars*2),
		clauses:    newClauses,
	}
	for _, c := range clauses {
		s.watchClause(c)
	}
}

// watchClause watches the provided clause on its two first literals and
// makes the first one the initial blocker.
// For learned clauses, analysis arranges the lits so that the first one
// is the asserted literal and the second one was bound at the backjump
// level: those two stay alive longest under backtracking.
func (s *Solver) watchClause(c *Clause) {
	c.watch1 = c.First()
	c.watch2 = c.Second()
	c.blocker = c.First()
	s.wl.wlist[c.watch1] = append(s.wl.wlist[c.watch1], c)
	s.wl.wlist[c.watch2] = append(s.wl.wlist[c.watch2], c)
}

// addLearned appends the given learned clause and updates the watchers.
func (s *Solver) addLearned(c *Clause) {
	s.Stats.NbLearned++
	s.wl.clauses = append(s.wl.clauses, c)
	s.watchClause(c)
}

// propagate propagates all the pending literals of the trail and returns
// the first conflicting clause met, or nil if no conflict arose.
func (s *Solver) propagate() *Clause {
	for s.qhead < len(s.trail) {
		lit := s.trail[s.qhead]
		s.qhead++
		s.Stats.NbPropagations++
		if conflict := s.propagateLit(lit); conflict != nil {
			s.Stats.NbConflicts++
			return conflict
		}
	}
	return nil
}

// propagateLit visits every clause watching the negation of the newly
// bound literal. The watch list is rewritten in place with a read/write
// walk, so that moved watches are removed without skipping or revisiting
// any clause.
func (s *Solver) propagateLit(lit Lit) *Clause {
	neg := lit.Negation()
	ws := s.wl.wlist[neg]
	var i, j int
	for i < len(ws) {
		c := ws[i]
		i++
		if s.litStatus(c.blocker) == Sat { // Clause already satisfied
			ws[j] = c
			j++
			continue
		}
		other := c.otherWatch(neg)
		if s.litStatus(other) == Sat { // Clause satisfied by the other watch
			c.blocker = other
			ws[j] = c
			j++
			continue
		}
		if found, replacement := s.findNewWatch(c); found {
			// The watch moves from neg to the replacement: drop c here.
			c.moveWatch(neg, replacement)
			s.wl.wlist[replacement] = append(s.wl.wlist[replacement], c)
			continue
		}
		// All unwatched lits are false: the clause is unit or conflicting.
		ws[j] = c
		j++
		if s.litStatus(other) == Unsat { // Conflict
			for i < len(ws) { // Keep the remaining watchers
				ws[j] = ws[i]
				i++
				j++
			}
			s.wl.wlist[neg] = ws[:j]
			return c
		}
		s.assign(other, c) // Unit
	}
	s.wl.wlist[neg] = ws[:j]
	return nil
}

// findNewWatch scans c for a replacement watch: an unfalsified literal
// outside the two watch slots. When the replacement is true, it also
// becomes the new blocker.
func (s *Solver) findNewWatch(c *Clause) (bool, Lit) {
	for k := 0; k < c.Len(); k++ {
		x := c.Get(k)
		if x == c.watch1 || x == c.watch2 {
			continue
		}
		switch s.litStatus(x) {
		case Sat:
			c.blocker = x
			return true, x
		case Indet:
			return true, x
		}
	}
	return false, -1
}
