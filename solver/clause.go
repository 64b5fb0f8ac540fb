package solver

import (
	"fmt"
	"strings"
)

// A Clause is an ordered list of Lit, together with two watched literal
// slots and a blocker literal used as a cheap satisfaction hint.
// The watched literals are always two distinct members of the clause.
type Clause struct {
	lits    []Lit
	watch1  Lit
	watch2  Lit
	blocker Lit
	learned bool
}

// NewClause returns a clause whose lits are given as an argument.
func NewClause(lits []Lit) *Clause {
	return &Clause{lits: lits}
}

// NewLearnedClause returns a new clause marked as learned.
func NewLearnedClause(lits []Lit) *Clause {
	return &Clause{lits: lits, learned: true}
}

// Learned returns true iff c was learned during conflict analysis.
func (c *Clause) Learned() bool {
	return c.learned
}

// Len returns the nb of lits in the clause.
func (c *Clause) Len() int {
	return len(c.lits)
}

// First returns the first lit from the clause.
func (c *Clause) First() Lit {
	return c.lits[0]
}

// Second returns the second lit from the clause.
func (c *Clause) Second() Lit {
	return c.lits[1]
}

// Get returns the ith literal from the clause.
func (c *Clause) Get(i int) Lit {
	return c.lits[i]
}

// otherWatch returns the watched literal that is not l.
// Pre: l is one of the two watched literals.
func (c *Clause) otherWatch(l Lit) Lit {
	if c.watch1 == l {
		return c.watch2
	}
	return c.watch1
}

// moveWatch replaces the watch slot currently holding old with repl.
func (c *Clause) moveWatch(old, repl Lit) {
	if c.watch1 == old {
		c.watch1 = repl
	} else {
		c.watch2 = repl
	}
}

// CNF returns a DIMACS CNF representation of the clause.
func (c *Clause) CNF() string {
	res := make([]string, 0, c.Len()+1)
	for _, lit := range c.lits {
		res = append(res, fmt.Sprintf("%d", lit.Int()))
	}
	res = append(res, "0")
	return strings.Join(res, " ")
}
