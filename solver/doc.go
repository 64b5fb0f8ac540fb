/*
Package solver gives access to a conflict-driven clause learning SAT
solver with two-watched-literal propagation. Its input can be either a
DIMACS CNF stream or a solver.Problem object containing the set of
clauses to be solved.

The solver will then decide whether the problem is satisfiable. In the
former case, it can provide a model, i.e a set of bindings for all
variables that makes the problem true.

A problem can be described in two ways:

1. parse a DIMACS stream (io.Reader). If the io.Reader produces the
following content:

	p cnf 6 7
	1 2 3 0
	4 5 6 0
	-1 -4 0
	-2 -5 0
	-3 -6 0
	-1 -3 0
	-4 -6 0

the programmer can create the Problem by doing:

	pb, err := solver.ParseCNF(f)

2. create the equivalent list of lists of literals:

	clauses := [][]int{
		{1, 2, 3},
		{4, 5, 6},
		{-1, -4},
		{-2, -5},
		{-3, -6},
		{-1, -3},
		{-4, -6},
	}
	pb := solver.ParseSlice(clauses)

Once the problem is created, the solver is instantiated and run:

	s := solver.New(pb)
	status := s.Solve()

Solve returns Sat, Unsat, or Indet when the solver's conflict budget was
exhausted before an answer was found. When the status is Sat, a total
assignment is available through s.Model().

The search is deterministic: two runs on the same problem with the same
options produce the same trail, the same learned clauses and the same
statistics.
*/
package solver
