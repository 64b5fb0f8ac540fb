package dpll

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schustemtf/SAT/solver"
)

func pigeonhole(nbPigeons, nbHoles int) [][]int {
	v := func(pigeon, hole int) int {
		return (pigeon-1)*nbHoles + hole
	}
	var cnf [][]int
	for i := 1; i <= nbPigeons; i++ {
		clause := make([]int, nbHoles)
		for j := 1; j <= nbHoles; j++ {
			clause[j-1] = v(i, j)
		}
		cnf = append(cnf, clause)
	}
	for j := 1; j <= nbHoles; j++ {
		for i := 1; i <= nbPigeons; i++ {
			for k := i + 1; k <= nbPigeons; k++ {
				cnf = append(cnf, []int{-v(i, j), -v(k, j)})
			}
		}
	}
	return cnf
}

func random3SAT(seed int64, nbVars, nbClauses int) [][]int {
	rnd := rand.New(rand.NewSource(seed))
	cnf := make([][]int, nbClauses)
	for i := range cnf {
		vars := rnd.Perm(nbVars)[:3]
		clause := make([]int, 3)
		for j, v := range vars {
			clause[j] = v + 1
			if rnd.Intn(2) == 0 {
				clause[j] = -clause[j]
			}
		}
		cnf[i] = clause
	}
	return cnf
}

func TestBasics(t *testing.T) {
	tests := []struct {
		name     string
		cnf      [][]int
		expected solver.Status
	}{
		{"empty formula", nil, solver.Sat},
		{"single unit", [][]int{{1}}, solver.Sat},
		{"contradictory units", [][]int{{1}, {-1}}, solver.Unsat},
		{"empty clause", [][]int{{1, 2}, {}}, solver.Unsat},
		{"two vars", [][]int{{1, 2}, {-1, -2}}, solver.Sat},
		{"pigeonhole 3 2", pigeonhole(3, 2), solver.Unsat},
		{"pigeonhole 3 3", pigeonhole(3, 3), solver.Sat},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			pb := solver.ParseSlice(test.cnf)
			s := New(pb)
			require.Equal(t, test.expected, s.Solve())
			if test.expected == solver.Sat {
				assert.NoError(t, pb.CheckModel(s.Model()))
			}
		})
	}
}

// The recursive engine must agree with the clause-learning one.
func TestAgainstCDCLCore(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		cnf := random3SAT(seed, 10, 42)
		expected := solver.New(solver.ParseSlice(cnf)).Solve()
		pb := solver.ParseSlice(cnf)
		s := New(pb)
		require.Equal(t, expected, s.Solve(), "seed %d", seed)
		if expected == solver.Sat {
			assert.NoError(t, pb.CheckModel(s.Model()), "seed %d", seed)
		}
	}
}
