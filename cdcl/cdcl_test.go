package cdcl

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

func TestBackjump(t *testing.T) {
	pb := solver.ParseSlice([][]int{{-1, 3}, {-2, 4}, {-3, -4, 5}, {-5, 6}, {-5, -6}})
	s := New(pb)
	require.Equal(t, solver.Sat, s.Solve())
	assert.False(t, s.Model()[4], "5 must be false in every model")
	assert.GreaterOrEqual(t, s.Stats.NbBackjumps, int64(1))
	assert.GreaterOrEqual(t, s.Stats.NbUnitLearned, int64(1))
}

func TestConflictLimit(t *testing.T) {
	s := New(solver.ParseSlice(pigeonhole(5, 4)))
	s.ConflictLimit = 1
	assert.Equal(t, solver.Indet, s.Solve())
}

func TestDeterminism(t *testing.T) {
	cnf := random3SAT(42, 20, 85)
	first := New(solver.ParseSlice(cnf))
	status := first.Solve()
	require.NotEqual(t, solver.Indet, status)
	second := New(solver.ParseSlice(cnf))
	require.Equal(t, status, second.Solve())
	assert.Equal(t, first.Stats, second.Stats)
}

// The occurrence-list engine must agree with the watched-literal one.
func TestAgainstWatchedCore(t *testing.T) {
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
