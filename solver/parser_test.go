package solver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCNF(t *testing.T) {
	cnf := `c a sample problem
c with two comment lines
p cnf 4 4
1 2 0
-1 -2 0
3 -4 0
-3 -4 0
`
	pb, err := ParseCNF(strings.NewReader(cnf))
	require.NoError(t, err)
	assert.Equal(t, 4, pb.NbVars)
	assert.Len(t, pb.Clauses, 4)
	s := New(pb)
	require.Equal(t, Sat, s.Solve())
	model := s.Model()
	assert.False(t, model[3], "4 must be false in every model")
	require.NoError(t, pb.CheckModel(model))
}

func TestParseCNFTrivial(t *testing.T) {
	pb, err := ParseCNF(strings.NewReader("p cnf 0 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, pb.NbVars)
	assert.Equal(t, Sat, New(pb).Solve())
}

func TestParseCNFUnsat(t *testing.T) {
	pb, err := ParseCNF(strings.NewReader("p cnf 1 2\n1 0\n-1 0\n"))
	require.NoError(t, err)
	assert.Equal(t, Unsat, pb.Status)
	assert.Equal(t, Unsat, New(pb).Solve())
}

func TestParseCNFNoTrailingNewline(t *testing.T) {
	pb, err := ParseCNF(strings.NewReader("p cnf 2 1\n1 2 0"))
	require.NoError(t, err)
	assert.Len(t, pb.Clauses, 1)
}

func TestParseCNFErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"eof in comment", "c no newline"},
		{"missing header", "1 2 0\n"},
		{"invalid header", "p cnf two three\n"},
		{"negative header", "p cnf -3 1\n1 0\n"},
		{"literal out of range", "p cnf 2 1\n3 0\n"},
		{"negative literal out of range", "p cnf 2 1\n-3 0\n"},
		{"too many clauses", "p cnf 2 1\n1 0\n2 0\n"},
		{"clause missing", "p cnf 2 3\n1 2 0\n"},
		{"terminating zero missing", "p cnf 2 1\n1 2\n"},
		{"eof after minus", "p cnf 2 1\n1 -"},
		{"garbage literal", "p cnf 2 1\n1 x 0\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseCNF(strings.NewReader(test.input))
			assert.Error(t, err)
		})
	}
}

func TestParseSliceNormalization(t *testing.T) {
	pb := ParseSlice([][]int{{1, 2, 1}})
	require.Len(t, pb.Clauses, 1)
	assert.Equal(t, 2, pb.Clauses[0].Len(), "duplicate literals must be removed")

	pb = ParseSlice([][]int{{1, -1, 2}})
	assert.Empty(t, pb.Clauses, "tautologies must be dropped")
	assert.Equal(t, Sat, New(pb).Solve())

	pb = ParseSlice([][]int{{2, 2}})
	assert.Empty(t, pb.Clauses, "a duplicated literal collapses to a unit")
	require.Len(t, pb.Units, 1)
	assert.Equal(t, 2, pb.Units[0].Int())
}

func TestProblemCNFRoundTrip(t *testing.T) {
	pb := ParseSlice([][]int{{1, 2}, {-1, -2}, {3}})
	out := pb.CNF()
	pb2, err := ParseCNF(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, pb.NbVars, pb2.NbVars)
	assert.Equal(t, New(pb).Solve(), New(pb2).Solve())
}
