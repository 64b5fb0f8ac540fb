package solver

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseSlice parses a slice of slices of CNF literals and returns the
// equivalent problem. The argument is supposed to be a well-formed CNF:
// literals are nonzero and the variable range is deduced from the content.
func ParseSlice(cnf [][]int) *Problem {
	var pb Problem
	for _, clause := range cnf {
		for _, val := range clause {
			if val == 0 {
				panic("null literal in clause")
			}
			if v := int(IntToLit(val).Var()); v >= pb.NbVars {
				pb.NbVars = v + 1
			}
		}
	}
	pb.Model = make([]decLevel, pb.NbVars)
	for _, clause := range cnf {
		pb.appendClause(clause)
		if pb.Status == Unsat {
			return &pb
		}
	}
	return &pb
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// readInt reads an int from r.
// 'b' is the last read byte. It can be a space, a '-' or a digit.
// All spaces before the int value are ignored.
// Returns io.EOF if the end of the stream was reached before any digit.
func readInt(b *byte, r *bufio.Reader) (res int, err error) {
	for err == nil && isSpace(*b) {
		*b, err = r.ReadByte()
	}
	if err == io.EOF {
		return 0, io.EOF
	}
	if err != nil {
		return 0, errors.Wrap(err, "could not read digit")
	}
	neg := false
	if *b == '-' {
		neg = true
		if *b, err = r.ReadByte(); err != nil {
			return 0, errors.New("end-of-file after '-'")
		}
	}
	if *b < '0' || *b > '9' {
		return 0, errors.Errorf("%q is not a digit", *b)
	}
	for err == nil && *b >= '0' && *b <= '9' {
		res = 10*res + int(*b-'0')
		*b, err = r.ReadByte()
	}
	if err == io.EOF {
		// The number was complete: report end-of-stream on the next call.
		*b = ' '
	} else if err != nil {
		return 0, errors.Wrap(err, "could not read digit")
	} else if !isSpace(*b) {
		return 0, errors.Errorf("unexpected char %q in number", *b)
	}
	if neg {
		res = -res
	}
	return res, nil
}

// parseHeader parses the "cnf <vars> <clauses>" part of the header line.
func parseHeader(r *bufio.Reader) (nbVars, nbClauses int, err error) {
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return 0, 0, errors.Wrap(err, "cannot read header")
	}
	fields := strings.Fields(line)
	if len(fields) != 3 || fields[0] != "cnf" {
		return 0, 0, errors.Errorf("invalid syntax %q in header", "p"+line)
	}
	nbVars, err = strconv.Atoi(fields[1])
	if err != nil || nbVars < 0 {
		return 0, 0, errors.Errorf("invalid nb of vars %q in header", fields[1])
	}
	nbClauses, err = strconv.Atoi(fields[2])
	if err != nil || nbClauses < 0 {
		return 0, 0, errors.Errorf("invalid nb of clauses %q in header", fields[2])
	}
	return nbVars, nbClauses, nil
}

// ParseCNF parses a DIMACS CNF stream and returns the corresponding
// Problem. The expected format is zero or more comment lines starting
// with 'c', a "p cnf <vars> <clauses>" header, then the announced number
// of zero-terminated clauses.
func ParseCNF(f io.Reader) (*Problem, error) {
	r := bufio.NewReader(f)
	b, err := r.ReadByte()
	for err == nil && b == 'c' { // Skip comments
		for b != '\n' {
			if b, err = r.ReadByte(); err != nil {
				return nil, errors.New("end-of-file in comment")
			}
		}
		b, err = r.ReadByte()
	}
	if err != nil || b != 'p' {
		return nil, errors.New("expected 'c' or 'p'")
	}
	nbVars, nbClauses, err := parseHeader(r)
	if err != nil {
		return nil, errors.Wrap(err, "cannot parse CNF header")
	}
	pb := &Problem{
		NbVars:  nbVars,
		Clauses: make([]*Clause, 0, nbClauses),
		Model:   make([]decLevel, nbVars),
	}
	lits := make([]int, 0, 3)
	parsed := 0
	b = ' '
	for {
		val, err := readInt(&b, r)
		if err == io.EOF {
			if len(lits) != 0 {
				return nil, errors.New("terminating zero missing")
			}
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "cannot parse clause")
		}
		if val == 0 {
			if parsed == nbClauses {
				return nil, errors.New("too many clauses")
			}
			pb.appendClause(lits)
			lits = lits[:0]
			parsed++
		} else {
			if val > nbVars || -val > nbVars {
				return nil, errors.Errorf("invalid literal %d for problem with %d vars only", val, nbVars)
			}
			lits = append(lits, val)
		}
	}
	if parsed != nbClauses {
		return nil, errors.New("clause missing")
	}
	return pb, nil
}
