package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/k0kubun/pp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/schustemtf/SAT/cdcl"
	"github.com/schustemtf/SAT/dpll"
	"github.com/schustemtf/SAT/solver"
)

// The SAT competition standardized exit codes. All other exit codes
// denote unsolved or error.
const (
	exitUnknown       = 0  // Unsolved exit code.
	exitSatisfiable   = 10 // Exit code for satisfiable and
	exitUnsatisfiable = 20 // unsatisfiable formulas.
)

const version = "1.0.0"

var log = logrus.New()

// verbosity: -1=quiet, 0=normal, 1=verbose.
var verbosity int

// message prints a comment line on stdout, unless in quiet mode.
func message(format string, args ...interface{}) {
	if verbosity < 0 {
		return
	}
	fmt.Printf("c "+format+"\n", args...)
}

// verbose prints a comment line on stdout, in verbose mode only.
func verbose(format string, args ...interface{}) {
	if verbosity > 0 {
		message(format, args...)
	}
}

func main() {
	cli.VersionFlag = cli.BoolFlag{Name: "version", Usage: "print the version"}
	app := cli.NewApp()
	app.Name = "sat"
	app.Usage = "a CDCL SAT solver for DIMACS CNF formulas"
	app.UsageText = "sat [options] [file.cnf]\n\n   The solver reads from stdin if no input file is specified."
	app.Version = version
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "quiet, q",
			Usage: "do not print any messages",
		},
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "print verbose messages",
		},
		cli.BoolFlag{
			Name:  "no-witness, n",
			Usage: "do not print witness if satisfiable",
		},
		cli.BoolFlag{
			Name:  "debug, d",
			Usage: "print debug information",
		},
		cli.Int64Flag{
			Name:  "conflicts, c",
			Usage: "set conflict limit",
			Value: -1,
		},
		cli.StringFlag{
			Name:  "engine, e",
			Usage: "solver engine: watches, cdcl or dpll",
			Value: "watches",
		},
	}
	app.Action = run
	if err := app.Run(os.Args); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	log.SetOutput(os.Stderr)
	switch {
	case c.Bool("quiet"):
		verbosity = -1
		log.SetLevel(logrus.ErrorLevel)
	case c.Bool("verbose"):
		verbosity = 1
	}
	if c.Bool("debug") {
		log.SetLevel(logrus.DebugLevel)
	}
	if c.NArg() > 1 {
		return errors.Errorf("too many arguments: %v", c.Args())
	}

	path := "<stdin>"
	var in io.Reader = os.Stdin
	if c.NArg() == 1 {
		path = c.Args().First()
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "could not open %q", path)
		}
		defer f.Close()
		in = f
	}

	message("SAT solver, version %s", version)
	message("reading from '%s'", path)

	pb, err := solver.ParseCNF(in)
	if err != nil {
		return errors.Wrapf(err, "parse error in %q", path)
	}
	message("parsed %d vars in %d clauses", pb.NbVars, len(pb.Clauses)+len(pb.Units))

	limit := c.Int64("conflicts")
	if limit >= 0 {
		verbose("solving with conflict limit %d", limit)
	}

	start := time.Now()
	res, model, stats := solve(c.String("engine"), pb, limit, start)

	if res == solver.Sat {
		// Checking the model on the original formula is extremely useful
		// for testing and debugging.
		if err := pb.CheckModel(model); err != nil {
			printStatistics(stats, time.Since(start))
			return errors.Wrap(err, "model check failed")
		}
		fmt.Println("s SATISFIABLE")
		if !c.Bool("no-witness") {
			printModel(model)
		}
	} else if res == solver.Unsat {
		fmt.Println("s UNSATISFIABLE")
	}

	printStatistics(stats, time.Since(start))
	if c.Bool("debug") {
		pp.Fprintln(os.Stderr, stats)
	}

	code := exitUnknown
	switch res {
	case solver.Sat:
		code = exitSatisfiable
	case solver.Unsat:
		code = exitUnsatisfiable
	}
	message("exit code %d", code)
	os.Exit(code)
	return nil
}

// statistics is the subset of solver counters shared by the three
// engines, used for reporting.
type statistics struct {
	Conflicts    int64
	Decisions    int64
	Propagations int64
	Backjumps    int64
}

// solve runs the problem through the selected engine and returns the
// status, the model when satisfiable, and the counters for reporting.
func solve(engine string, pb *solver.Problem, limit int64, start time.Time) (solver.Status, []bool, statistics) {
	var res solver.Status
	var model []bool
	var stats statistics
	switch engine {
	case "watches":
		s := solver.New(pb)
		if limit >= 0 {
			s.ConflictLimit = limit
		}
		s.SetLogger(log)
		rep := reporter(s, start)
		s.Progress = rep
		setSignalHandlers(func() { printStatistics(readStats(s), time.Since(start)) })
		rep('*')
		res = s.Solve()
		switch res {
		case solver.Sat:
			rep('1')
		case solver.Unsat:
			rep('0')
		default:
			rep('?')
		}
		stats = readStats(s)
		if res == solver.Sat {
			model = s.Model()
		}
	case "cdcl":
		s := cdcl.New(pb)
		if limit >= 0 {
			s.ConflictLimit = limit
		}
		cdclStats := func() statistics {
			return statistics{s.Stats.NbConflicts, s.Stats.NbDecisions, s.Stats.NbPropagations, s.Stats.NbBackjumps}
		}
		setSignalHandlers(func() { printStatistics(cdclStats(), time.Since(start)) })
		res = s.Solve()
		stats = cdclStats()
		if res == solver.Sat {
			model = s.Model()
		}
	case "dpll":
		if limit >= 0 {
			log.Warn("the dpll engine does not support a conflict limit")
		}
		s := dpll.New(pb)
		dpllStats := func() statistics {
			return statistics{Conflicts: s.Stats.NbConflicts, Decisions: s.Stats.NbDecisions, Propagations: s.Stats.NbPropagations}
		}
		setSignalHandlers(func() { printStatistics(dpllStats(), time.Since(start)) })
		res = s.Solve()
		stats = dpllStats()
		if res == solver.Sat {
			model = s.Model()
		}
	default:
		log.Fatalf("unknown engine %q (want watches, cdcl or dpll)", engine)
	}
	return res, model, stats
}

func readStats(s *solver.Solver) statistics {
	return statistics{
		Conflicts:    s.Stats.NbConflicts,
		Decisions:    s.Stats.NbDecisions,
		Propagations: s.Stats.NbPropagations,
		Backjumps:    s.Stats.NbBackjumps,
	}
}

// reporter returns a progress callback printing one report line per
// checkpoint, with a column header line every 20 reports.
func reporter(s *solver.Solver, start time.Time) solver.ProgressFunc {
	var reports int
	return func(event byte) {
		if verbosity < 0 {
			return
		}
		if reports%20 == 0 {
			fmt.Print("c\nc              decisions              variables\nc   seconds                 conflicts           remaining\nc\n")
		}
		reports++
		remaining := s.NbVars() - s.NbFixed()
		pct := 0.0
		if s.NbVars() > 0 {
			pct = 100.0 * float64(remaining) / float64(s.NbVars())
		}
		fmt.Printf("c %c %7.2f %12d %12d %9d %3.0f%%\n", event,
			time.Since(start).Seconds(), s.Stats.NbDecisions, s.Stats.NbConflicts, remaining, pct)
	}
}

func average(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func percent(a, b float64) float64 { return average(100*a, b) }

func printStatistics(stats statistics, elapsed time.Duration) {
	if verbosity < 0 {
		return
	}
	t := elapsed.Seconds()
	fmt.Println("c")
	fmt.Printf("c %-15s %16d %12.2f per second\n", "conflicts:", stats.Conflicts, average(float64(stats.Conflicts), t))
	fmt.Printf("c %-15s %16d %12.2f per second\n", "decisions:", stats.Decisions, average(float64(stats.Decisions), t))
	fmt.Printf("c %-15s %16d %12.2f %% conflicts\n", "backjumps:", stats.Backjumps, percent(float64(stats.Backjumps), float64(stats.Conflicts)))
	fmt.Printf("c %-15s %16d %12.2f million per second\n", "propagations:", stats.Propagations, average(float64(stats.Propagations)*1e-6, t))
	fmt.Println("c")
	fmt.Printf("c %-15s %16.2f seconds\n", "process-time:", t)
	fmt.Println("c")
}

// printModel prints the model in the format of the SAT competition, e.g
//
//	v -1 2 3 0
func printModel(model []bool) {
	fmt.Print("v ")
	for i, val := range model {
		if val {
			fmt.Printf("%d ", i+1)
		} else {
			fmt.Printf("%d ", -(i + 1))
		}
	}
	fmt.Print("0\n")
}

// setSignalHandlers installs handlers printing statistics when the
// process is interrupted, then re-raising the signal.
func setSignalHandlers(dump func()) {
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-ch
		fmt.Println()
		message("caught signal %v", sig)
		dump()
		message("raising signal %v", sig)
		signal.Reset(sig)
		_ = syscall.Kill(syscall.Getpid(), sig.(syscall.Signal))
	}()
}
