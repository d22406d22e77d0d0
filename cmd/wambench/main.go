package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/ichiban/wam"
	"github.com/ichiban/wam/engine"
)

// Version is a version of this build.
var Version = "wambench/0.1"

func main() {
	var (
		bench      string
		size       int
		iterations int
		disasm     bool
		verbose    bool
	)
	pflag.StringVar(&bench, "bench", "all", `benchmark to run: nrev, peano, countdown or all`)
	pflag.IntVarP(&size, "size", "n", 0, `problem size; 0 for the benchmark's default`)
	pflag.IntVar(&iterations, "iterations", 1, `number of runs per benchmark`)
	pflag.BoolVar(&disasm, "disasm", false, `print the compiled code of each predicate`)
	pflag.BoolVarP(&verbose, "verbose", "v", false, `verbose`)
	pflag.Parse()

	fd := int(os.Stdout.Fd())
	tty := terminal.IsTerminal(fd)
	if tty {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	width := 80
	if tty {
		if w, _, err := terminal.GetSize(fd); err == nil {
			width = w
		}
	}

	ps := programs
	if bench != "all" {
		p, ok := programNamed(bench)
		if !ok {
			logrus.WithField("bench", bench).Fatal("unknown benchmark")
		}
		ps = []program{p}
	}

	logrus.WithField("version", Version).Debug("start")
	for _, p := range ps {
		n := size
		if n <= 0 {
			n = p.defaultSize
		}
		r, err := run(p, n, iterations, os.Stdout)
		if err != nil {
			logrus.WithError(err).WithField("bench", p.name).Fatal("failed to run")
		}
		fmt.Printf("%s: n=%d iterations=%d elapsed=%s calls=%d max_depth=%d choicepoints=%d\n",
			p.name, n, iterations, r.elapsed, r.stats.Calls, r.stats.MaxDepth, r.stats.Choicepoints)
		if disasm {
			if err := disassemble(os.Stdout, r.interpreter, width); err != nil {
				logrus.WithError(err).WithField("bench", p.name).Fatal("failed to disassemble")
			}
		}
	}
}

type result struct {
	interpreter *wam.Interpreter
	elapsed     time.Duration
	stats       engine.Stats
}

// run consults p and solves its goal iterations times. The stats are of the last iteration.
func run(p program, n, iterations int, out io.Writer) (result, error) {
	i := wam.New(nil, out)
	i.Register1("report", report)
	i.Register2("length_of", lengthOf)
	if err := i.Consult(p.clauses()...); err != nil {
		return result{}, err
	}

	goal := p.goal(n)
	start := time.Now()
	for k := 0; k < iterations; k++ {
		i.ResetStats()
		if err := i.QuerySolution(goal).Err(); err != nil {
			return result{}, err
		}
		logrus.WithFields(logrus.Fields{
			"bench":     p.name,
			"iteration": k,
		}).Debug("solved")
	}
	return result{
		interpreter: i,
		elapsed:     time.Since(start),
		stats:       i.Stats(),
	}, nil
}

func disassemble(w io.Writer, i *wam.Interpreter, width int) error {
	m := i.Module()
	fs := m.Functors()
	sort.Slice(fs, func(i, j int) bool {
		return fs[i].String() < fs[j].String()
	})
	for _, f := range fs {
		c, err := m.Code(f)
		if err != nil {
			return err
		}
		if c == nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s\n%s\n", strings.Repeat("-", width), c); err != nil {
			return err
		}
	}
	return nil
}

// report writes t to user_output.
func report(vm *engine.VM, t engine.Term) (bool, error) {
	s, err := vm.Stream(engine.NewAtom("user_output"))
	if err != nil {
		return false, err
	}
	if err := s.WriteTerm(vm, t); err != nil {
		return false, err
	}
	return true, nil
}

// lengthOf unifies n with the length of list.
func lengthOf(vm *engine.VM, list, n engine.Term) (bool, error) {
	ts, err := vm.Slice(list)
	if err != nil {
		return false, err
	}
	return vm.Unify(n, engine.Integer(len(ts))), nil
}
