package solver

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"gridsolve/internal/energy"
)

// GLPK invokes the glpsol binary on a prepared model file and parses its
// plain-text solution report. The solver itself is entirely external; this
// type only shells out and reads the result back.
type GLPK struct {
	Binary string   // defaults to "glpsol"
	Args   []string // extra arguments, e.g. --tmlim 60
}

// Solve runs the solver on modelFile (CPLEX LP format) and returns the
// solved-model handle. A non-optimal status is returned as
// *SolveFailedError; extraction must not be attempted in that case.
func (g *GLPK) Solve(ctx context.Context, modelFile string, sys *energy.System) (*Solution, error) {
	binary := g.Binary
	if binary == "" {
		binary = "glpsol"
	}

	tmp, err := os.CreateTemp("", "gridsolve-*.sol")
	if err != nil {
		return nil, fmt.Errorf("create solution file: %w", err)
	}
	solPath := tmp.Name()
	tmp.Close()
	defer os.Remove(solPath)

	args := []string{"--lp", modelFile, "--output", solPath}
	args = append(args, g.Args...)

	cmd := exec.CommandContext(ctx, binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, &SolveFailedError{Status: StatusUndefined, Detail: tail(stderr.String(), err)}
	}

	f, err := os.Open(solPath)
	if err != nil {
		return nil, fmt.Errorf("open solution file: %w", err)
	}
	defer f.Close()

	sol, err := ParseSolution(f, sys)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(solPath), err)
	}
	if sol.Status != StatusOptimal {
		return nil, &SolveFailedError{Status: sol.Status}
	}
	return sol, nil
}

func tail(stderr string, err error) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	out := strings.Join(lines, "; ")
	if out == "" {
		return err.Error()
	}
	return out
}

// Solution report column offsets. glpsol prints fixed-width fields:
// No.(6) name(12) St(2) Activity(13) Lower(13) Upper(13) Marginal(13),
// single-space separated. Names longer than 12 characters are printed on
// their own line and the value fields follow on a continuation line.
const (
	colActivity = 23
	colActEnd   = 36
	colMarginal = 65
	colMargEnd  = 79
)

type reportSection int

const (
	secHeader reportSection = iota
	secRows
	secColumns
)

// ParseSolution reads a glpsol --output report. Row marginals on bus
// balance constraints become duals; column activities become variable
// records decoded against the system registry. Columns whose names do not
// follow the block.variable(...) convention are skipped.
func ParseSolution(r io.Reader, sys *energy.System) (*Solution, error) {
	sol := &Solution{
		Status: StatusUndefined,
		Duals:  make(map[DualKey]float64),
	}

	section := secHeader
	var pendingName string

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "Status:"):
			sol.Status = parseStatus(strings.TrimSpace(strings.TrimPrefix(trimmed, "Status:")))
			continue
		case strings.HasPrefix(trimmed, "Objective:"):
			obj, err := parseObjective(trimmed)
			if err != nil {
				return nil, err
			}
			sol.Objective = obj
			continue
		case strings.Contains(line, "Row name"):
			section = secRows
			pendingName = ""
			continue
		case strings.Contains(line, "Column name"):
			section = secColumns
			pendingName = ""
			continue
		case trimmed == "" || strings.HasPrefix(trimmed, "---") || section == secHeader:
			continue
		}

		name, fields, complete := splitReportLine(line, pendingName)
		if !complete {
			pendingName = name
			continue
		}
		pendingName = ""

		switch section {
		case secRows:
			if err := sol.addRow(name, fields, sys); err != nil {
				return nil, err
			}
		case secColumns:
			if err := sol.addColumn(name, fields, sys); err != nil {
				return nil, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return sol, nil
}

// splitReportLine handles the three shapes a report entry can take:
// a single line with name and values, a name-only line (long name), and
// the continuation line carrying the values for a preceding name.
func splitReportLine(line, pending string) (name string, fields reportFields, complete bool) {
	no := strings.TrimSpace(slice(line, 0, 6))
	if _, err := strconv.Atoi(no); err == nil {
		tokens := strings.Fields(line)
		if len(tokens) == 2 {
			// Name-only line (long name); values follow on the next line.
			return tokens[1], reportFields{}, false
		}
		return tokens[1], extractFields(line), true
	}
	if pending != "" {
		return pending, extractFields(line), true
	}
	return "", reportFields{}, false
}

type reportFields struct {
	activity string
	marginal string
}

func extractFields(line string) reportFields {
	return reportFields{
		activity: strings.TrimSpace(slice(line, colActivity, colActEnd)),
		marginal: strings.TrimSpace(slice(line, colMarginal, colMargEnd)),
	}
}

func slice(s string, from, to int) string {
	if from >= len(s) {
		return ""
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}

func (sol *Solution) addRow(name string, fields reportFields, sys *energy.System) error {
	key, ok, err := decodeBalanceRow(name, sys)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	val, present := parseReportValue(fields.marginal)
	if !present {
		return nil
	}
	sol.Duals[key] = val
	return nil
}

func (sol *Solution) addColumn(name string, fields reportFields, sys *energy.System) error {
	if !strings.Contains(name, "(") {
		// Auxiliary column outside the naming convention.
		return nil
	}
	block, variable, index, err := DecodeName(name, sys)
	if err != nil {
		return err
	}
	rec := Record{Block: block, Variable: variable, Index: index}
	if val, present := parseReportValue(fields.activity); present {
		rec.Value = val
	} else {
		rec.Missing = true
	}
	sol.Records = append(sol.Records, rec)
	return nil
}

// parseReportValue handles glpsol's value spellings: a plain number,
// "< eps" for values below the print threshold, "." or blank for none.
func parseReportValue(s string) (float64, bool) {
	switch s {
	case "", ".":
		return 0, false
	case "< eps":
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseStatus(s string) Status {
	switch s {
	case "OPTIMAL", "INTEGER OPTIMAL":
		return StatusOptimal
	case "INFEASIBLE", "INTEGER EMPTY":
		return StatusInfeasible
	case "UNBOUNDED":
		return StatusUnbounded
	default:
		return StatusUndefined
	}
}

func parseObjective(line string) (float64, error) {
	// "Objective:  cost = 10382.5 (MINimum)"
	eq := strings.IndexByte(line, '=')
	if eq < 0 {
		return 0, fmt.Errorf("malformed objective line %q", line)
	}
	rest := strings.TrimSpace(line[eq+1:])
	if par := strings.IndexByte(rest, '('); par >= 0 {
		rest = strings.TrimSpace(rest[:par])
	}
	v, err := strconv.ParseFloat(rest, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed objective value in %q", line)
	}
	return v, nil
}
