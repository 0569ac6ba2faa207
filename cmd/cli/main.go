package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gridsolve/internal/analysis"
	"gridsolve/internal/archive"
	"gridsolve/internal/config"
	"gridsolve/internal/data"
	"gridsolve/internal/results"
	"gridsolve/internal/solver"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "solve":
		cmdSolve(os.Args[2:])
	case "runs":
		cmdRuns(os.Args[2:])
	case "inspect":
		cmdInspect(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli solve --scenario examples/dispatch/scenario.yaml --out results/")
	fmt.Println("  cli runs --archive runs.db")
	fmt.Println("  cli inspect --archive runs.db --id <run-id>")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - solve writes scalars.csv and sequences.csv into --out")
	fmt.Println("  - pass --archive to solve to persist the run")
}

func cmdSolve(args []string) {
	fs := flag.NewFlagSet("solve", flag.ExitOnError)
	scenarioPath := fs.String("scenario", "", "Path to scenario YAML")
	outDir := fs.String("out", "results", "Output directory for CSV files")
	archivePath := fs.String("archive", "", "Optional SQLite archive path")
	binary := fs.String("solver", "", "Override solver binary from the scenario")
	_ = fs.Parse(args)

	if *scenarioPath == "" {
		fmt.Println("--scenario is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*scenarioPath)
	if err != nil {
		fatal(err)
	}

	profiles := map[string][]float64{}
	if cfg.Profiles.File != "" {
		profiles, err = data.LoadProfilesCSV(cfg.Profiles.File)
		if err != nil {
			fatal(err)
		}
	}

	sys, err := cfg.BuildSystem(profiles)
	if err != nil {
		fatal(err)
	}

	glpk := &solver.GLPK{Binary: cfg.Solver.Binary, Args: cfg.Solver.Args}
	if *binary != "" {
		glpk.Binary = *binary
	}
	sol, err := glpk.Solve(context.Background(), cfg.Solver.ModelFile, sys)
	if err != nil {
		fatal(err)
	}

	store, err := results.Extract(sys, sol)
	if err != nil {
		fatal(err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fatal(err)
	}
	if err := results.WriteScalarsCSV(filepath.Join(*outDir, "scalars.csv"), store); err != nil {
		fatal(err)
	}
	if err := results.WriteSequencesCSV(filepath.Join(*outDir, "sequences.csv"), store); err != nil {
		fatal(err)
	}

	fmt.Printf("Scenario %s solved: objective=%.2f, %d result entries\n",
		cfg.Name, sol.Objective, store.Len())

	step, _ := cfg.Time.StepDuration()
	for _, s := range analysis.SummarizeFlows(store, step.Hours()) {
		fmt.Printf("  %s -> %s: total=%.1f MWh peak=%.1f MW\n",
			s.Source, s.Target, s.TotalMWh, s.PeakMW)
	}

	if *archivePath != "" {
		arc, err := archive.Open(*archivePath)
		if err != nil {
			fatal(err)
		}
		defer arc.Close()
		id, err := arc.SaveRun(cfg.Name, sol, store)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("Archived run %s\n", id)
	}
}

func cmdRuns(args []string) {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	archivePath := fs.String("archive", "runs.db", "SQLite archive path")
	_ = fs.Parse(args)

	arc, err := archive.Open(*archivePath)
	if err != nil {
		fatal(err)
	}
	defer arc.Close()

	runs, err := arc.ListRuns()
	if err != nil {
		fatal(err)
	}
	if len(runs) == 0 {
		fmt.Println("no archived runs")
		return
	}
	for _, r := range runs {
		fmt.Printf("%s  %-20s %-10s objective=%.2f  %s\n",
			r.ID, r.Scenario, r.Status, r.Objective, r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}

func cmdInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	archivePath := fs.String("archive", "runs.db", "SQLite archive path")
	id := fs.String("id", "", "Run id to inspect")
	_ = fs.Parse(args)

	if *id == "" {
		fmt.Println("--id is required")
		os.Exit(2)
	}

	arc, err := archive.Open(*archivePath)
	if err != nil {
		fatal(err)
	}
	defer arc.Close()

	run, err := arc.GetRun(*id)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("Run %s scenario=%s status=%s objective=%.2f\n",
		run.Meta.ID, run.Meta.Scenario, run.Meta.Status, run.Meta.Objective)
	if len(run.Scalars) > 0 {
		fmt.Println("scalars:")
		for _, s := range run.Scalars {
			fmt.Printf("  %s %s %s = %.4f\n", s.Source, s.Target, s.Variable, s.Value)
		}
	}
	fmt.Printf("%d sequence rows\n", len(run.Sequences))
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
