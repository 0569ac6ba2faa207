package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gridsolve/internal/analysis"
	"gridsolve/internal/energy"
	"gridsolve/internal/results"
	"gridsolve/internal/solver"
)

// Demo:
//   - Build a small dispatch system in code (gas bus, electricity bus,
//     wind, demand, gas plant, a battery with an investment decision)
//   - Fabricate the solved-model handle a solver run would produce
//   - Extract and print the structured result store
func main() {
	n := flag.Int("n", 4, "Number of time steps")
	outDir := flag.String("out", "", "Optional directory to write result CSVs")
	flag.Parse()

	sys, err := buildSystem(*n)
	if err != nil {
		panic(err)
	}

	sol := fakeSolution(sys, *n)

	store, err := results.Extract(sys, sol)
	if err != nil {
		panic(err)
	}

	fmt.Printf("objective=%.2f, %d result entries\n\n", sol.Objective, store.Len())
	for _, key := range store.Keys() {
		entry, _ := store.Get(key)
		fmt.Printf("%v\n", key.Labels())
		for name, val := range entry.Scalars {
			fmt.Printf("  scalar %s = %.3f\n", name, val)
		}
		for _, name := range entry.Sequences.Columns() {
			fmt.Printf("  sequence %s = %v\n", name, entry.Sequences.Column(name))
		}
	}

	fmt.Println("\nflow summaries:")
	for _, s := range analysis.SummarizeFlows(store, 1.0) {
		fmt.Printf("  %s -> %s: total=%.1f MWh peak=%.1f MW\n",
			s.Source, s.Target, s.TotalMWh, s.PeakMW)
	}

	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			panic(err)
		}
		if err := results.WriteScalarsCSV(filepath.Join(*outDir, "scalars.csv"), store); err != nil {
			panic(err)
		}
		if err := results.WriteSequencesCSV(filepath.Join(*outDir, "sequences.csv"), store); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote CSVs to %s\n", *outDir)
	}
}

func buildSystem(n int) (*energy.System, error) {
	start := time.Date(2012, time.January, 1, 0, 0, 0, 0, time.UTC)
	sys := energy.NewSystem(energy.TimeRange(start, n, time.Hour))

	bgas := energy.NewBus("bgas")
	bgas.Balanced = false
	bel := energy.NewBus("bel")
	wind := &energy.Source{Name: "wind"}
	demand := &energy.Sink{Name: "demand_el"}
	ppGas := &energy.Transformer{Name: "pp_gas", ConversionFactors: map[string]float64{"bel": 0.5}}
	battery := &energy.Storage{
		Name:              "battery",
		InflowConversion:  1.0,
		OutflowConversion: 0.8,
		Investment:        &energy.Investment{EpCosts: 80},
	}

	for _, e := range []energy.Entity{bgas, bel, wind, demand, ppGas, battery} {
		if err := sys.Add(e); err != nil {
			return nil, err
		}
	}
	flows := []*energy.Flow{
		{From: wind, To: bel, NominalValueMW: 66.3},
		{From: bgas, To: ppGas},
		{From: ppGas, To: bel, NominalValueMW: 41, VariableCost: 40},
		{From: bel, To: demand, NominalValueMW: 85},
		{From: bel, To: battery},
		{From: battery, To: bel},
	}
	for _, f := range flows {
		if err := sys.AddFlow(f); err != nil {
			return nil, err
		}
	}
	return sys, nil
}

// fakeSolution fabricates what GLPK would report for this system: one
// flow record per (source, target, step), a storage content sequence,
// one scalar investment variable, and bus balance duals.
func fakeSolution(sys *energy.System, n int) *solver.Solution {
	get := func(label string) energy.Entity {
		e, ok := sys.Entity(label)
		if !ok {
			panic("unregistered entity " + label)
		}
		return e
	}

	sol := &solver.Solution{
		Status:    solver.StatusOptimal,
		Objective: 10382.5,
		Duals:     make(map[solver.DualKey]float64),
	}

	seqVals := map[[2]string][]float64{
		{"wind", "bel"}:      {60, 40, 20, 55, 62, 58, 30, 45},
		{"bgas", "pp_gas"}:   {50, 90, 130, 60, 46, 54, 110, 80},
		{"pp_gas", "bel"}:    {25, 45, 65, 30, 23, 27, 55, 40},
		{"bel", "demand_el"}: {85, 85, 85, 85, 85, 85, 85, 85},
		{"bel", "battery"}:   {0, 0, 0, 0, 0, 0, 0, 0},
		{"battery", "bel"}:   {0, 0, 0, 0, 0, 0, 0, 0},
	}
	for pair, vals := range seqVals {
		from, to := get(pair[0]), get(pair[1])
		for t := 0; t < n; t++ {
			sol.Records = append(sol.Records, solver.Record{
				Block:    "flow",
				Variable: "value",
				Index: []solver.IndexElem{
					solver.EntityElem(from), solver.EntityElem(to), solver.StepElem(t),
				},
				Value: vals[t%len(vals)],
			})
		}
	}

	battery := get("battery")
	for t := 0; t < n; t++ {
		sol.Records = append(sol.Records, solver.Record{
			Block:    "storage",
			Variable: "content",
			Index:    []solver.IndexElem{solver.EntityElem(battery), solver.StepElem(t)},
			Value:    float64(10 * t),
		})
	}
	sol.Records = append(sol.Records, solver.Record{
		Block:    "invest",
		Variable: "capacity",
		Index:    []solver.IndexElem{solver.EntityElem(get("bel")), solver.EntityElem(battery)},
		Value:    500,
	})

	for t := 0; t < n; t++ {
		sol.Duals[solver.DualKey{Bus: "bel", Step: t}] = 40 + float64(t)*2.5
	}
	return sol
}
