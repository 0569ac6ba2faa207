package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridsolve/internal/energy"
	"gridsolve/internal/results"
	"gridsolve/internal/solver"
)

func testStore(t *testing.T) *results.Store {
	t.Helper()
	start := time.Date(2012, time.January, 1, 0, 0, 0, 0, time.UTC)
	sys := energy.NewSystem(energy.TimeRange(start, 2, time.Hour))

	bel := energy.NewBus("bel")
	wind := &energy.Source{Name: "wind"}
	demand := &energy.Sink{Name: "demand_el"}
	for _, e := range []energy.Entity{bel, wind, demand} {
		require.NoError(t, sys.Add(e))
	}

	sol := &solver.Solution{Status: solver.StatusOptimal}
	addFlow := func(from, to energy.Entity, values []float64) {
		for step, v := range values {
			sol.Records = append(sol.Records, solver.Record{
				Block:    "flow",
				Variable: "value",
				Index: []solver.IndexElem{
					solver.EntityElem(from),
					solver.EntityElem(to),
					solver.StepElem(step),
				},
				Value: v,
			})
		}
	}
	addFlow(wind, bel, []float64{10, 20})
	addFlow(bel, demand, []float64{10, 20})

	// A node-level entry; flow summaries must ignore 1-tuple keys.
	sol.Records = append(sol.Records, solver.Record{
		Block:    "invest",
		Variable: "capacity",
		Index:    []solver.IndexElem{solver.EntityElem(bel)},
		Value:    500,
	})

	store, err := results.Extract(sys, sol)
	require.NoError(t, err)
	return store
}

func TestSummarizeFlows(t *testing.T) {
	store := testStore(t)

	flows := SummarizeFlows(store, 1)
	require.Len(t, flows, 2)

	assert.Equal(t, "bel", flows[0].Source)
	assert.Equal(t, "demand_el", flows[0].Target)
	assert.Equal(t, "wind", flows[1].Source)
	assert.Equal(t, "bel", flows[1].Target)

	assert.InDelta(t, 30, flows[1].TotalMWh, 1e-9)
	assert.InDelta(t, 15, flows[1].MeanMW, 1e-9)
	assert.InDelta(t, 20, flows[1].PeakMW, 1e-9)
}

func TestSummarizeFlowsStepScaling(t *testing.T) {
	store := testStore(t)

	flows := SummarizeFlows(store, 0.5)
	require.Len(t, flows, 2)

	// Half-hour steps halve the energy but leave power stats alone.
	assert.InDelta(t, 15, flows[1].TotalMWh, 1e-9)
	assert.InDelta(t, 15, flows[1].MeanMW, 1e-9)
	assert.InDelta(t, 20, flows[1].PeakMW, 1e-9)
}

func TestNodeBalances(t *testing.T) {
	store := testStore(t)

	nodes := NodeBalances(store, 1)
	require.Len(t, nodes, 3)

	assert.Equal(t, "bel", nodes[0].Label)
	assert.InDelta(t, 30, nodes[0].InMWh, 1e-9)
	assert.InDelta(t, 30, nodes[0].OutMWh, 1e-9)
	assert.InDelta(t, 0, nodes[0].NetMWh, 1e-9)

	assert.Equal(t, "demand_el", nodes[1].Label)
	assert.InDelta(t, -30, nodes[1].NetMWh, 1e-9)

	assert.Equal(t, "wind", nodes[2].Label)
	assert.InDelta(t, 30, nodes[2].NetMWh, 1e-9)
}
