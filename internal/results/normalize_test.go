package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridsolve/internal/energy"
	"gridsolve/internal/solver"
)

func TestNormalizeKeyShapes(t *testing.T) {
	bel := energy.NewBus("bel")
	wind := &energy.Source{Name: "wind"}

	tests := []struct {
		name     string
		index    []solver.IndexElem
		wantKey  []string
		wantStep int
		wantExpl bool
	}{
		{
			name:     "node with step",
			index:    []solver.IndexElem{solver.EntityElem(bel), solver.StepElem(7)},
			wantKey:  []string{"bel"},
			wantStep: 7,
			wantExpl: true,
		},
		{
			name:     "flow with step",
			index:    []solver.IndexElem{solver.EntityElem(wind), solver.EntityElem(bel), solver.StepElem(2)},
			wantKey:  []string{"wind", "bel"},
			wantStep: 2,
			wantExpl: true,
		},
		{
			name:    "pure scalar node",
			index:   []solver.IndexElem{solver.EntityElem(bel)},
			wantKey: []string{"bel"},
		},
		{
			name:    "pure scalar flow",
			index:   []solver.IndexElem{solver.EntityElem(wind), solver.EntityElem(bel)},
			wantKey: []string{"wind", "bel"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := normalizeOne(solver.Record{Block: "b", Variable: "v", Index: tc.index})
			require.NoError(t, err)
			assert.Equal(t, tc.wantKey, c.key.Labels())
			assert.Equal(t, tc.wantStep, c.step)
			assert.Equal(t, tc.wantExpl, c.explicit)
		})
	}
}

func TestNormalizeRejectsBadIndexes(t *testing.T) {
	bel := energy.NewBus("bel")
	wind := &energy.Source{Name: "wind"}
	pp := &energy.Transformer{Name: "pp_gas"}

	tests := []struct {
		name  string
		index []solver.IndexElem
	}{
		{name: "no entities", index: []solver.IndexElem{solver.StepElem(0)}},
		{name: "empty index", index: nil},
		{
			name: "three entities",
			index: []solver.IndexElem{
				solver.EntityElem(wind), solver.EntityElem(bel), solver.EntityElem(pp),
			},
		},
		{
			name: "entity after step",
			index: []solver.IndexElem{
				solver.EntityElem(wind), solver.StepElem(0), solver.EntityElem(bel),
			},
		},
		{
			name: "two trailing steps",
			index: []solver.IndexElem{
				solver.EntityElem(wind), solver.StepElem(0), solver.StepElem(1),
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := normalizeOne(solver.Record{Block: "b", Variable: "v", Index: tc.index})
			var miss *MissingIndexError
			require.ErrorAs(t, err, &miss)
		})
	}
}

func TestNormalizeOrderIsDeterministic(t *testing.T) {
	bel := energy.NewBus("bel")
	wind := &energy.Source{Name: "wind"}
	pv := &energy.Source{Name: "pv"}

	rec := func(src energy.Entity, step int) solver.Record {
		return solver.Record{
			Block:    "flow",
			Variable: "value",
			Index: []solver.IndexElem{
				solver.EntityElem(src), solver.EntityElem(bel), solver.StepElem(step),
			},
		}
	}
	records := []solver.Record{rec(wind, 1), rec(pv, 0), rec(wind, 0), rec(pv, 1)}

	cells, err := normalize(records)
	require.NoError(t, err)
	require.Len(t, cells, 4)

	// Sorted by key first, then step.
	assert.Equal(t, []string{"pv", "bel"}, cells[0].key.Labels())
	assert.Equal(t, 0, cells[0].step)
	assert.Equal(t, 1, cells[1].step)
	assert.Equal(t, []string{"wind", "bel"}, cells[2].key.Labels())
	assert.Equal(t, 0, cells[2].step)
	assert.Equal(t, 1, cells[3].step)
}
