package results

import (
	"sort"
	"time"

	"gridsolve/internal/energy"
	"gridsolve/internal/solver"
)

// DualsColumn is the sequence column name carrying bus balance shadow
// prices.
const DualsColumn = "duals"

// attachDuals reattaches constraint shadow prices to the store. Duals are
// grouped per bus and sorted by time step with an explicit, total order;
// nothing is inherited from solver-side iteration order. A bus that
// already has an entry gains a duals column; a bus without one gets a new
// entry holding only the duals sequence.
func attachDuals(store *Store, duals map[solver.DualKey]float64, sys *energy.System, timeIndex []time.Time) error {
	byBus := make(map[string]map[int]float64)
	for dk, v := range duals {
		steps, ok := byBus[dk.Bus]
		if !ok {
			steps = make(map[int]float64)
			byBus[dk.Bus] = steps
		}
		steps[dk.Step] = v
	}

	buses := make([]string, 0, len(byBus))
	for bus := range byBus {
		buses = append(buses, bus)
	}
	sort.Strings(buses)

	for _, bus := range buses {
		entity, ok := sys.Entity(bus)
		if !ok {
			return &MissingIndexError{
				Block:    "balance",
				Variable: DualsColumn,
				Reason:   "dual value for unregistered bus " + bus,
			}
		}
		key := NodeKey(entity)

		steps := make([]int, 0, len(byBus[bus]))
		for t := range byBus[bus] {
			steps = append(steps, t)
		}
		sort.Ints(steps)

		want := len(timeIndex)
		if entry, exists := store.Get(key); exists && entry.Sequences != nil {
			want = entry.Sequences.Len()
		}
		if len(steps) != want || (len(steps) > 0 && (steps[0] != 0 || steps[len(steps)-1] != want-1)) {
			return &DataAlignmentError{
				Key:      key.String(),
				Variable: DualsColumn,
				Got:      len(steps),
				Want:     want,
			}
		}

		seq := make([]float64, len(steps))
		for i, t := range steps {
			seq[i] = byBus[bus][t]
		}

		if entry, exists := store.Get(key); exists {
			if entry.Sequences == nil {
				entry.Sequences = newTable(timeIndex)
			}
			entry.Sequences.addColumn(DualsColumn, seq)
			continue
		}
		entry := &Entry{
			Key:       key,
			Scalars:   make(map[string]float64),
			Sequences: newTable(timeIndex),
		}
		entry.Sequences.addColumn(DualsColumn, seq)
		store.add(entry)
	}
	return nil
}
