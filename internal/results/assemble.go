package results

import (
	"sort"
	"time"
)

// assemble groups normalized cells by relation key and pivots each group
// into the scalar and sequence partitions of a result entry.
//
// Classification is per variable name and consistent across the whole
// group: a variable with a value at every step of the time index becomes
// a sequence column of exactly that length; a variable missing one or
// more steps is a scalar, taking its first non-missing value. The split
// mirrors how investment variables appear once per key while dispatch
// variables appear once per step.
func assemble(cells []cell, timeIndex []time.Time) (*Store, error) {
	store := newStore()

	// Cells are sorted by key, so groups are contiguous.
	for start := 0; start < len(cells); {
		end := start + 1
		for end < len(cells) && cells[end].key.id() == cells[start].key.id() {
			end++
		}
		entry, err := assembleGroup(cells[start].key, cells[start:end], timeIndex)
		if err != nil {
			return nil, err
		}
		store.add(entry)
		start = end
	}
	return store, nil
}

type varCells struct {
	byStep  map[int]float64
	missing map[int]bool
}

func assembleGroup(key Key, group []cell, timeIndex []time.Time) (*Entry, error) {
	n := len(timeIndex)

	vars := make(map[string]*varCells)
	var order []string
	for _, c := range group {
		if c.explicit && (c.step < 0 || c.step >= n) {
			return nil, &DataAlignmentError{
				Key:      key.String(),
				Variable: c.name,
				Detail:   "time step outside the declared time index",
			}
		}
		vc, ok := vars[c.name]
		if !ok {
			vc = &varCells{byStep: make(map[int]float64), missing: make(map[int]bool)}
			vars[c.name] = vc
			order = append(order, c.name)
		}
		if _, dup := vc.byStep[c.step]; dup || vc.missing[c.step] {
			return nil, &DataAlignmentError{
				Key:      key.String(),
				Variable: c.name,
				Detail:   "duplicate value for one time step",
			}
		}
		if c.missing {
			vc.missing[c.step] = true
		} else {
			vc.byStep[c.step] = c.value
		}
	}
	sort.Strings(order)

	entry := &Entry{
		Key:       key,
		Scalars:   make(map[string]float64),
		Sequences: newTable(timeIndex),
	}
	for _, name := range order {
		vc := vars[name]
		if isSequence(vc, n) {
			seq := make([]float64, n)
			for t := 0; t < n; t++ {
				seq[t] = vc.byStep[t]
			}
			entry.Sequences.addColumn(name, seq)
			continue
		}
		if val, ok := firstValue(vc); ok {
			entry.Scalars[name] = val
		}
		// A variable with no reported value at all contributes nothing.
	}
	return entry, nil
}

// isSequence reports whether the variable has a value at every step of
// the time index.
func isSequence(vc *varCells, n int) bool {
	if n == 0 || len(vc.byStep) != n {
		return false
	}
	for t := 0; t < n; t++ {
		if _, ok := vc.byStep[t]; !ok {
			return false
		}
	}
	return true
}

// firstValue returns the variable's value at the smallest step that has
// one.
func firstValue(vc *varCells) (float64, bool) {
	best := 0
	found := false
	for t := range vc.byStep {
		if !found || t < best {
			best = t
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return vc.byStep[best], true
}
