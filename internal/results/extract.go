package results

import (
	"gridsolve/internal/energy"
	"gridsolve/internal/solver"
)

// Extract reshapes the flat variable records of a solved model into the
// structured result store, keyed by entity relations and split into
// scalar and sequence partitions. When the solution carries constraint
// duals they are reattached as per-bus sequences.
//
// Extract is a pure function of the solution and the system's declared
// time index: re-running it on the same input yields an identical store.
// It assumes the model solved successfully; solver failures must be
// surfaced before this point.
func Extract(sys *energy.System, sol *solver.Solution) (*Store, error) {
	cells, err := normalize(sol.Records)
	if err != nil {
		return nil, err
	}
	store, err := assemble(cells, sys.TimeIndex())
	if err != nil {
		return nil, err
	}
	if len(sol.Duals) > 0 {
		if err := attachDuals(store, sol.Duals, sys, sys.TimeIndex()); err != nil {
			return nil, err
		}
	}
	return store, nil
}
