package results

import (
	"strings"

	"gridsolve/internal/energy"
)

// Key identifies a result entry: a 1-tuple (entity) for node-level values
// or a 2-tuple (source, target) for a flow between two entities.
type Key []energy.Entity

func NodeKey(e energy.Entity) Key        { return Key{e} }
func FlowKey(from, to energy.Entity) Key { return Key{from, to} }

// Labels converts the key into its string-label tuple. Total: every
// entity exposes a stable label.
func (k Key) Labels() []string {
	out := make([]string, len(k))
	for i, e := range k {
		out[i] = e.Label()
	}
	return out
}

// String renders the key for error messages and CSV output,
// e.g. "(wind, bel)".
func (k Key) String() string {
	return "(" + strings.Join(k.Labels(), ", ") + ")"
}

// Touches reports whether the key references the given label as either
// endpoint.
func (k Key) Touches(label string) bool {
	for _, e := range k {
		if e.Label() == label {
			return true
		}
	}
	return false
}

// id is the canonical map key. Labels cannot contain the separator since
// it never survives the solver's symbolic naming.
func (k Key) id() string {
	return strings.Join(k.Labels(), "\x1f")
}
