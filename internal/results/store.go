package results

import "time"

// Table is a per-entry sequence table: named columns aligned one-to-one
// with the system time index.
type Table struct {
	index   []time.Time
	columns map[string][]float64
	order   []string
}

func newTable(index []time.Time) *Table {
	return &Table{index: index, columns: make(map[string][]float64)}
}

func (t *Table) addColumn(name string, values []float64) {
	if _, exists := t.columns[name]; !exists {
		t.order = append(t.order, name)
	}
	t.columns[name] = values
}

// Len is the number of rows; always equal to the time index length.
func (t *Table) Len() int { return len(t.index) }

// Index returns the timestamps the rows are aligned to.
func (t *Table) Index() []time.Time { return t.index }

// Columns returns column names in insertion order.
func (t *Table) Columns() []string { return t.order }

// Column returns the values of one column, or nil if absent.
func (t *Table) Column(name string) []float64 { return t.columns[name] }

// Row returns the variable->value mapping at one row.
func (t *Table) Row(i int) map[string]float64 {
	row := make(map[string]float64, len(t.order))
	for _, name := range t.order {
		row[name] = t.columns[name][i]
	}
	return row
}

// Entry is the result pair for one relation key: scalar values (valid
// once per key, e.g. invested capacity) and time-indexed sequences.
type Entry struct {
	Key       Key
	Scalars   map[string]float64
	Sequences *Table
}

// Store is the structured result store: one entry per relation key,
// built once after solve and read-only thereafter.
type Store struct {
	entries map[string]*Entry
	keys    []Key
}

func newStore() *Store {
	return &Store{entries: make(map[string]*Entry)}
}

func (s *Store) add(e *Entry) {
	id := e.Key.id()
	if _, exists := s.entries[id]; !exists {
		s.keys = append(s.keys, e.Key)
	}
	s.entries[id] = e
}

// Len returns the number of entries.
func (s *Store) Len() int { return len(s.keys) }

// Keys returns all relation keys in deterministic build order.
func (s *Store) Keys() []Key { return s.keys }

// Get looks up the entry for a relation key.
func (s *Store) Get(k Key) (*Entry, bool) {
	e, ok := s.entries[k.id()]
	return e, ok
}

// GetLabels looks up an entry by its string-label tuple.
func (s *Store) GetLabels(labels ...string) (*Entry, bool) {
	for _, k := range s.keys {
		kl := k.Labels()
		if len(kl) != len(labels) {
			continue
		}
		match := true
		for i := range kl {
			if kl[i] != labels[i] {
				match = false
				break
			}
		}
		if match {
			return s.entries[k.id()], true
		}
	}
	return nil, false
}

// Node returns every entry whose key touches the given label: the node
// entry itself plus all flows in and out of it.
func (s *Store) Node(label string) []*Entry {
	var out []*Entry
	for _, k := range s.keys {
		if k.Touches(label) {
			out = append(out, s.entries[k.id()])
		}
	}
	return out
}
