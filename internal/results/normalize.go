package results

import (
	"sort"

	"gridsolve/internal/solver"
)

// cell is one normalized record: relation key, time step, variable name,
// value. explicit marks steps that came from the raw index; records with
// only entity references land at step 0 implicitly.
type cell struct {
	key      Key
	step     int
	explicit bool
	name     string
	value    float64
	missing  bool
}

// normalize converts flat variable records into cells. The relation key
// is the maximal leading run of entity references (length 1 or 2); a
// single trailing step element is the time step. Any other shape means
// the solver and the model disagree about variable indexing, which is
// fatal.
//
// Output is deterministically sorted by (key, step, variable) so that
// assembly sees each group in sequence-aligned order.
func normalize(records []solver.Record) ([]cell, error) {
	cells := make([]cell, 0, len(records))
	for _, rec := range records {
		c, err := normalizeOne(rec)
		if err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}
	sort.SliceStable(cells, func(i, j int) bool {
		ki, kj := cells[i].key.id(), cells[j].key.id()
		if ki != kj {
			return ki < kj
		}
		if cells[i].step != cells[j].step {
			return cells[i].step < cells[j].step
		}
		return cells[i].name < cells[j].name
	})
	return cells, nil
}

func normalizeOne(rec solver.Record) (cell, error) {
	var key Key
	rest := rec.Index
	for len(rest) > 0 && rest[0].IsEntity() {
		key = append(key, rest[0].Entity())
		rest = rest[1:]
	}

	switch {
	case len(key) == 0:
		return cell{}, &MissingIndexError{
			Block:    rec.Block,
			Variable: rec.Variable,
			Reason:   "index contains no recognizable entity reference",
		}
	case len(key) > 2:
		return cell{}, &MissingIndexError{
			Block:    rec.Block,
			Variable: rec.Variable,
			Reason:   "index has more than two leading entity references",
		}
	}

	c := cell{key: key, name: rec.Variable, value: rec.Value, missing: rec.Missing}
	switch len(rest) {
	case 0:
		// Pure scalar record, e.g. an investment variable.
	case 1:
		if rest[0].IsEntity() {
			return cell{}, &MissingIndexError{
				Block:    rec.Block,
				Variable: rec.Variable,
				Reason:   "entity reference after time step position",
			}
		}
		c.step = rest[0].Step()
		c.explicit = true
	default:
		return cell{}, &MissingIndexError{
			Block:    rec.Block,
			Variable: rec.Variable,
			Reason:   "index has more than one trailing element",
		}
	}
	return c, nil
}
