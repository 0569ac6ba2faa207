package results

import (
	"encoding/csv"
	"os"
	"sort"
	"strconv"
	"time"
)

// WriteSequencesCSV writes every sequence cell in long format:
// one row per (key, timestamp, variable).
func WriteSequencesCSV(path string, store *Store) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"source", "target", "step", "timestamp", "variable", "value"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, key := range store.Keys() {
		entry, _ := store.Get(key)
		if entry.Sequences == nil {
			continue
		}
		src, tgt := splitKey(key)
		idx := entry.Sequences.Index()
		for _, name := range entry.Sequences.Columns() {
			col := entry.Sequences.Column(name)
			for t, v := range col {
				row := []string{
					src,
					tgt,
					strconv.Itoa(t),
					fmtTime(idx[t]),
					name,
					fmtFloat(v),
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
	}
	return w.Error()
}

// WriteScalarsCSV writes every scalar cell: one row per (key, variable).
func WriteScalarsCSV(path string, store *Store) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"source", "target", "variable", "value"}); err != nil {
		return err
	}
	for _, key := range store.Keys() {
		entry, _ := store.Get(key)
		src, tgt := splitKey(key)
		for _, name := range sortedNames(entry.Scalars) {
			row := []string{src, tgt, name, fmtFloat(entry.Scalars[name])}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return w.Error()
}

func splitKey(k Key) (src, tgt string) {
	labels := k.Labels()
	src = labels[0]
	if len(labels) > 1 {
		tgt = labels[1]
	}
	return src, tgt
}

func sortedNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
