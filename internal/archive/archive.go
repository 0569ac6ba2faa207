package archive

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"gridsolve/internal/results"
	"gridsolve/internal/solver"
)

// Archive persists solve runs in SQLite so results survive the process
// and can be listed and re-read later. Use ":memory:" for tests.
type Archive struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	scenario   TEXT NOT NULL,
	status     TEXT NOT NULL,
	objective  REAL NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS scalars (
	run_id   TEXT NOT NULL REFERENCES runs(id),
	source   TEXT NOT NULL,
	target   TEXT NOT NULL,
	variable TEXT NOT NULL,
	value    REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS sequences (
	run_id   TEXT NOT NULL REFERENCES runs(id),
	source   TEXT NOT NULL,
	target   TEXT NOT NULL,
	variable TEXT NOT NULL,
	step     INTEGER NOT NULL,
	ts       TIMESTAMP NOT NULL,
	value    REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scalars_run ON scalars(run_id);
CREATE INDEX IF NOT EXISTS idx_sequences_run ON sequences(run_id);
`

func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Archive{db: db}, nil
}

func (a *Archive) Close() error { return a.db.Close() }

// RunMeta is the archived run header.
type RunMeta struct {
	ID        string
	Scenario  string
	Status    string
	Objective float64
	CreatedAt time.Time
}

type ScalarRow struct {
	Source   string
	Target   string
	Variable string
	Value    float64
}

type SequenceRow struct {
	Source    string
	Target    string
	Variable  string
	Step      int
	Timestamp time.Time
	Value     float64
}

// Run is a fully loaded archived run: header plus flat result rows keyed
// by stringified relation keys.
type Run struct {
	Meta      RunMeta
	Scalars   []ScalarRow
	Sequences []SequenceRow
}

// SaveRun stores one solved scenario and its result store, returning the
// new run id.
func (a *Archive) SaveRun(scenario string, sol *solver.Solution, store *results.Store) (string, error) {
	id := uuid.NewString()

	tx, err := a.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, scenario, status, objective, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, scenario, string(sol.Status), sol.Objective, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	insScalar, err := tx.Prepare(
		`INSERT INTO scalars (run_id, source, target, variable, value) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer insScalar.Close()
	insSeq, err := tx.Prepare(
		`INSERT INTO sequences (run_id, source, target, variable, step, ts, value) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer insSeq.Close()

	for _, key := range store.Keys() {
		entry, _ := store.Get(key)
		labels := key.Labels()
		src := labels[0]
		tgt := ""
		if len(labels) > 1 {
			tgt = labels[1]
		}
		for name, val := range entry.Scalars {
			if _, err := insScalar.Exec(id, src, tgt, name, val); err != nil {
				return "", fmt.Errorf("insert scalar: %w", err)
			}
		}
		if entry.Sequences == nil {
			continue
		}
		idx := entry.Sequences.Index()
		for _, name := range entry.Sequences.Columns() {
			for t, val := range entry.Sequences.Column(name) {
				if _, err := insSeq.Exec(id, src, tgt, name, t, idx[t].UTC(), val); err != nil {
					return "", fmt.Errorf("insert sequence: %w", err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// ListRuns returns run headers, newest first.
func (a *Archive) ListRuns() ([]RunMeta, error) {
	rows, err := a.db.Query(
		`SELECT id, scenario, status, objective, created_at FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunMeta
	for rows.Next() {
		var m RunMeta
		if err := rows.Scan(&m.ID, &m.Scenario, &m.Status, &m.Objective, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetRun loads one archived run with all result rows.
func (a *Archive) GetRun(id string) (*Run, error) {
	var run Run
	err := a.db.QueryRow(
		`SELECT id, scenario, status, objective, created_at FROM runs WHERE id = ?`, id,
	).Scan(&run.Meta.ID, &run.Meta.Scenario, &run.Meta.Status, &run.Meta.Objective, &run.Meta.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	srows, err := a.db.Query(
		`SELECT source, target, variable, value FROM scalars WHERE run_id = ? ORDER BY source, target, variable`, id)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var r ScalarRow
		if err := srows.Scan(&r.Source, &r.Target, &r.Variable, &r.Value); err != nil {
			return nil, err
		}
		run.Scalars = append(run.Scalars, r)
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}

	qrows, err := a.db.Query(
		`SELECT source, target, variable, step, ts, value FROM sequences WHERE run_id = ? ORDER BY source, target, variable, step`, id)
	if err != nil {
		return nil, err
	}
	defer qrows.Close()
	for qrows.Next() {
		var r SequenceRow
		if err := qrows.Scan(&r.Source, &r.Target, &r.Variable, &r.Step, &r.Timestamp, &r.Value); err != nil {
			return nil, err
		}
		run.Sequences = append(run.Sequences, r)
	}
	return &run, qrows.Err()
}
