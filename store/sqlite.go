// ABOUTME: SQLite-backed catalog of named automata and the evaluation runs recorded against them.
// ABOUTME: Automata are stored as YAML definitions and rebuilt through the dfa constructors on read.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/2389-research/automata/dfa"
	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
)

// ErrNotFound indicates the requested automaton or run does not exist.
var ErrNotFound = errors.New("not found")

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// AutomatonRecord is a catalog row without the decoded automaton.
type AutomatonRecord struct {
	ID        ulid.ULID
	Name      string
	CreatedAt time.Time
}

// RunSummary is a run row with per-outcome counts.
type RunSummary struct {
	ID          ulid.ULID
	AutomatonID ulid.ULID
	CreatedAt   time.Time
	Accepted    int
	Rejected    int
	Invalid     int
}

// Run is a recorded evaluation with its full result set.
type Run struct {
	RunSummary
	Result dfa.Result
}

// Store is the SQLite catalog.
type Store struct {
	db *sql.DB
}

// Open opens or creates a catalog database at path and runs migrations.
// Foreign keys are enabled through the DSN so every pooled connection enforces them.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS automata (
			automaton_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			definition TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			automaton_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			accepted INTEGER NOT NULL,
			rejected INTEGER NOT NULL,
			invalid INTEGER NOT NULL,
			FOREIGN KEY (automaton_id) REFERENCES automata(automaton_id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS run_words (
			run_id TEXT NOT NULL,
			word TEXT NOT NULL,
			outcome TEXT NOT NULL,
			PRIMARY KEY (run_id, word),
			FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
		);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// now returns the current time at the precision stored in the database.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveAutomaton adds a to the catalog under name.
func (s *Store) SaveAutomaton(name string, a *dfa.Automaton) (AutomatonRecord, error) {
	def, err := dfa.EncodeYAML(a)
	if err != nil {
		return AutomatonRecord{}, err
	}
	rec := AutomatonRecord{ID: NewID(), Name: name, CreatedAt: now()}
	_, err = s.db.Exec(
		"INSERT INTO automata (automaton_id, name, definition, created_at) VALUES (?, ?, ?, ?)",
		rec.ID.String(), rec.Name, string(def), rec.CreatedAt.Format(timeLayout))
	if err != nil {
		return AutomatonRecord{}, fmt.Errorf("insert automaton: %w", err)
	}
	return rec, nil
}

// GetAutomaton loads a catalog entry and rebuilds its automaton.
func (s *Store) GetAutomaton(id ulid.ULID) (AutomatonRecord, *dfa.Automaton, error) {
	var (
		rec       AutomatonRecord
		idStr     string
		def       string
		createdAt string
	)
	err := s.db.QueryRow(
		"SELECT automaton_id, name, definition, created_at FROM automata WHERE automaton_id = ?",
		id.String()).Scan(&idStr, &rec.Name, &def, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return AutomatonRecord{}, nil, fmt.Errorf("automaton %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return AutomatonRecord{}, nil, fmt.Errorf("query automaton: %w", err)
	}
	if rec.ID, err = ulid.Parse(idStr); err != nil {
		return AutomatonRecord{}, nil, fmt.Errorf("parse automaton id: %w", err)
	}
	if rec.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return AutomatonRecord{}, nil, fmt.Errorf("parse created_at: %w", err)
	}

	a, err := dfa.DecodeYAML([]byte(def))
	if err != nil {
		return AutomatonRecord{}, nil, fmt.Errorf("decode stored automaton %s: %w", id, err)
	}
	return rec, a, nil
}

// ListAutomata returns all catalog entries, oldest first.
func (s *Store) ListAutomata() ([]AutomatonRecord, error) {
	rows, err := s.db.Query("SELECT automaton_id, name, created_at FROM automata ORDER BY automaton_id ASC")
	if err != nil {
		return nil, fmt.Errorf("query automata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recs []AutomatonRecord
	for rows.Next() {
		var idStr, createdAt string
		var rec AutomatonRecord
		if err := rows.Scan(&idStr, &rec.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scan automaton row: %w", err)
		}
		if rec.ID, err = ulid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("parse automaton id: %w", err)
		}
		if rec.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// DeleteAutomaton removes an automaton and, by cascade, its runs.
func (s *Store) DeleteAutomaton(id ulid.ULID) error {
	res, err := s.db.Exec("DELETE FROM automata WHERE automaton_id = ?", id.String())
	if err != nil {
		return fmt.Errorf("delete automaton: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete automaton: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("automaton %s: %w", id, ErrNotFound)
	}
	return nil
}

// RecordRun stores result as a new run of the given automaton.
func (s *Store) RecordRun(automatonID ulid.ULID, result dfa.Result) (RunSummary, error) {
	sum := RunSummary{
		ID:          NewID(),
		AutomatonID: automatonID,
		CreatedAt:   now(),
		Accepted:    result.Count(dfa.Accepted),
		Rejected:    result.Count(dfa.Rejected),
		Invalid:     result.Count(dfa.Invalid),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return RunSummary{}, fmt.Errorf("begin run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, automaton_id, created_at, accepted, rejected, invalid)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sum.ID.String(), automatonID.String(), sum.CreatedAt.Format(timeLayout),
		sum.Accepted, sum.Rejected, sum.Invalid)
	if err != nil {
		return RunSummary{}, fmt.Errorf("insert run: %w", err)
	}

	words := make([]string, 0, len(result))
	for w := range result {
		words = append(words, w)
	}
	sort.Strings(words)
	for _, w := range words {
		if _, err := tx.Exec(
			"INSERT INTO run_words (run_id, word, outcome) VALUES (?, ?, ?)",
			sum.ID.String(), w, string(result[w])); err != nil {
			return RunSummary{}, fmt.Errorf("insert run word: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return RunSummary{}, fmt.Errorf("commit run: %w", err)
	}
	return sum, nil
}

// ListRuns returns the runs of an automaton, oldest first.
func (s *Store) ListRuns(automatonID ulid.ULID) ([]RunSummary, error) {
	rows, err := s.db.Query(
		`SELECT run_id, automaton_id, created_at, accepted, rejected, invalid
		 FROM runs WHERE automaton_id = ? ORDER BY run_id ASC`,
		automatonID.String())
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []RunSummary
	for rows.Next() {
		sum, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, sum)
	}
	return runs, rows.Err()
}

// GetRun loads a run with its full result set.
func (s *Store) GetRun(id ulid.ULID) (Run, error) {
	row := s.db.QueryRow(
		`SELECT run_id, automaton_id, created_at, accepted, rejected, invalid
		 FROM runs WHERE run_id = ?`, id.String())
	sum, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, err
	}

	rows, err := s.db.Query("SELECT word, outcome FROM run_words WHERE run_id = ?", id.String())
	if err != nil {
		return Run{}, fmt.Errorf("query run words: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make(dfa.Result)
	for rows.Next() {
		var word, outcome string
		if err := rows.Scan(&word, &outcome); err != nil {
			return Run{}, fmt.Errorf("scan run word: %w", err)
		}
		result[word] = dfa.Outcome(outcome)
	}
	if err := rows.Err(); err != nil {
		return Run{}, err
	}
	return Run{RunSummary: sum, Result: result}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(r rowScanner) (RunSummary, error) {
	var sum RunSummary
	var idStr, autoStr, createdAt string
	if err := r.Scan(&idStr, &autoStr, &createdAt, &sum.Accepted, &sum.Rejected, &sum.Invalid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunSummary{}, err
		}
		return RunSummary{}, fmt.Errorf("scan run row: %w", err)
	}
	var err error
	if sum.ID, err = ulid.Parse(idStr); err != nil {
		return RunSummary{}, fmt.Errorf("parse run id: %w", err)
	}
	if sum.AutomatonID, err = ulid.Parse(autoStr); err != nil {
		return RunSummary{}, fmt.Errorf("parse automaton id: %w", err)
	}
	if sum.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return RunSummary{}, fmt.Errorf("parse created_at: %w", err)
	}
	return sum, nil
}
