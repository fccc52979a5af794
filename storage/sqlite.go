// Package storage persists battle reports to sqlite: one row per
// battle plus an append-only event table holding the resolution log.
// Consumers replay a battle by reading its events back in insertion
// order.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"skirmish/game"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS battles (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	scenario    TEXT NOT NULL,
	player1     TEXT NOT NULL,
	player2     TEXT NOT NULL,
	seed        INTEGER NOT NULL,
	winner      INTEGER NOT NULL DEFAULT 0,
	verdict     TEXT NOT NULL DEFAULT '',
	turns       INTEGER NOT NULL DEFAULT 0,
	started_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	finished_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS events (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	battle_id INTEGER NOT NULL REFERENCES battles(id),
	turn      INTEGER NOT NULL,
	phase     TEXT NOT NULL,
	kind      TEXT NOT NULL,
	line      TEXT NOT NULL,
	payload   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_battle ON events(battle_id, id);
`

// Store wraps one sqlite database of battle reports.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
// Use ":memory:" for a throwaway store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	// sqlite has a single writer; one connection also keeps every
	// ":memory:" query on the same database.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// BeginBattle records a started battle and returns its report id.
func (s *Store) BeginBattle(scenarioName, player1, player2 string, seed int64) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO battles (scenario, player1, player2, seed) VALUES (?, ?, ?, ?)`,
		scenarioName, player1, player2, seed,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: begin battle: %w", err)
	}
	return res.LastInsertId()
}

// AppendEvents writes resolution-log entries for one battle, in order,
// in a single transaction.
func (s *Store) AppendEvents(battleID int64, events []game.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: append events: %w", err)
	}
	stmt, err := tx.Prepare(
		`INSERT INTO events (battle_id, turn, phase, kind, line, payload) VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("storage: append events: %w", err)
	}
	defer stmt.Close()
	for _, e := range events {
		payload, err := json.Marshal(e)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("storage: encode event: %w", err)
		}
		if _, err := stmt.Exec(battleID, e.Turn, e.Phase.String(), string(e.Kind), e.Line(), string(payload)); err != nil {
			tx.Rollback()
			return fmt.Errorf("storage: append events: %w", err)
		}
	}
	return tx.Commit()
}

// FinishBattle stamps the outcome onto the battle row.
func (s *Store) FinishBattle(battleID int64, final game.Snapshot) error {
	_, err := s.db.Exec(
		`UPDATE battles SET winner = ?, verdict = ?, turns = ?, finished_at = CURRENT_TIMESTAMP WHERE id = ?`,
		int(final.Winner), final.Verdict, final.Turn, battleID,
	)
	if err != nil {
		return fmt.Errorf("storage: finish battle %d: %w", battleID, err)
	}
	return nil
}

// Observer adapts the store to the match observer hook: every accepted
// action's events are appended under the given battle id. Write errors
// are logged, not returned; persistence trouble must not abort a match.
func (s *Store) Observer(battleID int64) func(game.Action, *game.Result) {
	return func(_ game.Action, res *game.Result) {
		if err := s.AppendEvents(battleID, res.Events); err != nil {
			log.Error().Err(err).Int64("battle", battleID).Msg("event append failed")
		}
	}
}

// Report is one battle row.
type Report struct {
	ID       int64
	Scenario string
	Player1  string
	Player2  string
	Seed     int64
	Winner   int
	Verdict  string
	Turns    int
	Finished bool
}

// Report reads one battle row back.
func (s *Store) Report(battleID int64) (*Report, error) {
	row := s.db.QueryRow(
		`SELECT id, scenario, player1, player2, seed, winner, verdict, turns, finished_at IS NOT NULL
		 FROM battles WHERE id = ?`, battleID,
	)
	var r Report
	err := row.Scan(&r.ID, &r.Scenario, &r.Player1, &r.Player2, &r.Seed, &r.Winner, &r.Verdict, &r.Turns, &r.Finished)
	if err != nil {
		return nil, fmt.Errorf("storage: report %d: %w", battleID, err)
	}
	return &r, nil
}

// Reports lists battle rows, newest first.
func (s *Store) Reports(limit int) ([]Report, error) {
	rows, err := s.db.Query(
		`SELECT id, scenario, player1, player2, seed, winner, verdict, turns, finished_at IS NOT NULL
		 FROM battles ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: reports: %w", err)
	}
	defer rows.Close()
	var out []Report
	for rows.Next() {
		var r Report
		if err := rows.Scan(&r.ID, &r.Scenario, &r.Player1, &r.Player2, &r.Seed, &r.Winner, &r.Verdict, &r.Turns, &r.Finished); err != nil {
			return nil, fmt.Errorf("storage: reports: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Events reads a battle's resolution log back in insertion order.
func (s *Store) Events(battleID int64) ([]game.Event, error) {
	rows, err := s.db.Query(
		`SELECT payload FROM events WHERE battle_id = ? ORDER BY id`, battleID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: events %d: %w", battleID, err)
	}
	defer rows.Close()
	var out []game.Event
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("storage: events %d: %w", battleID, err)
		}
		var e game.Event
		if err := json.Unmarshal([]byte(payload), &e); err != nil {
			return nil, fmt.Errorf("storage: decode event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
