// Package storage provides SQLite-based persistence for players, their
// reveal progress and level completion history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrKeyMismatch is returned when a name is already bound to another SSH key.
var ErrKeyMismatch = errors.New("storage: player name is bound to a different key")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Player is a registered player.
type Player struct {
	ID          int64
	Name        string
	Fingerprint string // Empty until an SSH key claims the name
	CreatedAt   time.Time
}

// Standing is one leaderboard row.
type Standing struct {
	Name        string
	Level       int
	Revealed    int
	TotalClicks int
	UpdatedAt   time.Time
}

// Completion is one finished level.
type Completion struct {
	Level       int
	TotalClicks int
	CompletedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := expandHome(dbPath)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SSH sessions share one store; a single connection keeps SQLite writers in line.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS players (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			key_fingerprint TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS game_progress (
			player_id INTEGER PRIMARY KEY REFERENCES players(id),
			total_clicks INTEGER NOT NULL DEFAULT 0,
			current_level INTEGER NOT NULL DEFAULT 1,
			current_pixels TEXT NOT NULL DEFAULT '[]',
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS level_completions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player_id INTEGER NOT NULL REFERENCES players(id),
			level INTEGER NOT NULL,
			total_clicks INTEGER NOT NULL,
			completed_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_level_completions_player ON level_completions(player_id, level);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Authenticate returns the player registered under name, creating it on
// first use. The first non-empty fingerprint claims the name; later logins
// with a different key get ErrKeyMismatch. An empty fingerprint (local play)
// skips the key check.
func (s *Store) Authenticate(name, fingerprint string) (*Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("storage: player name is empty")
	}

	p, err := s.PlayerByName(name)
	if err != nil {
		return nil, err
	}

	if p == nil {
		res, err := s.db.Exec(
			"INSERT INTO players (name, key_fingerprint) VALUES (?, ?)",
			name, fingerprint,
		)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot create player: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot get inserted ID: %w", err)
		}
		return &Player{ID: id, Name: name, Fingerprint: fingerprint, CreatedAt: time.Now()}, nil
	}

	switch {
	case fingerprint == "" || p.Fingerprint == fingerprint:
		return p, nil
	case p.Fingerprint == "":
		if _, err := s.db.Exec(
			"UPDATE players SET key_fingerprint = ? WHERE id = ?",
			fingerprint, p.ID,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot bind key: %w", err)
		}
		p.Fingerprint = fingerprint
		return p, nil
	default:
		return nil, ErrKeyMismatch
	}
}

// PlayerByName looks a player up by name. Returns nil if there is none.
func (s *Store) PlayerByName(name string) (*Player, error) {
	var p Player
	var createdAt any

	err := s.db.QueryRow(
		"SELECT id, name, key_fingerprint, created_at FROM players WHERE name = ?",
		name,
	).Scan(&p.ID, &p.Name, &p.Fingerprint, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player: %w", err)
	}

	p.CreatedAt = parseTime(createdAt)
	return &p, nil
}

// RecordCompletion appends a finished level to the player's history.
func (s *Store) RecordCompletion(playerID int64, level, totalClicks int) error {
	_, err := s.db.Exec(
		"INSERT INTO level_completions (player_id, level, total_clicks) VALUES (?, ?, ?)",
		playerID, level, totalClicks,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot record completion: %w", err)
	}
	return nil
}

// Completions returns the player's most recent completions, newest first.
func (s *Store) Completions(playerID int64, limit int) ([]Completion, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT level, total_clicks, completed_at
		 FROM level_completions
		 WHERE player_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		playerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query completions: %w", err)
	}
	defer rows.Close()

	var out []Completion
	for rows.Next() {
		var c Completion
		var completedAt any
		if err := rows.Scan(&c.Level, &c.TotalClicks, &completedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		c.CompletedAt = parseTime(completedAt)
		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// TopPlayers ranks players by level, then by cells revealed in that level.
func (s *Store) TopPlayers(limit int) ([]Standing, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT p.name, g.current_level, json_array_length(g.current_pixels),
		        g.total_clicks, g.updated_at
		 FROM game_progress g
		 JOIN players p ON p.id = g.player_id
		 ORDER BY g.current_level DESC, json_array_length(g.current_pixels) DESC, g.total_clicks ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	var out []Standing
	for rows.Next() {
		var st Standing
		var revealed sql.NullInt64
		var updatedAt any
		if err := rows.Scan(&st.Name, &st.Level, &revealed, &st.TotalClicks, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		st.Revealed = int(revealed.Int64)
		st.UpdatedAt = parseTime(updatedAt)
		out = append(out, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// ResetProgress deletes the player's progress row so the next load starts
// a fresh game. Completion history is kept.
func (s *Store) ResetProgress(playerID int64) error {
	_, err := s.db.Exec("DELETE FROM game_progress WHERE player_id = ?", playerID)
	if err != nil {
		return fmt.Errorf("storage: cannot reset progress: %w", err)
	}
	return nil
}

// parseTime handles the driver returning either time.Time or a string.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
