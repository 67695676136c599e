// Package persistence provides SQLite-based storage for what outlives a
// session: citizen memory per slot, the decision log, and saved settings.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/echo-chamber/internal/citizens"
	"github.com/talgya/echo-chamber/internal/engine"
	"github.com/talgya/echo-chamber/internal/feed"
)

const settingsKey = "settings"

// DB wraps a SQLite connection and implements engine.Store.
type DB struct {
	conn     *sqlx.DB
	archiver *Archiver
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir %s: %w", dir, err)
		}
	}
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One writer; the API host already serialises session access.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// SetArchiver makes ClearDecisions archive the log before deleting it.
func (db *DB) SetArchiver(a *Archiver) {
	db.archiver = a
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS citizen_memories (
		slot INTEGER PRIMARY KEY,
		decisions_witnessed INTEGER NOT NULL,
		trust REAL NOT NULL,
		history_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS decisions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		action TEXT NOT NULL,
		tone TEXT NOT NULL,
		topic TEXT NOT NULL,
		description TEXT NOT NULL,
		ts_unix_ms INTEGER NOT NULL,
		mood_before REAL NOT NULL,
		engagement_before REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS game_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_decisions_session ON decisions(session_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type memoryRow struct {
	Slot               int     `db:"slot"`
	DecisionsWitnessed int     `db:"decisions_witnessed"`
	Trust              float64 `db:"trust"`
	HistoryJSON        string  `db:"history_json"`
}

// LoadMemories returns persisted memory keyed by citizen slot.
func (db *DB) LoadMemories() (map[citizens.CitizenID]citizens.Persisted, error) {
	var rows []memoryRow
	if err := db.conn.Select(&rows,
		"SELECT slot, decisions_witnessed, trust, history_json FROM citizen_memories"); err != nil {
		return nil, fmt.Errorf("load memories: %w", err)
	}

	out := make(map[citizens.CitizenID]citizens.Persisted, len(rows))
	for _, r := range rows {
		p := citizens.Persisted{
			DecisionsWitnessed: r.DecisionsWitnessed,
			TrustInPlatform:    r.Trust,
		}
		if err := json.Unmarshal([]byte(r.HistoryJSON), &p.EmotionalHistory); err != nil {
			slog.Warn("discarding unreadable citizen history", "slot", r.Slot, "error", err)
			p.EmotionalHistory = nil
		}
		out[citizens.CitizenID(r.Slot)] = p
	}
	return out, nil
}

// SaveMemories writes citizen memory (full replace).
func (db *DB) SaveMemories(memories map[citizens.CitizenID]citizens.Persisted) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM citizen_memories"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO citizen_memories
		(slot, decisions_witnessed, trust, history_json) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for id, p := range memories {
		history := p.EmotionalHistory
		if history == nil {
			history = []citizens.EmotionalRecord{}
		}
		historyJSON, err := json.Marshal(history)
		if err != nil {
			return fmt.Errorf("encode history %d: %w", id, err)
		}
		if _, err := stmt.Exec(int(id), p.DecisionsWitnessed, p.TrustInPlatform, string(historyJSON)); err != nil {
			return fmt.Errorf("insert memory %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Debug("citizen memory saved", "slots", len(memories))
	return nil
}

type decisionRow struct {
	SessionID        string  `db:"session_id"`
	Day              int     `db:"day"`
	Action           string  `db:"action"`
	Tone             string  `db:"tone"`
	Topic            string  `db:"topic"`
	Description      string  `db:"description"`
	TimestampMs      int64   `db:"ts_unix_ms"`
	MoodBefore       float64 `db:"mood_before"`
	EngagementBefore float64 `db:"engagement_before"`
}

func (r decisionRow) decision() engine.Decision {
	return engine.Decision{
		SessionID:        r.SessionID,
		Day:              r.Day,
		Action:           feed.Action(r.Action),
		Tone:             feed.Tone(r.Tone),
		Topic:            r.Topic,
		Description:      r.Description,
		Timestamp:        time.UnixMilli(r.TimestampMs).UTC(),
		MoodBefore:       r.MoodBefore,
		EngagementBefore: r.EngagementBefore,
	}
}

// AppendDecision adds one record to the decision log.
func (db *DB) AppendDecision(d engine.Decision) error {
	_, err := db.conn.Exec(`INSERT INTO decisions
		(session_id, day, action, tone, topic, description, ts_unix_ms, mood_before, engagement_before)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.SessionID, d.Day, string(d.Action), string(d.Tone), d.Topic, d.Description,
		d.Timestamp.UnixMilli(), d.MoodBefore, d.EngagementBefore,
	)
	if err != nil {
		return fmt.Errorf("append decision day %d: %w", d.Day, err)
	}
	return nil
}

// Decisions returns the decision log in insertion order.
func (db *DB) Decisions() ([]engine.Decision, error) {
	var rows []decisionRow
	err := db.conn.Select(&rows, `SELECT session_id, day, action, tone, topic, description,
		ts_unix_ms, mood_before, engagement_before FROM decisions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load decisions: %w", err)
	}
	out := make([]engine.Decision, len(rows))
	for i, r := range rows {
		out[i] = r.decision()
	}
	return out, nil
}

// ClearDecisions empties the decision log, archiving it first when an
// archiver is set. The log is cleared even when archiving fails.
func (db *DB) ClearDecisions() error {
	if db.archiver != nil {
		log, err := db.Decisions()
		if err == nil {
			err = db.archiver.Archive(log)
		}
		if err != nil {
			slog.Warn("decision log not archived", "error", err)
		}
	}
	if _, err := db.conn.Exec("DELETE FROM decisions"); err != nil {
		return fmt.Errorf("clear decisions: %w", err)
	}
	return nil
}

// LoadSettings returns the saved settings record. A missing record is an
// empty map, not an error.
func (db *DB) LoadSettings() (map[string]bool, error) {
	raw, err := db.GetMeta(settingsKey)
	if errors.Is(err, sql.ErrNoRows) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return DecodeSettings([]byte(raw))
}

// SaveSettings validates and stores the settings record.
func (db *DB) SaveSettings(set map[string]bool) error {
	raw, err := json.Marshal(set)
	if err != nil {
		return err
	}
	if _, err := DecodeSettings(raw); err != nil {
		return err
	}
	return db.SaveMeta(settingsKey, string(raw))
}

// SaveMeta stores a key-value pair in game metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO game_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM game_meta WHERE key = ?", key)
	return value, err
}

var _ engine.Store = (*DB)(nil)
