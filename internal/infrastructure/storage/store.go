// Package storage persists session images in SQLite, one session per
// database file.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"delve-server/internal/domain"
	"delve-server/internal/engine"
)

// ErrNoSave reports an empty or absent save database; the caller starts
// a fresh run.
var ErrNoSave = errors.New("no saved session")

const schema = `
CREATE TABLE IF NOT EXISTS meta (
	id           INTEGER PRIMARY KEY CHECK (id = 1),
	seed         INTEGER NOT NULL,
	depth        INTEGER NOT NULL,
	current_tick INTEGER NOT NULL,
	next_seq     INTEGER NOT NULL,
	player_id    TEXT    NOT NULL,
	rng_seed     INTEGER NOT NULL,
	width        INTEGER NOT NULL,
	height       INTEGER NOT NULL,
	explored     BLOB    NOT NULL,
	saved_at     TEXT    NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS entities (
	entity_id TEXT PRIMARY KEY,
	doc       TEXT    NOT NULL,
	on_map    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS queue (
	slot      INTEGER PRIMARY KEY,
	entity_id TEXT    NOT NULL,
	due_tick  INTEGER NOT NULL,
	seq       INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS command_log (
	slot   INTEGER PRIMARY KEY,
	tick   INTEGER NOT NULL,
	action TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	slot INTEGER PRIMARY KEY,
	tick INTEGER NOT NULL,
	tier TEXT    NOT NULL,
	text TEXT    NOT NULL
);
`

// Store is a SQLite-backed engine.SaveStore.
type Store struct {
	db *sql.DB
}

// Open opens or creates the save database and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save replaces the stored session with state in one transaction.
func (s *Store) Save(state *engine.SessionState) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"meta", "entities", "queue", "command_log", "messages"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	_, err = tx.Exec(`INSERT INTO meta
		(id, seed, depth, current_tick, next_seq, player_id, rng_seed, width, height, explored)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		state.Seed, state.Depth, state.CurrentTick, int64(state.NextSeq),
		string(state.PlayerID), state.RngSeed, state.Width, state.Height, state.Explored)
	if err != nil {
		return fmt.Errorf("write meta: %w", err)
	}

	// Entity rows keep arena registration order via rowid.
	for _, rec := range state.Entities {
		doc, err := json.Marshal(rec.Entity)
		if err != nil {
			return fmt.Errorf("encode entity %s: %w", rec.Entity.ID, err)
		}
		if _, err := tx.Exec(`INSERT INTO entities (entity_id, doc, on_map) VALUES (?, ?, ?)`,
			string(rec.Entity.ID), string(doc), rec.OnMap); err != nil {
			return fmt.Errorf("write entity %s: %w", rec.Entity.ID, err)
		}
	}

	for i, item := range state.Queue {
		if _, err := tx.Exec(`INSERT INTO queue (slot, entity_id, due_tick, seq) VALUES (?, ?, ?, ?)`,
			i, string(item.ID), item.Tick, int64(item.Seq)); err != nil {
			return fmt.Errorf("write queue entry %d: %w", i, err)
		}
	}

	for i, rec := range state.Tape {
		action, err := json.Marshal(rec.Action)
		if err != nil {
			return fmt.Errorf("encode tape entry %d: %w", i, err)
		}
		if _, err := tx.Exec(`INSERT INTO command_log (slot, tick, action) VALUES (?, ?, ?)`,
			i, rec.Tick, string(action)); err != nil {
			return fmt.Errorf("write tape entry %d: %w", i, err)
		}
	}

	for i, m := range state.Messages {
		if _, err := tx.Exec(`INSERT INTO messages (slot, tick, tier, text) VALUES (?, ?, ?, ?)`,
			i, m.Tick, string(m.Tier), m.Text); err != nil {
			return fmt.Errorf("write message %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Load reads the stored session. ErrNoSave means the database holds
// nothing to resume.
func (s *Store) Load() (*engine.SessionState, error) {
	state := &engine.SessionState{}

	var playerID string
	var nextSeq int64
	err := s.db.QueryRow(`SELECT seed, depth, current_tick, next_seq, player_id, rng_seed, width, height, explored
		FROM meta WHERE id = 1`).Scan(
		&state.Seed, &state.Depth, &state.CurrentTick, &nextSeq,
		&playerID, &state.RngSeed, &state.Width, &state.Height, &state.Explored)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("read meta: %w", err)
	}
	state.NextSeq = uint64(nextSeq)
	state.PlayerID = domain.EntityID(playerID)

	if state.Entities, err = s.loadEntities(); err != nil {
		return nil, err
	}
	if state.Queue, err = s.loadQueue(); err != nil {
		return nil, err
	}
	if state.Tape, err = s.loadTape(); err != nil {
		return nil, err
	}
	if state.Messages, err = s.loadMessages(); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *Store) loadEntities() ([]engine.EntityRecord, error) {
	rows, err := s.db.Query(`SELECT doc, on_map FROM entities ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("read entities: %w", err)
	}
	defer rows.Close()

	var records []engine.EntityRecord
	for rows.Next() {
		var doc string
		var onMap bool
		if err := rows.Scan(&doc, &onMap); err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		e := &domain.Entity{}
		if err := json.Unmarshal([]byte(doc), e); err != nil {
			return nil, fmt.Errorf("decode entity: %w", err)
		}
		records = append(records, engine.EntityRecord{Entity: e, OnMap: onMap})
	}
	return records, rows.Err()
}

func (s *Store) loadQueue() ([]engine.TurnItem, error) {
	rows, err := s.db.Query(`SELECT entity_id, due_tick, seq FROM queue ORDER BY slot`)
	if err != nil {
		return nil, fmt.Errorf("read queue: %w", err)
	}
	defer rows.Close()

	var items []engine.TurnItem
	for rows.Next() {
		var id string
		var tick, seq int64
		if err := rows.Scan(&id, &tick, &seq); err != nil {
			return nil, fmt.Errorf("scan queue entry: %w", err)
		}
		items = append(items, engine.TurnItem{ID: domain.EntityID(id), Tick: tick, Seq: uint64(seq)})
	}
	return items, rows.Err()
}

func (s *Store) loadTape() ([]domain.CommandRecord, error) {
	rows, err := s.db.Query(`SELECT tick, action FROM command_log ORDER BY slot`)
	if err != nil {
		return nil, fmt.Errorf("read command log: %w", err)
	}
	defer rows.Close()

	var tape []domain.CommandRecord
	for rows.Next() {
		var rec domain.CommandRecord
		var action string
		if err := rows.Scan(&rec.Tick, &action); err != nil {
			return nil, fmt.Errorf("scan tape entry: %w", err)
		}
		if err := json.Unmarshal([]byte(action), &rec.Action); err != nil {
			return nil, fmt.Errorf("decode tape entry: %w", err)
		}
		tape = append(tape, rec)
	}
	return tape, rows.Err()
}

func (s *Store) loadMessages() ([]domain.Message, error) {
	rows, err := s.db.Query(`SELECT tick, tier, text FROM messages ORDER BY slot`)
	if err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		var tier string
		if err := rows.Scan(&m.Tick, &tier, &m.Text); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Tier = domain.MessageTier(tier)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
