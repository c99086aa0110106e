// Package memory persists conversation state and the command audit trail in
// a SQLite database. The core calls it at session boundaries only.
package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/aida-go/internal/domain"
	"github.com/doeshing/aida-go/internal/ports"
)

// SQLiteStore implements ports.MemoryStore and ports.CommandAuditor.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore creates (or opens) the database at path, creating parent
// directories as needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open memory database: %w", err)
	}
	store := &SQLiteStore{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init memory database: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS sessions (
		session_id TEXT PRIMARY KEY,
		current_topic TEXT,
		metadata TEXT,
		updated_at TEXT
	);
	CREATE TABLE IF NOT EXISTS turns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT,
		seq INTEGER,
		role TEXT,
		text TEXT,
		timestamp TEXT,
		topic TEXT,
		metadata TEXT
	);
	CREATE TABLE IF NOT EXISTS commands (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT,
		session_id TEXT,
		kind TEXT,
		source_text TEXT,
		confidence REAL,
		state TEXT,
		detail TEXT
	);`)
	return err
}

// Save replaces the stored conversation for its session id.
func (s *SQLiteStore) Save(ctx context.Context, conversation domain.ConversationContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	metadata, err := json.Marshal(conversation.Metadata)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (session_id, current_topic, metadata, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
		   current_topic = excluded.current_topic,
		   metadata = excluded.metadata,
		   updated_at = excluded.updated_at`,
		conversation.SessionID, conversation.CurrentTopic, string(metadata), time.Now().Format(time.RFC3339),
	); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM turns WHERE session_id = ?`, conversation.SessionID); err != nil {
		return err
	}
	for seq, turn := range conversation.Turns {
		turnMeta, err := json.Marshal(turn.Metadata)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO turns (session_id, seq, role, text, timestamp, topic, metadata)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			conversation.SessionID, seq, string(turn.Role), turn.Text,
			turn.Timestamp.Format(time.RFC3339Nano), turn.Topic, string(turnMeta),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Load rebuilds a conversation by session id. A missing session yields an
// empty conversation carrying the requested id, not an error.
func (s *SQLiteStore) Load(ctx context.Context, sessionID string) (domain.ConversationContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversation := domain.ConversationContext{SessionID: sessionID, Metadata: map[string]string{}}

	var topic, metadata string
	err := s.db.QueryRowContext(ctx,
		`SELECT current_topic, metadata FROM sessions WHERE session_id = ?`, sessionID,
	).Scan(&topic, &metadata)
	if err == sql.ErrNoRows {
		return conversation, nil
	}
	if err != nil {
		return domain.ConversationContext{}, err
	}
	conversation.CurrentTopic = topic
	if metadata != "" {
		if err := json.Unmarshal([]byte(metadata), &conversation.Metadata); err != nil {
			return domain.ConversationContext{}, err
		}
	}
	if conversation.Metadata == nil {
		conversation.Metadata = map[string]string{}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT role, text, timestamp, topic, metadata FROM turns WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return domain.ConversationContext{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var turn domain.Turn
		var role, ts, turnMeta string
		if err := rows.Scan(&role, &turn.Text, &ts, &turn.Topic, &turnMeta); err != nil {
			return domain.ConversationContext{}, err
		}
		turn.Role = domain.Role(role)
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			turn.Timestamp = parsed
		}
		if turnMeta != "" && turnMeta != "null" {
			if err := json.Unmarshal([]byte(turnMeta), &turn.Metadata); err != nil {
				return domain.ConversationContext{}, err
			}
		}
		conversation.Turns = append(conversation.Turns, turn)
	}
	return conversation, rows.Err()
}

// LatestSessionID returns the most recently saved session, or empty when the
// database holds none. Used to resume the previous conversation on startup.
func (s *SQLiteStore) LatestSessionID(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id FROM sessions ORDER BY datetime(updated_at) DESC LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return id, err
}

// Record appends a gated command verdict to the audit table.
func (s *SQLiteStore) Record(record domain.CommandRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO commands (timestamp, session_id, kind, source_text, confidence, state, detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.Timestamp.Format(time.RFC3339Nano), record.SessionID, string(record.Kind),
		record.SourceText, record.Confidence, string(record.State), record.Detail,
	)
	return err
}

// Records returns the most recent audit entries, newest first. limit <= 0
// returns everything.
func (s *SQLiteStore) Records(limit int) ([]domain.CommandRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `SELECT timestamp, session_id, kind, source_text, confidence, state, detail
		  FROM commands ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.CommandRecord
	for rows.Next() {
		var rec domain.CommandRecord
		var ts, kind, state string
		if err := rows.Scan(&ts, &rec.SessionID, &kind, &rec.SourceText, &rec.Confidence, &state, &rec.Detail); err != nil {
			return nil, err
		}
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			rec.Timestamp = parsed
		}
		rec.Kind = domain.ActionKind(kind)
		rec.State = domain.GateState(state)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var (
	_ ports.MemoryStore    = (*SQLiteStore)(nil)
	_ ports.CommandAuditor = (*SQLiteStore)(nil)
)
