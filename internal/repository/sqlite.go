package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"deskmate/internal/domain"
)

// SQLiteStore keeps transcripts in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// ConversationSummary describes one stored conversation.
type ConversationSummary struct {
	ID           string
	Turns        int
	LastActivity time.Time
}

// NewSQLite opens (creating if needed) the database at dbPath.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, errors.New("repository: sqlite path must not be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("repository: create database directory: %w", err)
	}

	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("repository: open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("repository: ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("repository: initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		conversation_id TEXT NOT NULL,
		role TEXT NOT NULL,
		text TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, id);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AppendTurns inserts turns in order inside one transaction.
func (s *SQLiteStore) AppendTurns(ctx context.Context, conversationID string, turns ...domain.Turn) error {
	if strings.TrimSpace(conversationID) == "" {
		return errors.New("repository: AppendTurns: conversation id is required")
	}
	if len(turns) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository: AppendTurns begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO messages (conversation_id, role, text, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("repository: AppendTurns prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now()
	for _, t := range turns {
		ts := t.Timestamp
		if ts.IsZero() {
			ts = now
		}
		if _, err := stmt.ExecContext(ctx, conversationID, string(t.Role), t.Text, ts.UnixNano()); err != nil {
			return fmt.Errorf("repository: AppendTurns insert: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("repository: AppendTurns commit: %w", err)
	}
	return nil
}

// GetHistory returns up to limit of the most recent turns, oldest first.
// A limit <= 0 returns the whole transcript.
func (s *SQLiteStore) GetHistory(ctx context.Context, conversationID string, limit int) ([]domain.Turn, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT role, text, created_at FROM (
			SELECT id, role, text, created_at FROM messages
			WHERE conversation_id = ?
			ORDER BY id DESC
			LIMIT ?
		) ORDER BY id ASC`, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: GetHistory query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var turns []domain.Turn
	for rows.Next() {
		var (
			role, text string
			createdAt  int64
		)
		if err := rows.Scan(&role, &text, &createdAt); err != nil {
			return nil, fmt.Errorf("repository: GetHistory scan: %w", err)
		}
		turns = append(turns, domain.Turn{Role: domain.Role(role), Text: text, Timestamp: time.Unix(0, createdAt)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: GetHistory rows: %w", err)
	}
	return turns, nil
}

// ListConversations returns stored conversations, most recently active first.
func (s *SQLiteStore) ListConversations(ctx context.Context, limit int) ([]ConversationSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT conversation_id, COUNT(*), MAX(created_at) FROM messages
		GROUP BY conversation_id
		ORDER BY MAX(id) DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: ListConversations query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []ConversationSummary
	for rows.Next() {
		var (
			cs   ConversationSummary
			last int64
		)
		if err := rows.Scan(&cs.ID, &cs.Turns, &last); err != nil {
			return nil, fmt.Errorf("repository: ListConversations scan: %w", err)
		}
		cs.LastActivity = time.Unix(0, last)
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: ListConversations rows: %w", err)
	}
	return out, nil
}
