package internal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS conversations (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    title      TEXT,
    status     TEXT NOT NULL DEFAULT 'active',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    conversation_id INTEGER NOT NULL,
    role            TEXT NOT NULL,
    content         TEXT NOT NULL,
    timestamp       TEXT NOT NULL,
    audio_duration  REAL,
    FOREIGN KEY (conversation_id) REFERENCES conversations (id)
);

CREATE INDEX IF NOT EXISTS idx_messages_conversation
    ON messages (conversation_id, timestamp);
`

// timeLayout is the canonical timestamp encoding in SQLite. Fixed-width
// RFC 3339 in UTC sorts lexicographically, so ORDER BY on the raw column
// matches chronological order. RFC3339Nano would not: it trims trailing
// fraction zeros, and ".1Z" compares greater than ".15Z".
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages conversation and message persistence in SQLite. Every
// operation acquires its own connection from the pool and runs as a single
// statement or transaction; nothing is held across external waits.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if necessary) the conversation database at path.
func OpenStore(path string) (*Store, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &StoreError{Op: "open", Err: err}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StoreError{Op: "open", Err: fmt.Errorf("ping failed: %w", err)}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &StoreError{Op: "open", Err: fmt.Errorf("schema init failed: %w", err)}
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateConversation inserts a new conversation with status "active" and
// returns its id. An empty title defaults to a creation-timestamp value.
func (s *Store) CreateConversation(title string) (int64, error) {
	now := time.Now().UTC()
	if title == "" {
		title = "Conversation " + now.Format("2006-01-02 15:04:05")
	}

	res, err := s.db.Exec(
		`INSERT INTO conversations (title, status, created_at, updated_at) VALUES (?, 'active', ?, ?)`,
		title, now.Format(timeLayout), now.Format(timeLayout),
	)
	if err != nil {
		return 0, &StoreError{Op: "exec", Err: fmt.Errorf("create conversation: %w", err)}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, &StoreError{Op: "exec", Err: err}
	}
	LogInfo("Created conversation %d", id)
	return id, nil
}

// GetConversation returns the conversation with the given id, or a
// NotFoundError.
func (s *Store) GetConversation(id int64) (*Conversation, error) {
	row := s.db.QueryRow(
		`SELECT id, title, status, created_at, updated_at FROM conversations WHERE id = ?`, id)
	conv, err := scanConversation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{ConversationID: id}
	}
	if err != nil {
		return nil, &StoreError{Op: "query", Err: err}
	}
	return conv, nil
}

// GetLastActive returns the most recently updated conversation with status
// "active", or a NotFoundError if none exists.
func (s *Store) GetLastActive() (*Conversation, error) {
	row := s.db.QueryRow(
		`SELECT id, title, status, created_at, updated_at FROM conversations
		 WHERE status = 'active' ORDER BY updated_at DESC LIMIT 1`)
	conv, err := scanConversation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{ConversationID: 0}
	}
	if err != nil {
		return nil, &StoreError{Op: "query", Err: err}
	}
	return conv, nil
}

// ListConversations returns up to limit conversations ordered by updated_at
// descending, each annotated with its message count and last message time.
func (s *Store) ListConversations(limit int) ([]ConversationSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT c.id, c.title, c.status, c.created_at, c.updated_at,
		        COUNT(m.id), MAX(m.timestamp)
		 FROM conversations c
		 LEFT JOIN messages m ON c.id = m.conversation_id
		 GROUP BY c.id
		 ORDER BY c.updated_at DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, &StoreError{Op: "query", Err: err}
	}
	defer rows.Close()

	var summaries []ConversationSummary
	for rows.Next() {
		var (
			sum       ConversationSummary
			createdAt string
			updatedAt string
			lastMsg   sql.NullString
		)
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.Status, &createdAt, &updatedAt,
			&sum.MessageCount, &lastMsg); err != nil {
			return nil, &StoreError{Op: "query", Err: fmt.Errorf("scan failed: %w", err)}
		}
		if sum.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, &StoreError{Op: "query", Err: err}
		}
		if sum.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
			return nil, &StoreError{Op: "query", Err: err}
		}
		if lastMsg.Valid {
			t, err := time.Parse(timeLayout, lastMsg.String)
			if err != nil {
				return nil, &StoreError{Op: "query", Err: err}
			}
			sum.LastMessageAt = &t
		}
		summaries = append(summaries, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "query", Err: err}
	}
	return summaries, nil
}

// UpdateStatus sets the conversation's status and bumps updated_at.
func (s *Store) UpdateStatus(id int64, status string) error {
	if !ValidStatus(status) {
		return &StoreError{Op: "exec", Err: fmt.Errorf("invalid status %q", status)}
	}

	res, err := s.db.Exec(
		`UPDATE conversations SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC().Format(timeLayout), id)
	if err != nil {
		return &StoreError{Op: "exec", Err: fmt.Errorf("update status: %w", err)}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &NotFoundError{ConversationID: id}
	}
	return nil
}

// AddMessage inserts a message and bumps the parent conversation's
// updated_at as one transaction. The message timestamp and the parent bump
// carry the same instant, so updated_at always equals the last message's
// timestamp after an append.
func (s *Store) AddMessage(conversationID int64, role, content string, audioDuration *float64) (int64, error) {
	if !PersistableRole(role) {
		return 0, &StoreError{Op: "exec", Err: fmt.Errorf("role %q is not persistable", role)}
	}

	now := time.Now().UTC().Format(timeLayout)

	tx, err := s.db.Begin()
	if err != nil {
		return 0, &StoreError{Op: "exec", Err: err}
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO messages (conversation_id, role, content, timestamp, audio_duration)
		 VALUES (?, ?, ?, ?, ?)`,
		conversationID, role, content, now, audioDuration)
	if err != nil {
		return 0, &StoreError{Op: "exec", Err: fmt.Errorf("insert message: %w", err)}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, &StoreError{Op: "exec", Err: err}
	}

	if _, err := tx.Exec(
		`UPDATE conversations SET updated_at = ? WHERE id = ?`, now, conversationID); err != nil {
		return 0, &StoreError{Op: "exec", Err: fmt.Errorf("bump conversation: %w", err)}
	}

	if err := tx.Commit(); err != nil {
		return 0, &StoreError{Op: "exec", Err: err}
	}

	LogDebug("Added message %d to conversation %d", id, conversationID)
	return id, nil
}

// GetMessages returns all messages for a conversation ordered by timestamp
// ascending.
func (s *Store) GetMessages(conversationID int64) ([]Message, error) {
	rows, err := s.db.Query(
		`SELECT id, conversation_id, role, content, timestamp, audio_duration
		 FROM messages WHERE conversation_id = ? ORDER BY timestamp ASC, id ASC`,
		conversationID)
	if err != nil {
		return nil, &StoreError{Op: "query", Err: err}
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var (
			msg      Message
			ts       string
			duration sql.NullFloat64
		)
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &ts, &duration); err != nil {
			return nil, &StoreError{Op: "query", Err: fmt.Errorf("scan failed: %w", err)}
		}
		if msg.Timestamp, err = time.Parse(timeLayout, ts); err != nil {
			return nil, &StoreError{Op: "query", Err: err}
		}
		if duration.Valid {
			msg.AudioDuration = &duration.Float64
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "query", Err: err}
	}
	return messages, nil
}

// GetTranscript returns the conversation together with its ordered messages.
func (s *Store) GetTranscript(conversationID int64) (*Transcript, error) {
	conv, err := s.GetConversation(conversationID)
	if err != nil {
		return nil, err
	}
	messages, err := s.GetMessages(conversationID)
	if err != nil {
		return nil, err
	}
	return &Transcript{Conversation: *conv, Messages: messages}, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConversation(row rowScanner) (*Conversation, error) {
	var (
		conv      Conversation
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&conv.ID, &conv.Title, &conv.Status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if conv.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if conv.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &conv, nil
}
