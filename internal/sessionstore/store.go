// Package sessionstore is the Session Store (C4): per-session rolling
// conversation turns with a TTL-driven lifecycle sweeper, backed by the
// same SQLite engine as the Sensor Store.
package sessionstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/haasonsaas/agrisense/pkg/models"
)

// DefaultContextTurns is the default number of most-recent turns C8 loads
// as conversation context for a session.
const DefaultContextTurns = 10

// Config configures a Store.
type Config struct {
	// Path is the SQLite database file path. Empty means an in-memory
	// database private to this process.
	Path string
}

// Store persists conversation turns and per-session metadata.
type Store struct {
	db *sql.DB
}

// New opens (creating if necessary) the session store and ensures schema.
func New(cfg Config) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sessionstore: open: %w", err)
	}

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	stmts := []string{
		"PRAGMA journal_mode=WAL",
		`CREATE TABLE IF NOT EXISTS session_storage (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			query TEXT NOT NULL,
			response TEXT NOT NULL,
			sql_text TEXT NOT NULL DEFAULT '',
			semantic_json TEXT NOT NULL DEFAULT '',
			metrics TEXT NOT NULL DEFAULT '',
			chart TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		)`,
		"CREATE INDEX IF NOT EXISTS idx_session_storage_session ON session_storage(session_id)",
		"CREATE INDEX IF NOT EXISTS idx_session_storage_created ON session_storage(created_at)",
		`CREATE TABLE IF NOT EXISTS session_metadata (
			session_id TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			last_activity INTEGER NOT NULL,
			is_active INTEGER NOT NULL DEFAULT 1,
			total_queries INTEGER NOT NULL DEFAULT 0
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("sessionstore: init: %w", err)
		}
	}
	return nil
}

// AppendTurn inserts a conversation turn and updates the session's
// metadata row (creating it on first use). Turns are appended in
// request-arrival order; a read of recent context started after this call
// completes will observe it.
func (s *Store) AppendTurn(ctx context.Context, turn models.ConversationTurn) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sessionstore: begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	semanticJSON, metricsJSON, chartJSON, err := encodeTurn(turn)
	if err != nil {
		return err
	}

	createdAt := turn.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO session_storage (session_id, query, response, sql_text, semantic_json, metrics, chart, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, turn.SessionID, turn.Query, turn.Response, turn.SQL, semanticJSON, metricsJSON, chartJSON, createdAt.UnixMicro()); err != nil {
		return fmt.Errorf("sessionstore: insert turn: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO session_metadata (session_id, created_at, last_activity, is_active, total_queries)
		VALUES (?, ?, ?, 1, 1)
		ON CONFLICT(session_id) DO UPDATE SET
			last_activity = excluded.last_activity,
			is_active = 1,
			total_queries = total_queries + 1
	`, turn.SessionID, createdAt.UnixMicro(), createdAt.UnixMicro()); err != nil {
		return fmt.Errorf("sessionstore: upsert metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sessionstore: commit: %w", err)
	}
	committed = true
	return nil
}

func encodeTurn(turn models.ConversationTurn) (semanticJSON, metricsJSON, chartJSON string, err error) {
	if turn.SemanticIR != nil {
		b, err := json.Marshal(turn.SemanticIR)
		if err != nil {
			return "", "", "", fmt.Errorf("sessionstore: marshal semantic_ir: %w", err)
		}
		semanticJSON = string(b)
	}
	if turn.Metrics != nil {
		b, err := json.Marshal(turn.Metrics)
		if err != nil {
			return "", "", "", fmt.Errorf("sessionstore: marshal metrics: %w", err)
		}
		metricsJSON = string(b)
	}
	if turn.Chart != nil {
		b, err := json.Marshal(turn.Chart)
		if err != nil {
			return "", "", "", fmt.Errorf("sessionstore: marshal chart: %w", err)
		}
		chartJSON = string(b)
	}
	return semanticJSON, metricsJSON, chartJSON, nil
}

// RecentTurns returns up to k most recent turns for sessionID, oldest
// first, for use as conversation context.
func (s *Store) RecentTurns(ctx context.Context, sessionID string, k int) ([]models.ConversationTurn, error) {
	if k <= 0 {
		k = DefaultContextTurns
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, query, response, sql_text, semantic_json, metrics, chart, created_at
		FROM session_storage WHERE session_id = ? ORDER BY created_at DESC LIMIT ?
	`, sessionID, k)
	if err != nil {
		return nil, fmt.Errorf("sessionstore: recent turns: %w", err)
	}
	defer rows.Close()

	var turns []models.ConversationTurn
	for rows.Next() {
		turn, err := scanTurn(rows)
		if err != nil {
			return nil, err
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

func scanTurn(rows *sql.Rows) (models.ConversationTurn, error) {
	var (
		turn                                     models.ConversationTurn
		semanticJSON, metricsJSON, chartJSON     string
		createdAtUs                              int64
	)
	if err := rows.Scan(&turn.ID, &turn.SessionID, &turn.Query, &turn.Response, &turn.SQL, &semanticJSON, &metricsJSON, &chartJSON, &createdAtUs); err != nil {
		return models.ConversationTurn{}, fmt.Errorf("sessionstore: scan turn: %w", err)
	}
	turn.CreatedAt = time.UnixMicro(createdAtUs).UTC()

	if semanticJSON != "" {
		var ir models.SemanticIR
		if err := json.Unmarshal([]byte(semanticJSON), &ir); err != nil {
			return models.ConversationTurn{}, fmt.Errorf("sessionstore: unmarshal semantic_ir: %w", err)
		}
		turn.SemanticIR = &ir
	}
	if metricsJSON != "" {
		if err := json.Unmarshal([]byte(metricsJSON), &turn.Metrics); err != nil {
			return models.ConversationTurn{}, fmt.Errorf("sessionstore: unmarshal metrics: %w", err)
		}
	}
	if chartJSON != "" {
		if err := json.Unmarshal([]byte(chartJSON), &turn.Chart); err != nil {
			return models.ConversationTurn{}, fmt.Errorf("sessionstore: unmarshal chart: %w", err)
		}
	}
	return turn, nil
}

// SweepIdle marks sessions whose last activity is older than idleAfter as
// inactive. Returns the number of sessions affected.
func (s *Store) SweepIdle(ctx context.Context, now time.Time, idleAfter time.Duration) (int64, error) {
	cutoff := now.Add(-idleAfter).UnixMicro()
	res, err := s.db.ExecContext(ctx, `
		UPDATE session_metadata SET is_active = 0
		WHERE is_active = 1 AND last_activity < ?
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sessionstore: sweep idle: %w", err)
	}
	return res.RowsAffected()
}

// SweepExpired deletes conversation turns and metadata rows older than
// retain. Returns the number of turn rows deleted.
func (s *Store) SweepExpired(ctx context.Context, now time.Time, retain time.Duration) (int64, error) {
	cutoff := now.Add(-retain).UnixMicro()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sessionstore: sweep expired: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM session_storage WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sessionstore: sweep expired turns: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM session_metadata
		WHERE created_at < ? AND session_id NOT IN (SELECT DISTINCT session_id FROM session_storage)
	`, cutoff); err != nil {
		return 0, fmt.Errorf("sessionstore: sweep expired metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sessionstore: commit sweep: %w", err)
	}
	committed = true
	return deleted, nil
}

// Metadata returns the metadata row for sessionID.
func (s *Store) Metadata(ctx context.Context, sessionID string) (models.SessionMetadata, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT session_id, created_at, last_activity, is_active, total_queries
		FROM session_metadata WHERE session_id = ?
	`, sessionID)

	var (
		md                       models.SessionMetadata
		createdAtUs, lastActUs   int64
		isActive                 int
	)
	switch err := row.Scan(&md.SessionID, &createdAtUs, &lastActUs, &isActive, &md.TotalQueries); err {
	case nil:
		md.CreatedAt = time.UnixMicro(createdAtUs).UTC()
		md.LastActivity = time.UnixMicro(lastActUs).UTC()
		md.IsActive = isActive != 0
		return md, true, nil
	case sql.ErrNoRows:
		return models.SessionMetadata{}, false, nil
	default:
		return models.SessionMetadata{}, false, fmt.Errorf("sessionstore: metadata: %w", err)
	}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
