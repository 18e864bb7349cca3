// Package alerts is the Alert Subsystem (C9): natural-language alert
// creation, persistence, threshold evaluation against the Sensor Store,
// per-session suppression, and synchronous action dispatch.
package alerts

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/haasonsaas/agrisense/pkg/models"
)

// Config configures a Store.
type Config struct {
	// Path is the SQLite database file path. Empty means an in-memory
	// database private to this process.
	Path string
}

// Store persists alert specs and their action-dispatch history.
type Store struct {
	db *sql.DB
}

// New opens (creating if necessary) the alert store and ensures schema.
func New(cfg Config) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("alerts: open: %w", err)
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
		`CREATE TABLE IF NOT EXISTS user_alerts (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			sensor_type TEXT NOT NULL,
			operator TEXT NOT NULL,
			condition TEXT NOT NULL DEFAULT '',
			threshold REAL NOT NULL,
			severity TEXT NOT NULL,
			time_window INTEGER NOT NULL DEFAULT 0,
			action TEXT NOT NULL DEFAULT '',
			active INTEGER NOT NULL DEFAULT 1,
			created_at INTEGER NOT NULL
		)`,
		"CREATE INDEX IF NOT EXISTS idx_user_alerts_session ON user_alerts(session_id)",
		`CREATE TABLE IF NOT EXISTS action_logs (
			id TEXT PRIMARY KEY,
			alert_id TEXT NOT NULL,
			action_type TEXT NOT NULL,
			status TEXT NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			timestamp INTEGER NOT NULL,
			completed_at INTEGER NOT NULL,
			session_id TEXT NOT NULL
		)`,
		"CREATE INDEX IF NOT EXISTS idx_action_logs_alert ON action_logs(alert_id)",
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("alerts: init: %w", err)
		}
	}
	return nil
}

// Create persists a new AlertSpec, assigning it an ID and CreatedAt if unset.
func (s *Store) Create(ctx context.Context, spec models.AlertSpec) (models.AlertSpec, error) {
	if spec.ID == "" {
		spec.ID = uuid.NewString()
	}
	if spec.CreatedAt.IsZero() {
		spec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_alerts (id, session_id, name, sensor_type, operator, condition, threshold, severity, time_window, action, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, spec.ID, spec.SessionID, "", spec.SensorType, string(spec.Operator), "", spec.Threshold,
		string(spec.Severity), spec.TimeWindowMinutes, string(spec.Action), boolToInt(spec.Active), spec.CreatedAt.UnixMicro())
	if err != nil {
		return models.AlertSpec{}, fmt.Errorf("alerts: create: %w", err)
	}
	return spec, nil
}

// List returns every alert spec for sessionID, most recently created first.
func (s *Store) List(ctx context.Context, sessionID string) ([]models.AlertSpec, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, sensor_type, operator, threshold, severity, time_window, action, active, created_at
		FROM user_alerts WHERE session_id = ? ORDER BY created_at DESC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("alerts: list: %w", err)
	}
	defer rows.Close()
	return scanAlerts(rows)
}

// ListActive returns every alert spec with active=true, across all sessions,
// for the evaluator's sweep. The returned slice is a stable snapshot: later
// writes do not affect a sweep already in progress.
func (s *Store) ListActive(ctx context.Context) ([]models.AlertSpec, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, sensor_type, operator, threshold, severity, time_window, action, active, created_at
		FROM user_alerts WHERE active = 1 ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("alerts: list active: %w", err)
	}
	defer rows.Close()
	return scanAlerts(rows)
}

func scanAlerts(rows *sql.Rows) ([]models.AlertSpec, error) {
	var out []models.AlertSpec
	for rows.Next() {
		var (
			a                        models.AlertSpec
			operator, severity, action string
			activeInt                int
			createdAtUs              int64
		)
		if err := rows.Scan(&a.ID, &a.SessionID, &a.SensorType, &operator, &a.Threshold, &severity,
			&a.TimeWindowMinutes, &action, &activeInt, &createdAtUs); err != nil {
			return nil, fmt.Errorf("alerts: scan: %w", err)
		}
		a.Operator = models.Operator(operator)
		a.Severity = models.Severity(severity)
		a.Action = models.Action(action)
		a.Active = activeInt != 0
		a.CreatedAt = time.UnixMicro(createdAtUs).UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes the alert with id, scoped to sessionID. Returns false if no
// matching row existed.
func (s *Store) Delete(ctx context.Context, id, sessionID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM user_alerts WHERE id = ? AND session_id = ?`, id, sessionID)
	if err != nil {
		return false, fmt.Errorf("alerts: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("alerts: delete rows affected: %w", err)
	}
	return n > 0, nil
}

// RecordAction persists the outcome of one action-handler invocation.
func (s *Store) RecordAction(ctx context.Context, log models.ActionLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO action_logs (id, alert_id, action_type, status, message, timestamp, completed_at, session_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, log.ID, log.AlertID, string(log.ActionType), string(log.Status), log.Message,
		log.Timestamp.UnixMicro(), log.CompletedAt.UnixMicro(), log.SessionID)
	if err != nil {
		return fmt.Errorf("alerts: record action: %w", err)
	}
	return nil
}

// ListActions returns every action-log row for sessionID, most recent first.
func (s *Store) ListActions(ctx context.Context, sessionID string) ([]models.ActionLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, alert_id, action_type, status, message, timestamp, completed_at, session_id
		FROM action_logs WHERE session_id = ? ORDER BY timestamp DESC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("alerts: list actions: %w", err)
	}
	defer rows.Close()

	var out []models.ActionLog
	for rows.Next() {
		var (
			l                       models.ActionLog
			actionType, status      string
			timestampUs, completedUs int64
		)
		if err := rows.Scan(&l.ID, &l.AlertID, &actionType, &status, &l.Message, &timestampUs, &completedUs, &l.SessionID); err != nil {
			return nil, fmt.Errorf("alerts: scan action: %w", err)
		}
		l.ActionType = models.Action(actionType)
		l.Status = models.ActionStatus(status)
		l.Timestamp = time.UnixMicro(timestampUs).UTC()
		l.CompletedAt = time.UnixMicro(completedUs).UTC()
		out = append(out, l)
	}
	return out, rows.Err()
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
