// Package sensorstore is the append-only Sensor Store (C3): a single table
// of committed readings with secondary indexes for time-range and
// sensor-type lookups. It is the only table the Query Builder and Executor
// are allowed to address.
package sensorstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/haasonsaas/agrisense/pkg/models"
)

// TableName is the single table the Query Builder and Executor may reference.
const TableName = "sensor_data"

// Config configures a Store.
type Config struct {
	// Path is the SQLite database file path. Empty means an in-memory
	// database private to this process.
	Path string
}

// Store wraps the sensor reading table behind a bounded connection pool.
// Writes happen only through the Ingestion Pipeline's single writer;
// everything else here is a reader.
type Store struct {
	db *sql.DB
}

// New opens (creating if necessary) the sensor store and ensures schema.
func New(cfg Config) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sensorstore: open: %w", err)
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
		`CREATE TABLE IF NOT EXISTS sensor_data (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ts INTEGER NOT NULL,
			sensor_type TEXT NOT NULL,
			value REAL NOT NULL,
			unit TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			raw TEXT NOT NULL DEFAULT ''
		)`,
		"CREATE INDEX IF NOT EXISTS idx_sensor_data_type_ts ON sensor_data(sensor_type, ts)",
		"CREATE INDEX IF NOT EXISTS idx_sensor_data_ts ON sensor_data(ts)",
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("sensorstore: init: %w", err)
		}
	}
	return nil
}

// DB exposes the underlying pool for the Executor, which validates SQL
// text against an allow-list before ever reaching this connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ToMicros converts an instant to the integer microsecond representation
// stored in the ts column.
func ToMicros(t time.Time) int64 {
	return t.UTC().UnixMicro()
}

// FromMicros converts a stored ts value back to a UTC instant.
func FromMicros(us int64) time.Time {
	return time.UnixMicro(us).UTC()
}

// InsertBatch commits readings as a single all-or-nothing transaction. It is
// called only by the Ingestion Pipeline's single writer.
func (s *Store) InsertBatch(ctx context.Context, readings []models.Reading) error {
	if len(readings) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sensorstore: begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sensor_data (ts, sensor_type, value, unit, source, raw)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("sensorstore: prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range readings {
		if _, err := stmt.ExecContext(ctx, ToMicros(r.Timestamp), r.SensorType, r.Value, r.Unit, r.Source, r.Raw); err != nil {
			return fmt.Errorf("sensorstore: insert %s: %w", r.SensorType, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sensorstore: commit: %w", err)
	}
	committed = true
	return nil
}

// LatestReading returns the most recent reading for sensorType, or ok=false
// when none exist.
func (s *Store) LatestReading(ctx context.Context, sensorType string) (models.Reading, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, ts, sensor_type, value, unit, source, raw
		FROM sensor_data WHERE sensor_type = ? ORDER BY ts DESC LIMIT 1
	`, sensorType)

	var (
		st, unit, source, raw string
		id, ts                int64
		value                 float64
	)
	switch err := row.Scan(&id, &ts, &st, &value, &unit, &source, &raw); err {
	case nil:
		return models.Reading{
			ID:         id,
			Timestamp:  FromMicros(ts),
			SensorType: st,
			Value:      value,
			Unit:       unit,
			Source:     source,
			Raw:        raw,
		}, true, nil
	case sql.ErrNoRows:
		return models.Reading{}, false, nil
	default:
		return models.Reading{}, false, fmt.Errorf("sensorstore: latest reading: %w", err)
	}
}

// AverageOverWindow returns the mean value and sample count for sensorType
// over the last windowMinutes, used by the Alert Subsystem when a spec's
// time_window_minutes is greater than zero.
func (s *Store) AverageOverWindow(ctx context.Context, sensorType string, windowMinutes int, now time.Time) (avg float64, count int, err error) {
	since := ToMicros(now.Add(-time.Duration(windowMinutes) * time.Minute))
	row := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(value), 0), COUNT(*)
		FROM sensor_data WHERE sensor_type = ? AND ts >= ? AND ts < ?
	`, sensorType, since, ToMicros(now))
	if err := row.Scan(&avg, &count); err != nil {
		return 0, 0, fmt.Errorf("sensorstore: average over window: %w", err)
	}
	return avg, count, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
