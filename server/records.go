package server

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/lib/pq"
)

// Record is one logged check-in.
type Record struct {
	UserID  string
	Course  string
	Section string
	At      time.Time
}

// RecordLog stores check-ins for the history page.
type RecordLog interface {
	Append(ctx context.Context, r Record) error
	ForUser(ctx context.Context, id string) ([]Record, error)
	Close() error
}

// newRecordLog picks postgres when a DSN is configured, memory otherwise.
func newRecordLog(dbURL string) (RecordLog, error) {
	if dbURL == "" {
		return &memoryLog{}, nil
	}
	return openPostgresLog(dbURL)
}

// memoryLog keeps records for the lifetime of the process.
type memoryLog struct {
	mu      sync.Mutex
	records []Record
}

func (m *memoryLog) Append(_ context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
	return nil
}

func (m *memoryLog) ForUser(_ context.Context, id string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Record
	for _, r := range m.records {
		if r.UserID == id {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryLog) Close() error { return nil }

// postgresLog persists records across restarts.
type postgresLog struct {
	db *sql.DB
}

func openPostgresLog(dbURL string) (*postgresLog, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS checkin_records (
		id SERIAL PRIMARY KEY,
		user_id TEXT NOT NULL,
		course TEXT NOT NULL,
		section TEXT NOT NULL,
		at TIMESTAMPTZ NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &postgresLog{db: db}, nil
}

func (p *postgresLog) Append(ctx context.Context, r Record) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO checkin_records (user_id, course, section, at) VALUES ($1, $2, $3, $4)`,
		r.UserID, r.Course, r.Section, r.At,
	)
	return err
}

func (p *postgresLog) ForUser(ctx context.Context, id string) ([]Record, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT user_id, course, section, at FROM checkin_records WHERE user_id = $1 ORDER BY at DESC`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.UserID, &r.Course, &r.Section, &r.At); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (p *postgresLog) Close() error {
	return p.db.Close()
}
