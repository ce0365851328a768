// Package store persists submitted record pairs and the MatchReports
// produced for them, for audit and replay. It follows the teacher's
// sqlx + lib/pq access pattern (internal/db, internal/processor):
// a thin struct wrapping *sqlx.DB, explicit SQL, struct tags for
// scanning, transactions around multi-statement writes.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"biograph-match-engine/internal/match"
)

// ErrNotFound is returned by Get when no match report exists for the
// requested ID.
var ErrNotFound = errors.New("match report not found")

// Store wraps a *sqlx.DB connection and a logger, matching the
// constructor-injection style used across internal/httpapi and
// internal/jobqueue.
type Store struct {
	DB     *sqlx.DB
	Logger *zap.Logger
}

// New wires a Store around an already-connected database handle.
func New(db *sqlx.DB, logger *zap.Logger) *Store {
	return &Store{DB: db, Logger: logger}
}

// schema is applied by EnsureSchema. The teacher repo ships no
// migration tooling of its own (tables are provisioned out of band),
// so this mirrors that by creating the table idempotently on startup
// rather than introducing a migration framework absent from the pack.
const schema = `
CREATE TABLE IF NOT EXISTS match_reports (
	id                     UUID PRIMARY KEY,
	local_record           JSONB NOT NULL,
	external_record        JSONB NOT NULL,
	disregard              JSONB NOT NULL,
	report                 JSONB NOT NULL,
	absolute_score         DOUBLE PRECISION NOT NULL,
	relative_score         DOUBLE PRECISION NOT NULL,
	automatically_matched  BOOLEAN NOT NULL,
	created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// EnsureSchema creates the match_reports table if it does not already
// exist.
func (s *Store) EnsureSchema() error {
	if _, err := s.DB.Exec(schema); err != nil {
		return fmt.Errorf("failed to ensure match_reports schema: %w", err)
	}
	return nil
}

// StoredMatch is one persisted comparison: the two input records, the
// disregard set applied, and the resulting MatchReport.
type StoredMatch struct {
	ID             string            `db:"id"`
	LocalRecord    match.Record      `db:"-"`
	ExternalRecord match.Record      `db:"-"`
	Disregard      match.Disregard   `db:"-"`
	Report         match.MatchReport `db:"-"`
	CreatedAt      time.Time         `db:"created_at"`
}

type matchRow struct {
	ID             string    `db:"id"`
	LocalRecord    string    `db:"local_record"`
	ExternalRecord string    `db:"external_record"`
	Disregard      string    `db:"disregard"`
	Report         string    `db:"report"`
	CreatedAt      time.Time `db:"created_at"`
}

// Save persists one scored comparison and returns its generated ID.
func (s *Store) Save(local, external match.Record, disregard match.Disregard, report match.MatchReport) (string, error) {
	id := uuid.New().String()

	localJSON, err := json.Marshal(local)
	if err != nil {
		return "", fmt.Errorf("failed to marshal local record: %w", err)
	}
	externalJSON, err := json.Marshal(external)
	if err != nil {
		return "", fmt.Errorf("failed to marshal external record: %w", err)
	}
	disregardJSON, err := json.Marshal(disregard)
	if err != nil {
		return "", fmt.Errorf("failed to marshal disregard set: %w", err)
	}
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal match report: %w", err)
	}

	_, err = s.DB.Exec(`
		INSERT INTO match_reports (
			id, local_record, external_record, disregard, report,
			absolute_score, relative_score, automatically_matched
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, localJSON, externalJSON, disregardJSON, reportJSON,
		report.AbsoluteScore, report.RelativeScore, report.AutomaticallyMatched)
	if err != nil {
		return "", fmt.Errorf("failed to insert match report: %w", err)
	}

	s.Logger.Info("match report saved",
		zap.String("id", id),
		zap.Float64("absolute_score", report.AbsoluteScore),
		zap.Bool("automatically_matched", report.AutomaticallyMatched))

	return id, nil
}

// Get fetches a previously saved comparison by ID.
func (s *Store) Get(id string) (*StoredMatch, error) {
	var row matchRow
	err := s.DB.Get(&row, `
		SELECT id::text, local_record::text, external_record::text,
		       disregard::text, report::text, created_at
		FROM match_reports
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch match report %s: %w", id, err)
	}

	stored := &StoredMatch{ID: row.ID, CreatedAt: row.CreatedAt}
	if err := json.Unmarshal([]byte(row.LocalRecord), &stored.LocalRecord); err != nil {
		return nil, fmt.Errorf("failed to unmarshal local record: %w", err)
	}
	if err := json.Unmarshal([]byte(row.ExternalRecord), &stored.ExternalRecord); err != nil {
		return nil, fmt.Errorf("failed to unmarshal external record: %w", err)
	}
	if err := json.Unmarshal([]byte(row.Disregard), &stored.Disregard); err != nil {
		return nil, fmt.Errorf("failed to unmarshal disregard set: %w", err)
	}
	if err := json.Unmarshal([]byte(row.Report), &stored.Report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match report: %w", err)
	}

	return stored, nil
}
