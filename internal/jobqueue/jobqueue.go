// Package jobqueue runs asynchronous batch scoring of CSV files: each
// row holds a local and an external record (JSON-encoded field maps)
// to be compared with internal/match.Score and persisted through
// internal/store. The claim/poll/retry state machine is carried over
// from the teacher's internal/worker.Worker, generalized from
// single-attempt transaction reconciliation to a retrying job queue.
package jobqueue

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"biograph-match-engine/internal/match"
	"biograph-match-engine/internal/store"
)

// Job is one queued CSV-batch scoring task.
type Job struct {
	ID        string    `db:"id"`
	FilePath  string    `db:"file_path"`
	Status    string    `db:"status"`
	Attempts  int       `db:"attempts"`
	LastError *string   `db:"last_error"`
	Processed int       `db:"processed_count"`
	Total     *int      `db:"total_count"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Queue polls batch_jobs for work, claims one row at a time with
// FOR UPDATE SKIP LOCKED (matching the teacher's worker.claimJob), and
// scores every row of the claimed CSV file.
type Queue struct {
	DB             *sqlx.DB
	Store          *store.Store
	Logger         *zap.Logger
	PollInterval   time.Duration
	StaleThreshold time.Duration
	MaxAttempts    int
	ProgressEvery  int
}

// New wires a Queue with the given poll/retry parameters.
func New(db *sqlx.DB, st *store.Store, logger *zap.Logger, pollInterval, staleThreshold time.Duration, maxAttempts, progressEvery int) *Queue {
	return &Queue{
		DB:             db,
		Store:          st,
		Logger:         logger,
		PollInterval:   pollInterval,
		StaleThreshold: staleThreshold,
		MaxAttempts:    maxAttempts,
		ProgressEvery:  progressEvery,
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS batch_jobs (
	id              UUID PRIMARY KEY,
	file_path       TEXT NOT NULL,
	status          TEXT NOT NULL DEFAULT 'queued',
	attempts        INT NOT NULL DEFAULT 0,
	last_error      TEXT,
	processed_count INT NOT NULL DEFAULT 0,
	total_count     INT,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// EnsureSchema creates the batch_jobs table if it does not already
// exist.
func (q *Queue) EnsureSchema() error {
	if _, err := q.DB.Exec(schema); err != nil {
		return fmt.Errorf("failed to ensure batch_jobs schema: %w", err)
	}
	return nil
}

// Enqueue registers a CSV file at filePath for batch scoring and
// returns the new job's ID.
func (q *Queue) Enqueue(filePath string) (string, error) {
	id := uuid.New().String()
	_, err := q.DB.Exec(`
		INSERT INTO batch_jobs (id, file_path, status, attempts)
		VALUES ($1, $2, 'queued', 0)
	`, id, filePath)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue job: %w", err)
	}
	return id, nil
}

// Run polls indefinitely, claiming and processing one job at a time.
// Callers typically run this in its own goroutine from cmd/worker.
func (q *Queue) Run(stop <-chan struct{}) {
	q.Logger.Info("job queue started",
		zap.Duration("poll_interval", q.PollInterval),
		zap.Duration("stale_threshold", q.StaleThreshold),
		zap.Int("max_attempts", q.MaxAttempts))

	q.recoverStaleJobs()

	for {
		select {
		case <-stop:
			q.Logger.Info("job queue stopping")
			return
		default:
		}

		job, err := q.claimJob()
		if err != nil {
			q.Logger.Error("failed to claim job", zap.Error(err))
			time.Sleep(q.PollInterval)
			continue
		}
		if job == nil {
			time.Sleep(q.PollInterval)
			continue
		}

		q.processJob(job)
	}
}

func (q *Queue) recoverStaleJobs() {
	result, err := q.DB.Exec(`
		UPDATE batch_jobs
		SET status = 'queued', updated_at = NOW()
		WHERE status = 'processing'
		AND updated_at < NOW() - ($1 || ' minutes')::interval
	`, int(q.StaleThreshold.Minutes()))
	if err != nil {
		q.Logger.Warn("failed to recover stale jobs", zap.Error(err))
		return
	}
	if rows, _ := result.RowsAffected(); rows > 0 {
		q.Logger.Info("recovered stale jobs", zap.Int64("count", rows))
	}
}

func (q *Queue) claimJob() (*Job, error) {
	tx, err := q.DB.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var job Job
	err = tx.Get(&job, `
		SELECT id, file_path, status, attempts, last_error, processed_count, total_count, created_at, updated_at
		FROM batch_jobs
		WHERE status = 'queued'
		   OR (status = 'processing' AND updated_at < NOW() - ($1 || ' minutes')::interval)
		ORDER BY created_at ASC
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`, int(q.StaleThreshold.Minutes()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE batch_jobs
		SET status = 'processing', attempts = attempts + 1, updated_at = NOW()
		WHERE id = $1
	`, job.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark job processing: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit claim: %w", err)
	}
	job.Attempts++

	q.Logger.Info("claimed job", zap.String("id", job.ID), zap.String("file_path", job.FilePath))
	return &job, nil
}

func (q *Queue) processJob(job *Job) {
	start := time.Now()
	err := q.processCSV(job)
	duration := time.Since(start)

	if err != nil {
		q.failJob(job, err)
		return
	}
	q.completeJob(job, duration)
}

// row is one CSV line: a JSON-encoded local and external record pair
// plus an optional JSON-encoded disregard set.
type row struct {
	LocalJSON     string
	ExternalJSON  string
	DisregardJSON string
}

func (q *Queue) processCSV(job *Job) error {
	f, err := os.Open(job.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", job.FilePath, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	colMap := make(map[string]int, len(header))
	for i, col := range header {
		colMap[col] = i
	}
	for _, required := range []string{"local_record", "external_record"} {
		if _, ok := colMap[required]; !ok {
			return fmt.Errorf("missing required column: %s", required)
		}
	}

	processed := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			q.Logger.Warn("skipping unreadable row", zap.String("job_id", job.ID), zap.Error(err))
			continue
		}

		r := rowFrom(record, colMap)
		if err := q.scoreRow(r); err != nil {
			q.Logger.Warn("skipping unscorable row", zap.String("job_id", job.ID), zap.Error(err))
			continue
		}

		processed++
		if q.ProgressEvery > 0 && processed%q.ProgressEvery == 0 {
			q.updateProgress(job.ID, processed)
		}
	}

	q.updateProgress(job.ID, processed)
	if _, err := q.DB.Exec(`UPDATE batch_jobs SET total_count = $1 WHERE id = $2`, processed, job.ID); err != nil {
		return fmt.Errorf("failed to record total count: %w", err)
	}
	return nil
}

func rowFrom(record []string, colMap map[string]int) row {
	get := func(col string) string {
		if idx, ok := colMap[col]; ok && idx < len(record) {
			return record[idx]
		}
		return ""
	}
	return row{
		LocalJSON:     get("local_record"),
		ExternalJSON:  get("external_record"),
		DisregardJSON: get("disregard"),
	}
}

func (q *Queue) scoreRow(r row) error {
	var local, external match.Record
	if err := json.Unmarshal([]byte(r.LocalJSON), &local); err != nil {
		return fmt.Errorf("invalid local_record: %w", err)
	}
	if err := json.Unmarshal([]byte(r.ExternalJSON), &external); err != nil {
		return fmt.Errorf("invalid external_record: %w", err)
	}

	var disregard match.Disregard
	if r.DisregardJSON != "" {
		if err := json.Unmarshal([]byte(r.DisregardJSON), &disregard); err != nil {
			return fmt.Errorf("invalid disregard: %w", err)
		}
	}

	report := match.Score(local, external, disregard)
	if _, err := q.Store.Save(local, external, disregard, report); err != nil {
		return fmt.Errorf("failed to save scored row: %w", err)
	}
	return nil
}

func (q *Queue) updateProgress(jobID string, processed int) {
	if _, err := q.DB.Exec(`
		UPDATE batch_jobs SET processed_count = $1, updated_at = NOW() WHERE id = $2
	`, processed, jobID); err != nil {
		q.Logger.Warn("failed to update progress", zap.String("job_id", jobID), zap.Error(err))
	}
}

func (q *Queue) completeJob(job *Job, duration time.Duration) {
	_, err := q.DB.Exec(`
		UPDATE batch_jobs SET status = 'completed', updated_at = NOW() WHERE id = $1
	`, job.ID)
	if err != nil {
		q.Logger.Error("failed to mark job completed", zap.String("id", job.ID), zap.Error(err))
		return
	}
	q.Logger.Info("job completed", zap.String("id", job.ID), zap.Duration("duration", duration))
}

func (q *Queue) failJob(job *Job, cause error) {
	shouldRetry := job.Attempts < q.MaxAttempts
	status := "queued"
	if !shouldRetry {
		status = "failed"
	}

	_, err := q.DB.Exec(`
		UPDATE batch_jobs SET status = $1, last_error = $2, updated_at = NOW() WHERE id = $3
	`, status, cause.Error(), job.ID)
	if err != nil {
		q.Logger.Error("failed to update job failure status", zap.String("id", job.ID), zap.Error(err))
		return
	}

	if shouldRetry {
		q.Logger.Warn("job re-queued for retry", zap.String("id", job.ID), zap.Int("attempts", job.Attempts), zap.Error(cause))
	} else {
		q.Logger.Error("job failed permanently", zap.String("id", job.ID), zap.Error(cause))
	}
}
