package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"asciisymphony/internal/config"
)

// ErrNotFound indicates no job row matched the requested identifier.
var ErrNotFound = errors.New("render job not found")

// Store manages render job persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.LogDir, "history.db"))
}

// OpenPath connects to the history database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// NewJob inserts a pending render job and returns it.
func (s *Store) NewJob(ctx context.Context, inputPath, mode, qualityLabel, colorScheme string, fps int) (*Job, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)
	id := uuid.NewString()

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO render_jobs (
            id, input_path, mode, quality, color_scheme, fps,
            status, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		inputPath,
		mode,
		qualityLabel,
		nullableString(colorScheme),
		fps,
		StatusPending,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert render job: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a single job row.
func (s *Store) GetByID(ctx context.Context, id string) (*Job, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` FROM render_jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return job, err
}

// FindByPrefix fetches a job by unique ID prefix, for CLI convenience.
func (s *Store) FindByPrefix(ctx context.Context, prefix string) (*Job, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	rows, err := s.db.QueryContext(ctx, selectColumns+` FROM render_jobs WHERE id LIKE ? ORDER BY created_at DESC LIMIT 2`, prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var matches []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan jobs: %w", err)
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("job id prefix %q is ambiguous", prefix)
	}
}

// List returns the most recent jobs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]*Job, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, selectColumns+` FROM render_jobs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan jobs: %w", err)
	}
	return jobs, nil
}

// SetStatus transitions a job to a new lifecycle state. Moves outside the
// transition table are rejected so a finished job cannot drift back into an
// in-flight state.
func (s *Store) SetStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", status)
	}
	job, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !job.Status.CanTransition(status) {
		return fmt.Errorf("job %s cannot move from %q to %q", id, job.Status, status)
	}
	return s.update(ctx, id, `UPDATE render_jobs SET status = ?, updated_at = ? WHERE id = ?`,
		status, nowStamp(), id)
}

// UpdateProgress persists stage, percent, and frame counters. Callers are
// expected to throttle their own write rate.
func (s *Store) UpdateProgress(ctx context.Context, id, stage string, percent float64, framesDone int) error {
	return s.update(ctx, id,
		`UPDATE render_jobs SET progress_stage = ?, progress_percent = ?, frames_done = ?, updated_at = ? WHERE id = ?`,
		nullableString(stage), percent, framesDone, nowStamp(), id)
}

// SetPlan records the probe-derived totals before extraction starts.
func (s *Store) SetPlan(ctx context.Context, id string, totalFrames int, outputPath string) error {
	return s.update(ctx, id,
		`UPDATE render_jobs SET total_frames = ?, output_path = ?, updated_at = ? WHERE id = ?`,
		totalFrames, nullableString(outputPath), nowStamp(), id)
}

// SetQuality records a quality change made by the adaptive monitor.
func (s *Store) SetQuality(ctx context.Context, id, qualityLabel string) error {
	return s.update(ctx, id,
		`UPDATE render_jobs SET quality = ?, updated_at = ? WHERE id = ?`,
		qualityLabel, nowStamp(), id)
}

// MarkFallback flags that the job retried with a fallback filter.
func (s *Store) MarkFallback(ctx context.Context, id string) error {
	return s.update(ctx, id,
		`UPDATE render_jobs SET fallback_used = 1, updated_at = ? WHERE id = ?`,
		nowStamp(), id)
}

// MarkCompleted finalizes a successful job.
func (s *Store) MarkCompleted(ctx context.Context, id, outputPath string) error {
	stamp := nowStamp()
	return s.update(ctx, id,
		`UPDATE render_jobs SET status = ?, output_path = ?, progress_percent = 100, error_message = NULL,
            updated_at = ?, completed_at = ? WHERE id = ?`,
		StatusCompleted, outputPath, stamp, stamp, id)
}

// MarkFailed finalizes a failed job with a diagnostic message.
func (s *Store) MarkFailed(ctx context.Context, id, message string) error {
	stamp := nowStamp()
	return s.update(ctx, id,
		`UPDATE render_jobs SET status = ?, error_message = ?, updated_at = ?, completed_at = ? WHERE id = ?`,
		StatusFailed, nullableString(message), stamp, stamp, id)
}

// ResetStuck fails any job left in a processing state by a crashed run and
// returns how many rows changed.
func (s *Store) ResetStuck(ctx context.Context, reason string) (int64, error) {
	states := make([]string, 0, len(processingStatuses))
	args := make([]any, 0, len(processingStatuses)+3)
	stamp := nowStamp()
	args = append(args, StatusFailed, nullableString(reason), stamp)
	for status := range processingStatuses {
		states = append(states, "?")
		args = append(args, status)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE render_jobs SET status = ?, error_message = ?, updated_at = ? WHERE status IN (`+strings.Join(states, ",")+`)`,
		args...)
	if err != nil {
		return 0, fmt.Errorf("reset stuck jobs: %w", err)
	}
	return res.RowsAffected()
}

// Health reports basic ledger diagnostics.
type Health struct {
	DBPath     string
	TotalJobs  int
	Completed  int
	Failed     int
	InFlight   int
	Integrity  bool
	LastError  string
	SchemaGood bool
}

// CheckHealth runs integrity and count diagnostics against the ledger.
func (s *Store) CheckHealth(ctx context.Context) Health {
	health := Health{DBPath: s.path, SchemaGood: true}

	var integrity string
	if err := s.db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&integrity); err != nil {
		health.LastError = err.Error()
		return health
	}
	health.Integrity = integrity == "ok"

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM render_jobs GROUP BY status`)
	if err != nil {
		health.LastError = err.Error()
		return health
	}
	defer rows.Close()
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			health.LastError = err.Error()
			return health
		}
		health.TotalJobs += count
		switch {
		case status == StatusCompleted:
			health.Completed += count
		case status == StatusFailed:
			health.Failed += count
		case status.Processing(), status == StatusPending:
			health.InFlight += count
		}
	}
	if err := rows.Err(); err != nil {
		health.LastError = err.Error()
	}
	return health
}

const selectColumns = `SELECT id, input_path, output_path, mode, quality, color_scheme, fps,
    total_frames, frames_done, status, progress_stage, progress_percent,
    error_message, fallback_used, created_at, updated_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var job Job
	var outputPath, colorScheme, progressStage, errorMessage, completedAt sql.NullString
	var fallbackUsed int
	var createdAt, updatedAt string

	err := row.Scan(
		&job.ID,
		&job.InputPath,
		&outputPath,
		&job.Mode,
		&job.Quality,
		&colorScheme,
		&job.FPS,
		&job.TotalFrames,
		&job.FramesDone,
		&job.Status,
		&progressStage,
		&job.ProgressPercent,
		&errorMessage,
		&fallbackUsed,
		&createdAt,
		&updatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	job.OutputPath = outputPath.String
	job.ColorScheme = colorScheme.String
	job.ProgressStage = progressStage.String
	job.ErrorMessage = errorMessage.String
	job.FallbackUsed = fallbackUsed != 0
	job.CreatedAt = parseStamp(createdAt)
	job.UpdatedAt = parseStamp(updatedAt)
	if completedAt.Valid {
		job.CompletedAt = parseStamp(completedAt.String)
	}
	return &job, nil
}

func (s *Store) update(ctx context.Context, id, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update render job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseStamp(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return value
}
