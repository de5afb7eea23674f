package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gyeh/caselog/internal/model"
)

// Postgres stores jobs in the caselog_jobs table. Results are serialized
// as JSONB.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an existing pool. The caller owns the pool lifecycle.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Create(ctx context.Context, job *model.Job) error {
	result, err := marshalResult(job.Result)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	_, err = p.pool.Exec(ctx, `
		INSERT INTO caselog_jobs
			(id, status, progress, total_cases, processed_cases,
			 original_filename, file_path, output_path, error, result,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		job.ID, string(job.Status), job.Progress, job.TotalCases, job.ProcessedCases,
		job.OriginalFilename, job.FilePath, job.OutputPath, job.Error, result,
		job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, status, progress, total_cases, processed_cases,
		       original_filename, file_path, output_path, error, result,
		       created_at, updated_at
		FROM caselog_jobs WHERE id = $1`, id)
	return scanJob(row)
}

func (p *Postgres) Update(ctx context.Context, job *model.Job) error {
	result, err := marshalResult(job.Result)
	if err != nil {
		return err
	}
	job.UpdatedAt = time.Now().UTC()
	tag, err := p.pool.Exec(ctx, `
		UPDATE caselog_jobs SET
			status = $2, progress = $3, total_cases = $4, processed_cases = $5,
			original_filename = $6, file_path = $7, output_path = $8,
			error = $9, result = $10, updated_at = $11
		WHERE id = $1`,
		job.ID, string(job.Status), job.Progress, job.TotalCases, job.ProcessedCases,
		job.OriginalFilename, job.FilePath, job.OutputPath, job.Error, result,
		job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) List(ctx context.Context) ([]*model.Job, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, status, progress, total_cases, processed_cases,
		       original_filename, file_path, output_path, error, result,
		       created_at, updated_at
		FROM caselog_jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*model.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*model.Job, error) {
	var (
		job    model.Job
		status string
		result []byte
	)
	err := row.Scan(&job.ID, &status, &job.Progress, &job.TotalCases, &job.ProcessedCases,
		&job.OriginalFilename, &job.FilePath, &job.OutputPath, &job.Error, &result,
		&job.CreatedAt, &job.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan job: %w", err)
	}
	job.Status = model.JobStatus(status)
	if len(result) > 0 {
		if err := json.Unmarshal(result, &job.Result); err != nil {
			return nil, fmt.Errorf("decode job result: %w", err)
		}
	}
	return &job, nil
}

func marshalResult(records []model.CaseRecord) ([]byte, error) {
	if records == nil {
		return nil, nil
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode job result: %w", err)
	}
	return data, nil
}
