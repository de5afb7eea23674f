// Package server exposes the standardization pipeline as an HTTP job API.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/caselog/internal/jobstore"
	"github.com/gyeh/caselog/internal/model"
	"github.com/gyeh/caselog/internal/normalize"
	"github.com/gyeh/caselog/internal/predict"
	"github.com/gyeh/caselog/internal/process"
	"github.com/gyeh/caselog/internal/reference"
	"github.com/gyeh/caselog/internal/schema"
)

// jobTimeout bounds one background standardization run.
const jobTimeout = 30 * time.Minute

// Service owns job lifecycle: accepting uploads, running the pipeline in the
// background, and recording progress in the job store.
type Service struct {
	Jobs      jobstore.Store
	Oracle    predict.Completer
	Semantic  schema.Classifier
	Ref       *reference.Lexicon
	UploadDir string
	Year      int
	Log       zerolog.Logger
}

// Submit stores the uploaded file, creates a queued job, and starts
// processing in a goroutine.
func (s *Service) Submit(ctx context.Context, filename string, r io.Reader) (*model.Job, error) {
	id := uuid.New()
	path := filepath.Join(s.UploadDir, id.String()+".csv")
	if err := s.saveUpload(path, r); err != nil {
		return nil, err
	}

	job := &model.Job{
		ID:               id,
		Status:           model.JobQueued,
		OriginalFilename: filename,
		FilePath:         path,
	}
	if err := s.Jobs.Create(ctx, job); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("create job: %w", err)
	}

	go s.run(job)
	return job, nil
}

func (s *Service) saveUpload(path string, r io.Reader) error {
	if err := os.MkdirAll(s.UploadDir, 0755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("save upload: %w", err)
	}
	return f.Close()
}

// run executes the pipeline for one job and records the outcome. It never
// writes to disk: results live in the job store until fetched.
func (s *Service) run(job *model.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	defer os.Remove(job.FilePath)

	log := s.Log.With().Str("job_id", job.ID.String()).Logger()
	log.Info().Str("file", job.OriginalFilename).Msg("starting standardization job")

	job.Status = model.JobProcessing
	s.save(job, log)

	pipeline := &process.Pipeline{
		Mapper: &schema.Mapper{Semantic: s.Semantic},
		Predictor: &predict.Predictor{
			Oracle: s.Oracle,
			Ref:    s.Ref,
			Log:    log,
			Progress: func(done, total int) {
				job.ProcessedCases = done
				job.TotalCases = total
				if total > 0 {
					job.Progress = float64(done) / float64(total)
				}
				s.save(job, log)
			},
		},
		Log: log,
	}

	summary, records, err := pipeline.Run(ctx, process.Options{
		InputPath: job.FilePath,
		Year:      s.Year,
		IDPolicy:  normalize.PolicyHash,
	})
	if err != nil {
		log.Error().Err(err).Msg("standardization job failed")
		job.Status = model.JobFailed
		job.Error = err.Error()
		s.save(job, log)
		return
	}

	job.Status = model.JobCompleted
	job.Progress = 1.0
	job.TotalCases = summary.RowsRead
	job.ProcessedCases = summary.RowsRead
	job.Result = records
	s.save(job, log)
	log.Info().
		Int("rows", summary.RowsRead).
		Int("predicted", summary.Predicted).
		Int("passthrough", summary.Passthrough).
		Dur("duration", summary.DurationTotal).
		Msg("standardization job completed")
}

func (s *Service) save(job *model.Job, log zerolog.Logger) {
	if err := s.Jobs.Update(context.Background(), job); err != nil {
		log.Warn().Err(err).Msg("job state update failed")
	}
}
