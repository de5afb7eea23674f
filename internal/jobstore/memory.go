package jobstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gyeh/caselog/internal/model"
)

// Memory is a mutex-guarded in-process job store. Jobs are copied on every
// read and write so callers can never mutate stored state through a shared
// pointer.
type Memory struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*model.Job
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{jobs: map[uuid.UUID]*model.Job{}}
}

func (m *Memory) Create(_ context.Context, job *model.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[job.ID]; ok {
		return fmt.Errorf("job %s already exists", job.ID)
	}
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	m.jobs[job.ID] = copyJob(job)
	return nil
}

func (m *Memory) Get(_ context.Context, id uuid.UUID) (*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyJob(job), nil
}

func (m *Memory) Update(_ context.Context, job *model.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.jobs[job.ID]
	if !ok {
		return ErrNotFound
	}
	job.CreatedAt = stored.CreatedAt
	job.UpdatedAt = time.Now().UTC()
	m.jobs[job.ID] = copyJob(job)
	return nil
}

func (m *Memory) List(_ context.Context) ([]*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		out = append(out, copyJob(job))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func copyJob(job *model.Job) *model.Job {
	cp := *job
	if job.Result != nil {
		cp.Result = make([]model.CaseRecord, len(job.Result))
		copy(cp.Result, job.Result)
	}
	return &cp
}
