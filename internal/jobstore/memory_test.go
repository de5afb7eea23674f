package jobstore

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/gyeh/caselog/internal/model"
)

func TestMemoryCreateGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	job := &model.Job{
		ID:               uuid.New(),
		Status:           model.JobQueued,
		OriginalFilename: "cases.csv",
	}
	if err := m.Create(ctx, job); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if job.CreatedAt.IsZero() {
		t.Error("Create should set CreatedAt")
	}

	got, err := m.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != model.JobQueued || got.OriginalFilename != "cases.csv" {
		t.Errorf("got = %+v", got)
	}

	if err := m.Create(ctx, job); err == nil {
		t.Error("duplicate Create should fail")
	}
}

func TestMemoryGetNotFound(t *testing.T) {
	m := NewMemory()
	if _, err := m.Get(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryUpdate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	job := &model.Job{ID: uuid.New(), Status: model.JobQueued}
	if err := m.Create(ctx, job); err != nil {
		t.Fatal(err)
	}

	proc := "Appendectomy"
	job.Status = model.JobCompleted
	job.Progress = 1
	job.Result = []model.CaseRecord{{ProcedureType: &proc, Confidence: 0.9}}
	if err := m.Update(ctx, job); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := m.Get(ctx, job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != model.JobCompleted || len(got.Result) != 1 {
		t.Errorf("got = %+v", got)
	}
	if !got.UpdatedAt.After(got.CreatedAt) && !got.UpdatedAt.Equal(got.CreatedAt) {
		t.Error("Update should bump UpdatedAt")
	}

	if err := m.Update(ctx, &model.Job{ID: uuid.New()}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update of unknown job = %v, want ErrNotFound", err)
	}
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	job := &model.Job{ID: uuid.New(), Status: model.JobQueued}
	if err := m.Create(ctx, job); err != nil {
		t.Fatal(err)
	}

	got, _ := m.Get(ctx, job.ID)
	got.Status = model.JobFailed

	again, _ := m.Get(ctx, job.ID)
	if again.Status != model.JobQueued {
		t.Error("mutating a returned job must not change stored state")
	}
}

func TestMemoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	first := &model.Job{ID: uuid.New()}
	second := &model.Job{ID: uuid.New()}
	if err := m.Create(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := m.Create(ctx, second); err != nil {
		t.Fatal(err)
	}
	m.jobs[second.ID].CreatedAt = m.jobs[first.ID].CreatedAt.Add(1)

	jobs, err := m.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 2 || jobs[0].ID != second.ID {
		t.Errorf("jobs = %v", jobs)
	}
}
