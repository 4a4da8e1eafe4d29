package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/cold-mail-generator/internal/models"
)

type recordingGenerator struct {
	mu        sync.Mutex
	processed []uuid.UUID
	done      chan uuid.UUID
	repo      *fakeJobRepo
}

func (r *recordingGenerator) Generate(ctx context.Context, jobURL string) (*GenerationResult, error) {
	return &GenerationResult{}, nil
}

func (r *recordingGenerator) ProcessJob(ctx context.Context, jobID uuid.UUID) error {
	r.mu.Lock()
	r.processed = append(r.processed, jobID)
	r.mu.Unlock()
	if r.repo != nil {
		r.repo.UpdateStatus(jobID, models.StatusCompleted)
	}
	r.done <- jobID
	return nil
}

func TestWorkerProcessesEnqueuedJobs(t *testing.T) {
	gen := &recordingGenerator{done: make(chan uuid.UUID, 10)}
	w := newWorker(newFakeJobRepo(), gen, 2, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, id := range ids {
		w.EnqueueJob(id)
	}

	seen := map[uuid.UUID]bool{}
	for range ids {
		select {
		case id := <-gen.done:
			seen[id] = true
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for jobs")
		}
	}

	w.Stop()
	for _, id := range ids {
		assert.True(t, seen[id])
	}
}

func TestWorkerPollsPendingJobs(t *testing.T) {
	job := models.Job{ID: uuid.New(), JobURL: "https://jobs.example.com/1", Status: models.StatusQueued}
	repo := newFakeJobRepo(job)
	gen := &recordingGenerator{done: make(chan uuid.UUID, 10), repo: repo}
	w := newWorker(repo, gen, 1, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Stop()

	select {
	case id := <-gen.done:
		assert.Equal(t, job.ID, id)
	case <-time.After(2 * time.Second):
		t.Fatal("poller never picked up the queued job")
	}

	require.Eventually(t, func() bool {
		return repo.status(job.ID) == models.StatusCompleted
	}, time.Second, 10*time.Millisecond)
}

func TestWorkerSkipsDuplicateEnqueue(t *testing.T) {
	w := newWorker(newFakeJobRepo(), &recordingGenerator{done: make(chan uuid.UUID, 10)}, 1, time.Hour)
	id := uuid.New()

	w.EnqueueJob(id)
	w.EnqueueJob(id)

	assert.Len(t, w.jobQueue, 1)
}

func TestWorkerStopIsIdempotent(t *testing.T) {
	w := newWorker(newFakeJobRepo(), &recordingGenerator{done: make(chan uuid.UUID, 1)}, 1, time.Hour)
	w.Start(context.Background())

	w.Stop()
	assert.NotPanics(t, w.Stop)

	// enqueue after stop does not block
	done := make(chan struct{})
	go func() {
		w.EnqueueJob(uuid.New())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked after stop")
	}
}
