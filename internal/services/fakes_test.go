package services

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/cold-mail-generator/internal/models"
	"alfredoptarigan/cold-mail-generator/internal/repositories"
)

type fakeEmbedder struct {
	mu      sync.Mutex
	queries []string
	err     error
	// failOn makes the n-th call (1-based) return err.
	failOn int
}

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, text)
	if f.err != nil && (f.failOn == 0 || f.failOn == len(f.queries)) {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fakeEmbedder) Dimension() uint64 { return 3 }

type fakeVectorStore struct {
	entries    []PortfolioEntry
	matches    []PortfolioMatch
	lastLimit  int
	searchErr  error
	upsertErr  error
	upserts    int
	countValue uint64
}

func (f *fakeVectorStore) InitCollection(ctx context.Context) error { return nil }

func (f *fakeVectorStore) UpsertPortfolio(ctx context.Context, entries []PortfolioEntry, embeddings [][]float32) error {
	f.upserts++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.entries = append(f.entries, entries...)
	return nil
}

func (f *fakeVectorStore) DeletePortfolio(ctx context.Context, ids []string) error {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := f.entries[:0]
	for _, entry := range f.entries {
		if !drop[entry.ID] {
			kept = append(kept, entry)
		}
	}
	f.entries = kept
	return nil
}

func (f *fakeVectorStore) SearchSimilar(ctx context.Context, queryEmbedding []float32, limit int) ([]PortfolioMatch, error) {
	f.lastLimit = limit
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.matches, nil
}

func (f *fakeVectorStore) Count(ctx context.Context) (uint64, error) {
	return f.countValue + uint64(len(f.entries)), nil
}

type fakePortfolioRepo struct {
	items    []models.PortfolioItem
	batchErr error
}

func (f *fakePortfolioRepo) Create(item *models.PortfolioItem) error {
	f.items = append(f.items, *item)
	return nil
}

func (f *fakePortfolioRepo) CreateBatch(items []models.PortfolioItem) error {
	if f.batchErr != nil {
		return f.batchErr
	}
	f.items = append(f.items, items...)
	return nil
}

func (f *fakePortfolioRepo) FindAll() ([]models.PortfolioItem, error) { return f.items, nil }

func (f *fakePortfolioRepo) Count() (int64, error) { return int64(len(f.items)), nil }

type fakeLLM struct {
	mu        sync.Mutex
	responses []string
	err       error
	prompts   []string
}

func (f *fakeLLM) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func (f *fakeLLM) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	return f.GenerateText(ctx, prompt, temperature)
}

type fakeScraper struct {
	page *ScrapedPage
	err  error
}

func (f *fakeScraper) Fetch(ctx context.Context, pageURL string) (*ScrapedPage, error) {
	if f.err != nil {
		return nil, f.err
	}
	page := *f.page
	page.URL = pageURL
	return &page, nil
}

type fakePortfolioService struct {
	links   string
	err     error
	queries []string
}

func (f *fakePortfolioService) SeedFromCSV(ctx context.Context, path string) (int, error) {
	return 0, nil
}

func (f *fakePortfolioService) Ingest(ctx context.Context, r io.Reader, source string) (int, error) {
	return 0, nil
}

func (f *fakePortfolioService) FindRelevantLinks(ctx context.Context, query string) (string, error) {
	f.queries = append(f.queries, query)
	return f.links, f.err
}

func (f *fakePortfolioService) List() ([]models.PortfolioItem, error) { return nil, nil }

type fakeJobRepo struct {
	mu       sync.Mutex
	jobs     map[uuid.UUID]*models.Job
	statuses []models.JobStatus
}

func newFakeJobRepo(jobs ...models.Job) *fakeJobRepo {
	repo := &fakeJobRepo{jobs: make(map[uuid.UUID]*models.Job)}
	for i := range jobs {
		job := jobs[i]
		repo.jobs[job.ID] = &job
	}
	return repo
}

func (f *fakeJobRepo) Create(job *models.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	copied := *job
	f.jobs[job.ID] = &copied
	return nil
}

func (f *fakeJobRepo) FindByID(id uuid.UUID) (*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return nil, repositories.ErrJobNotFound
	}
	copied := *job
	return &copied, nil
}

func (f *fakeJobRepo) UpdateStatus(id uuid.UUID, status models.JobStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return repositories.ErrJobNotFound
	}
	job.Status = status
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *fakeJobRepo) UpdateResult(id uuid.UUID, data *repositories.JobUpdateData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return repositories.ErrJobNotFound
	}
	job.Status = models.StatusCompleted
	job.Title = data.Title
	job.Email = data.Email
	job.PortfolioLinks = data.PortfolioLinks
	job.JobDetails = data.JobDetails
	f.statuses = append(f.statuses, models.StatusCompleted)
	return nil
}

func (f *fakeJobRepo) UpdateError(id uuid.UUID, errorMsg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return repositories.ErrJobNotFound
	}
	job.Status = models.StatusFailed
	job.ErrorMessage = &errorMsg
	f.statuses = append(f.statuses, models.StatusFailed)
	return nil
}

func (f *fakeJobRepo) FindPendingJobs(limit int) ([]models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var pending []models.Job
	for _, job := range f.jobs {
		if job.Status == models.StatusQueued && len(pending) < limit {
			pending = append(pending, *job)
		}
	}
	return pending, nil
}

func (f *fakeJobRepo) ListRecent(limit int) ([]models.Job, error) {
	return f.FindPendingJobs(limit)
}

func (f *fakeJobRepo) status(id uuid.UUID) models.JobStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.jobs[id].Status
}

var errBoom = errors.New("boom")
