package handlers

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/cold-mail-generator/internal/models"
	"alfredoptarigan/cold-mail-generator/internal/repositories"
	"alfredoptarigan/cold-mail-generator/internal/services"
)

const jobURLRequired = "Job URL is required"

type ProcessHandler struct {
	generator services.GeneratorService
	jobRepo   repositories.JobRepository
	timeout   time.Duration
}

func NewProcessHandler(
	generator services.GeneratorService,
	jobRepo repositories.JobRepository,
	timeout time.Duration,
) *ProcessHandler {
	return &ProcessHandler{
		generator: generator,
		jobRepo:   jobRepo,
		timeout:   timeout,
	}
}

// HandleProcessJob handles POST /process-job
func (h *ProcessHandler) HandleProcessJob(c *fiber.Ctx) error {
	var req models.JobRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.JobResult{
			Error: "Invalid request payload",
		})
	}

	status, result := h.process(c.UserContext(), req.JobURL)
	return c.Status(status).JSON(result)
}

// ProcessJob lets the handler serve as an in-process controller dispatcher.
// Failures come back as a JobResult with Error set, exactly as over HTTP.
func (h *ProcessHandler) ProcessJob(ctx context.Context, req models.JobRequest) (*models.JobResult, error) {
	_, result := h.process(ctx, req.JobURL)
	return result, nil
}

func (h *ProcessHandler) process(ctx context.Context, jobURL string) (int, *models.JobResult) {
	jobURL = strings.TrimSpace(jobURL)
	if jobURL == "" {
		return fiber.StatusBadRequest, &models.JobResult{Error: jobURLRequired}
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	generated, err := h.generator.Generate(ctx, jobURL)
	if err != nil {
		return errorResult(err)
	}

	result := generated.ToJobResult()
	if id, ok := h.record(jobURL, generated); ok {
		result.JobID = id.String()
	}

	return fiber.StatusOK, result
}

// record stores the finished generation so it shows up in the job list.
// Storage failures only get logged.
func (h *ProcessHandler) record(jobURL string, generated *services.GenerationResult) (uuid.UUID, bool) {
	if h.jobRepo == nil {
		return uuid.Nil, false
	}

	job := &models.Job{
		ID:        uuid.New(),
		JobURL:    jobURL,
		Status:    models.StatusProcessing,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := h.jobRepo.Create(job); err != nil {
		log.Printf("⚠️  Failed to record job for %s: %v\n", jobURL, err)
		return uuid.Nil, false
	}

	if err := h.jobRepo.UpdateResult(job.ID, services.ResultUpdateData(generated)); err != nil {
		log.Printf("⚠️  Failed to store result for job %s: %v\n", job.ID, err)
	}

	return job.ID, true
}

func errorResult(err error) (int, *models.JobResult) {
	var scrapeErr *services.ScrapeError
	switch {
	case errors.Is(err, services.ErrEmptyJobURL):
		return fiber.StatusBadRequest, &models.JobResult{Error: jobURLRequired}
	case errors.As(err, &scrapeErr):
		log.Printf("❌ Failed to load job page: %v\n", err)
		return fiber.StatusInternalServerError, &models.JobResult{Error: scrapeErr.UserMessage()}
	default:
		log.Printf("❌ Failed to generate email: %v\n", err)
		return fiber.StatusInternalServerError, &models.JobResult{
			Error:   "Internal Server Error",
			Details: err.Error(),
		}
	}
}
