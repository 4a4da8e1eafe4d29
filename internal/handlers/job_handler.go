package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/cold-mail-generator/internal/models"
	"alfredoptarigan/cold-mail-generator/internal/repositories"
	"alfredoptarigan/cold-mail-generator/internal/services"
)

const (
	defaultJobListLimit = 20
	maxJobListLimit     = 100
)

type JobHandler struct {
	jobRepo repositories.JobRepository
	worker  services.Worker
}

func NewJobHandler(jobRepo repositories.JobRepository, worker services.Worker) *JobHandler {
	return &JobHandler{
		jobRepo: jobRepo,
		worker:  worker,
	}
}

// HandleCreateJob handles POST /api/v1/jobs
func (h *JobHandler) HandleCreateJob(c *fiber.Ctx) error {
	var req models.JobRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	jobURL := strings.TrimSpace(req.JobURL)
	if jobURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": jobURLRequired,
		})
	}

	if _, err := services.ValidateJobURL(jobURL); err != nil {
		var scrapeErr *services.ScrapeError
		if errors.As(err, &scrapeErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": scrapeErr.UserMessage(),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	job := &models.Job{
		ID:        uuid.New(),
		JobURL:    jobURL,
		Status:    models.StatusQueued,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.jobRepo.Create(job); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create job",
		})
	}

	h.worker.EnqueueJob(job.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.CreateJobResponse{
		ID:     job.ID.String(),
		Status: string(models.StatusQueued),
	})
}

// HandleGetJob handles GET /api/v1/jobs/:id
func (h *JobHandler) HandleGetJob(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID format",
		})
	}

	job, err := h.jobRepo.FindByID(jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Job not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load job",
		})
	}

	return c.JSON(jobStatusResponse(job))
}

// HandleListJobs handles GET /api/v1/jobs
func (h *JobHandler) HandleListJobs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultJobListLimit)
	if limit <= 0 {
		limit = defaultJobListLimit
	}
	if limit > maxJobListLimit {
		limit = maxJobListLimit
	}

	jobs, err := h.jobRepo.ListRecent(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list jobs",
		})
	}

	responses := make([]models.JobStatusResponse, 0, len(jobs))
	for i := range jobs {
		responses = append(responses, jobStatusResponse(&jobs[i]))
	}

	return c.JSON(fiber.Map{
		"jobs":  responses,
		"count": len(responses),
	})
}

func jobStatusResponse(job *models.Job) models.JobStatusResponse {
	response := models.JobStatusResponse{
		ID:     job.ID.String(),
		JobURL: job.JobURL,
		Status: string(job.Status),
	}

	if job.Status == models.StatusCompleted {
		response.Result = &models.JobResult{
			Email:          deref(job.Email),
			PortfolioLinks: deref(job.PortfolioLinks),
			JobDetails:     services.DecodeJobDetails(job.JobDetails),
			JobID:          job.ID.String(),
		}
	}

	if job.Status == models.StatusFailed && job.ErrorMessage != nil && *job.ErrorMessage != "" {
		response.ErrorMessage = job.ErrorMessage
	}

	return response
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
