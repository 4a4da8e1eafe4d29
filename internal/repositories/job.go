package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/cold-mail-generator/internal/models"
)

var ErrJobNotFound = errors.New("job not found")

type JobRepository interface {
	Create(job *models.Job) error
	FindByID(id uuid.UUID) (*models.Job, error)
	UpdateStatus(id uuid.UUID, status models.JobStatus) error
	UpdateResult(id uuid.UUID, result *JobUpdateData) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FindPendingJobs(limit int) ([]models.Job, error)
	ListRecent(limit int) ([]models.Job, error)
}

type JobUpdateData struct {
	Title          *string
	Email          *string
	PortfolioLinks *string
	JobDetails     *string
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(job *models.Job) error {
	if err := r.db.Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (r *jobRepository) FindByID(id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := r.db.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return &job, nil
}

func (r *jobRepository) UpdateStatus(id uuid.UUID, status models.JobStatus) error {
	return r.update(id, map[string]interface{}{
		"status": status,
	})
}

// UpdateResult stores the generated output and marks the job completed.
func (r *jobRepository) UpdateResult(id uuid.UUID, data *JobUpdateData) error {
	updates := map[string]interface{}{
		"status":        models.StatusCompleted,
		"error_message": nil,
	}

	if data.Title != nil {
		updates["title"] = *data.Title
	}
	if data.Email != nil {
		updates["email"] = *data.Email
	}
	if data.PortfolioLinks != nil {
		updates["portfolio_links"] = *data.PortfolioLinks
	}
	if data.JobDetails != nil {
		updates["job_details"] = *data.JobDetails
	}

	return r.update(id, updates)
}

func (r *jobRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	return r.update(id, map[string]interface{}{
		"status":        models.StatusFailed,
		"error_message": errorMsg,
	})
}

func (r *jobRepository) FindPendingJobs(limit int) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}

	return jobs, nil
}

func (r *jobRepository) ListRecent(limit int) ([]models.Job, error) {
	var jobs []models.Job
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

func (r *jobRepository) update(id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result := r.db.Model(&models.Job{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update job: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}

	return nil
}
