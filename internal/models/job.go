package models

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job is one cold-email generation run for a job posting URL.
type Job struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobURL         string    `gorm:"type:text;not null" json:"job_url"`
	Status         JobStatus `gorm:"not null;default:'queued';index" json:"status"`
	Title          *string   `gorm:"type:text" json:"title,omitempty"`
	Email          *string   `gorm:"type:text" json:"email,omitempty"`
	PortfolioLinks *string   `gorm:"type:text" json:"portfolio_links,omitempty"`
	JobDetails     *string   `gorm:"type:text" json:"job_details,omitempty"`
	ErrorMessage   *string   `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}
