package models

// JobRequest is the body of POST /process-job.
type JobRequest struct {
	JobURL string `json:"job_url"`
}

// JobDetails is what gets pulled out of a job posting page.
type JobDetails struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Responsibilities string `json:"responsibilities"`
	Skills           string `json:"skills"`
}

// JobResult is the response of POST /process-job. Error is set on failure,
// Email and PortfolioLinks on success.
type JobResult struct {
	Email          string      `json:"email,omitempty"`
	PortfolioLinks string      `json:"portfolio_links,omitempty"`
	JobDetails     *JobDetails `json:"job_details,omitempty"`
	JobID          string      `json:"job_id,omitempty"`
	Error          string      `json:"error,omitempty"`
	Details        string      `json:"details,omitempty"`
}

func (r *JobResult) Failed() bool {
	return r.Error != ""
}

type CreateJobResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type JobStatusResponse struct {
	ID           string     `json:"id"`
	JobURL       string     `json:"job_url"`
	Status       string     `json:"status"`
	Result       *JobResult `json:"result,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
}

type PortfolioUploadResponse struct {
	Filename string `json:"filename"`
	Ingested int    `json:"ingested"`
}
