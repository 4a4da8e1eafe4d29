package services

import "fmt"

type ScrapeErrorType string

const (
	ScrapeErrorInvalidURL ScrapeErrorType = "invalid_url"
	ScrapeErrorTimeout    ScrapeErrorType = "timeout"
	ScrapeErrorNetwork    ScrapeErrorType = "network"
	ScrapeErrorHTTPStatus ScrapeErrorType = "http_status"
	ScrapeErrorEmptyPage  ScrapeErrorType = "empty_page"
	ScrapeErrorCancelled  ScrapeErrorType = "cancelled"
)

// ScrapeError is returned by ScraperService when a job page cannot be loaded.
type ScrapeError struct {
	Type       ScrapeErrorType
	Message    string
	StatusCode int
	Cause      error
}

func (e *ScrapeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether trying the same URL again may succeed.
func (e *ScrapeError) IsRetryable() bool {
	switch e.Type {
	case ScrapeErrorTimeout, ScrapeErrorNetwork:
		return true
	case ScrapeErrorHTTPStatus:
		return e.StatusCode == 429 || e.StatusCode >= 500
	default:
		return false
	}
}

// UserMessage is the text shown to whoever submitted the job URL.
func (e *ScrapeError) UserMessage() string {
	switch e.Type {
	case ScrapeErrorInvalidURL:
		return fmt.Sprintf("Invalid job URL: %s", e.Message)
	case ScrapeErrorTimeout:
		return "Error loading page: the job page took too long to respond."
	case ScrapeErrorNetwork:
		return fmt.Sprintf("Error loading page: %v", e.Cause)
	case ScrapeErrorHTTPStatus:
		return fmt.Sprintf("Error loading page: the job site answered with status %d.", e.StatusCode)
	case ScrapeErrorEmptyPage:
		return "Error loading page: the job page has no readable content."
	case ScrapeErrorCancelled:
		return "Error loading page: the request was cancelled."
	default:
		return e.Message
	}
}

func newInvalidURLError(message string) *ScrapeError {
	return &ScrapeError{Type: ScrapeErrorInvalidURL, Message: message}
}

func newTimeoutError(cause error) *ScrapeError {
	return &ScrapeError{Type: ScrapeErrorTimeout, Message: "request timed out", Cause: cause}
}

func newNetworkError(cause error) *ScrapeError {
	return &ScrapeError{Type: ScrapeErrorNetwork, Message: "network error", Cause: cause}
}

func newStatusError(code int) *ScrapeError {
	return &ScrapeError{Type: ScrapeErrorHTTPStatus, Message: fmt.Sprintf("status %d", code), StatusCode: code}
}

func newEmptyPageError() *ScrapeError {
	return &ScrapeError{Type: ScrapeErrorEmptyPage, Message: "page has no content"}
}

func newCancelledError(cause error) *ScrapeError {
	return &ScrapeError{Type: ScrapeErrorCancelled, Message: "operation cancelled", Cause: cause}
}
