package controller

import (
	"context"
	"strings"
	"sync"
	"time"

	"alfredoptarigan/cold-mail-generator/internal/models"
)

// ValidationMessage is the notification raised when the job URL field is empty.
const ValidationMessage = "Please enter a job URL."

type Input interface {
	Value() string
}

type Loader interface {
	SetVisible(visible bool)
}

type Output interface {
	SetContent(content Content)
}

type Notifier interface {
	Alert(message string)
}

// Elements are the handles the controller reads from and writes to.
type Elements struct {
	Input    Input
	Loader   Loader
	Output   Output
	Notifier Notifier
}

// Dispatcher sends a job to the generation endpoint.
type Dispatcher interface {
	ProcessJob(ctx context.Context, req models.JobRequest) (*models.JobResult, error)
}

type State int

const (
	StateIdle State = iota
	StateLoading
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	default:
		return "idle"
	}
}

// Controller drives one job URL form: validate, show the loader, dispatch,
// then render the result or the error. Only the most recently issued
// submission may update the elements; earlier ones are cancelled.
type Controller struct {
	elements   Elements
	dispatcher Dispatcher
	timeout    time.Duration

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	state   State
	content Content
}

type Option func(*Controller)

// WithTimeout bounds each dispatched request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Controller) {
		c.timeout = timeout
	}
}

func New(elements Elements, dispatcher Dispatcher, opts ...Option) *Controller {
	c := &Controller{
		elements:   elements,
		dispatcher: dispatcher,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit reads the job URL and dispatches it. It returns immediately; the
// returned channel is closed once the submission has settled. An empty URL
// raises ValidationMessage and leaves everything else untouched. Surrounding
// whitespace is trimmed, so job_url carries the trimmed input, and a
// whitespace-only value counts as empty.
func (c *Controller) Submit(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})

	jobURL := strings.TrimSpace(c.elements.Input.Value())
	if jobURL == "" {
		c.elements.Notifier.Alert(ValidationMessage)
		close(done)
		return done
	}

	var (
		reqCtx context.Context
		cancel context.CancelFunc
	)
	if c.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
	} else {
		reqCtx, cancel = context.WithCancel(ctx)
	}

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	token := c.seq
	c.cancel = cancel
	c.state = StateLoading
	c.elements.Loader.SetVisible(true)
	c.setContent(Content{})
	c.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()

		result, err := c.dispatcher.ProcessJob(reqCtx, models.JobRequest{JobURL: jobURL})
		c.settle(token, result, err)
	}()

	return done
}

func (c *Controller) settle(token uint64, result *models.JobResult, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// superseded by a newer submission
	if token != c.seq {
		return
	}

	c.cancel = nil
	c.state = StateIdle
	c.elements.Loader.SetVisible(false)

	switch {
	case err != nil:
		c.setContent(ErrorContent(err.Error()))
	case result == nil:
		c.setContent(ErrorContent("empty response"))
	case result.Failed():
		c.setContent(ErrorContent(result.Error))
	default:
		c.setContent(ResultContent(result.Email, result.PortfolioLinks))
	}
}

func (c *Controller) setContent(content Content) {
	c.content = content
	c.elements.Output.SetContent(content)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Content returns what the output region currently shows.
func (c *Controller) Content() Content {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.content
}

// Close cancels the in-flight request, if any. Its response will not render.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.seq++
	if c.state == StateLoading {
		c.state = StateIdle
		c.elements.Loader.SetVisible(false)
	}
}
