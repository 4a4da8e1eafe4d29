package web

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/cold-mail-generator/internal/controller"
	"alfredoptarigan/cold-mail-generator/internal/models"
)

type stubDispatcher struct {
	result *models.JobResult
	err    error
	calls  int
}

func (s *stubDispatcher) ProcessJob(ctx context.Context, req models.JobRequest) (*models.JobResult, error) {
	s.calls++
	return s.result, s.err
}

func submit(t *testing.T, page *Page, dispatcher controller.Dispatcher) {
	t.Helper()
	ctrl := controller.New(page.Elements(), dispatcher)
	<-ctrl.Submit(context.Background())
}

func TestPageRendersResult(t *testing.T) {
	page := NewPage("https://company.com/careers/job/123")
	submit(t, page, &stubDispatcher{result: &models.JobResult{
		Email:          "Dear Hiring Manager, ...",
		PortfolioLinks: "* React, Node.js (https://example.com/react-portfolio)",
	}})

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))
	html := buf.String()

	assert.Contains(t, html, "<h3>Generated Email:</h3>")
	assert.Contains(t, html, "<pre>Dear Hiring Manager, ...</pre>")
	assert.Contains(t, html, "<h3>Portfolio Links:</h3>")
	assert.Contains(t, html, "* React, Node.js (https://example.com/react-portfolio)")
	assert.Contains(t, html, `value="https://company.com/careers/job/123"`)
	assert.Contains(t, html, `id="loader" class="hidden"`)
}

func TestPageRendersError(t *testing.T) {
	page := NewPage("https://company.com/careers/job/123")
	submit(t, page, &stubDispatcher{result: &models.JobResult{Error: "Error loading page"}})

	view := page.View()
	assert.True(t, view.HasError)
	assert.False(t, view.HasResult)
	assert.Equal(t, "Error: Error loading page", view.ErrorMessage)
	assert.False(t, view.Loading)
}

func TestPageEscapesServerText(t *testing.T) {
	page := NewPage("https://x.test/?a=<b>")
	submit(t, page, &stubDispatcher{result: &models.JobResult{
		Email:          `<script>alert("x")</script>`,
		PortfolioLinks: "<img src=x onerror=alert(1)>",
	}})

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))
	html := buf.String()

	assert.NotContains(t, html, `<script>alert("x")</script>`)
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "<img src=x")
	assert.NotContains(t, html, "?a=<b>")
}

func TestPageValidationAlert(t *testing.T) {
	page := NewPage("   ")
	dispatcher := &stubDispatcher{}
	submit(t, page, dispatcher)

	view := page.View()
	assert.Equal(t, controller.ValidationMessage, view.Alert)
	assert.False(t, view.HasError)
	assert.False(t, view.HasResult)
	assert.Equal(t, 0, dispatcher.calls)

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))
	assert.Contains(t, buf.String(), controller.ValidationMessage)
}

func TestPageEmptyRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPage("").Render(&buf))

	html := buf.String()
	assert.Contains(t, html, `id="jobUrl"`)
	assert.Contains(t, html, `id="submitBtn"`)
	assert.NotContains(t, html, "Generated Email:")
}
