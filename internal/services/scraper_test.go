package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePDFParser struct {
	text string
	err  error
}

func (f *fakePDFParser) ExtractText(data []byte) (*PDFContent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &PDFContent{Text: f.text, PageCount: 1}, nil
}

func TestScraperFetchHTML(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body><h1>Go Engineer</h1></body></html>"))
	}))
	defer server.Close()

	scraper := NewScraperService(5*time.Second, "coldmail-test", 3, &fakePDFParser{})
	page, err := scraper.Fetch(context.Background(), server.URL+"/jobs/1")
	require.NoError(t, err)

	assert.Equal(t, "coldmail-test", gotAgent)
	assert.Contains(t, page.HTML, "<h1>Go Engineer</h1>")
	assert.False(t, page.FromPDF)
	assert.Contains(t, page.ContentType, "text/html")
}

func TestScraperFetchPDF(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer server.Close()

	scraper := NewScraperService(5*time.Second, "", 0, &fakePDFParser{text: "Backend role\nGo, Postgres"})
	page, err := scraper.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.True(t, page.FromPDF)
	assert.Equal(t, "Backend role\nGo, Postgres", page.Text)
	assert.Empty(t, page.HTML)
}

func TestScraperFetchStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	scraper := NewScraperService(5*time.Second, "", 0, &fakePDFParser{})
	_, err := scraper.Fetch(context.Background(), server.URL)
	require.Error(t, err)

	var scrapeErr *ScrapeError
	require.True(t, errors.As(err, &scrapeErr))
	assert.Equal(t, ScrapeErrorHTTPStatus, scrapeErr.Type)
	assert.Equal(t, http.StatusNotFound, scrapeErr.StatusCode)
	assert.False(t, scrapeErr.IsRetryable())
	assert.Contains(t, scrapeErr.UserMessage(), "404")
}

func TestScraperFetchEmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("   "))
	}))
	defer server.Close()

	scraper := NewScraperService(5*time.Second, "", 0, &fakePDFParser{})
	_, err := scraper.Fetch(context.Background(), server.URL)

	var scrapeErr *ScrapeError
	require.True(t, errors.As(err, &scrapeErr))
	assert.Equal(t, ScrapeErrorEmptyPage, scrapeErr.Type)
}

func TestScraperFetchCancelled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scraper := NewScraperService(5*time.Second, "", 0, &fakePDFParser{})
	_, err := scraper.Fetch(ctx, server.URL)

	var scrapeErr *ScrapeError
	require.True(t, errors.As(err, &scrapeErr))
	assert.Equal(t, ScrapeErrorCancelled, scrapeErr.Type)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScraperFetchFollowsRedirects(t *testing.T) {
	careers := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body><h1>Platform Engineer</h1></body></html>"))
	}))
	defer careers.Close()

	board := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/old":
			http.Redirect(w, r, "/jobs/1", http.StatusMovedPermanently)
		case "/jobs/1":
			http.Redirect(w, r, careers.URL+"/apply/42", http.StatusFound)
		default:
			http.NotFound(w, r)
		}
	}))
	defer board.Close()

	scraper := NewScraperService(5*time.Second, "", 5, &fakePDFParser{})
	page, err := scraper.Fetch(context.Background(), board.URL+"/old")
	require.NoError(t, err)

	assert.Contains(t, page.HTML, "<h1>Platform Engineer</h1>")
	assert.NotContains(t, page.HTML, "Moved Permanently")
	assert.Equal(t, careers.URL+"/apply/42", page.URL)
}

func TestScraperFetchTooManyRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	}))
	defer server.Close()

	scraper := NewScraperService(5*time.Second, "", 2, &fakePDFParser{})
	page, err := scraper.Fetch(context.Background(), server.URL+"/loop")
	require.Error(t, err)
	assert.Nil(t, page)

	var scrapeErr *ScrapeError
	require.True(t, errors.As(err, &scrapeErr))
	assert.Equal(t, ScrapeErrorNetwork, scrapeErr.Type)
}

func TestValidateJobURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "https", input: "https://jobs.example.com/123", want: "https://jobs.example.com/123"},
		{name: "trimmed", input: "  http://example.com/a  ", want: "http://example.com/a"},
		{name: "empty", input: "   ", wantErr: true},
		{name: "no scheme", input: "example.com/jobs", wantErr: true},
		{name: "ftp", input: "ftp://example.com/jobs", wantErr: true},
		{name: "no host", input: "https:///jobs", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateJobURL(tt.input)
			if tt.wantErr {
				var scrapeErr *ScrapeError
				require.True(t, errors.As(err, &scrapeErr))
				assert.Equal(t, ScrapeErrorInvalidURL, scrapeErr.Type)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScrapeErrorRetryable(t *testing.T) {
	assert.True(t, newTimeoutError(errors.New("slow")).IsRetryable())
	assert.True(t, newNetworkError(errors.New("refused")).IsRetryable())
	assert.True(t, newStatusError(http.StatusServiceUnavailable).IsRetryable())
	assert.True(t, newStatusError(http.StatusTooManyRequests).IsRetryable())
	assert.False(t, newStatusError(http.StatusForbidden).IsRetryable())
	assert.False(t, newInvalidURLError("bad").IsRetryable())
	assert.False(t, newEmptyPageError().IsRetryable())
}
