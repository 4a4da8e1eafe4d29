package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type ScraperService interface {
	Fetch(ctx context.Context, pageURL string) (*ScrapedPage, error)
}

// ScrapedPage is a fetched job posting. HTML is set for web pages, Text for
// postings served as PDF.
type ScrapedPage struct {
	URL         string
	HTML        string
	Text        string
	ContentType string
	FromPDF     bool
}

type scraperService struct {
	timeout      time.Duration
	userAgent    string
	maxRedirects int
	pdfParser    PDFParserService
	client       *fasthttp.Client
}

func NewScraperService(timeout time.Duration, userAgent string, maxRedirects int, pdfParser PDFParserService) ScraperService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxRedirects < 0 {
		maxRedirects = 0
	}

	return &scraperService{
		timeout:      timeout,
		userAgent:    userAgent,
		maxRedirects: maxRedirects,
		pdfParser:    pdfParser,
		client: &fasthttp.Client{
			ReadTimeout:              timeout,
			WriteTimeout:             timeout,
			NoDefaultUserAgentHeader: userAgent == "",
		},
	}
}

type fetchOutcome struct {
	code        int
	body        []byte
	contentType string
	finalURL    string
	err         error
}

// Fetch implements ScraperService. Redirects are followed across hosts up to
// maxRedirects hops.
func (s *scraperService) Fetch(ctx context.Context, pageURL string) (*ScrapedPage, error) {
	target, err := ValidateJobURL(pageURL)
	if err != nil {
		return nil, err
	}

	outcome := make(chan fetchOutcome, 1)
	go func() {
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)

		req.SetRequestURI(target)
		req.Header.SetMethod(fiber.MethodGet)
		req.Header.Set(fiber.HeaderAccept, "text/html,application/xhtml+xml,application/pdf;q=0.9,*/*;q=0.8")
		if s.userAgent != "" {
			req.Header.SetUserAgent(s.userAgent)
		}

		err := s.client.DoRedirects(req, resp, s.maxRedirects)
		outcome <- fetchOutcome{
			code:        resp.StatusCode(),
			body:        append([]byte(nil), resp.Body()...),
			contentType: string(resp.Header.ContentType()),
			finalURL:    req.URI().String(),
			err:         err,
		}
	}()

	deadline := time.NewTimer(s.timeout)
	defer deadline.Stop()

	var result fetchOutcome
	select {
	case <-ctx.Done():
		return nil, newCancelledError(ctx.Err())
	case <-deadline.C:
		return nil, newTimeoutError(fasthttp.ErrTimeout)
	case result = <-outcome:
	}

	if result.err != nil {
		return nil, classifyFetchError(result.err)
	}

	if result.code >= fiber.StatusBadRequest {
		return nil, newStatusError(result.code)
	}

	if len(strings.TrimSpace(string(result.body))) == 0 {
		return nil, newEmptyPageError()
	}

	page := &ScrapedPage{
		URL:         result.finalURL,
		ContentType: result.contentType,
	}

	if IsPDF(result.body) || strings.Contains(strings.ToLower(result.contentType), "application/pdf") {
		content, err := s.pdfParser.ExtractText(result.body)
		if err != nil {
			return nil, &ScrapeError{Type: ScrapeErrorEmptyPage, Message: "unreadable PDF posting", Cause: err}
		}
		log.Printf("📄 Job posting is a PDF with %d pages\n", content.PageCount)
		page.Text = content.Text
		page.FromPDF = true
		return page, nil
	}

	page.HTML = string(result.body)
	return page, nil
}

// ValidateJobURL checks that the URL is an absolute http(s) URL.
func ValidateJobURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", newInvalidURLError("URL is empty")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", newInvalidURLError(fmt.Sprintf("cannot parse %q", raw))
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", newInvalidURLError(fmt.Sprintf("unsupported scheme in %q", raw))
	}

	if parsed.Host == "" {
		return "", newInvalidURLError(fmt.Sprintf("missing host in %q", raw))
	}

	return parsed.String(), nil
}

func classifyFetchError(err error) *ScrapeError {
	if errors.Is(err, fasthttp.ErrTimeout) || errors.Is(err, fasthttp.ErrDialTimeout) {
		return newTimeoutError(err)
	}
	return newNetworkError(err)
}
