package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"alfredoptarigan/cold-mail-generator/internal/models"
	"alfredoptarigan/cold-mail-generator/internal/repositories"
)

var ErrEmptyJobURL = errors.New("job URL is required")

const (
	noEmailGenerated     = "No email generated."
	extractionTextBudget = 12000
	emailTemperature     = 0.0
	extractTemperature   = 0.0
)

type GeneratorService interface {
	Generate(ctx context.Context, jobURL string) (*GenerationResult, error)
	ProcessJob(ctx context.Context, jobID uuid.UUID) error
}

type GenerationResult struct {
	Email          string
	PortfolioLinks string
	JobDetails     models.JobDetails
}

func (r *GenerationResult) ToJobResult() *models.JobResult {
	details := r.JobDetails
	return &models.JobResult{
		Email:          r.Email,
		PortfolioLinks: r.PortfolioLinks,
		JobDetails:     &details,
	}
}

type generatorService struct {
	jobRepo       repositories.JobRepository
	scraper       ScraperService
	extractor     ExtractorService
	chunker       TextChunker
	portfolio     PortfolioService
	llm           LLMService
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewGeneratorService(
	jobRepo repositories.JobRepository,
	scraper ScraperService,
	extractor ExtractorService,
	portfolio PortfolioService,
	llm LLMService,
	promptBuilder *PromptBuilder,
	maxRetries int,
) GeneratorService {
	return &generatorService{
		jobRepo:       jobRepo,
		scraper:       scraper,
		extractor:     extractor,
		chunker:       NewTextChunker(),
		portfolio:     portfolio,
		llm:           llm,
		promptBuilder: promptBuilder,
		maxRetries:    maxRetries,
	}
}

// Generate scrapes the posting, finds matching portfolio links and asks the
// LLM for the email.
func (g *generatorService) Generate(ctx context.Context, jobURL string) (*GenerationResult, error) {
	jobURL = strings.TrimSpace(jobURL)
	if jobURL == "" {
		return nil, ErrEmptyJobURL
	}

	log.Printf("🌐 Scraping job page: %s\n", jobURL)
	page, err := g.scraper.Fetch(ctx, jobURL)
	if err != nil {
		return nil, err
	}

	extracted, err := g.extract(page)
	if err != nil {
		return nil, fmt.Errorf("failed to extract job details: %w", err)
	}

	details := extracted.Details
	if extracted.Sparse() && strings.TrimSpace(extracted.BodyText) != "" {
		log.Println("🤖 Job markup has no skills or responsibilities, asking the LLM...")
		if err := g.fillFromLLM(ctx, &details, extracted.BodyText); err != nil {
			log.Printf("⚠️  Warning: LLM extraction failed: %v\n", err)
		}
	}

	log.Println("🔍 Looking up relevant portfolio links...")
	links, err := g.portfolio.FindRelevantLinks(ctx, g.promptBuilder.BuildRetrievalQuery(details))
	if err != nil {
		log.Printf("⚠️  Warning: Failed to retrieve portfolio links: %v\n", err)
		links = ""
	}

	prompt, err := g.promptBuilder.BuildColdEmailPrompt(details, links)
	if err != nil {
		return nil, err
	}

	log.Printf("📝 Cold email prompt length: %d characters", len(prompt))
	response, err := g.llm.GenerateTextWithRetry(ctx, prompt, emailTemperature, g.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate email: %w", err)
	}

	email := strings.TrimSpace(response)
	if email == "" {
		log.Println("⚠️ Empty response received from LLM")
		email = noEmailGenerated
	}

	return &GenerationResult{
		Email:          email,
		PortfolioLinks: links,
		JobDetails:     details,
	}, nil
}

// ProcessJob runs Generate for a stored job and records the outcome.
func (g *generatorService) ProcessJob(ctx context.Context, jobID uuid.UUID) error {
	if err := g.jobRepo.UpdateStatus(jobID, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	log.Printf("🔄 Starting generation for job ID: %s\n", jobID)

	job, err := g.jobRepo.FindByID(jobID)
	if err != nil {
		g.jobRepo.UpdateError(jobID, err.Error())
		return fmt.Errorf("failed to get job: %w", err)
	}

	result, err := g.Generate(ctx, job.JobURL)
	if err != nil {
		g.jobRepo.UpdateError(jobID, ErrorMessage(err))
		return fmt.Errorf("failed to generate email: %w", err)
	}

	if err := g.jobRepo.UpdateResult(jobID, ResultUpdateData(result)); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	log.Printf("✅ Generation completed successfully for job ID: %s\n", jobID)
	return nil
}

func (g *generatorService) extract(page *ScrapedPage) (*ExtractedJob, error) {
	if page.FromPDF {
		return &ExtractedJob{
			Details:  models.JobDetails{Title: unknownJobTitle},
			BodyText: page.Text,
		}, nil
	}
	return g.extractor.Extract(page.HTML)
}

type llmJobDetails struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Responsibilities []string `json:"responsibilities"`
	Skills           []string `json:"skills"`
}

func (g *generatorService) fillFromLLM(ctx context.Context, details *models.JobDetails, bodyText string) error {
	prompt, err := g.promptBuilder.BuildJobExtractionPrompt(g.chunker.Budget(bodyText, extractionTextBudget))
	if err != nil {
		return err
	}

	response, err := g.llm.GenerateTextWithRetry(ctx, prompt, extractTemperature, g.maxRetries)
	if err != nil {
		return fmt.Errorf("failed to generate job extraction: %w", err)
	}

	var parsed llmJobDetails
	if err := parseJSONResponse(response, &parsed); err != nil {
		return err
	}

	if details.Title == "" || details.Title == unknownJobTitle {
		if title := strings.TrimSpace(parsed.Title); title != "" {
			details.Title = title
		}
	}
	if details.Description == "" {
		details.Description = strings.TrimSpace(parsed.Description)
	}
	if details.Responsibilities == "" {
		details.Responsibilities = joinNonEmpty(parsed.Responsibilities)
	}
	if details.Skills == "" {
		details.Skills = joinNonEmpty(parsed.Skills)
	}

	return nil
}

// ErrorMessage is the text stored or returned for a failed generation.
func ErrorMessage(err error) string {
	var scrapeErr *ScrapeError
	if errors.As(err, &scrapeErr) {
		return scrapeErr.UserMessage()
	}
	return err.Error()
}

// ResultUpdateData converts a generation result into repository columns.
func ResultUpdateData(result *GenerationResult) *repositories.JobUpdateData {
	title := result.JobDetails.Title
	email := result.Email
	links := result.PortfolioLinks

	data := &repositories.JobUpdateData{
		Title:          &title,
		Email:          &email,
		PortfolioLinks: &links,
	}

	if encoded, err := json.Marshal(result.JobDetails); err == nil {
		details := string(encoded)
		data.JobDetails = &details
	}

	return data
}

// DecodeJobDetails reverses the JSON stored by ResultUpdateData.
func DecodeJobDetails(raw *string) *models.JobDetails {
	if raw == nil || *raw == "" {
		return nil
	}
	var details models.JobDetails
	if err := json.Unmarshal([]byte(*raw), &details); err != nil {
		return nil
	}
	return &details
}

func joinNonEmpty(items []string) string {
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			kept = append(kept, item)
		}
	}
	return strings.Join(kept, ", ")
}

func parseJSONResponse(response string, target interface{}) error {
	jsonStr := extractJSON(response)

	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w\nResponse: %s", err, response)
	}

	return nil
}

// extractJSON pulls the outermost JSON object or array out of text that may
// be wrapped in markdown fences.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	} else if startArr != -1 && endArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}
