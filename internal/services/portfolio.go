package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	"alfredoptarigan/cold-mail-generator/internal/models"
	"alfredoptarigan/cold-mail-generator/internal/repositories"
)

var ErrInvalidPortfolioCSV = errors.New("portfolio CSV must have Techstack and Links columns")

type PortfolioService interface {
	// SeedFromCSV loads the file at path when the vector store is empty.
	SeedFromCSV(ctx context.Context, path string) (int, error)
	Ingest(ctx context.Context, r io.Reader, source string) (int, error)
	FindRelevantLinks(ctx context.Context, query string) (string, error)
	List() ([]models.PortfolioItem, error)
}

type portfolioService struct {
	repo     repositories.PortfolioRepository
	store    VectorStore
	embedder EmbeddingService
	results  int
}

func NewPortfolioService(
	repo repositories.PortfolioRepository,
	store VectorStore,
	embedder EmbeddingService,
	results int,
) PortfolioService {
	if results <= 0 {
		results = 2
	}
	return &portfolioService{
		repo:     repo,
		store:    store,
		embedder: embedder,
		results:  results,
	}
}

func (p *portfolioService) SeedFromCSV(ctx context.Context, path string) (int, error) {
	count, err := p.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count portfolio vectors: %w", err)
	}
	if count > 0 {
		log.Printf("✅ Portfolio already seeded (%d entries)\n", count)
		return 0, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open portfolio CSV: %w", err)
	}
	defer file.Close()

	log.Printf("🌱 Seeding portfolio from %s\n", path)
	return p.Ingest(ctx, file, path)
}

func (p *portfolioService) Ingest(ctx context.Context, r io.Reader, source string) (int, error) {
	rows, err := ParsePortfolioCSV(r)
	if err != nil {
		return 0, err
	}

	// Every row is embedded before anything is written so a failing
	// embedder leaves both stores untouched.
	embeddings := make([][]float32, 0, len(rows))
	for i := range rows {
		embedding, err := p.embedder.GenerateEmbedding(ctx, rows[i].TechStack)
		if err != nil {
			return 0, fmt.Errorf("failed to embed %q: %w", rows[i].TechStack, err)
		}
		rows[i].ID = uuid.NewString()
		embeddings = append(embeddings, embedding)
	}

	if err := p.store.UpsertPortfolio(ctx, rows, embeddings); err != nil {
		return 0, fmt.Errorf("failed to store portfolio vectors: %w", err)
	}

	items := make([]models.PortfolioItem, 0, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		items = append(items, models.PortfolioItem{
			ID:        uuid.MustParse(row.ID),
			TechStack: row.TechStack,
			Links:     row.Links,
			Source:    source,
		})
		ids = append(ids, row.ID)
	}

	if p.repo != nil {
		if err := p.repo.CreateBatch(items); err != nil {
			if delErr := p.store.DeletePortfolio(ctx, ids); delErr != nil {
				log.Printf("⚠️ Failed to roll back %d portfolio vectors: %v\n", len(ids), delErr)
			}
			return 0, fmt.Errorf("failed to save portfolio items: %w", err)
		}
	}

	log.Printf("✅ Ingested %d portfolio entries from %s\n", len(items), source)
	return len(items), nil
}

func (p *portfolioService) FindRelevantLinks(ctx context.Context, query string) (string, error) {
	embedding, err := p.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to generate query embedding: %w", err)
	}

	matches, err := p.store.SearchSimilar(ctx, embedding, p.results)
	if err != nil {
		return "", fmt.Errorf("failed to search portfolio: %w", err)
	}

	return FormatPortfolioLinks(matches), nil
}

func (p *portfolioService) List() ([]models.PortfolioItem, error) {
	if p.repo == nil {
		return nil, nil
	}
	return p.repo.FindAll()
}

// ParsePortfolioCSV reads rows keyed by the Techstack and Links header
// columns. Rows without a tech stack are skipped.
func ParsePortfolioCSV(r io.Reader) ([]PortfolioEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrInvalidPortfolioCSV
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	stackCol, linksCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "techstack":
			stackCol = i
		case "links":
			linksCol = i
		}
	}
	if stackCol < 0 || linksCol < 0 {
		return nil, ErrInvalidPortfolioCSV
	}

	var entries []PortfolioEntry
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		if stackCol >= len(record) {
			continue
		}
		stack := strings.TrimSpace(record[stackCol])
		if stack == "" {
			continue
		}

		var links string
		if linksCol < len(record) {
			links = strings.TrimSpace(record[linksCol])
		}

		entries = append(entries, PortfolioEntry{TechStack: stack, Links: links})
	}

	return entries, nil
}
