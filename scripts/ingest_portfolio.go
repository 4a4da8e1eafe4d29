package main

import (
	"context"
	"flag"
	"log"
	"os"

	"alfredoptarigan/cold-mail-generator/internal/config"
	"alfredoptarigan/cold-mail-generator/internal/repositories"
	"alfredoptarigan/cold-mail-generator/internal/services"
)

// Loads a portfolio CSV (Techstack, Links) into Postgres and Qdrant.
//
//	go run ./scripts/ingest_portfolio.go -file ./portfoliosample.csv
func main() {
	cfg := config.Load()

	path := flag.String("file", cfg.Portfolio.CSVPath, "portfolio CSV to ingest")
	skipDB := flag.Bool("skip-db", false, "only write vectors, do not record rows in Postgres")
	flag.Parse()

	log.Println("🚀 Starting portfolio ingestion...")

	embedder, err := services.NewEmbeddingService(cfg.LLM)
	if err != nil {
		log.Fatalf("❌ Failed to initialize embedding provider: %v", err)
	}

	vectorStore, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		embedder.Dimension(),
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	ctx := context.Background()
	if err := vectorStore.InitCollection(ctx); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	var portfolioRepo repositories.PortfolioRepository
	if !*skipDB {
		db, err := config.InitDatabase(cfg)
		if err != nil {
			log.Fatalf("❌ Failed to initialize database: %v", err)
		}
		portfolioRepo = repositories.NewPortfolioRepository(db)
	}

	file, err := os.Open(*path)
	if err != nil {
		log.Fatalf("❌ Failed to open %s: %v", *path, err)
	}
	defer file.Close()

	portfolio := services.NewPortfolioService(portfolioRepo, vectorStore, embedder, cfg.Portfolio.Results)
	count, err := portfolio.Ingest(ctx, file, *path)
	if err != nil {
		log.Fatalf("❌ Ingestion stopped after %d entries: %v", count, err)
	}

	log.Printf("\n✅ Ingestion complete: %d portfolio entries", count)
}
