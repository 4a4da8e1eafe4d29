package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/cold-mail-generator/internal/config"
	"alfredoptarigan/cold-mail-generator/internal/handlers"
	"alfredoptarigan/cold-mail-generator/internal/repositories"
	"alfredoptarigan/cold-mail-generator/internal/services"
)

func main() {
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	jobRepo := repositories.NewJobRepository(db)
	portfolioRepo := repositories.NewPortfolioRepository(db)
	log.Println("✅ Repositories initialized successfully")

	storageService := services.NewStorageService(cfg.Storage.UploadPath, cfg.Storage.MaxFileSize)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	scraper := services.NewScraperService(
		cfg.Scraper.Timeout,
		cfg.Scraper.UserAgent,
		cfg.Scraper.MaxRedirects,
		services.NewPDFParserService(),
	)
	extractor := services.NewExtractorService()
	log.Println("✅ Services initialized successfully")

	llmService, err := services.NewLLMService(cfg.LLM, cfg.Worker.RetryInitialDelay)
	if err != nil {
		log.Fatalf("❌ Failed to initialize LLM provider: %v", err)
	}
	log.Printf("✅ LLM provider '%s' initialized successfully\n", cfg.LLM.Provider)

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := vectorStore.InitCollection(ctx); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	portfolioService := services.NewPortfolioService(portfolioRepo, vectorStore, embedder, cfg.Portfolio.Results)
	if _, err := portfolioService.SeedFromCSV(ctx, cfg.Portfolio.CSVPath); err != nil {
		log.Printf("⚠️  Warning: Failed to seed portfolio: %v\n", err)
	}

	generator := services.NewGeneratorService(
		jobRepo,
		scraper,
		extractor,
		portfolioService,
		llmService,
		services.NewPromptBuilder(cfg.Sender),
		cfg.Worker.RetryMaxAttempts,
	)
	log.Println("✅ Generator service initialized")

	worker := services.NewWorker(jobRepo, generator, cfg.Worker.Concurrency)
	worker.Start(ctx)

	processHandler := handlers.NewProcessHandler(generator, jobRepo, cfg.Server.RequestTimeout)
	jobHandler := handlers.NewJobHandler(jobRepo, worker)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService, storageService, cfg.Storage.MaxFileSize)
	pageHandler := handlers.NewPageHandler(processHandler, cfg.Server.RequestTimeout)
	log.Println("✅ Handlers initialized")

	app := fiber.New(fiber.Config{
		AppName:      "Cold Mail Generator API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeout + 30*time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Web form
	app.Get("/", pageHandler.HandleIndex)
	app.Post("/", pageHandler.HandleSubmit)

	app.Post("/process-job", processHandler.HandleProcessJob)

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/jobs", jobHandler.HandleCreateJob)
	api.Get("/jobs", jobHandler.HandleListJobs)
	api.Get("/jobs/:id", jobHandler.HandleGetJob)
	api.Post("/portfolio/upload", portfolioHandler.HandleUpload)
	api.Get("/portfolio", portfolioHandler.HandleList)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		cancel()
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)
	log.Printf("📝 Web form: http://localhost%s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
