package handlers

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/cold-mail-generator/internal/models"
	"alfredoptarigan/cold-mail-generator/internal/services"
)

type PortfolioHandler struct {
	portfolio      services.PortfolioService
	storageService services.StorageService
	maxFileSize    int64
}

func NewPortfolioHandler(
	portfolio services.PortfolioService,
	storageService services.StorageService,
	maxFileSize int64,
) *PortfolioHandler {
	return &PortfolioHandler{
		portfolio:      portfolio,
		storageService: storageService,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /api/v1/portfolio/upload
func (h *PortfolioHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file is required",
		})
	}

	if h.maxFileSize > 0 && file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filename, filePath, err := h.storageService.SaveFile(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save portfolio file: %v", err),
		})
	}

	src, err := os.Open(filePath)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read saved portfolio file",
		})
	}
	defer src.Close()

	ingested, err := h.portfolio.Ingest(c.UserContext(), src, file.Filename)
	if err != nil {
		log.Printf("❌ Failed to ingest %s: %v\n", file.Filename, err)
		h.storageService.DeleteFile(filename)

		status := fiber.StatusInternalServerError
		if errors.Is(err, services.ErrInvalidPortfolioCSV) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(models.PortfolioUploadResponse{
		Filename: filename,
		Ingested: ingested,
	})
}

// HandleList handles GET /api/v1/portfolio
func (h *PortfolioHandler) HandleList(c *fiber.Ctx) error {
	items, err := h.portfolio.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list portfolio",
		})
	}

	if items == nil {
		items = []models.PortfolioItem{}
	}

	return c.JSON(fiber.Map{
		"items": items,
		"count": len(items),
	})
}
