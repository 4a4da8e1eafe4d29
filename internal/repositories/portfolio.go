package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"alfredoptarigan/cold-mail-generator/internal/models"
)

type PortfolioRepository interface {
	Create(item *models.PortfolioItem) error
	CreateBatch(items []models.PortfolioItem) error
	FindAll() ([]models.PortfolioItem, error)
	Count() (int64, error)
}

type portfolioRepository struct {
	db *gorm.DB
}

func NewPortfolioRepository(db *gorm.DB) PortfolioRepository {
	return &portfolioRepository{db: db}
}

// Create implements PortfolioRepository.
func (p *portfolioRepository) Create(item *models.PortfolioItem) error {
	if err := p.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create portfolio item: %w", err)
	}
	return nil
}

// CreateBatch implements PortfolioRepository.
func (p *portfolioRepository) CreateBatch(items []models.PortfolioItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := p.db.CreateInBatches(&items, 100).Error; err != nil {
		return fmt.Errorf("failed to create portfolio items: %w", err)
	}
	return nil
}

// FindAll implements PortfolioRepository.
func (p *portfolioRepository) FindAll() ([]models.PortfolioItem, error) {
	var items []models.PortfolioItem
	if err := p.db.Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to find portfolio items: %w", err)
	}
	return items, nil
}

// Count implements PortfolioRepository.
func (p *portfolioRepository) Count() (int64, error) {
	var count int64
	if err := p.db.Model(&models.PortfolioItem{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count portfolio items: %w", err)
	}
	return count, nil
}
