package models

import (
	"time"

	"github.com/google/uuid"
)

// PortfolioItem is one row of the portfolio sample: a tech stack and the
// links that showcase work done with it.
type PortfolioItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TechStack string    `gorm:"type:text;not null" json:"tech_stack"`
	Links     string    `gorm:"type:text" json:"links"`
	Source    string    `gorm:"type:text" json:"source"`
	CreatedAt time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (p *PortfolioItem) TableName() string {
	return "portfolio_items"
}
