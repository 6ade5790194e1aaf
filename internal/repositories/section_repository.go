package repositories

import (
	"context"

	"portfolio/internal/models"
)

// SectionRepository defines the interface for section data access.
type SectionRepository interface {
	Create(ctx context.Context, section *models.Section) error
	ListByUser(ctx context.Context, userID uint) ([]models.Section, error)
	GetByID(ctx context.Context, id uint) (*models.Section, error)
	Update(ctx context.Context, section *models.Section) error
	Delete(ctx context.Context, id uint) error
}
