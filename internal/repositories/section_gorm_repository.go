package repositories

import (
	"context"
	"errors"
	"fmt"

	"portfolio/internal/models"

	"gorm.io/gorm"
)

// GORMSectionRepository is a GORM implementation of SectionRepository.
type GORMSectionRepository struct {
	db *gorm.DB
}

// NewGORMSectionRepository creates a new instance of GORMSectionRepository.
func NewGORMSectionRepository(db *gorm.DB) *GORMSectionRepository {
	return &GORMSectionRepository{
		db: db,
	}
}

// Create inserts a new section.
func (r *GORMSectionRepository) Create(ctx context.Context, section *models.Section) error {
	if err := r.db.WithContext(ctx).Create(section).Error; err != nil {
		return fmt.Errorf("failed to create section: %w", err)
	}
	return nil
}

// ListByUser returns the user's sections in insertion order.
func (r *GORMSectionRepository) ListByUser(ctx context.Context, userID uint) ([]models.Section, error) {
	sections := make([]models.Section, 0)
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&sections).Error; err != nil {
		return nil, fmt.Errorf("failed to list sections for user %d: %w", userID, err)
	}
	return sections, nil
}

// GetByID retrieves a single section by its ID.
func (r *GORMSectionRepository) GetByID(ctx context.Context, id uint) (*models.Section, error) {
	var section models.Section
	if err := r.db.WithContext(ctx).First(&section, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get section by ID %d: %w", id, err)
	}
	return &section, nil
}

// Update writes the section's title and content. Ownership is never changed.
func (r *GORMSectionRepository) Update(ctx context.Context, section *models.Section) error {
	res := r.db.WithContext(ctx).Model(&models.Section{}).
		Where("id = ?", section.ID).
		Updates(map[string]any{"title": section.Title, "content": section.Content})
	if res.Error != nil {
		return fmt.Errorf("failed to update section %d: %w", section.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a section by its ID.
func (r *GORMSectionRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Section{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete section %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
