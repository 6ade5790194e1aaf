package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio/internal/models"
	"portfolio/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// EventPublisher delivers section change events to interested parties.
type EventPublisher interface {
	PublishSectionEvent(event models.SectionEvent) error
}

// SectionService handles business logic for portfolio sections. Every
// operation takes the acting user explicitly.
type SectionService struct {
	repo      repositories.SectionRepository
	publisher EventPublisher
}

// NewSectionService creates a new SectionService. publisher may be nil.
func NewSectionService(repo repositories.SectionRepository, publisher EventPublisher) *SectionService {
	return &SectionService{
		repo:      repo,
		publisher: publisher,
	}
}

// ListFor returns the owner's sections in insertion order.
func (s *SectionService) ListFor(ctx context.Context, owner *models.User) ([]models.Section, error) {
	return s.repo.ListByUser(ctx, owner.ID)
}

// Create adds a section owned by owner.
func (s *SectionService) Create(ctx context.Context, owner *models.User, title, content string) (*models.Section, error) {
	section := &models.Section{Title: title, Content: content, UserID: owner.ID}
	if err := s.repo.Create(ctx, section); err != nil {
		return nil, err
	}
	s.publish(models.SectionCreated, section)
	return section, nil
}

// GetOwned returns the section if it exists and belongs to owner.
func (s *SectionService) GetOwned(ctx context.Context, id uint, owner *models.User) (*models.Section, error) {
	section, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	if !section.OwnedBy(owner.ID) {
		logrus.WithFields(logrus.Fields{
			"section_id": id,
			"user_id":    owner.ID,
		}).Warn("Rejected access to section owned by another user")
		return nil, ErrForbidden
	}
	return section, nil
}

// Update replaces the title and content of a section owned by owner.
func (s *SectionService) Update(ctx context.Context, id uint, owner *models.User, title, content string) (*models.Section, error) {
	section, err := s.GetOwned(ctx, id, owner)
	if err != nil {
		return nil, err
	}
	section.Title = title
	section.Content = content
	if err := s.repo.Update(ctx, section); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	s.publish(models.SectionUpdated, section)
	return section, nil
}

// Delete removes a section owned by owner.
func (s *SectionService) Delete(ctx context.Context, id uint, owner *models.User) error {
	section, err := s.GetOwned(ctx, id, owner)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSectionNotFound
		}
		return fmt.Errorf("failed to delete section: %w", err)
	}
	s.publish(models.SectionDeleted, section)
	return nil
}

// publish is best-effort: a broker failure never fails the request.
func (s *SectionService) publish(eventType string, section *models.Section) {
	if s.publisher == nil {
		return
	}
	event := models.SectionEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		SectionID:  section.ID,
		UserID:     section.UserID,
		Title:      section.Title,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishSectionEvent(event); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"section_id": section.ID,
			"event":      eventType,
		}).Error("Failed to publish section event")
	}
}
