// Package draft implements draft creation and retrieval.
package draft

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tenderlens/tenderlens/internal/domain"
)

// Service handles draft CRUD.
type Service struct {
	repo Repository
	now  func() time.Time
}

// New creates a draft service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create validates the input, assigns an id and persists the draft.
func (s *Service) Create(ctx context.Context, title, description, cpvCode string) (domain.Draft, error) {
	d := domain.Draft{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		CPVCode:     cpvCode,
		CreatedAt:   s.now().UTC(),
	}
	if err := d.Validate(); err != nil {
		return domain.Draft{}, err
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return domain.Draft{}, fmt.Errorf("create draft: %w", err)
	}
	return d, nil
}

// Get loads a draft by id.
func (s *Service) Get(ctx context.Context, id string) (domain.Draft, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Draft{}, fmt.Errorf("get draft: %w", err)
	}
	return d, nil
}

// List returns all drafts, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Draft, error) {
	drafts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	return drafts, nil
}
