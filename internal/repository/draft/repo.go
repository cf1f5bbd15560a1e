// Package draft persists tender drafts as JSON documents in a db.Store.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/tenderlens/tenderlens/internal/db"
	"github.com/tenderlens/tenderlens/internal/domain"
)

// Repository stores drafts under <prefix>draft:<id>.
type Repository struct {
	store  db.Store
	prefix string
}

// New creates a draft repository.
func New(store db.Store, keyPrefix string) *Repository {
	return &Repository{store: store, prefix: keyPrefix + "draft:"}
}

// Create persists a new draft.
func (r *Repository) Create(ctx context.Context, d domain.Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := r.store.Set(ctx, r.prefix+d.ID, data); err != nil {
		return fmt.Errorf("store draft %s: %w", d.ID, err)
	}
	return nil
}

// Get loads a draft by id.
func (r *Repository) Get(ctx context.Context, id string) (domain.Draft, error) {
	data, err := r.store.Get(ctx, r.prefix+id)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Draft{}, domain.ErrDraftNotFound
		}
		return domain.Draft{}, fmt.Errorf("load draft %s: %w", id, err)
	}

	var d domain.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return domain.Draft{}, fmt.Errorf("unmarshal draft %s: %w", id, err)
	}
	return d, nil
}

// List returns all drafts, newest first.
func (r *Repository) List(ctx context.Context) ([]domain.Draft, error) {
	docs, err := r.store.Scan(ctx, r.prefix)
	if err != nil {
		return nil, fmt.Errorf("scan drafts: %w", err)
	}

	drafts := make([]domain.Draft, 0, len(docs))
	for _, data := range docs {
		var d domain.Draft
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("unmarshal draft: %w", err)
		}
		drafts = append(drafts, d)
	}

	sort.SliceStable(drafts, func(i, j int) bool {
		return drafts[i].CreatedAt.After(drafts[j].CreatedAt)
	})
	return drafts, nil
}
