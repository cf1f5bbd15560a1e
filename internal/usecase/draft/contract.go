package draft

import (
	"context"

	"github.com/tenderlens/tenderlens/internal/domain"
)

// Repository defines the storage contract for drafts.
type Repository interface {
	Create(ctx context.Context, d domain.Draft) error
	Get(ctx context.Context, id string) (domain.Draft, error)
	List(ctx context.Context) ([]domain.Draft, error)
}
