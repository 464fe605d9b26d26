package priority

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, t *Tier) error
	GetByID(ctx context.Context, id uuid.UUID) (*Tier, error)
	GetByName(ctx context.Context, name string) (*Tier, error)
	// List returns all tiers in registry (insertion) order.
	List(ctx context.Context) ([]*Tier, error)
}
