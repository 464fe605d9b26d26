package alert

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Alert) error
	GetByID(ctx context.Context, id uuid.UUID) (*Alert, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Alert, error)
	ListUnreadByUser(ctx context.Context, userID uuid.UUID) ([]*Alert, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}
