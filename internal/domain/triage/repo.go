package triage

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *Record) error
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	List(ctx context.Context, limit, offset int) ([]*Record, int, error)
	ListByPriority(ctx context.Context, priority string) ([]*Record, error)
	ListByStatus(ctx context.Context, status string) ([]*Record, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}
