package alert

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	alerts Repository
}

func NewService(alerts Repository) *Service { return &Service{alerts: alerts} }

func validType(t string) bool {
	switch t {
	case TypeEmergency, TypeWarning, TypeInfo:
		return true
	}
	return false
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Alert, error) {
	if !validType(req.Type) {
		return nil, fmt.Errorf("unknown alert type %q", req.Type)
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Message) == "" {
		return nil, errors.New("title and message are required")
	}
	a := &Alert{
		UserID:  req.UserID,
		Type:    req.Type,
		Title:   req.Title,
		Message: req.Message,
	}
	if err := s.alerts.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*Alert, error) {
	if unreadOnly {
		return s.alerts.ListUnreadByUser(ctx, userID)
	}
	return s.alerts.ListByUser(ctx, userID)
}

// MarkRead marks one of the caller's alerts as read. Alerts addressed
// to other users are reported as missing, not forbidden.
func (s *Service) MarkRead(ctx context.Context, id, callerID uuid.UUID) error {
	a, err := s.alerts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.UserID != callerID {
		return ErrNotFound
	}
	return s.alerts.MarkRead(ctx, id)
}
