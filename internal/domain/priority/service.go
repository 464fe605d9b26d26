package priority

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	tiers Repository
}

func NewService(tiers Repository) *Service {
	return &Service{tiers: tiers}
}

func (s *Service) List(ctx context.Context) ([]*Tier, error) {
	return s.tiers.List(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Tier, error) {
	return s.tiers.GetByID(ctx, id)
}

func (s *Service) GetByName(ctx context.Context, name string) (*Tier, error) {
	return s.tiers.GetByName(ctx, name)
}

func (s *Service) Create(ctx context.Context, t *Tier) error {
	if t.Name == "" {
		return fmt.Errorf("name is required")
	}
	if t.Description == "" {
		return fmt.Errorf("description is required")
	}
	return s.tiers.Create(ctx, t)
}

// Classify maps a free-text condition to a priority tier id. Tiers are
// scanned in registry order and a tier's keywords in list order; the first
// case-insensitive substring match wins. Matching is unanchored: the keyword
// "pain" matches "spain". When nothing matches the fallback tier's id is
// returned; when the fallback tier itself is missing the condition stays
// unclassified and the result is nil, nil.
func (s *Service) Classify(ctx context.Context, condition string) (*uuid.UUID, error) {
	lowered := strings.ToLower(condition)

	tiers, err := s.tiers.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tiers {
		for _, kw := range t.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(lowered, strings.ToLower(kw)) {
				id := t.ID
				return &id, nil
			}
		}
	}

	fallback, err := s.tiers.GetByName(ctx, FallbackTierName)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	id := fallback.ID
	return &id, nil
}

// defaultTiers mirrors the stock triage configuration. Order matters: it is
// the registry insertion order the classifier scans in.
var defaultTiers = []Tier{
	{
		Name:        "high",
		Description: "Critical conditions requiring immediate attention",
		Keywords: []string{
			"cancer", "tumor", "heart attack", "stroke", "emergency",
			"chest pain", "difficulty breathing", "unconscious", "bleeding",
		},
	},
	{
		Name:        "medium",
		Description: "Serious conditions requiring prompt attention",
		Keywords: []string{
			"injury", "fracture", "severe pain", "infection", "pneumonia",
			"asthma", "diabetes complication", "high blood pressure",
		},
	},
	{
		Name:        "low",
		Description: "General health concerns and routine checkups",
		Keywords: []string{
			"fever", "cold", "flu", "checkup", "routine", "consultation",
			"headache", "minor pain", "skin issue", "allergy",
		},
	},
}

// SeedDefaults ensures the three stock tiers exist. Idempotent by name: a
// tier whose name is already registered is left untouched, keywords
// included, even if the stock list has since changed.
func (s *Service) SeedDefaults(ctx context.Context) error {
	for _, def := range defaultTiers {
		_, err := s.tiers.GetByName(ctx, def.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}

		t := def
		if err := s.tiers.Create(ctx, &t); err != nil {
			// A concurrent seeder may have won the insert.
			if errors.Is(err, ErrConflict) {
				continue
			}
			return fmt.Errorf("seed tier %s: %w", def.Name, err)
		}
	}
	return nil
}
