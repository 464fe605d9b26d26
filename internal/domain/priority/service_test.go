package priority

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

// mockTierRepo preserves insertion order, like the seq column does.
type mockTierRepo struct {
	tiers []*Tier
}

func newMockTierRepo() *mockTierRepo {
	return &mockTierRepo{}
}

func (m *mockTierRepo) Create(_ context.Context, t *Tier) error {
	for _, existing := range m.tiers {
		if existing.Name == t.Name {
			return ErrConflict
		}
	}
	t.ID = uuid.New()
	t.Seq = len(m.tiers) + 1
	t.CreatedAt = time.Now()
	m.tiers = append(m.tiers, t)
	return nil
}

func (m *mockTierRepo) GetByID(_ context.Context, id uuid.UUID) (*Tier, error) {
	for _, t := range m.tiers {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockTierRepo) GetByName(_ context.Context, name string) (*Tier, error) {
	for _, t := range m.tiers {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockTierRepo) List(_ context.Context) ([]*Tier, error) {
	return m.tiers, nil
}

func newSeededService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(newMockTierRepo())
	if err := svc.SeedDefaults(context.Background()); err != nil {
		t.Fatalf("seed defaults: %v", err)
	}
	return svc
}

func classifyName(t *testing.T, svc *Service, condition string) string {
	t.Helper()
	id, err := svc.Classify(context.Background(), condition)
	if err != nil {
		t.Fatalf("classify %q: %v", condition, err)
	}
	if id == nil {
		return ""
	}
	tier, err := svc.Get(context.Background(), *id)
	if err != nil {
		t.Fatalf("resolve tier %s: %v", id, err)
	}
	return tier.Name
}

func TestClassify_DefaultTiers(t *testing.T) {
	svc := newSeededService(t)

	cases := []struct {
		condition string
		want      string
	}{
		{"headache", "low"},
		{"chest pain", "high"},
		{"asthma", "medium"},
		{"xyzxyz", "low"}, // no keyword match falls back
		{"CHEST PAIN and dizziness", "high"},
		{"suspected Fracture of the wrist", "medium"},
	}
	for _, tc := range cases {
		if got := classifyName(t, svc, tc.condition); got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.condition, got, tc.want)
		}
	}
}

func TestClassify_SubstringIsUnanchored(t *testing.T) {
	repo := newMockTierRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if err := svc.Create(ctx, &Tier{Name: "urgent", Description: "urgent", Keywords: []string{"pain"}}); err != nil {
		t.Fatalf("create tier: %v", err)
	}
	if err := svc.Create(ctx, &Tier{Name: "low", Description: "fallback", Keywords: nil}); err != nil {
		t.Fatalf("create fallback: %v", err)
	}

	// "pain" matches inside "spain"; matching is deliberately not
	// word-boundary aware.
	if got := classifyName(t, svc, "trip to spain"); got != "urgent" {
		t.Errorf("Classify(\"trip to spain\") = %q, want \"urgent\"", got)
	}
}

func TestClassify_RegistryOrderTieBreak(t *testing.T) {
	repo := newMockTierRepo()
	svc := NewService(repo)
	ctx := context.Background()

	// Both tiers match "dizzy"; the earlier-registered tier must win even
	// though the later one would be more severe.
	if err := svc.Create(ctx, &Tier{Name: "low", Description: "low", Keywords: []string{"dizzy"}}); err != nil {
		t.Fatalf("create low: %v", err)
	}
	if err := svc.Create(ctx, &Tier{Name: "high", Description: "high", Keywords: []string{"dizzy"}}); err != nil {
		t.Fatalf("create high: %v", err)
	}

	if got := classifyName(t, svc, "feeling dizzy"); got != "low" {
		t.Errorf("Classify(\"feeling dizzy\") = %q, want first-registered \"low\"", got)
	}
}

func TestClassify_NoFallbackTier(t *testing.T) {
	repo := newMockTierRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if err := svc.Create(ctx, &Tier{Name: "high", Description: "high", Keywords: []string{"stroke"}}); err != nil {
		t.Fatalf("create tier: %v", err)
	}

	id, err := svc.Classify(ctx, "mild rash")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if id != nil {
		t.Errorf("expected unclassified (nil id) without a %q tier, got %s", FallbackTierName, id)
	}
}

func TestClassify_EmptyRegistry(t *testing.T) {
	svc := NewService(newMockTierRepo())

	id, err := svc.Classify(context.Background(), "anything")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if id != nil {
		t.Errorf("expected nil id with empty registry, got %s", id)
	}
}

func TestSeedDefaults_Idempotent(t *testing.T) {
	repo := newMockTierRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if err := svc.SeedDefaults(ctx); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := svc.SeedDefaults(ctx); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	tiers, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tiers) != 3 {
		t.Fatalf("expected 3 tiers after re-seed, got %d", len(tiers))
	}
}

func TestSeedDefaults_PreservesExistingKeywords(t *testing.T) {
	repo := newMockTierRepo()
	svc := NewService(repo)
	ctx := context.Background()

	custom := &Tier{Name: "high", Description: "site-specific", Keywords: []string{"sepsis"}}
	if err := svc.Create(ctx, custom); err != nil {
		t.Fatalf("create custom high tier: %v", err)
	}

	if err := svc.SeedDefaults(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := svc.GetByName(ctx, "high")
	if err != nil {
		t.Fatalf("get high: %v", err)
	}
	if len(got.Keywords) != 1 || got.Keywords[0] != "sepsis" {
		t.Errorf("seed overwrote existing keywords: %v", got.Keywords)
	}
}

func TestSeedDefaults_Order(t *testing.T) {
	svc := newSeededService(t)

	tiers, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"high", "medium", "low"}
	for i, name := range want {
		if tiers[i].Name != name {
			t.Errorf("tier %d = %q, want %q", i, tiers[i].Name, name)
		}
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newMockTierRepo())
	ctx := context.Background()

	if err := svc.Create(ctx, &Tier{Description: "no name"}); err == nil {
		t.Error("expected error for missing name")
	}
	if err := svc.Create(ctx, &Tier{Name: "x"}); err == nil {
		t.Error("expected error for missing description")
	}
}

func TestCreate_DuplicateName(t *testing.T) {
	svc := NewService(newMockTierRepo())
	ctx := context.Background()

	if err := svc.Create(ctx, &Tier{Name: "high", Description: "a"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := svc.Create(ctx, &Tier{Name: "high", Description: "b"})
	if err != ErrConflict {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}
