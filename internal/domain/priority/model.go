package priority

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// FallbackTierName is the tier a condition falls into when no keyword
// matches. Deployments are expected to keep a tier with this name; when it
// is missing, classification degrades to "unclassified" rather than failing.
const FallbackTierName = "low"

var (
	ErrNotFound = errors.New("priority tier not found")
	ErrConflict = errors.New("priority tier name already exists")
)

// Tier is a named priority level with an ordered list of trigger keywords.
// Keywords are persisted as a JSON-encoded array in a text column and
// matched as case-insensitive substrings.
type Tier struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Keywords    []string  `db:"condition_keywords" json:"keywords"`
	Seq         int       `db:"seq" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
