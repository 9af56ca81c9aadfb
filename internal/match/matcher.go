package match

import (
	"strings"

	"github.com/google/uuid"

	"github.com/hearthward/grocer/internal/model"
)

// candidate is one open list item still available for matching.
type candidate struct {
	id         uuid.UUID
	name       string
	normalized string
}

// Matcher resolves receipt line-item names to open list items within a
// single reconciliation pass. Each list item can match at most one line
// item: a matched candidate leaves the pool.
type Matcher struct {
	pool []candidate
}

// NewMatcher builds a matcher over the currently open list items, in their
// stored order. Order matters: when several items qualify, the first wins.
func NewMatcher(items []model.ListItem) *Matcher {
	pool := make([]candidate, 0, len(items))
	for _, item := range items {
		if !item.Status.Open() {
			continue
		}
		pool = append(pool, candidate{
			id:         item.ID,
			name:       item.Name,
			normalized: Normalize(item.Name),
		})
	}
	return &Matcher{pool: pool}
}

// Match returns the id and name of the first open list item whose normalized
// name equals, contains, or is contained in the normalized line-item name.
// The matched item is removed from the candidate pool. A false return is a
// normal outcome: the line is a newly bought item not previously listed.
func (m *Matcher) Match(lineItemName string) (uuid.UUID, string, bool) {
	target := Normalize(lineItemName)
	if target == "" {
		return uuid.Nil, "", false
	}

	for i, c := range m.pool {
		if !namesMatch(c.normalized, target) {
			continue
		}
		m.pool = append(m.pool[:i], m.pool[i+1:]...)
		return c.id, c.name, true
	}
	return uuid.Nil, "", false
}

// Remaining returns the names of candidates never matched, in stored order.
func (m *Matcher) Remaining() []string {
	names := make([]string, len(m.pool))
	for i, c := range m.pool {
		names[i] = c.name
	}
	return names
}

func namesMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}
