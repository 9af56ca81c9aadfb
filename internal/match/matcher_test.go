package match

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthward/grocer/internal/model"
)

func openItem(name string) model.ListItem {
	return model.ListItem{ID: uuid.New(), Name: name, Status: model.StatusToBuy}
}

func TestMatcherExactAndSubstring(t *testing.T) {
	milk := openItem("Milk")
	bread := openItem("Whole Wheat Bread")
	m := NewMatcher([]model.ListItem{milk, bread})

	id, name, ok := m.Match("MILK 1 GAL")
	require.True(t, ok)
	assert.Equal(t, milk.ID, id)
	assert.Equal(t, "Milk", name)

	id, _, ok = m.Match("bread")
	require.True(t, ok)
	assert.Equal(t, bread.ID, id)
}

func TestMatcherFirstInStoredOrderWins(t *testing.T) {
	first := openItem("Apple Juice")
	second := openItem("Apple")
	m := NewMatcher([]model.ListItem{first, second})

	id, _, ok := m.Match("apple juice")
	require.True(t, ok)
	assert.Equal(t, first.ID, id)
}

func TestMatcherConsumesCandidates(t *testing.T) {
	bananas := openItem("Bananas")
	m := NewMatcher([]model.ListItem{bananas})

	_, _, ok := m.Match("bananas")
	require.True(t, ok)

	// A second banana line must not re-match the already consumed item.
	_, _, ok = m.Match("BANANAS")
	assert.False(t, ok)
	assert.Empty(t, m.Remaining())
}

func TestMatcherSkipsClosedItems(t *testing.T) {
	bought := openItem("Milk")
	bought.Status = model.StatusBought
	m := NewMatcher([]model.ListItem{bought})

	_, _, ok := m.Match("milk")
	assert.False(t, ok)
}

func TestMatcherRemaining(t *testing.T) {
	m := NewMatcher([]model.ListItem{openItem("Milk"), openItem("Eggs"), openItem("Butter")})

	_, _, ok := m.Match("eggs")
	require.True(t, ok)

	assert.Equal(t, []string{"Milk", "Butter"}, m.Remaining())
}

func TestMatcherEmptyLineName(t *testing.T) {
	m := NewMatcher([]model.ListItem{openItem("Milk")})

	_, _, ok := m.Match("   ")
	assert.False(t, ok)
}
