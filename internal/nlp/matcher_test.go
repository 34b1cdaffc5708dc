package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"restaurant-workers/internal/common/logger"
)

func sampleMenu() []string {
	return []string{
		"Chicken Pizza", "Margherita Pizza", "Pepperoni Pizza",
		"Chicken Burger", "Beef Burger", "Fish Burger", "Veggie Burger",
		"Coke", "Pepsi", "Hot Tea", "Coffee", "Orange Juice",
		"French Fries", "Chicken Wings", "Samosa", "Chicken Biryani",
		"Chicken Karahi", "Ice Cream", "Chocolate Cake",
	}
}

func TestNewMatcher_DefaultThreshold(t *testing.T) {
	assert.Equal(t, DefaultThreshold, NewMatcher(0, nil).Threshold())
	assert.Equal(t, 80.0, NewMatcher(80, nil).Threshold())
}

func TestMatcher_Match(t *testing.T) {
	m := NewMatcher(DefaultThreshold, logger.NewTestLogger(t))

	tests := []struct {
		name     string
		text     string
		catalog  []string
		expected []string
	}{
		{
			name:     "quantity phrases in discovery order",
			text:     "I want 2 chicken pizzas and 1 coke",
			catalog:  sampleMenu(),
			expected: []string{"Chicken Pizza", "Coke"},
		},
		{
			name:     "article phrase",
			text:     "get me a coke please",
			catalog:  sampleMenu(),
			expected: []string{"Coke"},
		},
		{
			name:     "typo falls through to word scoring",
			text:     "somosa please",
			catalog:  sampleMenu(),
			expected: []string{"Samosa"},
		},
		{
			name:     "nothing similar",
			text:     "xyz qqq",
			catalog:  []string{"Coke"},
			expected: []string{},
		},
		{
			name:     "empty catalog",
			text:     "I want 2 pizzas",
			catalog:  nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, m.Match(tt.text, tt.catalog))
		})
	}
}

func TestMatcher_MatchFuzzy_SubstringHitsWin(t *testing.T) {
	m := NewMatcher(DefaultThreshold, nil)

	items := m.MatchFuzzy("can i get a coke and hot tea", sampleMenu())

	// catalog order, not mention order
	assert.Equal(t, []string{"Coke", "Hot Tea"}, items)
}

func TestMatcher_Match_ScoresAgainstCatalogCase(t *testing.T) {
	m := NewMatcher(DefaultThreshold, nil)

	assert.Equal(t, []string{"Samosa"}, m.MatchPhrases("I need 3 samosas and 2 teas", sampleMenu()))
	assert.Equal(t, []string{"tea"}, m.MatchPhrases("2 teas", []string{"tea"}))
	assert.Empty(t, m.Match("I want tea", sampleMenu()))
}

func TestMatcher_Match_PhraseHitsSkipSubstringPass(t *testing.T) {
	m := NewMatcher(DefaultThreshold, nil)
	catalog := []string{"Chicken Pizza", "Coke"}

	// "coke" is a literal substring but the phrase stage already found something
	assert.Equal(t, []string{"Chicken Pizza"}, m.Match("I want 2 chicken pizzas and coke", catalog))
	assert.Equal(t, []string{"Chicken Pizza", "Coke"}, m.MatchFuzzy("I want 2 chicken pizzas and coke", catalog))
}

func TestMatcher_MatchPhrases_NoDuplicates(t *testing.T) {
	m := NewMatcher(DefaultThreshold, nil)

	items := m.MatchPhrases("2 coke and 3 coke", []string{"Coke", "Pepsi"})

	assert.Equal(t, []string{"Coke"}, items)
}
