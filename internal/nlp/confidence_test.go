package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		intent     Intent
		items      []string
		quantities []float64
		expected   float64
	}{
		{
			name:       "full order is capped",
			text:       "I want 2 chicken pizzas and 1 coke",
			intent:     IntentOrderFood,
			items:      []string{"Chicken Pizza", "Coke"},
			quantities: []float64{1, 2},
			expected:   1.0,
		},
		{name: "menu request", text: "Show me the menu", intent: IntentShowMenu, expected: 0.8},
		{name: "greeting", text: "Hello", intent: IntentGreeting, expected: 0.8},
		{name: "order with nothing recognised", text: "pasta", intent: IntentOrderFood, expected: 0.4},
		{name: "ordering phrase helps", text: "I want pasta", intent: IntentOrderFood, expected: 0.5},
		{name: "digits only count for orders", text: "show 2 menus", intent: IntentShowMenu, expected: 0.8},
		{
			name:     "mismatched quantities lose the pairing bonus",
			text:     "stop",
			intent:   IntentCancelOrder,
			items:    []string{"Coke"},
			expected: 0.9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Score(tt.text, tt.intent, tt.items, tt.quantities))
		})
	}
}
