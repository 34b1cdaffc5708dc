package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected OrderStatus
		ok       bool
	}{
		{"pending", OrderStatusPending, true},
		{" Ready ", OrderStatusReady, true},
		{"CANCELLED", OrderStatusCancelled, true},
		{"burnt", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			status, ok := ParseOrderStatus(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, status)
		})
	}
}

func TestMenuHelpers(t *testing.T) {
	menu := []MenuItem{
		{Name: "Chicken Pizza", Category: "Pizza"},
		{Name: "Coke", Category: "Drinks"},
		{Name: "Veggie Pizza", Category: "Pizza"},
	}

	assert.Equal(t, []string{"Chicken Pizza", "Coke", "Veggie Pizza"}, MenuNames(menu))
	assert.Equal(t, []string{"Pizza", "Drinks"}, MenuCategories(menu))
	assert.Empty(t, MenuCategories(nil))
	assert.Len(t, ValidOrderStatusNames(), 6)
	assert.Equal(t, "Guest", DefaultCustomer().Name)
}
