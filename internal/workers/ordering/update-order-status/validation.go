package updateorderstatus

import "restaurant-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"orderId", "status"},
		Properties: map[string]validation.Property{
			"orderId": {
				Type:        "string",
				Description: "Order identifier, e.g. ORD_20240305_143009_abc123",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(100),
			},
			"status": {
				Type:        "string",
				Description: "New order status",
				MinLength:   validation.IntPtr(1),
			},
		},
		AdditionalProperties: true,
	}
}
