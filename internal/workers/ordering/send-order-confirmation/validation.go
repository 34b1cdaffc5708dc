package sendorderconfirmation

import "restaurant-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"order"},
		Properties: map[string]validation.Property{
			"order": {
				Type:     "object",
				Required: []string{"orderId", "items", "totalPrice"},
				Properties: map[string]validation.Property{
					"orderId":    {Type: "string", MinLength: validation.IntPtr(1)},
					"items":      {Type: "array", MinItems: validation.IntPtr(1)},
					"totalPrice": {Type: "number", Minimum: validation.FloatPtr(0)},
					"user":       {Type: "object"},
				},
			},
		},
		AdditionalProperties: true,
	}
}
