package placeorder

import "restaurant-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"message"},
		Properties: map[string]validation.Property{
			"message": {
				Type:        "string",
				Description: "Customer message, e.g. 'I want 2 pizzas and 1 coke'",
				MaxLength:   validation.IntPtr(2000),
			},
			"user": {
				Type:        "object",
				Description: "Customer placing the order; defaults to a guest",
				Properties: map[string]validation.Property{
					"name":  {Type: "string", MaxLength: validation.IntPtr(200)},
					"phone": {Type: "string", MaxLength: validation.IntPtr(50)},
					"email": {Type: "string", MaxLength: validation.IntPtr(255)},
				},
			},
		},
		AdditionalProperties: true,
	}
}
