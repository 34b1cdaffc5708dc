package parseorder

import "restaurant-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"message"},
		Properties: map[string]validation.Property{
			"message": {
				Type:        "string",
				Description: "Customer message to parse",
				MaxLength:   validation.IntPtr(2000),
			},
			"menuNames": {
				Type:        "array",
				Description: "Item names to match against; the available menu is used when absent",
				Items:       &validation.Property{Type: "string"},
			},
			"category": {
				Type:        "string",
				Description: "Restrict the loaded menu to one category",
			},
		},
		AdditionalProperties: true,
	}
}
