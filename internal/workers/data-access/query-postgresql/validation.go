package querypostgresql

import "restaurant-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"queryType"},
		Properties: map[string]validation.Property{
			"queryType": {Type: "string", MinLength: validation.IntPtr(1)},
			"orderId":   {Type: "string"},
			"category":  {Type: "string"},
			"status":    {Type: "string"},
			"limit":     {Type: "integer", Minimum: validation.FloatPtr(0)},
		},
		AdditionalProperties: true,
	}
}
