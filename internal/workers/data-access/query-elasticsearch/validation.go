package queryelasticsearch

import "restaurant-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"queryType"},
		Properties: map[string]validation.Property{
			"queryType": {Type: "string", MinLength: validation.IntPtr(1)},
			"indexName": {Type: "string"},
			"orderId":   {Type: "string"},
			"sender":    {Type: "string", Enum: []string{"user", "system"}},
			"keywords":  {Type: "string"},
			"pagination": {
				Type: "object",
				Properties: map[string]validation.Property{
					"from": {Type: "integer", Minimum: validation.FloatPtr(0)},
					"size": {Type: "integer", Minimum: validation.FloatPtr(0)},
				},
			},
		},
		AdditionalProperties: true,
	}
}
