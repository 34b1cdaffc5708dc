// internal/workers/ordering/parse-order/models.go
package parseorder

type Input struct {
	Message   string   `json:"message"`
	MenuNames []string `json:"menuNames,omitempty"`
	Category  string   `json:"category,omitempty"`
}

type Output struct {
	Intent             string    `json:"intent"`
	Items              []string  `json:"items"`
	Quantities         []float64 `json:"quantities"`
	Confidence         float64   `json:"confidence"`
	Source             string    `json:"source"`
	NeedsClarification bool      `json:"needsClarification"`
	// DegradedReason is set when the intent model was consulted and failed.
	DegradedReason string `json:"degradedReason,omitempty"`
}
