// internal/nlp/confidence.go
package nlp

import (
	"math"
	"strings"
)

// Score estimates how well a message was understood, in [0,1] with two decimals.
// It is a heuristic for deciding when to ask the diner to clarify.
func Score(text string, intent Intent, items []string, quantities []float64) float64 {
	confidence := 0.5

	switch intent {
	case IntentGreeting, IntentHelp, IntentShowMenu, IntentCancelOrder:
		confidence += 0.2
	case IntentOrderFood:
		if len(items) > 0 {
			confidence += 0.3
		} else {
			confidence -= 0.2
		}
	}

	if len(items) > 0 {
		confidence += 0.2
	}
	if len(quantities) == len(items) {
		confidence += 0.1
	}

	lower := strings.ToLower(text)
	for _, phrase := range orderingPhrases {
		if strings.Contains(lower, phrase) {
			confidence += 0.1
			break
		}
	}

	if intent == IntentOrderFood && digitPattern.MatchString(text) {
		confidence += 0.1
	}

	confidence = math.Max(0, math.Min(1, confidence))
	return math.Round(confidence*100) / 100
}
