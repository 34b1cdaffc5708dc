// internal/nlp/classifier.go
package nlp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Source records which stage decided an intent.
type Source string

const (
	SourcePattern Source = "pattern"
	SourceModel   Source = "model"
	SourceDefault Source = "default"
)

var ErrUnexpectedLabel = errors.New("model returned a label outside the candidates")

// Classification is the outcome of classifying one message.
type Classification struct {
	Intent Intent
	Source Source
	// Score is the secondary model's score when it was consulted.
	Score float64
	// Degraded holds the model failure when the default intent was used because of it.
	Degraded error
}

// Classifier assigns an intent to a message.
type Classifier interface {
	Classify(ctx context.Context, text string) Classification
}

// Prediction is a secondary model's top label.
type Prediction struct {
	Intent Intent
	Score  float64
}

// ZeroShotModel picks one of the candidate intents for a text.
type ZeroShotModel interface {
	Predict(ctx context.Context, text string, candidates []Intent) (Prediction, error)
}

// MatchRules evaluates the intent table against the lowercased text.
func MatchRules(text string) (Intent, bool) {
	lower := strings.ToLower(text)
	for _, entry := range intentTable {
		for _, rule := range entry.Rules {
			if rule.MatchString(lower) {
				return entry.Intent, true
			}
		}
	}
	return IntentOrderFood, false
}

// PatternOnly classifies with the rule table and defaults to OrderFood.
type PatternOnly struct{}

func (PatternOnly) Classify(_ context.Context, text string) Classification {
	if intent, ok := MatchRules(text); ok {
		return Classification{Intent: intent, Source: SourcePattern}
	}
	return Classification{Intent: IntentOrderFood, Source: SourceDefault}
}

// FallbackResult is the typed outcome of consulting the secondary model.
type FallbackResult struct {
	Prediction Prediction
	Accepted   bool
	Err        error
}

// PatternWithFallback consults a ZeroShotModel when no rule matches.
type PatternWithFallback struct {
	model    ZeroShotModel
	minScore float64
	timeout  time.Duration
}

func NewPatternWithFallback(model ZeroShotModel, minScore float64, timeout time.Duration) *PatternWithFallback {
	if minScore <= 0 {
		minScore = DefaultMinModelScore
	}
	return &PatternWithFallback{
		model:    model,
		minScore: minScore,
		timeout:  timeout,
	}
}

func (c *PatternWithFallback) Classify(ctx context.Context, text string) Classification {
	if intent, ok := MatchRules(text); ok {
		return Classification{Intent: intent, Source: SourcePattern}
	}

	result := c.Fallback(ctx, text)
	switch {
	case result.Err != nil:
		return Classification{Intent: IntentOrderFood, Source: SourceDefault, Degraded: result.Err}
	case result.Accepted:
		return Classification{Intent: result.Prediction.Intent, Source: SourceModel, Score: result.Prediction.Score}
	default:
		return Classification{Intent: IntentOrderFood, Source: SourceDefault, Score: result.Prediction.Score}
	}
}

// Fallback asks the model for a label. A prediction is accepted only when its
// score is strictly above the minimum.
func (c *PatternWithFallback) Fallback(ctx context.Context, text string) FallbackResult {
	if c.model == nil {
		return FallbackResult{Err: errors.New("no secondary model configured")}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	prediction, err := c.model.Predict(ctx, text, Candidates)
	if err != nil {
		return FallbackResult{Err: err}
	}
	if _, ok := ParseIntent(string(prediction.Intent)); !ok {
		return FallbackResult{Err: fmt.Errorf("%w: %q", ErrUnexpectedLabel, prediction.Intent)}
	}
	return FallbackResult{
		Prediction: prediction,
		Accepted:   prediction.Score > c.minScore,
	}
}
