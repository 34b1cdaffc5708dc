package nlp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	prediction Prediction
	err        error
	block      bool
	calls      int
}

func (s *stubModel) Predict(ctx context.Context, _ string, candidates []Intent) (Prediction, error) {
	s.calls++
	if s.block {
		<-ctx.Done()
		return Prediction{}, ctx.Err()
	}
	if s.err != nil {
		return Prediction{}, s.err
	}
	return s.prediction, nil
}

func TestMatchRules(t *testing.T) {
	tests := []struct {
		text     string
		expected Intent
		ok       bool
	}{
		{text: "Show me the menu", expected: IntentShowMenu, ok: true},
		{text: "What do you have?", expected: IntentShowMenu, ok: true},
		{text: "Hello, how are you?", expected: IntentGreeting, ok: true},
		{text: "good morning", expected: IntentGreeting, ok: true},
		{text: "I changed my mind", expected: IntentCancelOrder, ok: true},
		{text: "Can you assist me", expected: IntentHelp, ok: true},
		{text: "help", expected: IntentHelp, ok: true},
		{text: "hello I want a pizza", expected: IntentOrderFood, ok: true},
		// "order" and "need" are ordering words, and ordering is checked first
		{text: "Cancel my order", expected: IntentOrderFood, ok: true},
		{text: "I need help", expected: IntentOrderFood, ok: true},
		{text: "xyz", expected: IntentOrderFood, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			intent, ok := MatchRules(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, intent)
		})
	}
}

func TestParseIntent(t *testing.T) {
	intent, ok := ParseIntent("greeting")
	assert.True(t, ok)
	assert.Equal(t, IntentGreeting, intent)

	intent, ok = ParseIntent("unknown")
	assert.False(t, ok)
	assert.Equal(t, IntentUnknown, intent)
}

func TestPatternOnly_DefaultsToOrderFood(t *testing.T) {
	c := PatternOnly{}.Classify(context.Background(), "qwerty")
	assert.Equal(t, IntentOrderFood, c.Intent)
	assert.Equal(t, SourceDefault, c.Source)
	assert.NoError(t, c.Degraded)
}

func TestPatternWithFallback_Classify(t *testing.T) {
	modelErr := errors.New("connection refused")

	tests := []struct {
		name           string
		text           string
		model          *stubModel
		expectedIntent Intent
		expectedSource Source
		expectedErr    error
		expectCalled   bool
	}{
		{
			name:           "rule hit skips the model",
			text:           "show me the menu",
			model:          &stubModel{prediction: Prediction{Intent: IntentGreeting, Score: 0.99}},
			expectedIntent: IntentShowMenu,
			expectedSource: SourcePattern,
		},
		{
			name:           "confident prediction accepted",
			text:           "qwerty",
			model:          &stubModel{prediction: Prediction{Intent: IntentGreeting, Score: 0.9}},
			expectedIntent: IntentGreeting,
			expectedSource: SourceModel,
			expectCalled:   true,
		},
		{
			name:           "score at the minimum is rejected",
			text:           "qwerty",
			model:          &stubModel{prediction: Prediction{Intent: IntentGreeting, Score: 0.5}},
			expectedIntent: IntentOrderFood,
			expectedSource: SourceDefault,
			expectCalled:   true,
		},
		{
			name:           "model failure degrades to default",
			text:           "qwerty",
			model:          &stubModel{err: modelErr},
			expectedIntent: IntentOrderFood,
			expectedSource: SourceDefault,
			expectedErr:    modelErr,
			expectCalled:   true,
		},
		{
			name:           "label outside candidates",
			text:           "qwerty",
			model:          &stubModel{prediction: Prediction{Intent: "complaint", Score: 0.99}},
			expectedIntent: IntentOrderFood,
			expectedSource: SourceDefault,
			expectedErr:    ErrUnexpectedLabel,
			expectCalled:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewPatternWithFallback(tt.model, 0.5, time.Second)

			got := c.Classify(context.Background(), tt.text)

			assert.Equal(t, tt.expectedIntent, got.Intent)
			assert.Equal(t, tt.expectedSource, got.Source)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, got.Degraded, tt.expectedErr)
			} else {
				assert.NoError(t, got.Degraded)
			}
			assert.Equal(t, tt.expectCalled, tt.model.calls > 0)
		})
	}
}

func TestPatternWithFallback_Timeout(t *testing.T) {
	c := NewPatternWithFallback(&stubModel{block: true}, 0.5, 20*time.Millisecond)

	start := time.Now()
	got := c.Classify(context.Background(), "qwerty")

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, IntentOrderFood, got.Intent)
	assert.ErrorIs(t, got.Degraded, context.DeadlineExceeded)
}

func TestPatternWithFallback_NoModel(t *testing.T) {
	c := NewPatternWithFallback(nil, 0, 0)

	result := c.Fallback(context.Background(), "qwerty")

	require.Error(t, result.Err)
	assert.False(t, result.Accepted)
	assert.Equal(t, IntentOrderFood, c.Classify(context.Background(), "qwerty").Intent)
}
