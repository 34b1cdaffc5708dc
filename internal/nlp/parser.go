// Package nlp turns a diner's free-form message into a structured order intent
// against a catalog of item names supplied by the caller.
package nlp

import (
	"context"
	"strings"

	"restaurant-workers/internal/common/logger"
)

// ParseResult is the structured reading of one message.
type ParseResult struct {
	Intent     Intent    `json:"intent"`
	Items      []string  `json:"items"`
	Quantities []float64 `json:"quantities"`
	Confidence float64   `json:"confidence"`
}

// Analysis is a ParseResult plus how its intent was decided.
type Analysis struct {
	Result         ParseResult
	Classification Classification
}

// Config holds the tunables of a Parser.
type Config struct {
	Threshold      float64
	SpelledNumbers bool
}

func DefaultConfig() Config {
	return Config{
		Threshold:      DefaultThreshold,
		SpelledNumbers: true,
	}
}

// Parser is safe for concurrent use as long as its Classifier is.
type Parser struct {
	config     Config
	classifier Classifier
	matcher    *Matcher
	logger     logger.Logger
}

type Option func(*Parser)

// WithClassifier replaces the default PatternOnly strategy.
func WithClassifier(c Classifier) Option {
	return func(p *Parser) {
		if c != nil {
			p.classifier = c
		}
	}
}

func WithLogger(log logger.Logger) Option {
	return func(p *Parser) {
		if log != nil {
			p.logger = log
		}
	}
}

func NewParser(config Config, opts ...Option) *Parser {
	if config.Threshold <= 0 {
		config.Threshold = DefaultThreshold
	}
	p := &Parser{
		config:     config,
		classifier: PatternOnly{},
		logger:     logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.matcher = NewMatcher(config.Threshold, p.logger)
	return p
}

// Parse never fails: empty input, an empty catalog and model outages all
// produce a well-formed result.
func (p *Parser) Parse(ctx context.Context, text string, catalog []string) ParseResult {
	return p.Analyze(ctx, text, catalog).Result
}

func (p *Parser) Analyze(ctx context.Context, text string, catalog []string) Analysis {
	text = strings.TrimSpace(text)
	if text == "" {
		return Analysis{
			Result: ParseResult{
				Intent:     IntentHelp,
				Items:      []string{},
				Quantities: []float64{},
				Confidence: 0.0,
			},
			Classification: Classification{Intent: IntentHelp, Source: SourceDefault},
		}
	}

	classification := p.classifier.Classify(ctx, text)
	if classification.Degraded != nil {
		p.logger.Warn("secondary classifier unavailable, using default intent", map[string]interface{}{
			"error": classification.Degraded.Error(),
		})
	}

	items := []string{}
	quantities := []float64{}
	if classification.Intent == IntentOrderFood {
		items = p.matcher.Match(text, catalog)
		quantities = reconcile(ExtractQuantities(text, p.config.SpelledNumbers), len(items))
	}

	result := ParseResult{
		Intent:     classification.Intent,
		Items:      items,
		Quantities: quantities,
		Confidence: Score(text, classification.Intent, items, quantities),
	}

	p.logger.Info("order text parsed", map[string]interface{}{
		"intent":     result.Intent,
		"source":     classification.Source,
		"items":      result.Items,
		"quantities": result.Quantities,
		"confidence": result.Confidence,
	})

	return Analysis{Result: result, Classification: classification}
}

// reconcile pads with DefaultQuantity or truncates so that one quantity
// exists per item. Order is kept; pairing stays positional.
func reconcile(quantities []float64, itemCount int) []float64 {
	for len(quantities) < itemCount {
		quantities = append(quantities, DefaultQuantity)
	}
	if len(quantities) > itemCount {
		quantities = quantities[:itemCount]
	}
	return quantities
}
