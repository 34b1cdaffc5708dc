// internal/nlp/matcher.go
package nlp

import (
	"strings"
	"unicode/utf8"

	"restaurant-workers/internal/common/logger"
)

// Matcher resolves catalog item names mentioned in free text.
type Matcher struct {
	threshold float64
	logger    logger.Logger
}

func NewMatcher(threshold float64, log logger.Logger) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Matcher{threshold: threshold, logger: log}
}

// Threshold is the minimum similarity a fuzzy candidate needs.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Match first looks at phrases introduced by a quantity ("2 chicken pizzas",
// "a burger") and only when none of them resolves falls back to MatchFuzzy.
func (m *Matcher) Match(text string, catalog []string) []string {
	items := m.MatchPhrases(text, catalog)
	if len(items) > 0 {
		return items
	}
	return m.MatchFuzzy(text, catalog)
}

// MatchPhrases resolves each quantity-introduced phrase to its best catalog name.
// Phrases are lowercase while catalog names keep their case, so case
// differences count against the score.
func (m *Matcher) MatchPhrases(text string, catalog []string) []string {
	items := make([]string, 0)
	if len(catalog) == 0 {
		return items
	}

	lower := strings.ToLower(text)
	for _, pattern := range itemPhrasePatterns {
		for _, groups := range pattern.FindAllStringSubmatch(lower, -1) {
			phrase := strings.TrimSpace(strings.Join(groups[1:], " "))
			best, ok := ExtractOne(phrase, catalog, WRatio, nil)
			if !ok || best.Score < m.threshold {
				continue
			}
			m.logger.Debug("phrase matched catalog item", map[string]interface{}{
				"phrase": phrase,
				"item":   best.Choice,
				"score":  best.Score,
			})
			items = appendUnique(items, best.Choice)
		}
	}
	return items
}

// MatchFuzzy accepts every catalog name that appears verbatim (case-insensitive)
// in the text. Without such hits it scores each word longer than two runes and
// the whole text against the catalog.
func (m *Matcher) MatchFuzzy(text string, catalog []string) []string {
	items := make([]string, 0)
	if len(catalog) == 0 {
		return items
	}

	lower := strings.ToLower(text)
	for _, name := range catalog {
		if strings.Contains(lower, strings.ToLower(name)) {
			items = append(items, name)
		}
	}
	if len(items) > 0 {
		return items
	}

	for _, word := range strings.Fields(lower) {
		if utf8.RuneCountInString(word) <= 2 {
			continue
		}
		best, ok := ExtractOne(word, catalog, WRatio, nil)
		if ok && best.Score >= m.threshold {
			items = appendUnique(items, best.Choice)
		}
	}

	for _, name := range catalog {
		if PartialRatio(lower, strings.ToLower(name)) >= m.threshold {
			items = appendUnique(items, name)
		}
	}

	m.logger.Debug("fuzzy matched items", map[string]interface{}{
		"items": items,
	})
	return items
}

func appendUnique(items []string, name string) []string {
	for _, existing := range items {
		if existing == name {
			return items
		}
	}
	return append(items, name)
}
