// internal/nlp/quantity.go
package nlp

import (
	"sort"
	"strconv"
	"strings"
)

// ExtractQuantities returns every number mentioned in text, deduplicated and
// sorted ascending. Digit runs, quantity words ("a", "couple", "dozen") and,
// when spelled is set, spelled-out numbers ("twelve", "twenty-five") count.
func ExtractQuantities(text string, spelled bool) []float64 {
	var found []float64

	for _, match := range digitPattern.FindAllString(text, -1) {
		v, err := strconv.ParseFloat(match, 64)
		if err != nil {
			continue
		}
		found = append(found, v)
	}

	words := strings.Fields(strings.ToLower(text))
	for _, word := range words {
		if v, ok := quantityWords[word]; ok {
			found = append(found, v)
		}
	}

	if spelled {
		for _, word := range words {
			if v, ok := spelledNumber(word); ok {
				found = append(found, v)
			}
		}
	}

	return uniqueSorted(found)
}

// spelledNumber reads a single token such as "seven", "twenty-one" or
// "hundred". Digit-only tokens are read as-is.
func spelledNumber(word string) (float64, bool) {
	if word == "" {
		return 0, false
	}
	if isDigits(word) {
		v, err := strconv.ParseFloat(word, 64)
		return v, err == nil
	}

	seen := make(map[string]bool)
	var total, current int64
	matched := false
	for _, part := range strings.Split(word, "-") {
		_, isWord := numberWords[part]
		_, isScale := numberScales[part]
		if !isWord && !isScale && part != "hundred" {
			continue
		}
		if seen[part] {
			return 0, false
		}
		seen[part] = true
		matched = true

		switch {
		case isWord:
			current += numberWords[part]
		case part == "hundred":
			if current == 0 {
				current = 1
			}
			current *= 100
		default:
			if current == 0 {
				current = 1
			}
			total += current * numberScales[part]
			current = 0
		}
	}
	if !matched {
		return 0, false
	}
	return float64(total + current), true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func uniqueSorted(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	seen := make(map[float64]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}
