// internal/nlp/fuzz.go
package nlp

import (
	"sort"
	"strings"
	"unicode"
)

// Scorer compares two strings on a 0-100 scale.
type Scorer func(a, b string) float64

// Processor normalises a string before it is scored.
type Processor func(string) string

// Match is the best candidate found by ExtractOne.
type Match struct {
	Choice string
	Score  float64
	Index  int
}

const (
	unbaseScale  = 0.95
	partialScale = 0.9
	longScale    = 0.6
)

// DefaultProcess lowercases s, turns every non-alphanumeric rune into a space
// and trims the result.
func DefaultProcess(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.TrimSpace(mapped)
}

// Ratio is the normalised indel similarity of a and b.
func Ratio(a, b string) float64 {
	return ratioRunes([]rune(a), []rune(b))
}

func ratioRunes(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	return 100 * float64(2*lcsLength(a, b)) / float64(total)
}

func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func indelDistance(a, b []rune) int {
	return len(a) + len(b) - 2*lcsLength(a, b)
}

func normalizedSimilarity(dist, lensum int) float64 {
	if lensum == 0 {
		return 100
	}
	return 100 * (1 - float64(dist)/float64(lensum))
}

// PartialRatio scores the shorter string against its best-aligned window in
// the longer one. Windows hanging off either end are considered too.
func PartialRatio(a, b string) float64 {
	s1, s2 := []rune(a), []rune(b)
	if len(s1) > len(s2) {
		s1, s2 = s2, s1
	}
	if len(s1) == 0 {
		if len(s2) == 0 {
			return 100
		}
		return 0
	}

	best := partialWindows(s1, s2)
	if len(s1) == len(s2) && best < 100 {
		best = max(best, partialWindows(s2, s1))
	}
	return best
}

func partialWindows(needle, hay []rune) float64 {
	n, m := len(needle), len(hay)
	best := 0.0

	for i := 0; i <= m-n; i++ {
		best = max(best, ratioRunes(needle, hay[i:i+n]))
		if best == 100 {
			return best
		}
	}
	for i := 1; i < n && i <= m; i++ {
		best = max(best, ratioRunes(needle, hay[:i]))
	}
	for i := max(m-n+1, 1); i < m; i++ {
		best = max(best, ratioRunes(needle, hay[i:]))
	}
	return best
}

func sortedTokens(s string) []string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return tokens
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func difference(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for k := range a {
		if _, ok := b[k]; !ok {
			out[k] = struct{}{}
		}
	}
	return out
}

func intersection(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for k := range a {
		if _, ok := b[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}

func runeLen(s string) int {
	return len([]rune(s))
}

// TokenSortRatio compares a and b after sorting their whitespace tokens.
func TokenSortRatio(a, b string) float64 {
	return Ratio(strings.Join(sortedTokens(a), " "), strings.Join(sortedTokens(b), " "))
}

// TokenSetRatio compares the shared and the distinct tokens of a and b.
// A string whose tokens are a subset of the other's scores 100.
func TokenSetRatio(a, b string) float64 {
	setA := tokenSet(strings.Fields(a))
	setB := tokenSet(strings.Fields(b))
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	sect := intersection(setA, setB)
	diffAB := difference(setA, setB)
	diffBA := difference(setB, setA)
	if len(sect) > 0 && (len(diffAB) == 0 || len(diffBA) == 0) {
		return 100
	}

	diffABJoined := strings.Join(sortedKeys(diffAB), " ")
	diffBAJoined := strings.Join(sortedKeys(diffBA), " ")
	abLen := runeLen(diffABJoined)
	baLen := runeLen(diffBAJoined)
	sectLen := runeLen(strings.Join(sortedKeys(sect), " "))

	sep := 0
	if sectLen != 0 {
		sep = 1
	}
	sectABLen := sectLen + sep + abLen
	sectBALen := sectLen + sep + baLen

	dist := indelDistance([]rune(diffABJoined), []rune(diffBAJoined))
	result := normalizedSimilarity(dist, sectABLen+sectBALen)
	if sectLen == 0 {
		return result
	}

	sectABRatio := normalizedSimilarity(sep+abLen, sectLen+sectABLen)
	sectBARatio := normalizedSimilarity(sep+baLen, sectLen+sectBALen)
	return max(result, sectABRatio, sectBARatio)
}

// PartialTokenRatio is PartialRatio over sorted tokens. Any shared token scores 100.
func PartialTokenRatio(a, b string) float64 {
	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}
	setA := tokenSet(tokensA)
	setB := tokenSet(tokensB)
	if len(intersection(setA, setB)) > 0 {
		return 100
	}

	diffAB := difference(setA, setB)
	diffBA := difference(setB, setA)

	result := PartialRatio(strings.Join(sortedTokens(a), " "), strings.Join(sortedTokens(b), " "))
	if len(tokensA) == len(diffAB) && len(tokensB) == len(diffBA) {
		return result
	}
	return max(result, PartialRatio(strings.Join(sortedKeys(diffAB), " "), strings.Join(sortedKeys(diffBA), " ")))
}

// WRatio picks between whole, token and partial comparisons depending on how
// different the two lengths are, scaling the partial scores down.
func WRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	len1, len2 := runeLen(a), runeLen(b)
	lenRatio := float64(max(len1, len2)) / float64(min(len1, len2))

	end := Ratio(a, b)
	if lenRatio < 1.5 {
		tokenRatio := max(TokenSortRatio(a, b), TokenSetRatio(a, b))
		return max(end, tokenRatio*unbaseScale)
	}

	scale := partialScale
	if lenRatio > 8 {
		scale = longScale
	}
	end = max(end, PartialRatio(a, b)*scale)
	return max(end, PartialTokenRatio(a, b)*unbaseScale*scale)
}

// ExtractOne returns the choice scoring highest against query. Ties keep the
// earliest choice. It reports false only when choices is empty.
func ExtractOne(query string, choices []string, scorer Scorer, processor Processor) (Match, bool) {
	if len(choices) == 0 {
		return Match{}, false
	}
	if processor != nil {
		query = processor(query)
	}

	best := Match{Index: -1, Score: -1}
	for i, choice := range choices {
		candidate := choice
		if processor != nil {
			candidate = processor(candidate)
		}
		score := scorer(query, candidate)
		if score > best.Score {
			best = Match{Choice: choice, Score: score, Index: i}
		}
	}
	return best, true
}
