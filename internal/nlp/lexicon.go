// internal/nlp/lexicon.go
package nlp

import "regexp"

// Intent is the classified purpose of a diner's message.
type Intent string

const (
	IntentOrderFood   Intent = "order_food"
	IntentShowMenu    Intent = "show_menu"
	IntentCancelOrder Intent = "cancel_order"
	IntentGreeting    Intent = "greeting"
	IntentHelp        Intent = "help"
	// IntentUnknown is never produced by classification. Callers use it for
	// replies to intents they do not handle.
	IntentUnknown Intent = "unknown"
)

// Candidates are the labels offered to a secondary classifier, in rule priority order.
var Candidates = []Intent{
	IntentOrderFood,
	IntentShowMenu,
	IntentCancelOrder,
	IntentGreeting,
	IntentHelp,
}

func (i Intent) String() string {
	return string(i)
}

// ParseIntent maps a label back to one of the candidate intents.
func ParseIntent(label string) (Intent, bool) {
	for _, c := range Candidates {
		if string(c) == label {
			return c, true
		}
	}
	return IntentUnknown, false
}

const (
	// DefaultThreshold is the minimum 0-100 similarity for a fuzzy item match.
	DefaultThreshold = 75.0

	// DefaultQuantity pads quantities for items mentioned without a number.
	DefaultQuantity = 1.0

	// DefaultMinModelScore is the score a secondary classifier must exceed.
	DefaultMinModelScore = 0.5
)

type intentRule struct {
	Intent Intent
	Rank   int
	Rules  []*regexp.Regexp
}

// intentTable is evaluated top to bottom against lowercased text. The first
// intent with a matching rule wins.
var intentTable = []intentRule{
	{
		Intent: IntentOrderFood,
		Rank:   1,
		Rules: []*regexp.Regexp{
			regexp.MustCompile(`\b(want|need|order|get|give me|i'll have|can i have)\b`),
			regexp.MustCompile(`\b(pizza|burger|chicken|food|drink|eat)\b`),
			regexp.MustCompile(`\b\d+\b.*\b(pizza|burger|chicken|coke|tea|coffee)\b`),
		},
	},
	{
		Intent: IntentShowMenu,
		Rank:   2,
		Rules: []*regexp.Regexp{
			regexp.MustCompile(`\b(menu|what do you have|what's available|show|list)\b`),
			regexp.MustCompile(`\b(see.*menu|menu.*please)\b`),
		},
	},
	{
		Intent: IntentCancelOrder,
		Rank:   3,
		Rules: []*regexp.Regexp{
			regexp.MustCompile(`\b(cancel|remove|delete|stop)\b.*\b(order)\b`),
			regexp.MustCompile(`\b(don't want|changed my mind)\b`),
		},
	},
	{
		Intent: IntentGreeting,
		Rank:   4,
		Rules: []*regexp.Regexp{
			regexp.MustCompile(`\b(hello|hi|hey|good morning|good evening)\b`),
			regexp.MustCompile(`\b(how are you|what's up)\b`),
		},
	},
	{
		Intent: IntentHelp,
		Rank:   5,
		Rules: []*regexp.Regexp{
			regexp.MustCompile(`\b(help|how|what can)\b`),
			regexp.MustCompile(`\b(assist|support|guide)\b`),
		},
	},
}

var quantityWords = map[string]float64{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"a": 1, "an": 1, "single": 1, "double": 2, "triple": 3,
	"couple": 2, "few": 3, "several": 3, "dozen": 12, "half": 0.5,
}

// orderingPhrases raise confidence when found anywhere in the lowercased text.
var orderingPhrases = []string{"want", "need", "order", "get", "give me", "i'll have", "can i have"}

var digitPattern = regexp.MustCompile(`\b\d+\b`)

// itemPhrasePatterns capture the words following a quantity marker.
var itemPhrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d+\s+(\w+(?:\s+\w+)?)\b`),
	regexp.MustCompile(`\b(a|an)\s+(\w+(?:\s+\w+)?)\b`),
	regexp.MustCompile(`\b(some|few)\s+(\w+(?:\s+\w+)?)\b`),
}

// spelled number words understood beyond the quantity vocabulary
var numberWords = map[string]int64{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

var numberScales = map[string]int64{
	"thousand": 1_000,
	"million":  1_000_000,
	"billion":  1_000_000_000,
}
