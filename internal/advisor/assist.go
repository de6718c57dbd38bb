package advisor

import (
	"math"
	"strings"
)

type IntentResponse struct {
	Intent          string   `json:"intent"`
	Confidence      float64  `json:"confidence"`
	MatchedKeywords []string `json:"matched_keywords"`
}

// Intents are matched in order so ties resolve deterministically.
var intentKeywords = []struct {
	intent   string
	keywords []string
}{
	{"loan_application", []string{"loan", "borrow", "emi", "interest", "credit"}},
	{"tax_help", []string{"tax", "deduction", "80c", "80d", "return"}},
	{"budget_tracking", []string{"budget", "expense", "spending", "save money"}},
	{"insurance_query", []string{"insurance", "health cover", "life cover", "policy"}},
}

// ClassifyIntent picks the intent with the most keyword hits in the text.
// Confidence grows with the match count and floors at 0.2 for no match.
func ClassifyIntent(text string) IntentResponse {
	lower := strings.ToLower(text)
	best := "general_query"
	var bestMatched []string

	for _, candidate := range intentKeywords {
		var matched []string
		for _, kw := range candidate.keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, kw)
			}
		}
		if len(matched) > len(bestMatched) {
			best = candidate.intent
			bestMatched = matched
		}
	}

	confidence := 0.2
	if len(bestMatched) > 0 {
		confidence = math.Min(0.4+0.15*float64(len(bestMatched)), 0.95)
	}
	if bestMatched == nil {
		bestMatched = []string{}
	}
	return IntentResponse{
		Intent:          best,
		Confidence:      roundTo2(confidence),
		MatchedKeywords: bestMatched,
	}
}
