package agent

import (
	"regexp"
	"strconv"
	"strings"
)

// Agent names used for intent routing.
const (
	PaymentsAgent   = "PaymentsAgent"
	RiskAgent       = "RiskAgent"
	InvestmentAgent = "InvestmentAgent"
	GeneralAgent    = "GeneralAgent"
	Coordinator     = "CoordinatorAgent"
)

// Analysis is the coordinator's reading of a free-text user response: which
// agent should act and with what parameters.
type Analysis struct {
	Intent         string         `json:"intent"`
	Confidence     float64        `json:"confidence"`
	Reasoning      string         `json:"reasoning"`
	Parameters     map[string]any `json:"parameters"`
	ActionRequired bool           `json:"action_required"`
}

var keywordIntents = []struct {
	words    []string
	analysis Analysis
}{
	{
		words: []string{"tahvil", "bond", "faiz", "getiri"},
		analysis: Analysis{
			Intent:         InvestmentAgent,
			Confidence:     0.8,
			Reasoning:      "Yatırım ürünü tercihi belirtildi",
			Parameters:     map[string]any{"preferred_investment": "bond"},
			ActionRequired: true,
		},
	},
	{
		words: []string{"hisse", "equity", "borsa", "sermaye"},
		analysis: Analysis{
			Intent:         InvestmentAgent,
			Confidence:     0.8,
			Reasoning:      "Hisse senedi tercihi belirtildi",
			Parameters:     map[string]any{"preferred_investment": "equity"},
			ActionRequired: true,
		},
	},
	{
		words: []string{"miktar", "tutar", "para", "₺", "tl"},
		analysis: Analysis{
			Intent:         PaymentsAgent,
			Confidence:     0.7,
			Reasoning:      "Transfer miktarı değişikliği isteniyor",
			Parameters:     map[string]any{"amount_modification": true},
			ActionRequired: true,
		},
	},
	{
		words: []string{"risk", "güvenli", "emniyet"},
		analysis: Analysis{
			Intent:         RiskAgent,
			Confidence:     0.7,
			Reasoning:      "Risk analizi talebi",
			Parameters:     map[string]any{"risk_analysis": true},
			ActionRequired: true,
		},
	},
}

// AnalyzeResponse maps a user's free-text answer to an agent intent using
// keyword matching. First matching keyword group wins; anything else falls
// through to the general agent.
func AnalyzeResponse(response string) Analysis {
	lower := strings.ToLower(response)

	for _, ki := range keywordIntents {
		for _, w := range ki.words {
			if strings.Contains(lower, w) {
				a := ki.analysis
				// Copy the parameter map so callers can't mutate the table.
				params := make(map[string]any, len(a.Parameters))
				for k, v := range a.Parameters {
					params[k] = v
				}
				a.Parameters = params
				return a
			}
		}
	}

	return Analysis{
		Intent:         GeneralAgent,
		Confidence:     0.5,
		Reasoning:      "Genel soru veya bilgi talebi",
		Parameters:     map[string]any{"general_query": true},
		ActionRequired: false,
	}
}

var amountPattern = regexp.MustCompile(`(\d+)`)

// extractAmount pulls the first integer out of a free-text response, e.g.
// "Miktarı 5000₺ yap" -> 5000.
func extractAmount(response string) (int, bool) {
	m := amountPattern.FindStringSubmatch(response)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
