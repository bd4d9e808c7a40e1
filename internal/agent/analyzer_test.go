package agent

import "testing"

func TestAnalyzeResponseKeywords(t *testing.T) {
	cases := []struct {
		response string
		intent   string
		param    string
	}{
		{"Tahvil istiyorum", InvestmentAgent, "preferred_investment"},
		{"bond faizi nasıl?", InvestmentAgent, "preferred_investment"},
		{"Hisse senedi alalım", InvestmentAgent, "preferred_investment"},
		{"Miktarı 5000 yap", PaymentsAgent, "amount_modification"},
		{"Bu işlem güvenli mi?", RiskAgent, "risk_analysis"},
		{"Merhaba, nasılsın?", GeneralAgent, "general_query"},
	}

	for _, tc := range cases {
		a := AnalyzeResponse(tc.response)
		if a.Intent != tc.intent {
			t.Errorf("%q: intent = %s, want %s", tc.response, a.Intent, tc.intent)
		}
		if _, ok := a.Parameters[tc.param]; !ok {
			t.Errorf("%q: missing parameter %s in %v", tc.response, tc.param, a.Parameters)
		}
	}
}

func TestAnalyzeResponseEquityBeatsBond(t *testing.T) {
	// First matching keyword group wins; "tahvil" appears first in the
	// table, so a mixed sentence resolves to bonds.
	a := AnalyzeResponse("tahvil mi hisse mi?")
	if a.Parameters["preferred_investment"] != "bond" {
		t.Errorf("mixed sentence resolved to %v, want bond", a.Parameters["preferred_investment"])
	}

	a = AnalyzeResponse("sadece hisse")
	if a.Parameters["preferred_investment"] != "equity" {
		t.Errorf("equity sentence resolved to %v", a.Parameters["preferred_investment"])
	}
}

func TestAnalyzeResponseCopiesParameters(t *testing.T) {
	a := AnalyzeResponse("tahvil")
	a.Parameters["preferred_investment"] = "mutated"

	b := AnalyzeResponse("tahvil")
	if b.Parameters["preferred_investment"] != "bond" {
		t.Error("parameter table leaked between analyses")
	}
}

func TestAnalyzeResponseGeneralNeedsNoAction(t *testing.T) {
	a := AnalyzeResponse("teşekkürler")
	if a.ActionRequired {
		t.Error("general intent must not require action")
	}
	if a.Confidence != 0.5 {
		t.Errorf("confidence = %v, want 0.5", a.Confidence)
	}
}

func TestExtractAmount(t *testing.T) {
	if n, ok := extractAmount("Miktarı 5000₺ yap"); !ok || n != 5000 {
		t.Errorf("extractAmount = %d, %v", n, ok)
	}
	if _, ok := extractAmount("miktarı artır"); ok {
		t.Error("expected no amount in text without digits")
	}
}
