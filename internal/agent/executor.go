package agent

import (
	"context"
	"fmt"
	"time"
)

// ExecuteAnalyzed runs the agent the analysis selected and returns the
// action summary reported back to the chat caller. Each branch emits an
// agent-output event so the dashboard sees the side effect.
func (p *Pipeline) ExecuteAnalyzed(ctx context.Context, a Analysis, userResponse, correlationID, userID string) map[string]any {
	switch a.Intent {
	case PaymentsAgent:
		return p.executePayments(ctx, a, userResponse, correlationID, userID)
	case RiskAgent:
		return p.executeRisk(ctx, a, correlationID, userID)
	case InvestmentAgent:
		return p.executeInvestment(ctx, a, correlationID, userID)
	default:
		return p.executeGeneral(ctx, userResponse, correlationID, userID)
	}
}

func (p *Pipeline) executePayments(ctx context.Context, a Analysis, userResponse, correlationID, userID string) map[string]any {
	if mod, _ := a.Parameters["amount_modification"].(bool); mod {
		if newAmount, ok := extractAmount(userResponse); ok {
			result, err := p.tools.Call(ctx, "payments.modifyTransfer", map[string]any{
				"userId":         userID,
				"newAmount":      newAmount,
				"originalAmount": 7500,
			})
			if err != nil {
				return errorAction(PaymentsAgent, err)
			}

			message := fmt.Sprintf("Transfer miktarı %d₺ olarak güncellendi.", newAmount)
			p.events.Publish("agent-output", map[string]any{
				"type":          "agent-output",
				"agent":         PaymentsAgent,
				"action":        "transfer_modified",
				"message":       message,
				"result":        result,
				"correlationId": correlationID,
				"timestamp":     time.Now().UnixMilli(),
			})

			return map[string]any{
				"agent":      PaymentsAgent,
				"action":     "amount_modified",
				"new_amount": newAmount,
				"result":     result,
				"message":    message,
			}
		}
	}

	return map[string]any{
		"agent":   PaymentsAgent,
		"action":  "no_change",
		"message": "PaymentsAgent analizi tamamlandı.",
	}
}

func (p *Pipeline) executeRisk(ctx context.Context, a Analysis, correlationID, userID string) map[string]any {
	if requested, _ := a.Parameters["risk_analysis"].(bool); !requested {
		return map[string]any{
			"agent":   RiskAgent,
			"action":  "no_change",
			"message": "RiskAgent analizi tamamlandı.",
		}
	}

	result, err := p.tools.Call(ctx, "risk.performAnalysis", map[string]any{
		"userId":       userID,
		"analysisType": "comprehensive",
	})
	if err != nil {
		return errorAction(RiskAgent, err)
	}

	message := fmt.Sprintf("Risk analizi tamamlandı. Genel risk skoru: %v", overallScore(result))
	p.events.Publish("agent-output", map[string]any{
		"type":          "agent-output",
		"agent":         RiskAgent,
		"action":        "risk_analysis_completed",
		"message":       message,
		"result":        result,
		"correlationId": correlationID,
		"timestamp":     time.Now().UnixMilli(),
	})

	return map[string]any{
		"agent":   RiskAgent,
		"action":  "risk_analysis",
		"result":  result,
		"message": message,
	}
}

func (p *Pipeline) executeInvestment(ctx context.Context, a Analysis, correlationID, userID string) map[string]any {
	preferred, _ := a.Parameters["preferred_investment"].(string)
	if preferred == "" {
		preferred = "bond"
	}

	preference, err := p.tools.Call(ctx, "investment.updatePreference", map[string]any{
		"userId":              userID,
		"preferredInvestment": preferred,
		"allocation":          100,
	})
	if err != nil {
		return errorAction(InvestmentAgent, err)
	}

	quotes, err := p.tools.Call(ctx, "market.quotes", map[string]any{
		"assetType": preferred,
		"tenor":     "1Y",
	})
	if err != nil {
		return errorAction(InvestmentAgent, err)
	}

	result := map[string]any{"preference": preference, "quotes": quotes}
	p.events.Publish("agent-output", map[string]any{
		"type":          "agent-output",
		"agent":         InvestmentAgent,
		"action":        "investment_preference_updated",
		"message":       fmt.Sprintf("%s yatırım tercihi güncellendi.", preferred),
		"result":        result,
		"correlationId": correlationID,
		"timestamp":     time.Now().UnixMilli(),
	})

	return map[string]any{
		"agent":                InvestmentAgent,
		"action":               "investment_preference",
		"preferred_investment": preferred,
		"result":               result,
		"message":              fmt.Sprintf("%s yatırım önerisi hazırlandı.", preferred),
	}
}

func (p *Pipeline) executeGeneral(ctx context.Context, userResponse, correlationID, userID string) map[string]any {
	result, err := p.tools.Call(ctx, "general.getAdvice", map[string]any{
		"userId":   userID,
		"question": userResponse,
	})
	if err != nil {
		return errorAction(GeneralAgent, err)
	}

	message, _ := result["advice"].(string)
	if message == "" {
		message = "Genel danışmanlık hizmeti sağlandı."
	}
	p.events.Publish("agent-output", map[string]any{
		"type":          "agent-output",
		"agent":         GeneralAgent,
		"action":        "advice_provided",
		"message":       message,
		"result":        result,
		"correlationId": correlationID,
		"timestamp":     time.Now().UnixMilli(),
	})

	return map[string]any{
		"agent":   GeneralAgent,
		"action":  "general_response",
		"result":  result,
		"message": message,
	}
}

func errorAction(agentName string, err error) map[string]any {
	return map[string]any{"error": err.Error(), "agent": agentName}
}

func overallScore(analysisResult map[string]any) any {
	analysis, ok := analysisResult["analysis"].(map[string]any)
	if !ok {
		return "N/A"
	}
	score, ok := analysis["overallScore"]
	if !ok {
		return "N/A"
	}
	return score
}
