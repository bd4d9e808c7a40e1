package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/epazar20/financial-agentic-ai/internal/bus"
)

// PlanStep is one agent execution in a bulk approval.
type PlanStep struct {
	Agent      string         `json:"agent"`
	Action     string         `json:"action"`
	Tools      []string       `json:"mcp_tools"`
	Parameters map[string]any `json:"parameters"`
}

// ApprovalPlan is the coordinator's execution plan when the user approves
// everything at once.
type ApprovalPlan struct {
	ApprovedAgents []string   `json:"approved_agents"`
	ExecutionPlan  []PlanStep `json:"execution_plan"`
	Reasoning      string     `json:"reasoning"`
	Priority       string     `json:"priority"`
}

// BuildApprovalPlan derives a full execution plan from the proposals shown
// to the user. The transfer amount comes from the payments proposal when
// present; everything else uses the demo defaults.
func BuildApprovalPlan(allProposals map[string]any) ApprovalPlan {
	amount := 7500.0
	if payments, ok := allProposals["payments"].(map[string]any); ok {
		if proposal, ok := payments["proposal"].(map[string]any); ok {
			if a, ok := proposal["amount"].(float64); ok && a > 0 {
				amount = a
			}
		}
	}

	return ApprovalPlan{
		ApprovedAgents: []string{PaymentsAgent, RiskAgent, InvestmentAgent},
		ExecutionPlan: []PlanStep{
			{
				Agent:      PaymentsAgent,
				Action:     "execute_transfer",
				Tools:      []string{"savings.createTransfer"},
				Parameters: map[string]any{"amount": amount, "from": checkingAccountID, "to": savingsAccountID},
			},
			{
				Agent:      RiskAgent,
				Action:     "perform_analysis",
				Tools:      []string{"risk.performAnalysis"},
				Parameters: map[string]any{"analysisType": "comprehensive"},
			},
			{
				Agent:      InvestmentAgent,
				Action:     "execute_investment",
				Tools:      []string{"investment.updatePreference", "market.quotes"},
				Parameters: map[string]any{"preferredInvestment": "bond", "allocation": 100},
			},
		},
		Reasoning: "Tüm öneriler onaylandığı için sırayla çalıştırılacak",
		Priority:  "high",
	}
}

// ExecuteApprovalPlan runs every step in order and emits an agent-output
// event per step. Returns the per-agent execution results; the caller
// publishes the final report once the approval itself is announced.
func (p *Pipeline) ExecuteApprovalPlan(ctx context.Context, plan ApprovalPlan, correlationID, userID string) map[string]any {
	results := make(map[string]any, len(plan.ExecutionPlan))

	for _, step := range plan.ExecutionPlan {
		var result map[string]any

		switch step.Agent {
		case PaymentsAgent:
			result = p.executeApprovedTransfer(ctx, step.Parameters, userID)
		case RiskAgent:
			result = p.executeApprovedRisk(ctx, step.Parameters, userID)
		case InvestmentAgent:
			result = p.executeApprovedInvestment(ctx, step.Parameters, userID)
		default:
			result = map[string]any{"error": fmt.Sprintf("Unknown agent: %s", step.Agent)}
		}

		results[step.Agent] = result

		p.events.Publish("agent-output", map[string]any{
			"type":          "agent-output",
			"agent":         step.Agent,
			"action":        step.Action,
			"result":        result,
			"correlationId": correlationID,
			"timestamp":     time.Now().UnixMilli(),
		})
	}

	return results
}

// PublishFinalReport summarizes a bulk-approval run and emits it as the
// closing final-result-report event.
func (p *Pipeline) PublishFinalReport(ctx context.Context, results map[string]any, correlationID, userID string) map[string]any {
	report := BuildFinalReport(results)
	reportEvent := map[string]any{
		"type":             "final-result-report",
		"userId":           userID,
		"correlationId":    correlationID,
		"report":           report,
		"executionResults": results,
		"timestamp":        time.Now().UnixMilli(),
	}
	p.events.Publish("final-result-report", reportEvent)
	if err := p.bus.Publish(ctx, bus.TopicAdvisorFinalMessage, reportEvent); err != nil {
		log.Printf("Failed to publish final report: %v", err)
	}
	return report
}

func (p *Pipeline) executeApprovedTransfer(ctx context.Context, params map[string]any, userID string) map[string]any {
	amount := params["amount"]
	result, err := p.tools.Call(ctx, "savings.createTransfer", map[string]any{
		"userId": userID,
		"amount": amount,
		"from":   stringParam(params, "from", checkingAccountID),
		"to":     stringParam(params, "to", savingsAccountID),
		"status": "completed",
	})
	if err != nil {
		return errorAction(PaymentsAgent, err)
	}
	return map[string]any{
		"agent":   PaymentsAgent,
		"action":  "transfer_executed",
		"result":  result,
		"message": fmt.Sprintf("Transfer %v₺ başarıyla gerçekleştirildi.", amount),
	}
}

func (p *Pipeline) executeApprovedRisk(ctx context.Context, params map[string]any, userID string) map[string]any {
	result, err := p.tools.Call(ctx, "risk.performAnalysis", map[string]any{
		"userId":       userID,
		"analysisType": stringParam(params, "analysisType", "comprehensive"),
	})
	if err != nil {
		return errorAction(RiskAgent, err)
	}
	return map[string]any{
		"agent":   RiskAgent,
		"action":  "risk_analysis_completed",
		"result":  result,
		"message": fmt.Sprintf("Risk analizi tamamlandı. Skor: %v", overallScore(result)),
	}
}

func (p *Pipeline) executeApprovedInvestment(ctx context.Context, params map[string]any, userID string) map[string]any {
	preferred := stringParam(params, "preferredInvestment", "bond")

	preference, err := p.tools.Call(ctx, "investment.updatePreference", map[string]any{
		"userId":              userID,
		"preferredInvestment": preferred,
		"allocation":          params["allocation"],
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

	return map[string]any{
		"agent":   InvestmentAgent,
		"action":  "investment_executed",
		"result":  map[string]any{"preference": preference, "quotes": quotes},
		"message": fmt.Sprintf("%s yatırım tercihi güncellendi.", preferred),
	}
}

func stringParam(params map[string]any, key, fallback string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
