// Package agent implements the orchestrator's agent pipeline: a sequential
// payments → risk → investment → coordinator run over the mock finance
// tools, plus the executors behind chat responses and bulk approvals.
package agent

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/epazar20/financial-agentic-ai/internal/bus"
	"github.com/epazar20/financial-agentic-ai/internal/service"
	"github.com/epazar20/financial-agentic-ai/internal/tools"
)

// Default demo accounts for savings transfers.
const (
	checkingAccountID = "CHK001"
	savingsAccountID  = "SV001"
)

// EventSink receives the stream events the pipeline emits. The SSE/WS hub
// implements it; tests substitute a recorder.
type EventSink interface {
	Publish(event string, data any)
}

type Pipeline struct {
	tools  *tools.Client
	events EventSink
	bus    *bus.Bus
	memory *service.MemoryService
}

func NewPipeline(t *tools.Client, events EventSink, b *bus.Bus, memory *service.MemoryService) *Pipeline {
	return &Pipeline{tools: t, events: events, bus: b, memory: memory}
}

// RunDeposit executes the salary-deposit scenario for one trigger. Every
// agent step emits an agent-output event; the coordinator closes with a
// final_proposal notification awaiting the user's decision.
func (p *Pipeline) RunDeposit(ctx context.Context, userID string, amount float64, correlationID string) error {
	log.Printf("Deposit pipeline started: user=%s amount=%v correlation=%s", userID, amount, correlationID)

	// PaymentsAgent
	profile, err := p.tools.Call(ctx, "userProfile.get", map[string]any{"userId": userID})
	if err != nil {
		return fmt.Errorf("payments agent: %w", err)
	}

	autoRate := 0.3
	if prefs, ok := profile["savedPreferences"].(map[string]any); ok {
		if r, ok := prefs["autoSavingsRate"].(float64); ok && r > 0 {
			autoRate = r
		}
	}
	proposeAmount := int(amount * autoRate)

	proposal := map[string]any{
		"action": "propose_transfer",
		"amount": proposeAmount,
		"from":   checkingAccountID,
		"to":     savingsAccountID,
	}
	paymentsOutput := map[string]any{
		"type":          "agent-output",
		"agent":         PaymentsAgent,
		"proposal":      proposal,
		"message":       fmt.Sprintf("Maaşın %v₺ olarak hesabına geçti. Plan gereği %d₺ tasarrufa aktarılabilir.", amount, proposeAmount),
		"correlationId": correlationID,
		"timestamp":     time.Now().UnixMilli(),
	}
	p.events.Publish("agent-output", paymentsOutput)
	p.bus.Publish(ctx, bus.TopicPaymentsPending, map[string]any{
		"userId":        userID,
		"proposal":      proposal,
		"correlationId": correlationID,
	})

	// RiskAgent
	riskResult, err := p.tools.Call(ctx, "risk.scoreTransaction", map[string]any{
		"userId": userID,
		"tx":     map[string]any{"amount": proposeAmount, "type": "internal_transfer"},
	})
	if err != nil {
		return fmt.Errorf("risk agent: %w", err)
	}

	riskScore := 0.5
	if s, ok := riskResult["score"].(float64); ok {
		riskScore = s
	}
	riskLabel := "düşük"
	if riskScore >= 0.5 {
		riskLabel = "yüksek"
	}
	riskOutput := map[string]any{
		"type":          "agent-output",
		"agent":         RiskAgent,
		"analysis":      riskResult,
		"message":       fmt.Sprintf("İşlem güvenli, %s riskli.", riskLabel),
		"correlationId": correlationID,
		"timestamp":     time.Now().UnixMilli(),
	}
	p.events.Publish("agent-output", riskOutput)
	p.bus.Publish(ctx, bus.TopicRiskAnalysis, map[string]any{
		"userId":        userID,
		"analysis":      riskResult,
		"correlationId": correlationID,
	})

	// InvestmentAgent: low risk widens the asset classes offered.
	assetTypes := []string{"bond", "savings"}
	if riskScore < 0.3 {
		assetTypes = []string{"bond", "equity", "fund"}
	}

	quotes := make(map[string]any, len(assetTypes))
	for _, assetType := range assetTypes {
		q, err := p.tools.Call(ctx, "market.quotes", map[string]any{"assetType": assetType, "tenor": "1Y"})
		if err != nil {
			return fmt.Errorf("investment agent: %w", err)
		}
		quotes[assetType] = q
	}

	investmentOutput := map[string]any{
		"type":           "agent-output",
		"agent":          InvestmentAgent,
		"recommendation": quotes,
		"message":        fmt.Sprintf("Risk durumuna göre yatırım önerileri: %s", strings.Join(assetTypes, ", ")),
		"correlationId":  correlationID,
		"timestamp":      time.Now().UnixMilli(),
	}
	p.events.Publish("agent-output", investmentOutput)
	p.bus.Publish(ctx, bus.TopicInvestmentsProposal, map[string]any{
		"userId":         userID,
		"recommendation": quotes,
		"correlationId":  correlationID,
	})

	// CoordinatorAgent
	finalMessage := fmt.Sprintf(
		"Maaşın %v₺ olarak yattı. Plan gereği %d₺ tasarrufa aktarılabilir (risk skoru %v, %s risk). Önerilen yatırım sınıfları: %s. Onaylıyor musun?",
		amount, proposeAmount, riskScore, riskLabel, strings.Join(assetTypes, ", "),
	)

	notification := map[string]any{
		"type":               "final_proposal",
		"userId":             userID,
		"correlationId":      correlationID,
		"message":            finalMessage,
		"proposal":           proposal,
		"paymentsProposal":   proposal,
		"riskProposal":       riskResult,
		"investmentProposal": quotes,
		"timestamp":          time.Now().UnixMilli(),
	}
	p.events.Publish("notification", notification)
	p.bus.Publish(ctx, bus.TopicAdvisorFinalMessage, notification)

	if err := p.memory.PushUserEvent(ctx, userID, notification); err != nil {
		log.Printf("Failed to record final proposal for %s: %v", userID, err)
	}

	log.Printf("Deposit pipeline finished: user=%s correlation=%s", userID, correlationID)
	return nil
}
