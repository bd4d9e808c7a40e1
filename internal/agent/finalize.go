package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/epazar20/financial-agentic-ai/internal/bus"
)

// FinalizeAction executes the transfer behind an approved proposal and
// emits the execution event. Called in the background after /action
// accepts the request.
func (p *Pipeline) FinalizeAction(ctx context.Context, payload map[string]any) error {
	userID, _ := payload["userId"].(string)
	correlationID, _ := payload["correlationId"].(string)

	// Decisions arrive as "response" from the web UI; "action" is accepted
	// as an equivalent.
	decision, _ := payload["response"].(string)
	if decision == "" {
		decision, _ = payload["action"].(string)
	}
	if decision != "approve" {
		log.Printf("User action %q recorded without execution: user=%s correlation=%s", decision, userID, correlationID)
		return nil
	}

	amount := 0.0
	if proposal, ok := payload["proposal"].(map[string]any); ok {
		if a, ok := proposal["amount"].(float64); ok {
			amount = a
		}
	}

	result, err := p.tools.Call(ctx, "savings.createTransfer", map[string]any{
		"userId": userID,
		"from":   checkingAccountID,
		"to":     savingsAccountID,
		"amount": amount,
	})
	if err != nil {
		return fmt.Errorf("finalize action: %w", err)
	}

	executionResult := map[string]any{
		"type":          "execution_result",
		"userId":        userID,
		"correlationId": correlationID,
		"result":        result,
		"timestamp":     time.Now().UnixMilli(),
	}
	p.events.Publish("execution", executionResult)

	if err := p.bus.Publish(ctx, bus.TopicPaymentsExecuted, executionResult); err != nil {
		log.Printf("Failed to publish execution result: %v", err)
	}

	log.Printf("User action finalized: user=%s correlation=%s", userID, correlationID)
	return nil
}
