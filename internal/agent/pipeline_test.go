package agent

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/epazar20/financial-agentic-ai/internal/bus"
	"github.com/epazar20/financial-agentic-ai/internal/fixture"
	"github.com/epazar20/financial-agentic-ai/internal/handler"
	"github.com/epazar20/financial-agentic-ai/internal/service"
	"github.com/epazar20/financial-agentic-ai/internal/tools"
)

// eventRecorder captures published stream events in order.
type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	name string
	data map[string]any
}

func (r *eventRecorder) Publish(event string, data any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, _ := data.(map[string]any)
	r.events = append(r.events, recordedEvent{name: event, data: m})
}

func (r *eventRecorder) all() []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedEvent(nil), r.events...)
}

// newTestPipeline backs the pipeline with the real tools API served from a
// test server, so the agents exercise the actual fixture responses.
func newTestPipeline(t *testing.T) (*Pipeline, *eventRecorder) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler.NewToolsHandler(fixture.NewStore()).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	recorder := &eventRecorder{}
	p := NewPipeline(tools.NewClient(srv.URL), recorder, bus.New(nil), service.NewMemoryService(nil))
	return p, recorder
}

func TestRunDepositEmitsFullScenario(t *testing.T) {
	p, recorder := newTestPipeline(t)

	err := p.RunDeposit(context.Background(), "web_ui_user", 45000, "corr-test")
	if err != nil {
		t.Fatalf("RunDeposit failed: %v", err)
	}

	events := recorder.all()
	if len(events) != 4 {
		t.Fatalf("expected 4 events (3 agents + notification), got %d", len(events))
	}

	for i := 0; i < 3; i++ {
		if events[i].name != "agent-output" {
			t.Errorf("event %d = %s, want agent-output", i, events[i].name)
		}
		if events[i].data["correlationId"] != "corr-test" {
			t.Errorf("event %d missing correlation id: %v", i, events[i].data)
		}
	}
	if events[0].data["agent"] != PaymentsAgent ||
		events[1].data["agent"] != RiskAgent ||
		events[2].data["agent"] != InvestmentAgent {
		t.Errorf("unexpected agent order: %v %v %v",
			events[0].data["agent"], events[1].data["agent"], events[2].data["agent"])
	}

	final := events[3]
	if final.name != "notification" || final.data["type"] != "final_proposal" {
		t.Fatalf("last event = %s/%v, want notification/final_proposal", final.name, final.data["type"])
	}

	// Fixture auto-savings rate is 0.30, so 45000 proposes 13500.
	proposal, ok := final.data["proposal"].(map[string]any)
	if !ok {
		t.Fatalf("missing proposal: %v", final.data)
	}
	if proposal["amount"] != 13500 {
		t.Errorf("proposed amount = %v, want 13500", proposal["amount"])
	}
	if proposal["from"] != "CHK001" || proposal["to"] != "SV001" {
		t.Errorf("unexpected accounts in proposal: %v", proposal)
	}
}

func TestRunDepositLowRiskWidensAssetTypes(t *testing.T) {
	p, recorder := newTestPipeline(t)

	// An internal transfer under 50000 scores 0.05, which is under the
	// 0.3 threshold, so the investment agent offers all three classes.
	if err := p.RunDeposit(context.Background(), "web_ui_user", 45000, "corr-low"); err != nil {
		t.Fatalf("RunDeposit failed: %v", err)
	}

	events := recorder.all()
	recommendation, ok := events[2].data["recommendation"].(map[string]any)
	if !ok {
		t.Fatalf("missing recommendation: %v", events[2].data)
	}
	for _, assetType := range []string{"bond", "equity", "fund"} {
		if _, ok := recommendation[assetType]; !ok {
			t.Errorf("missing %s quotes in low-risk recommendation", assetType)
		}
	}
}

func TestRunDepositUnknownUserFails(t *testing.T) {
	p, recorder := newTestPipeline(t)

	err := p.RunDeposit(context.Background(), "ghost", 45000, "corr-ghost")
	if err == nil {
		t.Fatal("expected error for unknown user")
	}
	if len(recorder.all()) != 0 {
		t.Errorf("no events expected on failure, got %d", len(recorder.all()))
	}
}

func TestExecuteAnalyzedPaymentsModifiesAmount(t *testing.T) {
	p, recorder := newTestPipeline(t)

	a := AnalyzeResponse("Miktarı 5000 yap")
	action := p.ExecuteAnalyzed(context.Background(), a, "Miktarı 5000 yap", "corr-chat", "web_ui_user")

	if action["action"] != "amount_modified" {
		t.Fatalf("action = %v, want amount_modified", action["action"])
	}
	if action["new_amount"] != 5000 {
		t.Errorf("new_amount = %v, want 5000", action["new_amount"])
	}

	events := recorder.all()
	if len(events) != 1 || events[0].data["action"] != "transfer_modified" {
		t.Errorf("expected one transfer_modified event, got %v", events)
	}
}

func TestExecuteAnalyzedRiskAnalysis(t *testing.T) {
	p, _ := newTestPipeline(t)

	a := AnalyzeResponse("Bu güvenli mi?")
	action := p.ExecuteAnalyzed(context.Background(), a, "Bu güvenli mi?", "corr-risk", "web_ui_user")

	if action["action"] != "risk_analysis" {
		t.Fatalf("action = %v, want risk_analysis", action["action"])
	}
	result, ok := action["result"].(map[string]any)
	if !ok || result["action"] != "risk_analysis_completed" {
		t.Errorf("unexpected risk result: %v", action["result"])
	}
}

func TestExecuteAnalyzedGeneralAdvice(t *testing.T) {
	p, _ := newTestPipeline(t)

	a := AnalyzeResponse("Merhaba")
	action := p.ExecuteAnalyzed(context.Background(), a, "Merhaba", "corr-general", "web_ui_user")

	if action["agent"] != GeneralAgent || action["action"] != "general_response" {
		t.Errorf("unexpected general action: %v", action)
	}
}

func TestExecuteApprovalPlanRunsAllAgents(t *testing.T) {
	p, recorder := newTestPipeline(t)

	plan := BuildApprovalPlan(map[string]any{
		"payments": map[string]any{
			"proposal": map[string]any{"amount": 13500.0},
		},
	})
	if len(plan.ExecutionPlan) != 3 {
		t.Fatalf("plan has %d steps, want 3", len(plan.ExecutionPlan))
	}
	if plan.ExecutionPlan[0].Parameters["amount"] != 13500.0 {
		t.Errorf("plan amount = %v, want 13500", plan.ExecutionPlan[0].Parameters["amount"])
	}

	results := p.ExecuteApprovalPlan(context.Background(), plan, "corr-approve", "web_ui_user")

	for _, agentName := range []string{PaymentsAgent, RiskAgent, InvestmentAgent} {
		result, ok := results[agentName].(map[string]any)
		if !ok {
			t.Fatalf("missing result for %s", agentName)
		}
		if _, failed := result["error"]; failed {
			t.Errorf("%s failed: %v", agentName, result["error"])
		}
	}

	transfer := results[PaymentsAgent].(map[string]any)
	inner, _ := transfer["result"].(map[string]any)
	if inner["status"] != "completed" {
		t.Errorf("approved transfer status = %v, want completed", inner["status"])
	}
	if executedAt, _ := inner["executedAt"].(string); executedAt == "" {
		t.Errorf("approved transfer missing executedAt: %v", inner["executedAt"])
	}

	events := recorder.all()
	if len(events) != 3 {
		t.Fatalf("expected one agent-output per step, got %d", len(events))
	}
	for _, ev := range events {
		if ev.name != "agent-output" {
			t.Errorf("unexpected event %s", ev.name)
		}
	}

	report := p.PublishFinalReport(context.Background(), results, "corr-approve", "web_ui_user")
	if report["status"] != "completed" {
		t.Errorf("report status = %v, want completed", report["status"])
	}

	events = recorder.all()
	last := events[len(events)-1]
	if last.name != "final-result-report" || last.data["type"] != "final-result-report" {
		t.Errorf("last event = %s/%v", last.name, last.data["type"])
	}
}

func TestBuildApprovalPlanDefaultsAmount(t *testing.T) {
	plan := BuildApprovalPlan(nil)
	if plan.ExecutionPlan[0].Parameters["amount"] != 7500.0 {
		t.Errorf("default amount = %v, want 7500", plan.ExecutionPlan[0].Parameters["amount"])
	}
	if plan.Priority != "high" || len(plan.ApprovedAgents) != 3 {
		t.Errorf("unexpected plan: %+v", plan)
	}
}

func TestFinalizeActionApproveExecutesTransfer(t *testing.T) {
	// The decision field is "response" in the web UI's body and "action"
	// in the terminal client's earlier form; both must execute.
	for _, field := range []string{"response", "action"} {
		t.Run(field, func(t *testing.T) {
			p, recorder := newTestPipeline(t)

			err := p.FinalizeAction(context.Background(), map[string]any{
				"userId":        "web_ui_user",
				field:           "approve",
				"correlationId": "corr-final",
				"proposal":      map[string]any{"amount": 13500.0},
			})
			if err != nil {
				t.Fatalf("FinalizeAction failed: %v", err)
			}

			events := recorder.all()
			if len(events) != 1 || events[0].name != "execution" {
				t.Fatalf("expected one execution event, got %v", events)
			}
			if events[0].data["type"] != "execution_result" {
				t.Errorf("type = %v, want execution_result", events[0].data["type"])
			}
		})
	}
}

func TestFinalizeActionRejectSkipsTransfer(t *testing.T) {
	p, recorder := newTestPipeline(t)

	err := p.FinalizeAction(context.Background(), map[string]any{
		"userId":        "web_ui_user",
		"response":      "reject",
		"correlationId": "corr-reject",
	})
	if err != nil {
		t.Fatalf("FinalizeAction failed: %v", err)
	}
	if len(recorder.all()) != 0 {
		t.Errorf("reject must not emit execution events, got %v", recorder.all())
	}
}

func TestBuildFinalReportCountsAndStatus(t *testing.T) {
	report := BuildFinalReport(map[string]any{
		PaymentsAgent: map[string]any{
			"action": "transfer_executed",
			"result": map[string]any{"amount": 13500.0},
		},
		RiskAgent:       map[string]any{"action": "risk_analysis_completed"},
		InvestmentAgent: map[string]any{"error": "timeout"},
	})

	successful, _ := report["successful_operations"].([]string)
	failed, _ := report["failed_operations"].([]string)
	if len(successful) != 2 || len(failed) != 1 {
		t.Errorf("successful=%v failed=%v", successful, failed)
	}
	if report["total_amount_processed"] != 13500.0 {
		t.Errorf("total_amount_processed = %v", report["total_amount_processed"])
	}
	if report["status"] != "partial" {
		t.Errorf("status = %v, want partial", report["status"])
	}
}

func TestBuildFinalReportAllSuccessful(t *testing.T) {
	report := BuildFinalReport(map[string]any{
		PaymentsAgent: map[string]any{"action": "transfer_executed"},
		RiskAgent:     map[string]any{"action": "risk_analysis_completed"},
	})
	if report["status"] != "completed" {
		t.Errorf("status = %v, want completed", report["status"])
	}
}
