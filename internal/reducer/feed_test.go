package reducer

import "testing"

func TestApplyDeduplicatesByCorrelationTimestampType(t *testing.T) {
	f := NewFeed()

	event := map[string]any{
		"type":          "final_proposal",
		"correlationId": "corr-1",
		"timestamp":     float64(1000),
	}

	if !f.Apply("notification", event) {
		t.Fatal("first apply must insert")
	}
	if f.Apply("notification", event) {
		t.Error("identical event must be suppressed")
	}
	if len(f.Items()) != 1 {
		t.Fatalf("feed has %d items, want 1", len(f.Items()))
	}

	// Same correlation and type but a new timestamp is a distinct event.
	later := map[string]any{
		"type":          "final_proposal",
		"correlationId": "corr-1",
		"timestamp":     float64(2000),
	}
	if !f.Apply("notification", later) {
		t.Error("event with new timestamp must insert")
	}
}

func TestApplyDedupDefaultsMissingFields(t *testing.T) {
	f := NewFeed()

	if !f.Apply("agent-output", map[string]any{}) {
		t.Fatal("first empty event must insert")
	}
	// A second field-less event collapses to the same no-corr|no-ts|no-type
	// key and is dropped.
	if f.Apply("agent-output", map[string]any{}) {
		t.Error("second empty event must be suppressed")
	}
}

func TestItemsAreNewestFirst(t *testing.T) {
	f := NewFeed()

	f.Apply("agent-output", map[string]any{"type": "proposal", "correlationId": "a", "timestamp": float64(1)})
	f.Apply("agent-output", map[string]any{"type": "proposal", "correlationId": "b", "timestamp": float64(2)})
	f.Apply("notification", map[string]any{"type": "final_proposal", "correlationId": "c", "timestamp": float64(3)})

	items := f.Items()
	if len(items) != 3 {
		t.Fatalf("feed has %d items, want 3", len(items))
	}
	if items[0].CorrelationID != "c" || items[2].CorrelationID != "a" {
		t.Errorf("feed not newest-first: %v %v %v",
			items[0].CorrelationID, items[1].CorrelationID, items[2].CorrelationID)
	}
}

func TestFinalTypesStartCollapsed(t *testing.T) {
	f := NewFeed()

	f.Apply("notification", map[string]any{"type": "final_proposal", "correlationId": "a", "timestamp": float64(1)})
	f.Apply("final-result-report", map[string]any{"type": "final-result-report", "correlationId": "a", "timestamp": float64(2)})

	items := f.Items()
	if items[0].Type != "final-result-report" || !items[0].Collapsed {
		t.Errorf("final report must start collapsed: %+v", items[0])
	}
	if items[1].Collapsed {
		t.Errorf("proposal must start expanded: %+v", items[1])
	}

	f.ToggleCollapsed(0)
	if f.Items()[0].Collapsed {
		t.Error("toggle did not expand the report")
	}
}

func TestScenarioPhaseAndFlags(t *testing.T) {
	f := NewFeed()

	if f.Phase() != PhaseIdle {
		t.Fatalf("initial phase = %s", f.Phase())
	}

	f.StartScenario()
	if f.Phase() != PhaseAwaitingProposal || !f.IsLoading() {
		t.Errorf("after trigger: phase=%s loading=%v", f.Phase(), f.IsLoading())
	}

	f.Apply("notification", map[string]any{"type": "final_proposal", "correlationId": "a", "timestamp": float64(1)})
	if f.Phase() != PhaseAwaitingDecision || f.ButtonsDisabled() {
		t.Errorf("after proposal: phase=%s buttonsDisabled=%v", f.Phase(), f.ButtonsDisabled())
	}

	f.MarkDecisionSent()
	if f.Phase() != PhaseProcessing || !f.ButtonsDisabled() {
		t.Errorf("after decision: phase=%s buttonsDisabled=%v", f.Phase(), f.ButtonsDisabled())
	}

	f.Apply("final-result-report", map[string]any{"type": "final-result-report", "correlationId": "a", "timestamp": float64(2)})
	if f.Phase() != PhaseIdle || f.IsLoading() || f.ButtonsDisabled() {
		t.Errorf("after report: phase=%s loading=%v buttonsDisabled=%v",
			f.Phase(), f.IsLoading(), f.ButtonsDisabled())
	}
}

func TestRejectionClearsButtons(t *testing.T) {
	f := NewFeed()

	f.StartScenario()
	f.Apply("notification", map[string]any{"type": "final_proposal", "correlationId": "a", "timestamp": float64(1)})
	f.MarkDecisionSent()
	f.Apply("all-proposals-rejected", map[string]any{"type": "all-proposals-rejected", "correlationId": "a", "timestamp": float64(2)})

	if f.ButtonsDisabled() || f.IsLoading() || f.Phase() != PhaseIdle {
		t.Errorf("rejection must reset the controls: phase=%s loading=%v buttonsDisabled=%v",
			f.Phase(), f.IsLoading(), f.ButtonsDisabled())
	}
}

func TestAddLocalErrorReenablesButtons(t *testing.T) {
	f := NewFeed()

	f.StartScenario()
	f.Apply("notification", map[string]any{"type": "final_proposal", "correlationId": "a", "timestamp": float64(1)})
	f.MarkDecisionSent()
	f.AddLocalError("approval-error", "connection refused")

	items := f.Items()
	if len(items) != 2 || items[0].Type != "approval-error" || !items[0].Local {
		t.Fatalf("local error not prepended: %+v", items)
	}
	if f.ButtonsDisabled() {
		t.Error("failed decision must re-enable the buttons")
	}
	if f.Phase() != PhaseAwaitingDecision {
		t.Errorf("phase = %s, want awaiting-decision", f.Phase())
	}

	// Local entries bypass dedup: the same error twice is two entries.
	f.AddLocalError("approval-error", "connection refused")
	if len(f.Items()) != 3 {
		t.Errorf("second local error must insert, feed has %d items", len(f.Items()))
	}
}

func TestTriggerErrorReturnsToIdle(t *testing.T) {
	f := NewFeed()

	f.StartScenario()
	f.AddLocalError("trigger-error", "connection refused")

	items := f.Items()
	if len(items) != 1 || items[0].Type != "trigger-error" || !items[0].Local {
		t.Fatalf("trigger error not prepended: %+v", items)
	}
	if f.IsLoading() {
		t.Error("failed trigger must clear the loading flag")
	}
	if f.Phase() != PhaseIdle {
		t.Errorf("phase = %s, want idle after a failed trigger", f.Phase())
	}
}
