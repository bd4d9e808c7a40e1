// Package reducer maintains the dashboard's view of the notification
// stream: a newest-first, de-duplicated feed of events plus the control
// flags that gate the approve/reject buttons.
package reducer

import (
	"fmt"
	"sync"
	"time"
)

// Phase tracks where the dashboard is in one scenario round trip.
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseAwaitingProposal Phase = "awaiting-proposal"
	PhaseAwaitingDecision Phase = "awaiting-decision"
	PhaseProcessing       Phase = "processing"
)

// Event types that end a scenario and start collapsed in the feed.
var finalTypes = map[string]bool{
	"all-proposals-approved": true,
	"all-proposals-rejected": true,
	"final-result-report":    true,
	"execution_result":       true,
}

// Item is one rendered feed entry.
type Item struct {
	Event         string
	Type          string
	CorrelationID string
	Timestamp     any
	Data          map[string]any
	Collapsed     bool
	Local         bool
}

// Feed is the event-stream reducer. Safe for concurrent use; the stream
// consumer and the keyboard loop touch it from different goroutines.
type Feed struct {
	mu    sync.Mutex
	items []Item
	seen  map[string]bool

	isLoading       bool
	buttonsDisabled bool
	phase           Phase
}

func NewFeed() *Feed {
	return &Feed{seen: make(map[string]bool), phase: PhaseIdle}
}

// dedupKey identifies an event across reconnects. Events missing any of
// the three fields still get a stable key so replays stay suppressed.
func dedupKey(data map[string]any) string {
	corr, _ := data["correlationId"].(string)
	if corr == "" {
		corr = "no-corr"
	}

	ts := "no-ts"
	if raw, ok := data["timestamp"]; ok && raw != nil {
		ts = fmt.Sprint(raw)
	}

	typ, _ := data["type"].(string)
	if typ == "" {
		typ = "no-type"
	}

	return corr + "|" + ts + "|" + typ
}

// Apply folds one stream event into the feed. Returns false when the
// event was a duplicate and the view did not change.
func (f *Feed) Apply(event string, data map[string]any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if data == nil {
		data = map[string]any{}
	}

	key := dedupKey(data)
	if f.seen[key] {
		return false
	}
	f.seen[key] = true

	typ, _ := data["type"].(string)
	corr, _ := data["correlationId"].(string)

	item := Item{
		Event:         event,
		Type:          typ,
		CorrelationID: corr,
		Timestamp:     data["timestamp"],
		Data:          data,
		Collapsed:     finalTypes[typ] || finalTypes[event],
	}
	f.items = append([]Item{item}, f.items...)

	f.applyControl(event, typ)
	return true
}

func (f *Feed) applyControl(event, typ string) {
	if typ == "final_proposal" {
		f.phase = PhaseAwaitingDecision
		f.buttonsDisabled = false
	}

	switch {
	case typ == "final-result-report" || event == "final-result-report":
		f.isLoading = false
		f.buttonsDisabled = false
		f.phase = PhaseIdle
	case typ == "all-proposals-rejected" || event == "all-proposals-rejected":
		f.buttonsDisabled = false
		f.isLoading = false
		f.phase = PhaseIdle
	case typ == "execution_result" || event == "execution_result":
		f.isLoading = false
		f.phase = PhaseIdle
	}
}

// StartScenario marks a deposit trigger in flight.
func (f *Feed) StartScenario() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.isLoading = true
	f.phase = PhaseAwaitingProposal
}

// MarkDecisionSent disables the buttons while the backend processes an
// approve or reject.
func (f *Feed) MarkDecisionSent() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buttonsDisabled = true
	f.phase = PhaseProcessing
}

// AddLocalError prepends a synthetic entry for a failed local request.
// Local entries never come from the stream so they skip the dedup set.
// A failed decision (approval-error) re-enables the buttons; a failed
// scenario trigger (trigger-error) returns the feed to idle.
func (f *Feed) AddLocalError(kind, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append([]Item{{
		Event:     kind,
		Type:      kind,
		Timestamp: time.Now().UnixMilli(),
		Data:      map[string]any{"type": kind, "message": message},
		Local:     true,
	}}, f.items...)

	switch kind {
	case "approval-error":
		f.buttonsDisabled = false
		f.phase = PhaseAwaitingDecision
	case "trigger-error":
		f.phase = PhaseIdle
	}
	f.isLoading = false
}

// ToggleCollapsed flips the collapsed flag of the item at index i.
func (f *Feed) ToggleCollapsed(i int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i >= 0 && i < len(f.items) {
		f.items[i].Collapsed = !f.items[i].Collapsed
	}
}

// Items returns a copy of the feed, newest first.
func (f *Feed) Items() []Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Item, len(f.items))
	copy(out, f.items)
	return out
}

func (f *Feed) IsLoading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.isLoading
}

func (f *Feed) ButtonsDisabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buttonsDisabled
}

func (f *Feed) Phase() Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}
