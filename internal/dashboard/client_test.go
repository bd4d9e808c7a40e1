package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/epazar20/financial-agentic-ai/internal/reducer"
)

// recordingAPI captures every request the client sends.
type recordingAPI struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
}

type recordedRequest struct {
	path string
	body map[string]any
}

func (a *recordingAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	json.Unmarshal(raw, &body)

	a.mu.Lock()
	a.requests = append(a.requests, recordedRequest{path: r.URL.Path, body: body})
	status := a.status
	a.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	fmt.Fprint(w, `{"status":"ok"}`)
}

func (a *recordingAPI) last(t *testing.T) recordedRequest {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.requests) == 0 {
		t.Fatal("no requests recorded")
	}
	return a.requests[len(a.requests)-1]
}

func newTestClient(t *testing.T) (*Client, *recordingAPI, *reducer.Feed) {
	t.Helper()
	api := &recordingAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	feed := reducer.NewFeed()
	return NewClient(srv.URL, srv.URL+"/stream", feed), api, feed
}

func TestTriggerDepositPayload(t *testing.T) {
	client, api, feed := newTestClient(t)

	if err := client.TriggerDeposit(context.Background(), 45000); err != nil {
		t.Fatalf("trigger failed: %v", err)
	}

	req := api.last(t)
	if req.path != "/simulate_deposit" {
		t.Errorf("path = %s", req.path)
	}
	if req.body["user_id"] != "web_ui_user" || req.body["amount"] != float64(45000) {
		t.Errorf("unexpected body: %v", req.body)
	}
	corr, _ := req.body["correlation_id"].(string)
	if !strings.HasPrefix(corr, "web_ui_") {
		t.Errorf("correlation_id = %q", corr)
	}

	if feed.Phase() != reducer.PhaseAwaitingProposal || !feed.IsLoading() {
		t.Errorf("trigger did not update the reducer: phase=%s", feed.Phase())
	}
}

func TestTriggerKafkaDepositNestsEnvelope(t *testing.T) {
	client, api, _ := newTestClient(t)

	if err := client.TriggerKafkaDeposit(context.Background(), 45000); err != nil {
		t.Fatalf("trigger failed: %v", err)
	}

	req := api.last(t)
	if req.path != "/kafka/publish" {
		t.Errorf("path = %s", req.path)
	}
	if req.body["topic"] != "transactions.deposit" {
		t.Errorf("topic = %v", req.body["topic"])
	}
	data, _ := req.body["data"].(map[string]any)
	payload, _ := data["payload"].(map[string]any)
	if payload["userId"] != "web_ui_user" || payload["amount"] != float64(45000) {
		t.Errorf("unexpected payload: %v", payload)
	}
	meta, _ := data["meta"].(map[string]any)
	corr, _ := meta["correlationId"].(string)
	if !strings.HasPrefix(corr, "kafka_web_ui_") {
		t.Errorf("correlationId = %q", corr)
	}
}

func TestApproveSendsActionAndDisablesButtons(t *testing.T) {
	client, api, feed := newTestClient(t)

	proposal := map[string]any{"amount": float64(13500)}
	if err := client.Approve(context.Background(), "corr-1", proposal); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	req := api.last(t)
	if req.path != "/action" || req.body["response"] != "approve" || req.body["correlationId"] != "corr-1" {
		t.Errorf("unexpected request: %s %v", req.path, req.body)
	}
	if !feed.ButtonsDisabled() || feed.Phase() != reducer.PhaseProcessing {
		t.Errorf("decision did not update the reducer")
	}
}

func TestFailedDecisionAddsLocalError(t *testing.T) {
	client, api, feed := newTestClient(t)
	api.status = http.StatusInternalServerError

	if err := client.RejectAll(context.Background(), "corr-1"); err == nil {
		t.Fatal("expected error on 500")
	}

	items := feed.Items()
	if len(items) != 1 || items[0].Type != "approval-error" {
		t.Fatalf("expected a local approval-error, got %+v", items)
	}
	if feed.ButtonsDisabled() {
		t.Error("failed decision must re-enable the buttons")
	}
}

func TestFailedTriggerAddsTriggerError(t *testing.T) {
	client, api, feed := newTestClient(t)
	api.status = http.StatusInternalServerError

	if err := client.TriggerDeposit(context.Background(), 45000); err == nil {
		t.Fatal("expected error on 500")
	}

	items := feed.Items()
	if len(items) != 1 || items[0].Type != "trigger-error" {
		t.Fatalf("expected a local trigger-error, got %+v", items)
	}
	if feed.IsLoading() || feed.Phase() != reducer.PhaseIdle {
		t.Errorf("failed trigger must return to idle: phase=%s loading=%v",
			feed.Phase(), feed.IsLoading())
	}
}

func TestConsumeParsesSSEFrames(t *testing.T) {
	feed := reducer.NewFeed()

	stream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)

		frames := []string{
			"event: agent-output\ndata: {\"type\":\"agent-output\",\"correlationId\":\"c1\",\"timestamp\":1}\n\n",
			"event: notification\ndata: {\"type\":\"final_proposal\",\"correlationId\":\"c1\",\"timestamp\":2}\n\n",
			// Duplicate of the first frame, as a reconnect replay would send.
			"event: agent-output\ndata: {\"type\":\"agent-output\",\"correlationId\":\"c1\",\"timestamp\":1}\n\n",
		}
		for _, frame := range frames {
			fmt.Fprint(w, frame)
			flusher.Flush()
		}
		<-r.Context().Done()
	}))
	defer stream.Close()

	client := NewClient("http://unused", stream.URL, feed)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Consume(ctx)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if len(feed.Items()) >= 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	items := feed.Items()
	if len(items) != 2 {
		t.Fatalf("feed has %d items, want 2 after dedup", len(items))
	}
	if items[0].Type != "final_proposal" || items[1].Type != "agent-output" {
		t.Errorf("unexpected feed order: %v %v", items[0].Type, items[1].Type)
	}
	if feed.Phase() != reducer.PhaseAwaitingDecision {
		t.Errorf("phase = %s, want awaiting-decision", feed.Phase())
	}
}
