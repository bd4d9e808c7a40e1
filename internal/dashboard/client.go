// Package dashboard is the terminal client: it consumes the orchestrator's
// SSE stream into a reducer.Feed and sends the user's triggers and
// decisions back over HTTP.
package dashboard

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/epazar20/financial-agentic-ai/internal/reducer"
)

const (
	defaultUserID  = "web_ui_user"
	requestTimeout = 10 * time.Second
)

type Client struct {
	apiURL    string
	streamURL string
	http      *http.Client
	feed      *reducer.Feed
}

func NewClient(apiURL, streamURL string, feed *reducer.Feed) *Client {
	return &Client{
		apiURL:    strings.TrimRight(apiURL, "/"),
		streamURL: streamURL,
		http:      &http.Client{},
		feed:      feed,
	}
}

// Consume reads the SSE stream until ctx is cancelled, reconnecting with a
// short backoff when the connection drops. The reducer's dedup set absorbs
// any events replayed across reconnects.
func (c *Client) Consume(ctx context.Context) {
	for {
		if err := c.consumeOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Stream disconnected: %v, reconnecting", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
	}
}

func (c *Client) consumeOnce(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.streamURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stream returned status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var event string
	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data.WriteString(strings.TrimPrefix(line, "data: "))
		case line == "":
			c.dispatch(event, data.String())
			event = ""
			data.Reset()
		}
	}
	return scanner.Err()
}

func (c *Client) dispatch(event, raw string) {
	if event == "" || raw == "" {
		return
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		log.Printf("Skipping malformed %s event: %v", event, err)
		return
	}

	if c.feed.Apply(event, data) {
		typ, _ := data["type"].(string)
		log.Printf("Event %s (%s)", event, typ)
	}
}

// TriggerDeposit asks the orchestrator to run the salary-deposit scenario.
func (c *Client) TriggerDeposit(ctx context.Context, amount float64) error {
	c.feed.StartScenario()
	err := c.post(ctx, "/simulate_deposit", map[string]any{
		"user_id":        defaultUserID,
		"amount":         amount,
		"correlation_id": "web_ui_" + uuid.NewString(),
	})
	if err != nil {
		c.feed.AddLocalError("trigger-error", err.Error())
	}
	return err
}

// TriggerKafkaDeposit publishes the deposit through the event bus instead
// of the direct endpoint, exercising the consumer path.
func (c *Client) TriggerKafkaDeposit(ctx context.Context, amount float64) error {
	c.feed.StartScenario()
	err := c.post(ctx, "/kafka/publish", map[string]any{
		"topic": "transactions.deposit",
		"data": map[string]any{
			"payload": map[string]any{"userId": defaultUserID, "amount": amount},
			"meta":    map[string]any{"correlationId": "kafka_web_ui_" + uuid.NewString()},
		},
	})
	if err != nil {
		c.feed.AddLocalError("trigger-error", err.Error())
	}
	return err
}

// Approve sends an approve decision for the given proposal.
func (c *Client) Approve(ctx context.Context, correlationID string, proposal map[string]any) error {
	return c.sendDecision(ctx, "approve", correlationID, proposal)
}

// Reject sends a reject decision for the given proposal.
func (c *Client) Reject(ctx context.Context, correlationID string, proposal map[string]any) error {
	return c.sendDecision(ctx, "reject", correlationID, proposal)
}

func (c *Client) sendDecision(ctx context.Context, decision, correlationID string, proposal map[string]any) error {
	c.feed.MarkDecisionSent()
	err := c.post(ctx, "/action", map[string]any{
		"userId":        defaultUserID,
		"response":      decision,
		"correlationId": correlationID,
		"proposal":      proposal,
	})
	if err != nil {
		c.feed.AddLocalError("approval-error", err.Error())
	}
	return err
}

// Chat sends a free-text answer for intent analysis.
func (c *Client) Chat(ctx context.Context, response, correlationID string) error {
	err := c.post(ctx, "/chat_response", map[string]any{
		"userId":        defaultUserID,
		"response":      response,
		"correlationId": correlationID,
	})
	if err != nil {
		c.feed.AddLocalError("chat-error", err.Error())
	}
	return err
}

// ApproveAll approves every open proposal in one request.
func (c *Client) ApproveAll(ctx context.Context, correlationID string, allProposals map[string]any) error {
	c.feed.MarkDecisionSent()
	err := c.post(ctx, "/approve_all_proposals", map[string]any{
		"userId":        defaultUserID,
		"correlationId": correlationID,
		"allProposals":  allProposals,
	})
	if err != nil {
		c.feed.AddLocalError("approval-error", err.Error())
	}
	return err
}

// RejectAll rejects every open proposal in one request.
func (c *Client) RejectAll(ctx context.Context, correlationID string) error {
	c.feed.MarkDecisionSent()
	err := c.post(ctx, "/reject_all_proposals", map[string]any{
		"userId":        defaultUserID,
		"correlationId": correlationID,
	})
	if err != nil {
		c.feed.AddLocalError("approval-error", err.Error())
	}
	return err
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, string(raw))
	}
	return nil
}
