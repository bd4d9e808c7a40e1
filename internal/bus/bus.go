// Package bus is the event-streaming seam of the orchestrator. Topics are
// fanned out to in-process subscribers; when Redis is configured each
// publish is also appended to a Redis Stream so the event log survives the
// process, which is the role Kafka plays in the full deployment.
package bus

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Topic names shared by the orchestrator pipeline and its consumers.
const (
	TopicTransactionsDeposit = "transactions.deposit"
	TopicPaymentsPending     = "payments.pending"
	TopicPaymentsExecuted    = "payments.executed"
	TopicRiskAnalysis        = "risk.analysis"
	TopicInvestmentsProposal = "investments.proposal"
	TopicAdvisorFinalMessage = "advisor.finalMessage"
)

const streamMaxLen = 1000

type Bus struct {
	rdb *redis.Client // nil when running without Redis

	mu   sync.RWMutex
	subs map[string][]chan []byte
}

// New creates a bus. rdb may be nil; the bus then runs purely in-process.
func New(rdb *redis.Client) *Bus {
	return &Bus{
		rdb:  rdb,
		subs: make(map[string][]chan []byte),
	}
}

// Subscribe returns a channel receiving every payload published to topic.
// Subscribers that fall behind lose events rather than blocking publishers.
func (b *Bus) Subscribe(topic string) <-chan []byte {
	ch := make(chan []byte, 64)
	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], ch)
	b.mu.Unlock()
	return ch
}

// Publish marshals data, appends it to the topic's Redis Stream when a
// client is configured, and delivers it to in-process subscribers.
func (b *Bus) Publish(ctx context.Context, topic string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if b.rdb != nil {
		err := b.rdb.XAdd(ctx, &redis.XAddArgs{
			Stream: "events:" + topic,
			MaxLen: streamMaxLen,
			Approx: true,
			Values: map[string]any{"data": payload},
		}).Err()
		if err != nil {
			log.Printf("Event log append failed for %s: %v", topic, err)
		}
	}

	b.mu.RLock()
	for _, ch := range b.subs[topic] {
		select {
		case ch <- payload:
		default:
			log.Printf("Bus subscriber for %s is full, dropping event", topic)
		}
	}
	b.mu.RUnlock()

	return nil
}

// Healthy reports whether the durable event log is reachable. A bus without
// Redis is still usable, just not durable.
func (b *Bus) Healthy(ctx context.Context) bool {
	if b.rdb == nil {
		return false
	}
	return b.rdb.Ping(ctx).Err() == nil
}
