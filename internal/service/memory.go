package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	actionTTL     = 24 * time.Hour
	maxUserEvents = 50
)

// MemoryService is the orchestrator's short-term memory: the last action a
// user took and a bounded list of their recent events. Redis-backed when a
// client is supplied, otherwise held in process memory so the demo runs
// standalone.
type MemoryService struct {
	rdb *redis.Client

	mu      sync.RWMutex
	actions map[string][]byte
	events  map[string][][]byte
}

func NewMemoryService(rdb *redis.Client) *MemoryService {
	return &MemoryService{
		rdb:     rdb,
		actions: make(map[string][]byte),
		events:  make(map[string][][]byte),
	}
}

func actionKey(userID string) string { return fmt.Sprintf("user:%s:last_action", userID) }
func eventsKey(userID string) string { return fmt.Sprintf("user:%s:last_events", userID) }

// SetUserAction records the most recent action payload for a user.
func (s *MemoryService) SetUserAction(ctx context.Context, userID string, action any) error {
	data, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("json marshal error: %v", err)
	}

	if s.rdb != nil {
		return s.rdb.Set(ctx, actionKey(userID), data, actionTTL).Err()
	}

	s.mu.Lock()
	s.actions[userID] = data
	s.mu.Unlock()
	return nil
}

// UserAction returns the last recorded action, or nil when none exists.
func (s *MemoryService) UserAction(ctx context.Context, userID string) (map[string]any, error) {
	var data []byte

	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, actionKey(userID)).Bytes()
		if err == redis.Nil {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("redis get error: %v", err)
		}
		data = raw
	} else {
		s.mu.RLock()
		data = s.actions[userID]
		s.mu.RUnlock()
		if data == nil {
			return nil, nil
		}
	}

	var action map[string]any
	if err := json.Unmarshal(data, &action); err != nil {
		return nil, fmt.Errorf("json unmarshal error: %v", err)
	}
	return action, nil
}

// PushUserEvent prepends an event to the user's recent-event list, trimmed
// to the newest maxUserEvents entries.
func (s *MemoryService) PushUserEvent(ctx context.Context, userID string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("json marshal error: %v", err)
	}

	if s.rdb != nil {
		key := eventsKey(userID)
		pipe := s.rdb.Pipeline()
		pipe.LPush(ctx, key, data)
		pipe.LTrim(ctx, key, 0, maxUserEvents-1)
		pipe.Expire(ctx, key, actionTTL)
		_, err := pipe.Exec(ctx)
		return err
	}

	s.mu.Lock()
	events := append([][]byte{data}, s.events[userID]...)
	if len(events) > maxUserEvents {
		events = events[:maxUserEvents]
	}
	s.events[userID] = events
	s.mu.Unlock()
	return nil
}

// UserEvents returns the user's recent events, newest first.
func (s *MemoryService) UserEvents(ctx context.Context, userID string) ([]map[string]any, error) {
	var raw [][]byte

	if s.rdb != nil {
		items, err := s.rdb.LRange(ctx, eventsKey(userID), 0, maxUserEvents-1).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lrange error: %v", err)
		}
		for _, item := range items {
			raw = append(raw, []byte(item))
		}
	} else {
		s.mu.RLock()
		raw = append(raw, s.events[userID]...)
		s.mu.RUnlock()
	}

	events := make([]map[string]any, 0, len(raw))
	for _, data := range raw {
		var ev map[string]any
		if err := json.Unmarshal(data, &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// Healthy reports whether the Redis backend is reachable. The in-memory
// fallback always counts as healthy.
func (s *MemoryService) Healthy(ctx context.Context) bool {
	if s.rdb == nil {
		return true
	}
	return s.rdb.Ping(ctx).Err() == nil
}
