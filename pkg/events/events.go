// Package events provides a fan-out bus for pipeline progress events. The
// server broadcasts these to connected WebSocket clients; publishing never
// blocks the pipeline.
package events

import (
	"fmt"
	"sync"
	"time"
)

// Event is one pipeline progress notification.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Event types emitted by the task pipeline.
const (
	EventTaskReceived        = "task_received"
	EventGenerationStarted   = "generation_started"
	EventGenerationCompleted = "generation_completed"
	EventPublishStarted      = "publish_started"
	EventPublishCompleted    = "publish_completed"
	EventNotificationResult  = "notification_result"
	EventTaskCompleted       = "task_completed"
	EventTaskFailed          = "task_failed"
)

// Bus distributes events to any number of subscribers.
type Bus struct {
	subscribers map[string]chan Event
	mutex       sync.RWMutex
	nextID      int64
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[string]chan Event)}
}

// Subscribe registers a named subscriber and returns its receive channel.
func (b *Bus) Subscribe(name string) <-chan Event {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	ch := make(chan Event, 100)
	b.subscribers[name] = ch
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Bus) Unsubscribe(name string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if ch, exists := b.subscribers[name]; exists {
		delete(b.subscribers, name)
		close(ch)
	}
}

// Publish broadcasts an event to all subscribers. Slow subscribers with a full
// channel are skipped rather than blocking the publisher.
func (b *Bus) Publish(eventType string, data any) {
	b.mutex.Lock()
	b.nextID++
	event := Event{
		ID:        fmt.Sprintf("%s-%d", time.Now().Format("20060102-150405"), b.nextID),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
	subscribers := make([]chan Event, 0, len(b.subscribers))
	for _, ch := range b.subscribers {
		subscribers = append(subscribers, ch)
	}
	b.mutex.Unlock()

	for _, ch := range subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// StageData builds the payload for a pipeline stage event.
func StageData(taskID string, detail string) map[string]any {
	return map[string]any{
		"task":   taskID,
		"detail": detail,
	}
}
