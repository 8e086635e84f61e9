package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubscribeReceivesPublishedEvents(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe("test")

	bus.Publish(EventTaskReceived, StageData("counter-app", ""))

	select {
	case ev := <-ch:
		assert.Equal(t, EventTaskReceived, ev.Type)
		assert.NotEmpty(t, ev.ID)
		data, ok := ev.Data.(map[string]any)
		assert.True(t, ok)
		assert.Equal(t, "counter-app", data["task"])
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe("test")
	bus.Unsubscribe("test")

	_, open := <-ch
	assert.False(t, open)
}

func TestPublishSkipsFullSubscriber(t *testing.T) {
	bus := NewBus()
	bus.Subscribe("slow")

	// Fill the buffer and then some; publish must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 250; i++ {
			bus.Publish(EventGenerationStarted, nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}

func TestPublishWithNoSubscribers(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() { bus.Publish(EventTaskCompleted, nil) })
}
