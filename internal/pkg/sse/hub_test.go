package sse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesTopicSubscribers(t *testing.T) {
	hub := NewHub()

	adminCh, cancelAdmin := hub.Subscribe("admin")
	defer cancelAdmin()
	branchCh, cancelBranch := hub.Subscribe("branch:7")
	defer cancelBranch()

	hub.Publish(Event{Topic: "admin", Event: "late_arrival", Data: "x"})

	select {
	case ev := <-adminCh:
		assert.Equal(t, "late_arrival", ev.Event)
	case <-time.After(time.Second):
		t.Fatal("admin subscriber did not receive event")
	}

	select {
	case ev := <-branchCh:
		t.Fatalf("branch subscriber received unexpected event %v", ev)
	default:
	}
}

func TestHub_MultiTopicSubscription(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("admin", "branch:1")

	assert.Equal(t, 1, hub.SubscriberCount("admin"))
	assert.Equal(t, 1, hub.SubscriberCount("branch:1"))

	hub.Publish(Event{Topic: "branch:1", Event: "left_zone"})
	ev := <-ch
	assert.Equal(t, "branch:1", ev.Topic)

	cancel()
	cancel()
	assert.Equal(t, 0, hub.SubscriberCount("admin"))
	_, open := <-ch
	require.False(t, open)
}

func TestHub_FullBufferDoesNotBlock(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe("admin")
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			hub.Publish(Event{Topic: "admin", Event: "tick"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}
