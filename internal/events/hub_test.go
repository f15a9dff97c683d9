package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parlorgames/mysteryparty/internal/testutil"
)

func TestFormatEvent(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{
			name:      "single line data",
			eventName: "test-event",
			data:      "hello world",
			expected:  "event: test-event\ndata: hello world\n\n",
		},
		{
			name:      "multi-line data",
			eventName: "roster-changed",
			data:      "line1\nline2",
			expected:  "event: roster-changed\ndata: line1\ndata: line2\n\n",
		},
		{
			name:      "empty data",
			eventName: "ping",
			data:      "",
			expected:  "event: ping\ndata: \n\n",
		},
		{
			name:      "data with carriage returns",
			eventName: "test",
			data:      "line1\r\nline2",
			expected:  "event: test\ndata: line1\ndata: line2\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(formatEvent(tt.eventName, tt.data)))
		})
	}
}

func TestHub_PublishReachesSubscribers(t *testing.T) {
	hub := NewHub(testutil.NopLogger())

	sub1 := hub.Subscribe("party-1", "u_alice")
	sub2 := hub.Subscribe("party-1", "u_bob")
	require.Equal(t, 2, hub.SubscriberCount("party-1"))

	hub.Publish("party-1", "test-event", "test data")

	for _, sub := range []*Subscription{sub1, sub2} {
		select {
		case frame := <-sub.Events():
			assert.Equal(t, "event: test-event\ndata: test data\n\n", string(frame))
		case <-time.After(100 * time.Millisecond):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestHub_PublishIsolatesParties(t *testing.T) {
	hub := NewHub(testutil.NopLogger())

	sub := hub.Subscribe("party-2", "u_carol")
	hub.Publish("party-1", "test-event", "data")

	select {
	case frame := <-sub.Events():
		t.Fatalf("subscriber of another party received %q", string(frame))
	default:
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := NewHub(testutil.NopLogger())

	sub := hub.Subscribe("party-1", "u_alice")
	require.Equal(t, 1, hub.SubscriberCount("party-1"))

	hub.Unsubscribe(sub)
	assert.Equal(t, 0, hub.SubscriberCount("party-1"))

	// Channel closes so a streaming loop can exit
	_, open := <-sub.Events()
	assert.False(t, open)

	// Repeated unsubscribe must not panic
	hub.Unsubscribe(sub)
}

func TestHub_PublishWithoutSubscribersIsNoop(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	hub.Publish("missing", "test-event", "data")
	assert.Equal(t, 0, hub.SubscriberCount("missing"))
}

func TestHub_LaggingSubscriberDropsEvents(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	sub := hub.Subscribe("party-1", "u_slow")

	// Fill the backlog, then publish one more
	for i := 0; i <= subscriptionBuffer; i++ {
		hub.Publish("party-1", "tick", "data")
	}

	// The backlog holds exactly subscriptionBuffer frames; the overflow
	// event was dropped rather than blocking the publisher
	assert.Len(t, sub.events, subscriptionBuffer)
}
