package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan []byte) ([]byte, bool) {
	t.Helper()
	select {
	case msg, ok := <-ch:
		return msg, ok
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil, false
	}
}

func TestHubBroadcastsToRegisteredClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	a := &Client{hub: hub, Send: make(chan []byte, 1)}
	b := &Client{hub: hub, Send: make(chan []byte, 1)}
	hub.Add(a)
	hub.Add(b)

	hub.Broadcast(Encode(ActionFeedRefresh, nil))

	for _, c := range []*Client{a, b} {
		msg, ok := receive(t, c.Send)
		require.True(t, ok)
		var decoded Message
		require.NoError(t, json.Unmarshal(msg, &decoded))
		assert.Equal(t, ActionFeedRefresh, decoded.Action)
	}
}

func TestHubRemoveClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	c := &Client{hub: hub, Send: make(chan []byte, 1)}
	hub.Add(c)
	hub.Remove(c)

	_, ok := receive(t, c.Send)
	assert.False(t, ok)
}

func TestHubStopDisconnectsClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := &Client{hub: hub, Send: make(chan []byte, 1)}
	hub.Add(c)
	hub.Stop()

	_, ok := receive(t, c.Send)
	assert.False(t, ok)

	// Calls after Stop must not block.
	hub.Broadcast([]byte("late"))
	hub.Remove(c)
}
