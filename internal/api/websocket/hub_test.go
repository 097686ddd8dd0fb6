package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runHub(t *testing.T, ctx context.Context, hub *Hub) <-chan struct{} {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.Run(ctx)
	}()
	return done
}

func TestHubBroadcastReachesRegisteredClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	runHub(t, ctx, hub)

	client := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.register <- client

	hub.Broadcast([]byte("refresh"))

	select {
	case msg := <-client.send:
		assert.Equal(t, []byte("refresh"), msg)
	case <-time.After(time.Second):
		t.Fatal("broadcast never reached the client")
	}
}

func TestHubRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	hub := NewHub()
	done := runHub(t, ctx, hub)

	client := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.register <- client

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub kept running after cancel")
	}

	// Remaining send channels close so write pumps exit.
	_, open := <-client.send
	require.False(t, open)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHubDropsSlowConsumer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	runHub(t, ctx, hub)

	slow := &Client{hub: hub, send: make(chan []byte)} // unbuffered, never read
	hub.register <- slow

	hub.Broadcast([]byte("first"))

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("slow consumer was never dropped")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
