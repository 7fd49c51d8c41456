package ws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	fast := &Client{id: "fast", hub: hub, send: make(chan []byte, 8)}
	slow := &Client{id: "slow", hub: hub, send: make(chan []byte, 1)}
	hub.register <- fast
	hub.register <- slow

	// The second event overflows the slow client's buffer.
	hub.Publish("campaign.activated", map[string]int64{"campaign_id": 1})
	hub.Publish("redemption.recorded", map[string]int64{"campaign_id": 1})

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return !hub.clients[slow] && hub.clients[fast]
	}, time.Second, 10*time.Millisecond)

	// The dropped client's channel is closed so its write pump exits.
	<-slow.send
	_, open := <-slow.send
	assert.False(t, open)

	assert.Len(t, fast.send, 2)
}

func TestHubShutdownReleasesClients(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	c := &Client{id: "c", hub: hub, send: make(chan []byte, 1)}
	hub.register <- c

	cancel()

	// done closes so a pending unregister send can never block forever.
	require.Eventually(t, func() bool {
		select {
		case <-hub.done:
			return true
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	assert.Empty(t, hub.clients)
}
