package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderFeedBroadcast(t *testing.T) {
	feed := NewOrderFeed()
	srv := httptest.NewServer(http.HandlerFunc(feed.ServeWS))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return feed.Count() == 1 }, time.Second, 10*time.Millisecond)

	feed.Broadcast(OrderEvent{Event: EventOrderCreated})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got OrderEvent
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, EventOrderCreated, got.Event)

	conn.Close()
	assert.Eventually(t, func() bool { return feed.Count() == 0 }, time.Second, 10*time.Millisecond)
}

func TestOrderFeedDropsStalledClient(t *testing.T) {
	feed := NewOrderFeed()
	srv := httptest.NewServer(http.HandlerFunc(feed.ServeWS))
	defer srv.Close()

	// the client never reads, so socket buffers fill and its queue backs up
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return feed.Count() == 1 }, time.Second, 10*time.Millisecond)

	payload := OrderEvent{Event: strings.Repeat("x", 256*1024)}
	var slowest time.Duration
	for i := 0; i < 1000 && feed.Count() > 0; i++ {
		start := time.Now()
		feed.Broadcast(payload)
		if d := time.Since(start); d > slowest {
			slowest = d
		}
	}

	assert.Zero(t, feed.Count())
	assert.Less(t, slowest, feedWriteTimeout/5)
}
