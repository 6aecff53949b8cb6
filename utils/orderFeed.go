package utils

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	feedWriteTimeout = 5 * time.Second
	// events queued per client before it is considered stalled and dropped
	feedSendBuffer = 16
)

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

// OrderFeed pushes order events to connected staff websocket clients. Each
// client has its own queue and writer, so Broadcast never waits on a socket.
type OrderFeed struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	clients  map[*feedClient]struct{}
}

func NewOrderFeed() *OrderFeed {
	return &OrderFeed{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*feedClient]struct{}),
	}
}

// ServeWS upgrades the request and blocks until the client goes away.
// Incoming messages are read and discarded.
func (f *OrderFeed) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Error upgrading order feed connection:", err)
		return
	}

	client := &feedClient{conn: conn, send: make(chan []byte, feedSendBuffer)}
	f.mu.Lock()
	f.clients[client] = struct{}{}
	f.mu.Unlock()

	go f.writeLoop(client)
	defer f.remove(client)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Println("Order feed read error:", err)
			}
			return
		}
	}
}

func (f *OrderFeed) writeLoop(client *feedClient) {
	for msg := range client.send {
		client.conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
		if err := client.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Println("Order feed write error:", err)
			// unblocks the read loop in ServeWS, which removes the client
			client.conn.Close()
			return
		}
	}
}

// remove is safe to call more than once for the same client.
func (f *OrderFeed) remove(client *feedClient) {
	f.mu.Lock()
	f.dropLocked(client)
	f.mu.Unlock()
}

func (f *OrderFeed) dropLocked(client *feedClient) {
	if _, ok := f.clients[client]; !ok {
		return
	}
	delete(f.clients, client)
	close(client.send)
	client.conn.Close()
}

// Broadcast queues v as JSON for every client. A client whose queue is full
// is dropped instead of slowing down the caller.
func (f *OrderFeed) Broadcast(v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		log.Println("Order feed encode error:", err)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for client := range f.clients {
		select {
		case client.send <- msg:
		default:
			log.Println("Order feed client too slow, disconnecting")
			f.dropLocked(client)
		}
	}
}

func (f *OrderFeed) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}
