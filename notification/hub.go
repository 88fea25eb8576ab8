// Package notification is the in-memory relay between customer order pages
// and staff dashboards. The hub owns the backlog of unacknowledged
// notifications; connected clients only ever see it through the snapshot sent
// on connect and the broadcasts that follow. Nothing survives a restart.
package notification

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-playground/validator"

	"github.com/TpPoom/POS-System/models"
)

// Event names carried on the wire, shared with every client.
const (
	EventInitial = "initialNotifications"
	EventSend    = "sendNotification"
	EventNew     = "newNotification"
	EventDelete  = "deleteNotification"
)

// Envelope frames every websocket message in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type sendRequest struct {
	Message string `json:"message"`
	Table   string `json:"table"`
}

type deleteRequest struct {
	ID int64 `json:"id"`
}

type Hub struct {
	validate *validator.Validate

	register   chan *client
	unregister chan *client
	send       chan sendRequest
	delete     chan int64

	// done is closed when Run returns; connection pumps select on it so they
	// never block on an unserviced channel after shutdown.
	done chan struct{}

	clients map[*client]bool
	backlog []models.Notification
	lastID  int64
}

func NewHub() *Hub {
	return &Hub{
		validate:   validator.New(),
		register:   make(chan *client),
		unregister: make(chan *client),
		send:       make(chan sendRequest, 16),
		delete:     make(chan int64, 16),
		done:       make(chan struct{}),
		clients:    make(map[*client]bool),
	}
}

// Publish appends a notification to the backlog and broadcasts it to every
// connected client, the publisher included. The hub assigns id and timestamp.
func (h *Hub) Publish(message, table string) {
	select {
	case h.send <- sendRequest{Message: message, Table: table}:
	case <-h.done:
	}
}

// Acknowledge removes the notification from the backlog and broadcasts the
// removal, clearing it from every client's view.
func (h *Hub) Acknowledge(id int64) {
	select {
	case h.delete <- id:
	case <-h.done:
	}
}

// Run owns all hub state. Construct the hub once at process start and run this
// until shutdown; when ctx ends every client connection is closed and the
// backlog is gone.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for c := range h.clients {
				close(c.outbound)
				c.conn.Close()
				delete(h.clients, c)
			}
			return

		case c := <-h.register:
			h.clients[c] = true
			// Late joiners still see outstanding notifications: the snapshot
			// goes out before any broadcast this client could observe.
			c.enqueue(marshal(EventInitial, h.snapshot()))

		case c := <-h.unregister:
			if h.clients[c] {
				delete(h.clients, c)
				close(c.outbound)
			}

		case req := <-h.send:
			n := models.Notification{
				ID:        h.nextID(),
				Message:   req.Message,
				Table:     req.Table,
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			}
			if err := h.validate.Struct(n); err != nil {
				log.Printf("dropping malformed notification: %v", err)
				continue
			}
			h.backlog = append(h.backlog, n)
			h.broadcast(marshal(EventNew, n))

		case id := <-h.delete:
			kept := h.backlog[:0]
			for _, n := range h.backlog {
				if n.ID != id {
					kept = append(kept, n)
				}
			}
			h.backlog = kept
			h.broadcast(marshal(EventDelete, deleteRequest{ID: id}))
		}
	}
}

func (h *Hub) snapshot() []models.Notification {
	snap := make([]models.Notification, len(h.backlog))
	copy(snap, h.backlog)
	return snap
}

// nextID is unix milliseconds bumped to stay strictly increasing when two
// notifications land in the same millisecond.
func (h *Hub) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= h.lastID {
		id = h.lastID + 1
	}
	h.lastID = id
	return id
}

// broadcast delivers best-effort: a client that cannot keep up is dropped
// rather than stalling the relay, and resynchronizes from the snapshot on its
// next connect.
func (h *Hub) broadcast(msg []byte) {
	for c := range h.clients {
		if !c.enqueue(msg) {
			delete(h.clients, c)
			close(c.outbound)
		}
	}
}

func marshal(event string, data interface{}) []byte {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("marshal %s: %v", event, err)
		return nil
	}
	msg, err := json.Marshal(Envelope{Event: event, Data: raw})
	if err != nil {
		log.Printf("marshal %s envelope: %v", event, err)
		return nil
	}
	return msg
}
