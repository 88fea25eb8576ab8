package session

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/TpPoom/POS-System/models"
	"github.com/TpPoom/POS-System/notification"
)

// Event is one relay broadcast as seen by a connected page.
type Event struct {
	Kind      string // notification.EventNew or notification.EventDelete
	New       models.Notification
	DeletedID int64
}

// Notifier wraps one websocket connection to the relay. The snapshot received
// on connect is exposed through Backlog; everything after arrives on Events.
// After a disconnect, callers reconnect for a fresh snapshot and re-query the
// order store; missed broadcasts are gone by design.
type Notifier struct {
	conn *websocket.Conn

	writeMu sync.Mutex
	backlog []models.Notification
	events  chan Event
}

// ConnectNotifier dials the relay and synchronously reads the backlog
// snapshot before returning.
func ConnectNotifier(url string) (*Notifier, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}

	var env notification.Envelope
	if err := conn.ReadJSON(&env); err != nil {
		conn.Close()
		return nil, err
	}

	n := &Notifier{conn: conn, events: make(chan Event, 32)}
	if env.Event == notification.EventInitial {
		if err := json.Unmarshal(env.Data, &n.backlog); err != nil {
			conn.Close()
			return nil, err
		}
	}

	go n.readLoop()
	return n, nil
}

// Backlog is the snapshot of unacknowledged notifications at connect time.
func (n *Notifier) Backlog() []models.Notification {
	return n.backlog
}

// Events delivers broadcasts received after the snapshot. The channel closes
// when the connection drops.
func (n *Notifier) Events() <-chan Event {
	return n.events
}

// Publish asks the relay to broadcast a notification; the relay assigns id
// and timestamp.
func (n *Notifier) Publish(message, table string) error {
	return n.write(notification.EventSend, map[string]interface{}{
		"message": message,
		"table":   table,
	})
}

// Acknowledge clears a notification for every connected client.
func (n *Notifier) Acknowledge(id int64) error {
	return n.write(notification.EventDelete, map[string]interface{}{"id": id})
}

func (n *Notifier) Close() error {
	return n.conn.Close()
}

func (n *Notifier) write(event string, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}

	n.writeMu.Lock()
	defer n.writeMu.Unlock()
	return n.conn.WriteJSON(notification.Envelope{Event: event, Data: raw})
}

func (n *Notifier) readLoop() {
	defer close(n.events)
	for {
		var env notification.Envelope
		if err := n.conn.ReadJSON(&env); err != nil {
			return
		}

		switch env.Event {
		case notification.EventNew:
			var notif models.Notification
			if err := json.Unmarshal(env.Data, &notif); err != nil {
				continue
			}
			n.events <- Event{Kind: notification.EventNew, New: notif}
		case notification.EventDelete:
			var del struct {
				ID int64 `json:"id"`
			}
			if err := json.Unmarshal(env.Data, &del); err != nil {
				continue
			}
			n.events <- Event{Kind: notification.EventDelete, DeletedID: del.ID}
		}
	}
}
