package notification

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	// Outbound buffer per client; a client that falls this far behind is
	// dropped and must reconnect for a fresh snapshot.
	sendBuffer = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Customer pages are opened straight from QR codes on the restaurant LAN.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	hub      *Hub
	conn     *websocket.Conn
	outbound chan []byte
}

// ServeHTTP lets the hub be mounted directly as the /ws route.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.ServeWS(w, r)
}

// ServeWS upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}

	c := &client{hub: h, conn: conn, outbound: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// enqueue reports false when the client's buffer is full, which the hub treats
// as a dead connection.
func (c *client) enqueue(msg []byte) bool {
	if msg == nil {
		return true
	}
	select {
	case c.outbound <- msg:
		return true
	default:
		return false
	}
}

// readPump parses client commands and forwards them to the hub. It is the only
// reader on the connection.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read: %v", err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			log.Printf("malformed envelope: %v", err)
			continue
		}

		switch env.Event {
		case EventSend:
			var req sendRequest
			if err := json.Unmarshal(env.Data, &req); err != nil {
				log.Printf("malformed %s payload: %v", EventSend, err)
				continue
			}
			select {
			case c.hub.send <- req:
			case <-c.hub.done:
				return
			}
		case EventDelete:
			var req deleteRequest
			if err := json.Unmarshal(env.Data, &req); err != nil {
				log.Printf("malformed %s payload: %v", EventDelete, err)
				continue
			}
			select {
			case c.hub.delete <- req.ID:
			case <-c.hub.done:
				return
			}
		default:
			log.Printf("unknown event %q", env.Event)
		}
	}
}

// writePump is the only writer on the connection. A closed outbound channel
// means the hub dropped us.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.outbound:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
