package websocket

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"focusflow/internal/logging"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The UI is served from arbitrary origins in development; access
	// control happens upstream of this service.
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// Handler upgrades HTTP connections and attaches clients to the hub.
// The optional "user" query parameter scopes the event stream to one user.
func Handler(hub *Hub, logger logging.Logger) http.HandlerFunc {
	log := logger.WithComponent("websocket")
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("upgrade failed", "error", err.Error())
			return
		}

		client := &Client{
			ID:     uuid.New().String(),
			Conn:   conn,
			Send:   make(chan InsightEvent, 16),
			UserID: r.URL.Query().Get("user"),
		}
		hub.Register(client)

		go client.writePump(log)
		go client.readPump(log)
	}
}

// writePump sends queued events and periodic pings to the client
func (c *Client) writePump(log logging.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(event); err != nil {
				log.Warn("write failed", "client_id", c.ID, "error", err.Error())
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client messages to keep the connection alive and
// unregisters on close
func (c *Client) readPump(log logging.Logger) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("unexpected close", "client_id", c.ID, "error", err.Error())
			}
			return
		}
	}
}
