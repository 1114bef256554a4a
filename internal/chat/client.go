package chat

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Yadavkshivam/Baat-kare/internal/middleware"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 10 * time.Second
	maxMessageSize = 4096
)

// Client is one authenticated live connection. The identity is fixed
// at handshake time and never changes for the connection's lifetime.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	UserID uuid.UUID
	Name   string

	send chan []byte

	// joined mirrors the hub's room table for this connection and is
	// only touched from the hub loop.
	joined map[uuid.UUID]bool

	limiter     *middleware.RateLimiter
	lastWarning time.Time
	once        sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, name string, limiter *middleware.RateLimiter) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		UserID:  userID,
		Name:    name,
		send:    make(chan []byte, 256),
		joined:  make(map[uuid.UUID]bool),
		limiter: limiter,
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(c.send)
			for i := 0; i < n; i++ {
				msg, ok := <-c.send
				if !ok {
					break
				}
				w.Write([]byte{'\n'})
				w.Write(msg)
			}

			if err := w.Close(); err != nil {
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

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[CLIENT] Unexpected close from %s: %v", c.Name, err)
			}
			break
		}

		if !c.limiter.Allow() {
			if time.Since(c.lastWarning) > 3*time.Second {
				warning, _ := marshalEnvelope(EventSystem, map[string]string{
					"message": "Rate limit exceeded.",
				})
				select {
				case c.send <- warning:
					c.lastWarning = time.Now()
				default:
				}
			}
			continue
		}

		var envelope Envelope
		if err := json.Unmarshal(message, &envelope); err != nil {
			continue
		}

		select {
		case c.hub.inbound <- inboundEvent{client: c, envelope: envelope}:
		case <-c.hub.Quit:
			return
		}
	}
}
