package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lorrc/home-services-backend/internal/core/domain"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

// Client is a middleman between one websocket connection and the registry.
// Exactly one of BusinessID and VisitorID is set.
type Client struct {
	Registry *Registry

	// The websocket connection.
	Conn *websocket.Conn

	// Buffered channel of outbound events.
	Send chan domain.Event

	// BusinessID identifies a dashboard connection. Zero for visitors.
	BusinessID int64

	// VisitorID identifies a website chat widget connection. Empty for
	// dashboards.
	VisitorID string

	// sendMu guards closed so no goroutine sends on Send after it is
	// closed.
	sendMu sync.Mutex
	closed bool

	logger *slog.Logger
}

// NewBusinessClient creates a client for a business dashboard connection.
func NewBusinessClient(registry *Registry, conn *websocket.Conn, businessID int64, logger *slog.Logger) *Client {
	return &Client{
		Registry:   registry,
		Conn:       conn,
		Send:       make(chan domain.Event, 256),
		BusinessID: businessID,
		logger:     logger.With("business_id", businessID),
	}
}

// NewVisitorClient creates a client for an anonymous website visitor.
func NewVisitorClient(registry *Registry, conn *websocket.Conn, visitorID string, logger *slog.Logger) *Client {
	return &Client{
		Registry:  registry,
		Conn:      conn,
		Send:      make(chan domain.Event, 256),
		VisitorID: visitorID,
		logger:    logger.With("visitor_id", visitorID),
	}
}

// IsVisitor reports whether this connection belongs to a website visitor.
func (c *Client) IsVisitor() bool {
	return c.VisitorID != ""
}

// CloseSend safely closes the Send channel exactly once
func (c *Client) CloseSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// TrySend queues an event without blocking. It reports false when the
// connection is already closed or its buffer is full.
func (c *Client) TrySend(event domain.Event) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.Send <- event:
		return true
	default:
		return false
	}
}

// ReadPump pumps messages from the websocket connection to the registry.
// This method runs in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.Registry.Unregister <- c
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error("failed to set read deadline", "error", err)
		return
	}

	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.logger.Error("failed to set read deadline in pong handler", "error", err)
		}
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			break
		}

		c.handleIncomingMessage(message)
	}
}

// WritePump pumps events from the registry to the websocket connection.
// This method runs in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline", "error", err)
				return
			}

			if !ok {
				// The registry closed the channel. Send close message.
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.logger.Debug("failed to send close message", "error", err)
				}
				return
			}

			if err := c.writeJSON(event); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline for ping", "error", err)
				return
			}

			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("failed to send ping", "error", err)
				return
			}
		}
	}
}

// writeJSON writes a JSON message to the websocket connection
func (c *Client) writeJSON(event domain.Event) error {
	w, err := c.Conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}

	if err := json.NewEncoder(w).Encode(event); err != nil {
		_ = w.Close()
		return err
	}

	return w.Close()
}

// --- Incoming Message Handling ---

// ClientMessage is the structure for messages sent from the client.
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// handleIncomingMessage processes messages received from the client. The
// REST API is the authoritative write path for chat, so echoes of
// NEW_CHAT_MESSAGE and MESSAGE_READ over the socket are ignored.
func (c *Client) handleIncomingMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Warn("failed to unmarshal client message", "error", err)
		return
	}

	switch msg.Type {
	case string(domain.EventNewChatMessage), string(domain.EventMessageRead):
		c.logger.Debug("ignoring socket write for REST-owned event", "type", msg.Type)

	case "PING":
		// Client-side keep-alive, respond with pong
		c.sendPong()

	default:
		c.logger.Debug("received unknown message type", "type", msg.Type)
	}
}

func (c *Client) sendPong() {
	// Buffer full or connection closed, skip the pong response.
	_ = c.TrySend(domain.Event{Type: domain.EventPong})
}
