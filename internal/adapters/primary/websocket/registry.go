package websocket

import (
	"log/slog"
	"sync"

	"github.com/lorrc/home-services-backend/internal/core/domain"
	"github.com/lorrc/home-services-backend/internal/core/ports"
)

// Registry maintains the set of active Clients and fans events out to them.
// Business dashboards may hold several connections per business ID; website
// visitors hold at most one connection per visitor ID.
type Registry struct {
	// businessClients maps business IDs to their active connections.
	// A single business can have multiple connections (multiple tabs/devices).
	businessClients map[int64]map[*Client]bool

	// visitorClients maps visitor IDs to their single connection.
	// A reconnect under the same ID replaces the previous connection.
	visitorClients map[string]*Client

	// broadcast channel for events
	broadcast chan domain.Event

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// mu protects the client maps
	mu sync.RWMutex

	logger *slog.Logger
}

// Ensure Registry implements the EventBroadcaster interface.
var _ ports.EventBroadcaster = (*Registry)(nil)

// NewRegistry creates a new connection registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		businessClients: make(map[int64]map[*Client]bool),
		visitorClients:  make(map[string]*Client),
		broadcast:       make(chan domain.Event, 256),
		Register:        make(chan *Client),
		Unregister:      make(chan *Client),
		logger:          logger.With("component", "websocket_registry"),
	}
}

// Broadcast queues an event for fan-out. Delivery is fire-and-forget: a full
// queue drops the event rather than blocking the caller.
// This method implements the ports.EventBroadcaster interface.
func (r *Registry) Broadcast(event domain.Event) error {
	select {
	case r.broadcast <- event:
		return nil
	default:
		r.logger.Warn("broadcast channel full, dropping event",
			"event_type", event.Type,
			"business_id", event.BusinessID,
		)
		return nil
	}
}

// Run starts the registry's event loop. This MUST be run as a goroutine.
func (r *Registry) Run() {
	for {
		select {
		case client := <-r.Register:
			r.registerClient(client)

		case client := <-r.Unregister:
			r.unregisterClient(client)

		case event := <-r.broadcast:
			r.broadcastEvent(event)
		}
	}
}

// registerClient adds a client to the registry. A visitor reconnecting under
// the same ID displaces the previous connection.
func (r *Registry) registerClient(client *Client) {
	var displaced *Client

	r.mu.Lock()
	if client.IsVisitor() {
		if prev, ok := r.visitorClients[client.VisitorID]; ok && prev != client {
			displaced = prev
		}
		r.visitorClients[client.VisitorID] = client

		r.mu.Unlock()

		if displaced != nil {
			displaced.CloseSend()
		}

		r.logger.Info("visitor registered",
			"visitor_id", client.VisitorID,
			"displaced", displaced != nil,
		)
		return
	}

	if r.businessClients[client.BusinessID] == nil {
		r.businessClients[client.BusinessID] = make(map[*Client]bool)
	}
	r.businessClients[client.BusinessID][client] = true
	total := len(r.businessClients[client.BusinessID])
	r.mu.Unlock()

	r.logger.Info("business client registered",
		"business_id", client.BusinessID,
		"total_connections", total,
	)
}

// unregisterClient removes a client from the registry. Unregistering a
// client that is already gone is a no-op, so the read pump and a visitor
// displacement can both report the same connection safely.
func (r *Registry) unregisterClient(client *Client) {
	r.mu.Lock()

	if client.IsVisitor() {
		// Only remove the mapping if it still points at this connection;
		// a reconnect may already have replaced it.
		if current, ok := r.visitorClients[client.VisitorID]; ok && current == client {
			delete(r.visitorClients, client.VisitorID)
		}
	} else if conns, ok := r.businessClients[client.BusinessID]; ok {
		if _, exists := conns[client]; exists {
			delete(conns, client)
			if len(conns) == 0 {
				delete(r.businessClients, client.BusinessID)
			}
		}
	}

	r.mu.Unlock()

	client.CloseSend()

	r.logger.Info("client unregistered",
		"business_id", client.BusinessID,
		"visitor_id", client.VisitorID,
	)
}

// broadcastEvent fans an event out to the owning business's connections.
// NEW_CHAT_MESSAGE additionally goes to every connected visitor: the chat
// widget decides client-side whether the message belongs to its
// conversation. Per-visitor conversation routing would need a
// visitor-to-conversation map the connection query params do not carry yet.
func (r *Registry) broadcastEvent(event domain.Event) {
	r.mu.RLock()

	targets := make([]*Client, 0, len(r.businessClients[event.BusinessID]))
	for client := range r.businessClients[event.BusinessID] {
		targets = append(targets, client)
	}
	if event.Type == domain.EventNewChatMessage {
		for _, client := range r.visitorClients {
			targets = append(targets, client)
		}
	}

	r.mu.RUnlock()

	if len(targets) == 0 {
		return
	}

	r.logger.Debug("broadcasting event",
		"event_type", event.Type,
		"business_id", event.BusinessID,
		"client_count", len(targets),
	)

	for _, client := range targets {
		if client.TrySend(event) {
			continue
		}

		// The client is closed or its send buffer is full. Drop it
		// inline; sending to r.Unregister here would block forever
		// because Run is the only reader and it is executing this call.
		r.logger.Warn("client send buffer full, unregistering",
			"business_id", client.BusinessID,
			"visitor_id", client.VisitorID,
		)
		r.unregisterClient(client)
	}
}

// SendToClient queues an event for one connection, bypassing business
// fan-out. Used for the INITIAL_STATS push on connect. The push is lost
// when the connection closed or filled its buffer in the meantime.
func (r *Registry) SendToClient(client *Client, event domain.Event) {
	_ = client.TrySend(event)
}

// BusinessConnectionCount returns the number of connections a business holds.
func (r *Registry) BusinessConnectionCount(businessID int64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.businessClients[businessID])
}

// VisitorCount returns the number of connected visitors.
func (r *Registry) VisitorCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.visitorClients)
}

// ClientCount returns the total number of connections in the registry.
func (r *Registry) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := len(r.visitorClients)
	for _, conns := range r.businessClients {
		count += len(conns)
	}
	return count
}

// IsVisitorConnected reports whether a visitor currently holds a connection.
func (r *Registry) IsVisitorConnected(visitorID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.visitorClients[visitorID]
	return ok
}
