package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	wsAdapter "github.com/lorrc/home-services-backend/internal/adapters/primary/websocket"
	"github.com/lorrc/home-services-backend/internal/config"
	"github.com/lorrc/home-services-backend/internal/core/domain"
	"github.com/lorrc/home-services-backend/internal/core/ports"
)

// WebSocketHandler upgrades connections and registers them with the
// registry. A connection identifies itself with query parameters: businessId
// for dashboards, visitorId for website chat widgets. When both are present
// businessId wins.
type WebSocketHandler struct {
	registry        *wsAdapter.Registry
	businessService ports.BusinessService
	upgrader        websocket.Upgrader
	logger          *slog.Logger
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	registry *wsAdapter.Registry,
	businessService ports.BusinessService,
	cfg *config.Config,
	logger *slog.Logger,
) *WebSocketHandler {
	handler := &WebSocketHandler{
		registry:        registry,
		businessService: businessService,
		logger:          logger,
	}

	handler.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		CheckOrigin:     handler.makeOriginChecker(cfg),
	}

	return handler
}

// makeOriginChecker creates an origin checking function based on configuration
func (h *WebSocketHandler) makeOriginChecker(cfg *config.Config) func(r *http.Request) bool {
	allowedOrigins := cfg.WebSocket.AllowedOrigins

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// In development mode, allow all origins (but log a warning)
		if cfg.IsDevelopment() {
			if origin != "" {
				h.logger.Warn("allowing websocket connection in development mode",
					"origin", origin,
					"remote_addr", r.RemoteAddr,
				)
			}
			return true
		}

		// No origin header (same-origin request or non-browser client)
		if origin == "" {
			return true
		}

		parsedOrigin, err := url.Parse(origin)
		if err != nil {
			h.logger.Warn("failed to parse websocket origin",
				"origin", origin,
				"error", err,
			)
			return false
		}

		originHost := parsedOrigin.Host

		for _, allowed := range allowedOrigins {
			// Support wildcard subdomains like "*.example.com"
			if strings.HasPrefix(allowed, "*.") {
				suffix := allowed[1:] // Remove the "*", keep ".example.com"
				if strings.HasSuffix(originHost, suffix) || originHost == allowed[2:] {
					return true
				}
			} else if originHost == allowed {
				return true
			}
		}

		h.logger.Warn("websocket connection rejected due to origin",
			"origin", origin,
			"remote_addr", r.RemoteAddr,
			"allowed_origins", allowedOrigins,
		)
		return false
	}
}

// ServeHTTP handles WebSocket connection requests
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	// 1. Identify the connection via query parameters
	businessIDRaw := r.URL.Query().Get("businessId")
	visitorID := r.URL.Query().Get("visitorId")

	var businessID int64
	if businessIDRaw != "" {
		parsed, err := strconv.ParseInt(businessIDRaw, 10, 64)
		if err != nil || parsed <= 0 {
			h.logger.Warn("websocket connection rejected: bad businessId",
				"request_id", requestID,
				"business_id", businessIDRaw,
				"remote_addr", r.RemoteAddr,
			)
			http.Error(w, "Invalid businessId", http.StatusBadRequest)
			return
		}
		businessID = parsed
	}

	if businessID == 0 && visitorID == "" {
		h.logger.Warn("websocket connection rejected: no identity",
			"request_id", requestID,
			"remote_addr", r.RemoteAddr,
		)
		http.Error(w, "businessId or visitorId is required", http.StatusBadRequest)
		return
	}

	// 2. Upgrade the connection
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade websocket connection",
			"request_id", requestID,
			"error", err,
		)
		return
	}

	h.logger.Info("websocket connection established",
		"request_id", requestID,
		"business_id", businessID,
		"visitor_id", visitorID,
		"remote_addr", r.RemoteAddr,
	)

	// 3. Create and register the new client
	var client *wsAdapter.Client
	if businessID > 0 {
		client = wsAdapter.NewBusinessClient(h.registry, conn, businessID, h.logger)
	} else {
		client = wsAdapter.NewVisitorClient(h.registry, conn, visitorID, h.logger)
	}
	h.registry.Register <- client

	// 4. Start the I/O pumps in new goroutines
	go client.WritePump()
	go client.ReadPump()

	// 5. Push the dashboard's opening stats snapshot
	if businessID > 0 {
		h.sendInitialStats(r, client, businessID)
	}
}

// sendInitialStats queues the INITIAL_STATS snapshot for one freshly opened
// dashboard connection. A stats failure only costs the snapshot, never the
// connection.
func (h *WebSocketHandler) sendInitialStats(r *http.Request, client *wsAdapter.Client, businessID int64) {
	stats, err := h.businessService.GetStats(r.Context(), businessID)
	if err != nil {
		h.logger.Error("failed to load initial stats",
			"business_id", businessID,
			"error", err,
		)
		return
	}

	h.registry.SendToClient(client, domain.NewInitialStatsEvent(businessID, stats))
}
