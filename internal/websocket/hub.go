// internal/websocket/hub.go
package websocket

import (
	"context"
	"log"
	"sync"

	wstypes "dealerdesk-service/internal/domain/websocket"
	"dealerdesk-service/internal/pkg/jwt"
	"dealerdesk-service/internal/pkg/session"
)

type Hub struct {
	// Registered clients by vendor ID
	clients map[int64]map[*Client]bool
	mu      sync.RWMutex

	// Registration/unregistration
	Register   chan *Client
	unregister chan *Client

	// Broadcasting
	broadcast chan *BroadcastMessage

	// Handler registry for modular message handling
	handlerRegistry *HandlerRegistry

	// Auth dependencies
	jwtVerifier    *jwt.Verifier
	sessionManager *session.Manager
}

type BroadcastMessage struct {
	VendorIDs []int64
	Channel   wstypes.ChannelType
	Message   *wstypes.WSMessage
}

func NewHub(jwtVerifier *jwt.Verifier, sessionManager *session.Manager) *Hub {
	return &Hub{
		clients:         make(map[int64]map[*Client]bool),
		Register:        make(chan *Client),
		unregister:      make(chan *Client),
		broadcast:       make(chan *BroadcastMessage, 256),
		handlerRegistry: NewHandlerRegistry(),
		jwtVerifier:     jwtVerifier,
		sessionManager:  sessionManager,
	}
}

// AuthenticateClient validates the JWT token and creates an authenticated client
func (h *Hub) AuthenticateClient(ctx context.Context, token string) (*ClientAuth, error) {
	// Verify JWT token
	claims, err := h.jwtVerifier.VerifyAccessToken(token)
	if err != nil {
		return nil, err
	}

	// Check if token is blacklisted
	blacklisted, err := h.sessionManager.IsTokenBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, ErrTokenBlacklisted
	}

	// Verify session exists
	sessionData, err := h.sessionManager.GetSession(ctx, claims.VendorID, claims.ID)
	if err != nil {
		return nil, err
	}

	return &ClientAuth{
		VendorID:  claims.VendorID,
		SessionID: claims.ID,
		Email:     sessionData.Email,
		Device:    claims.Device,
	}, nil
}

// RegisterHandler registers a message handler
func (h *Hub) RegisterHandler(handler MessageHandler) {
	h.handlerRegistry.Register(handler)
}

// HandleClientMessage processes a message from a client using registered handlers
func (h *Hub) HandleClientMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) error {
	handler, exists := h.handlerRegistry.GetHandler(msg.Type)
	if !exists {
		return nil // Will be handled by client's default handler
	}

	return handler.HandleMessage(ctx, client, msg)
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.BroadcastMessage(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.vendorID] == nil {
		h.clients[client.vendorID] = make(map[*Client]bool)
	}
	h.clients[client.vendorID][client] = true

	log.Printf("Client connected: vendor=%d, session=%s, total=%d",
		client.vendorID, client.sessionID, h.totalClients())

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]interface{}{
		"vendor_id":  client.vendorID,
		"session_id": client.sessionID,
		"device":     client.device,
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.vendorID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.Close()

			if len(clients) == 0 {
				delete(h.clients, client.vendorID)
			}

			log.Printf("Client disconnected: vendor=%d, session=%s, total=%d",
				client.vendorID, client.sessionID, h.totalClients())
		}
	}
}

func (h *Hub) BroadcastMessage(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if msg.VendorIDs == nil {
		// Broadcast to all
		for _, clients := range h.clients {
			for client := range clients {
				if client.IsSubscribed(msg.Channel) {
					client.SendMessage(msg.Message)
				}
			}
		}
	} else {
		// Broadcast to specific vendors
		for _, vendorID := range msg.VendorIDs {
			if clients, ok := h.clients[vendorID]; ok {
				for client := range clients {
					if client.IsSubscribed(msg.Channel) {
						client.SendMessage(msg.Message)
					}
				}
			}
		}
	}
}

func (h *Hub) GetConnectedClients(vendorID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if clients, ok := h.clients[vendorID]; ok {
		return len(clients)
	}
	return 0
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalClients()
}

// BroadcastChange pushes a change notification to one vendor's clients.
func (h *Hub) BroadcastChange(vendorID int64, channel wstypes.ChannelType, eventType wstypes.EventType, data *wstypes.ChangeData) {
	h.broadcast <- &BroadcastMessage{
		VendorIDs: []int64{vendorID},
		Channel:   channel,
		Message:   wstypes.NewMessage(eventType, data),
	}
}

func (h *Hub) ForceLogout(vendorID int64, sessionID string, reason string) {
	msg := wstypes.NewMessage(wstypes.EventTypeForceLogout, wstypes.SessionEventData{
		SessionID: sessionID,
		Reason:    reason,
		Message:   "You have been logged out",
	})
	h.broadcast <- &BroadcastMessage{
		VendorIDs: []int64{vendorID},
		Channel:   wstypes.ChannelSystem,
		Message:   msg,
	}
}

// IsVendorConnected checks if a vendor has any active connections
func (h *Hub) IsVendorConnected(vendorID int64) bool {
	return h.GetConnectedClients(vendorID) > 0
}

func (h *Hub) totalClients() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
	}
}
