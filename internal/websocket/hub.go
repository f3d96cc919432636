// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/artpass/internal/logging"
	"github.com/tomtom215/artpass/internal/metrics"
	"github.com/tomtom215/artpass/internal/passport"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline means the context deadline passed.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Outbound message types.
const (
	MessageTypeView            = "view"
	MessageTypeCamera          = "camera"
	MessageTypeTiles           = "tiles"
	MessageTypeGeolocate       = "geolocate"
	MessageTypeResults         = "results"
	MessageTypePassportChanged = "passport_changed"
	MessageTypeError           = "error"
	MessageTypePong            = "pong"
)

// Inbound message types.
const (
	MessageTypePing          = "ping"
	MessageTypeInit          = "init"
	MessageTypeResize        = "resize"
	MessageTypeViewport      = "viewport"
	MessageTypeClick         = "click"
	MessageTypeSelect        = "select"
	MessageTypeAdvance       = "advance"
	MessageTypeStyle         = "style"
	MessageTypeTilesReady    = "tiles_ready"
	MessageTypeLocate        = "locate"
	MessageTypeGeolocation   = "geolocation"
	MessageTypeLocation      = "location"
	MessageTypeLocationError = "location_error"
	MessageTypeSearch        = "search"
	MessageTypeMore          = "more"
)

// Message is an outbound WebSocket message.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Inbound is a message received from the browser. Data is decoded by the
// handler that understands Type.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ErrorData is the payload of an error message.
type ErrorData struct {
	Request string `json:"request"`
	Message string `json:"message"`
}

// broadcastMsg targets the clients opened with uid.
type broadcastMsg struct {
	uid string
	msg Message
}

// Hub maintains the set of active clients and broadcasts to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan broadcastMsg
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan broadcastMsg, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// RunWithContext runs the hub until ctx is done, then closes every client
// and returns ctx.Err().
//
// Shutdown is checked first, then client lifecycle events, then broadcasts,
// so client state is settled before a message is delivered.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.register(client)
			continue
		case client := <-h.Unregister:
			h.unregister(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.register(client)
		case client := <-h.Unregister:
			h.unregister(client)
		case b := <-h.broadcast:
			h.broadcastToClients(b)
		}
	}
}

// Serve implements suture.Service.
func (h *Hub) Serve(ctx context.Context) error {
	return h.RunWithContext(ctx)
}

func (h *Hub) String() string { return "websocket-hub" }

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	n := len(h.clients)
	h.mu.Unlock()
	metrics.WSConnections.Set(float64(n))
	logging.Info().Str("uid", client.uid).Int("total_clients", n).Msg("websocket client connected")
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		client.closeSend()
	}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.WSConnections.Set(float64(n))
	logging.Info().Str("uid", client.uid).Int("total_clients", n).Msg("websocket client disconnected")
}

// logGracefulShutdown closes every client and logs the shutdown. ctx.Err()
// is not logged as an error; cancellation is the expected path.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// sortedClients returns the clients in connection order. Callers hold mu.
func (h *Hub) sortedClients() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// broadcastToClients delivers in client id order. Clients whose send buffer
// is full are dropped.
func (h *Hub) broadcastToClients(b broadcastMsg) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var toRemove []*Client
	for _, client := range h.sortedClients() {
		if client.uid != b.uid {
			continue
		}
		if !client.Send(b.msg.Type, b.msg.Data) {
			toRemove = append(toRemove, client)
		}
	}
	for _, client := range toRemove {
		client.closeSend()
		delete(h.clients, client)
	}
	if len(toRemove) > 0 {
		metrics.WSConnections.Set(float64(len(h.clients)))
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.sortedClients() {
		client.closeSend()
		delete(h.clients, client)
	}
	metrics.WSConnections.Set(0)
}

// BroadcastToUser sends a message to the clients opened with uid.
func (h *Hub) BroadcastToUser(uid, messageType string, data interface{}) {
	if uid == "" {
		return
	}
	h.enqueue(broadcastMsg{uid: uid, msg: Message{Type: messageType, Data: data}})
}

// BroadcastPassportChange forwards a passport change to its owner's clients.
func (h *Hub) BroadcastPassportChange(ev passport.ChangeEvent) {
	h.BroadcastToUser(ev.UID, MessageTypePassportChanged, ev)
}

func (h *Hub) enqueue(b broadcastMsg) {
	select {
	case h.broadcast <- b:
	default:
		logging.Warn().Str("message_type", b.msg.Type).Msg("broadcast channel full, dropping message")
	}
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// UserClientCount returns the number of clients opened with uid.
func (h *Hub) UserClientCount(uid string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for client := range h.clients {
		if client.uid == uid {
			n++
		}
	}
	return n
}

// MarshalMessage converts a message to JSON.
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
