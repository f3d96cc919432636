// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package websocket

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/artpass/internal/logging"
	"github.com/tomtom215/artpass/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 256

	// handleTimeout bounds one inbound message that waits on a session.
	handleTimeout = 10 * time.Second
)

// clientIDCounter orders clients for broadcasts.
var clientIDCounter atomic.Uint64

// Handler consumes the inbound messages of one client.
type Handler interface {
	// Handle processes one message. A returned error is reported to the
	// browser as an error message; the connection stays open.
	Handle(ctx context.Context, msg Inbound) error

	// Close releases the handler's session. It runs once, after the last
	// Handle call.
	Close()
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	id      uint64
	uid     string
	hub     *Hub
	conn    *websocket.Conn
	handler Handler

	mu     sync.Mutex
	send   chan Message
	closed bool
}

// NewClient creates a client for conn opened with uid. Set a handler with
// SetHandler before Start.
func NewClient(hub *Hub, conn *websocket.Conn, uid string) *Client {
	return &Client{
		id:   clientIDCounter.Add(1),
		uid:  uid,
		hub:  hub,
		conn: conn,
		send: make(chan Message, sendBuffer),
	}
}

// ID returns the client's connection-order identifier.
func (c *Client) ID() uint64 { return c.id }

// UID returns the user the client was opened with.
func (c *Client) UID() string { return c.uid }

// SetHandler installs h. It must be called before Start.
func (c *Client) SetHandler(h Handler) { c.handler = h }

// Send queues a message without blocking. It reports false when the client
// is closed or its buffer is full.
func (c *Client) Send(messageType string, data interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- Message{Type: messageType, Data: data}:
		metrics.WSMessages.WithLabelValues("out", messageType).Inc()
		return true
	default:
		return false
	}
}

// closeSend closes the outbound queue once; the write pump then closes the
// connection.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Start registers the client and begins reading and writing.
func (c *Client) Start() {
	c.hub.Register <- c
	go c.writePump()
	go c.readPump()
}

func (c *Client) readPump() {
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		if c.handler != nil {
			c.handler.Close()
		}
		select {
		case c.hub.Unregister <- c:
		case <-time.After(writeWait):
			c.closeSend()
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Error().Err(err).Msg("unexpected websocket close error")
			}
			return
		}
		var msg Inbound
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type == "" {
			c.Send(MessageTypeError, ErrorData{Message: "malformed message"})
			continue
		}
		metrics.WSMessages.WithLabelValues("in", msg.Type).Inc()

		if msg.Type == MessageTypePing {
			c.Send(MessageTypePong, nil)
			continue
		}
		if c.handler == nil {
			continue
		}

		hctx, hcancel := context.WithTimeout(ctx, handleTimeout)
		err = c.handler.Handle(hctx, msg)
		hcancel()
		if err != nil {
			logging.Debug().Err(err).Str("type", msg.Type).Uint64("client_id", c.id).Msg("websocket message rejected")
			c.Send(MessageTypeError, ErrorData{Request: msg.Type, Message: err.Error()})
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			data, err := MarshalMessage(message)
			if err != nil {
				logging.Error().Err(err).Str("type", message.Type).Msg("failed to marshal websocket message")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				logging.Debug().Err(err).Msg("failed to write websocket message")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline for ping")
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
