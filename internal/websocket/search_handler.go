// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package websocket

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/artpass/internal/config"
	"github.com/tomtom215/artpass/internal/search"
	"github.com/tomtom215/artpass/internal/validation"
)

// searchHandler drives one search paginator from browser messages.
type searchHandler struct {
	paginator *search.Paginator
}

// NewSearchClient wires a client to a new search paginator. Every state
// change is sent as a results message.
func NewSearchClient(hub *Hub, conn *websocket.Conn, uid string, source search.Searcher, cfg config.SearchConfig) *Client {
	c := NewClient(hub, conn, uid)
	p := search.NewPaginator(source, cfg, search.WithUpdates(func(s search.State) {
		c.Send(MessageTypeResults, s)
	}))
	c.SetHandler(&searchHandler{paginator: p})
	return c
}

func (h *searchHandler) Handle(ctx context.Context, msg Inbound) error {
	switch msg.Type {
	case MessageTypeSearch:
		var q search.Query
		if len(msg.Data) > 0 && string(msg.Data) != "null" {
			if err := decode(msg, &q); err != nil {
				return err
			}
		}
		if verr := validation.ValidateStruct(&q); verr != nil {
			return fmt.Errorf("search: %w", verr)
		}
		h.paginator.Search(q)
		return nil

	case MessageTypeMore:
		// a More while loading or after the last page is ignored
		h.paginator.More()
		return nil

	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
}

func (h *searchHandler) Close() {
	h.paginator.Close()
}
