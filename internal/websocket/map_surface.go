// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package websocket

import (
	"sync/atomic"

	"github.com/tomtom215/artpass/internal/mapsession"
	"github.com/tomtom215/artpass/internal/models"
)

// CameraData is the payload of a camera message. Invalidate asks the map to
// re-measure its container; otherwise the camera moves to Center/Zoom.
type CameraData struct {
	Center     *models.LatLng `json:"center,omitempty"`
	Zoom       float64        `json:"zoom,omitempty"`
	Animate    bool           `json:"animate,omitempty"`
	Invalidate bool           `json:"invalidate,omitempty"`
}

// Tile layer actions.
const (
	TilesAttach = "attach"
	TilesDetach = "detach"
)

// TilesData is the payload of a tiles message.
type TilesData struct {
	Action string                   `json:"action"`
	Token  uint64                   `json:"token"`
	Style  *mapsession.BasemapStyle `json:"style,omitempty"`
}

// surface renders a map session into a browser over the client's socket.
type surface struct {
	client    *Client
	destroyed atomic.Bool
}

func newSurface(c *Client) *surface {
	return &surface{client: c}
}

func (s *surface) send(messageType string, data interface{}) {
	if s.destroyed.Load() {
		return
	}
	s.client.Send(messageType, data)
}

func (s *surface) Render(v mapsession.View) {
	s.send(MessageTypeView, v)
}

func (s *surface) InvalidateSize() {
	s.send(MessageTypeCamera, CameraData{Invalidate: true})
}

func (s *surface) SetView(center models.LatLng, zoom float64, animate bool) {
	s.send(MessageTypeCamera, CameraData{Center: &center, Zoom: zoom, Animate: animate})
}

func (s *surface) AttachTiles(token uint64, style mapsession.BasemapStyle) {
	s.send(MessageTypeTiles, TilesData{Action: TilesAttach, Token: token, Style: &style})
}

func (s *surface) DetachTiles(token uint64) {
	s.send(MessageTypeTiles, TilesData{Action: TilesDetach, Token: token})
}

func (s *surface) Destroy() {
	s.destroyed.Store(true)
}
