// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package websocket

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/artpass/internal/config"
	"github.com/tomtom215/artpass/internal/geo"
	"github.com/tomtom215/artpass/internal/logging"
	"github.com/tomtom215/artpass/internal/mapsession"
	"github.com/tomtom215/artpass/internal/models"
)

// MapDeps configures the sessions of map clients.
type MapDeps struct {
	Config config.MapConfig
	Source mapsession.EventSource
	Styles *mapsession.Styles
}

type sizeData struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type viewportData struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Zoom float64 `json:"zoom"`
}

type pointData struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type selectData struct {
	Index int `json:"index"`
}

type advanceData struct {
	Dir int `json:"dir"`
}

type styleData struct {
	Name string `json:"name"`
}

type tokenData struct {
	Token uint64 `json:"token"`
}

type geolocationData struct {
	Available bool `json:"available"`
}

type locationData struct {
	ID uint64 `json:"id"`
	mapsession.Fix
}

type locationErrorData struct {
	ID      uint64 `json:"id"`
	Message string `json:"message"`
}

// mapHandler drives one map session from browser messages.
type mapHandler struct {
	session *mapsession.Session
	locator *mapsession.RemoteLocator
}

// NewMapClient wires a client to a new map session. parent bounds the
// session; the session ends when the connection closes.
func NewMapClient(parent context.Context, hub *Hub, conn *websocket.Conn, uid string, deps MapDeps) *Client {
	c := NewClient(hub, conn, uid)
	locator := mapsession.NewRemoteLocator(func(req mapsession.LocateRequest) error {
		if !c.Send(MessageTypeGeolocate, req) {
			return fmt.Errorf("client %d not accepting messages", c.ID())
		}
		return nil
	})
	session := mapsession.New(logging.ContextWithSessionID(parent, fmt.Sprintf("map-%d", c.ID())), mapsession.Deps{
		Config:  deps.Config,
		Source:  deps.Source,
		Surface: newSurface(c),
		Locator: locator,
		Styles:  deps.Styles,
	})
	c.SetHandler(&mapHandler{session: session, locator: locator})
	return c
}

func decode(msg Inbound, v interface{}) error {
	if len(msg.Data) == 0 || string(msg.Data) == "null" {
		return fmt.Errorf("%s: missing data", msg.Type)
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		return fmt.Errorf("%s: %w", msg.Type, err)
	}
	return nil
}

func (h *mapHandler) Handle(ctx context.Context, msg Inbound) error {
	switch msg.Type {
	case MessageTypeInit:
		var d sizeData
		if err := decode(msg, &d); err != nil {
			return err
		}
		if err := h.session.Initialize(ctx, d.Width, d.Height); err != nil {
			return err
		}
		return h.session.LoadVenues()

	case MessageTypeResize:
		var d sizeData
		if err := decode(msg, &d); err != nil {
			return err
		}
		return h.session.Resize(d.Width, d.Height)

	case MessageTypeViewport:
		var d viewportData
		if err := decode(msg, &d); err != nil {
			return err
		}
		return h.session.SetViewport(models.LatLng{Lat: d.Lat, Lng: d.Lng}, d.Zoom)

	case MessageTypeClick:
		var d pointData
		if err := decode(msg, &d); err != nil {
			return err
		}
		return h.session.Click(geo.Point{X: d.X, Y: d.Y})

	case MessageTypeSelect:
		var d selectData
		if err := decode(msg, &d); err != nil {
			return err
		}
		return h.session.Select(d.Index, true)

	case MessageTypeAdvance:
		var d advanceData
		if err := decode(msg, &d); err != nil {
			return err
		}
		if d.Dir != 1 && d.Dir != -1 {
			return fmt.Errorf("advance: dir must be 1 or -1, got %d", d.Dir)
		}
		return h.session.Advance(d.Dir)

	case MessageTypeStyle:
		var d styleData
		if err := decode(msg, &d); err != nil {
			return err
		}
		return h.session.SetStyle(ctx, d.Name)

	case MessageTypeTilesReady:
		var d tokenData
		if err := decode(msg, &d); err != nil {
			return err
		}
		return h.session.TilesReady(d.Token)

	case MessageTypeLocate:
		return h.session.LocateMe()

	case MessageTypeGeolocation:
		var d geolocationData
		if err := decode(msg, &d); err != nil {
			return err
		}
		h.locator.SetAvailable(d.Available)
		return h.session.TrackUserLocation()

	case MessageTypeLocation:
		var d locationData
		if err := decode(msg, &d); err != nil {
			return err
		}
		h.locator.Deliver(d.ID, d.Fix)
		return nil

	case MessageTypeLocationError:
		var d locationErrorData
		if err := decode(msg, &d); err != nil {
			return err
		}
		h.locator.Fail(d.ID, d.Message)
		return nil

	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
}

func (h *mapHandler) Close() {
	h.session.Teardown()
}
