// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/artpass/internal/mapsession"
	"github.com/tomtom215/artpass/internal/models"
	"github.com/tomtom215/artpass/internal/passport"
	"github.com/tomtom215/artpass/internal/search"
	ws "github.com/tomtom215/artpass/internal/websocket"
)

const allowedOrigin = "https://artpass.example.test"

func dial(t *testing.T, server *httptest.Server, path, origin string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+path, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if conn != nil {
		t.Cleanup(func() { _ = conn.Close() })
	}
	return conn, resp, err
}

type socketMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func readUntil(t *testing.T, conn *websocket.Conn, what string, match func(socketMessage) bool) socketMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %s: %v", what, err)
		}
		var msg socketMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decode %s: %v", data, err)
		}
		if match(msg) {
			return msg
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, msgType string, data interface{}) {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{"type": msgType, "data": data})
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

func TestWebSocket_OriginAndUID(t *testing.T) {
	env := newTestEnv(t)
	server := httptest.NewServer(env.router)
	t.Cleanup(server.Close)

	tests := []struct {
		name     string
		path     string
		origin   string
		wantCode int
	}{
		{"missing origin", "/api/v1/ws/map", "", http.StatusForbidden},
		{"foreign origin", "/api/v1/ws/map", "https://evil.example.test", http.StatusForbidden},
		{"invalid uid", "/api/v1/ws/search?uid=a%20b", allowedOrigin, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp, err := dial(t, server, tt.path, tt.origin)
			if err == nil {
				t.Fatal("expected handshake failure")
			}
			if resp == nil || resp.StatusCode != tt.wantCode {
				t.Errorf("response = %v, want %d", resp, tt.wantCode)
			}
		})
	}
}

func TestWebSocket_MapSession(t *testing.T) {
	env := newTestEnv(t)
	server := httptest.NewServer(env.router)
	t.Cleanup(server.Close)

	conn, _, err := dial(t, server, "/api/v1/ws/map?uid=u1", allowedOrigin)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	send(t, conn, ws.MessageTypeInit, map[string]int{"width": 400, "height": 600})
	readUntil(t, conn, "venue markers", func(m socketMessage) bool {
		var v mapsession.View
		return m.Type == ws.MessageTypeView && json.Unmarshal(m.Data, &v) == nil &&
			v.VenuesLoaded && len(v.Markers) == 2
	})
}

func TestWebSocket_SearchPages(t *testing.T) {
	env := newTestEnv(t)
	env.events.results = []models.EventSummary{{EventID: "s1", Title: "音樂會"}}
	server := httptest.NewServer(env.router)
	t.Cleanup(server.Close)

	conn, _, err := dial(t, server, "/api/v1/ws/search?uid=u1", allowedOrigin)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	send(t, conn, ws.MessageTypeSearch, search.Query{Categories: []string{"音樂現場"}})
	readUntil(t, conn, "results", func(m socketMessage) bool {
		var s search.State
		return m.Type == ws.MessageTypeResults && json.Unmarshal(m.Data, &s) == nil &&
			!s.Loading && len(s.Items) == 1 && !s.HasMore
	})
}

func TestWebSocket_PassportToggleReachesUserSockets(t *testing.T) {
	env := newTestEnv(t)
	env.handler.passport = passport.NewService(env.passport, passport.WithOnChange(func(uid, eventID string, marked bool) {
		env.hub.BroadcastPassportChange(passport.ChangeEvent{UID: uid, EventID: eventID, Marked: marked})
	}))
	server := httptest.NewServer(env.router)
	t.Cleanup(server.Close)

	conn, _, err := dial(t, server, "/api/v1/ws/search?uid=u3", allowedOrigin)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for env.hub.UserClientCount("u3") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/u3/passport/e42", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", rec.Code)
	}

	msg := readUntil(t, conn, "passport change", func(m socketMessage) bool { return m.Type == ws.MessageTypePassportChanged })
	var ev passport.ChangeEvent
	if err := json.Unmarshal(msg.Data, &ev); err != nil || ev.EventID != "e42" || !ev.Marked {
		t.Errorf("change = %+v (%v)", ev, err)
	}
}
