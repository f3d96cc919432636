// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package websocket

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/tomtom215/artpass/internal/logging"
	"github.com/tomtom215/artpass/internal/passport"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "error",
		Format: "console",
		Output: io.Discard,
	})
}

// setupHub starts a hub that stops with the test.
func setupHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

// createTestClient creates a client without a connection.
func createTestClient(hub *Hub, uid string) *Client {
	return &Client{id: clientIDCounter.Add(1), uid: uid, hub: hub, send: make(chan Message, 4)}
}

func registerClient(t *testing.T, hub *Hub, client *Client) {
	t.Helper()
	want := hub.GetClientCount() + 1
	hub.Register <- client
	waitFor(t, "registration", func() bool { return hub.GetClientCount() == want })
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func receive(t *testing.T, c *Client) (Message, bool) {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		return msg, ok
	case <-time.After(200 * time.Millisecond):
		return Message{}, false
	}
}

func TestHub_ClientRegistration(t *testing.T) {
	hub := setupHub(t)
	client := createTestClient(hub, "u1")
	registerClient(t, hub, client)

	if n := hub.UserClientCount("u1"); n != 1 {
		t.Errorf("UserClientCount(u1) = %d, want 1", n)
	}

	hub.Unregister <- client
	waitFor(t, "unregistration", func() bool { return hub.GetClientCount() == 0 })

	if client.Send("view", nil) {
		t.Error("Send on an unregistered client succeeded")
	}
	// unregistering twice must not close the queue twice
	hub.Unregister <- client
}

func TestHub_BroadcastToUser(t *testing.T) {
	hub := setupHub(t)
	alice1 := createTestClient(hub, "alice")
	alice2 := createTestClient(hub, "alice")
	bob := createTestClient(hub, "bob")
	anon := createTestClient(hub, "")
	for _, c := range []*Client{alice1, alice2, bob, anon} {
		registerClient(t, hub, c)
	}

	hub.BroadcastPassportChange(passport.ChangeEvent{UID: "alice", EventID: "e1", Marked: true})

	for _, c := range []*Client{alice1, alice2} {
		msg, ok := receive(t, c)
		if !ok || msg.Type != MessageTypePassportChanged {
			t.Errorf("client %d got %+v, %v", c.id, msg, ok)
			continue
		}
		if ev, _ := msg.Data.(passport.ChangeEvent); ev.EventID != "e1" || !ev.Marked {
			t.Errorf("payload = %+v", msg.Data)
		}
	}
	for _, c := range []*Client{bob, anon} {
		if msg, ok := receive(t, c); ok {
			t.Errorf("client %q received %+v", c.uid, msg)
		}
	}

	hub.BroadcastToUser("", "ignored", nil)
	if msg, ok := receive(t, anon); ok {
		t.Errorf("empty uid broadcast delivered: %+v", msg)
	}
}

func TestHub_BroadcastToFullClient(t *testing.T) {
	hub := setupHub(t)
	slow := createTestClient(hub, "slow")
	registerClient(t, hub, slow)

	for i := 0; i < cap(slow.send); i++ {
		slow.Send("filler", i)
	}
	hub.BroadcastToUser("slow", "overflow", nil)
	waitFor(t, "slow client removal", func() bool { return hub.GetClientCount() == 0 })

	n := 0
	for range slow.send {
		n++
	}
	if n != cap(slow.send) {
		t.Errorf("drained %d messages, want %d", n, cap(slow.send))
	}
}

func TestHub_RunWithContext(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
		want error
	}{
		{"cancel", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				time.Sleep(20 * time.Millisecond)
				cancel()
			}()
			return ctx, cancel
		}, context.Canceled},
		{"deadline", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 30*time.Millisecond)
		}, context.DeadlineExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := NewHub()
			ctx, cancel := tt.ctx()
			defer cancel()

			errCh := make(chan error, 1)
			go func() { errCh <- hub.Serve(ctx) }()

			client := createTestClient(hub, "u")
			hub.Register <- client

			select {
			case err := <-errCh:
				if !errors.Is(err, tt.want) {
					t.Errorf("Serve() = %v, want %v", err, tt.want)
				}
			case <-time.After(time.Second):
				t.Fatal("Serve() did not return")
			}
			if _, ok := <-client.send; ok {
				t.Error("client queue still open after shutdown")
			}
		})
	}
}

func TestGetShutdownReason(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	if got := getShutdownReason(canceled); got != ShutdownReasonContextCanceled {
		t.Errorf("canceled reason = %s", got)
	}

	expired, cancel2 := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel2()
	if got := getShutdownReason(expired); got != ShutdownReasonContextDeadline {
		t.Errorf("deadline reason = %s", got)
	}
}

func TestMarshalMessage(t *testing.T) {
	data, err := MarshalMessage(Message{Type: MessageTypeError, Data: ErrorData{Request: "style", Message: "unknown basemap style"}})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"error","data":{"request":"style","message":"unknown basemap style"}}`
	if string(data) != want {
		t.Errorf("MarshalMessage() = %s, want %s", data, want)
	}
}
