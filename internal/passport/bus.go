// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package passport

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/tomtom215/artpass/internal/logging"
)

// TopicChanged carries ChangeEvents.
const TopicChanged = "passport.changed"

// ChangeEvent reports that an entry was added to or removed from a passport.
type ChangeEvent struct {
	UID       string    `json:"uid"`
	EventID   string    `json:"event_id"`
	Marked    bool      `json:"marked"`
	Timestamp time.Time `json:"timestamp"`
}

// Bus is the in-process pub/sub for passport changes.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus creates a Bus. A nil logger logs through the application logger.
func NewBus(logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NewSlogLogger(logging.NewSlogLogger())
	}
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger),
	}
}

// Publish sends ev to every current subscriber.
func (b *Bus) Publish(ev ChangeEvent) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal passport change: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("uid", ev.UID)
	return b.pubsub.Publish(TopicChanged, msg)
}

// Subscribe returns the raw message stream of TopicChanged.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, TopicChanged)
}

// Close stops the pub/sub and closes every subscription.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// Fanout delivers passport changes to a callback until its context ends.
// It implements suture.Service.
type Fanout struct {
	bus     *Bus
	deliver func(ChangeEvent)
}

// NewFanout creates a Fanout.
func NewFanout(bus *Bus, deliver func(ChangeEvent)) *Fanout {
	return &Fanout{bus: bus, deliver: deliver}
}

// Serve subscribes and delivers messages. Malformed messages are acked and
// dropped.
func (f *Fanout) Serve(ctx context.Context) error {
	messages, err := f.bus.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", TopicChanged, err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var ev ChangeEvent
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				logging.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("malformed passport change dropped")
			} else {
				f.deliver(ev)
			}
			msg.Ack()
		}
	}
}

func (f *Fanout) String() string { return "passport-fanout" }
