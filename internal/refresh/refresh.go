// Package refresh tells feed viewers that a new post exists so they re-query the feed.
package refresh

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/isdelr/birdgotwit-be/internal/models"
	"github.com/isdelr/birdgotwit-be/internal/websocket"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// SubjectPostCreated is the NATS subject carrying PostCreatedEvent.
const SubjectPostCreated = "post.created"

// Notifier is signalled after a post has been stored.
type Notifier interface {
	PostCreated(ctx context.Context, post models.Post) error
}

// PostCreatedEvent is the payload sent to listeners.
type PostCreatedEvent struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
}

func eventFor(post models.Post) PostCreatedEvent {
	return PostCreatedEvent{ID: post.ID, AuthorID: post.AuthorID, CreatedAt: post.CreatedAt}
}

// Broadcaster is the part of the websocket hub the notifier needs.
type Broadcaster interface {
	Broadcast(message []byte)
}

// HubNotifier pushes a feed.refresh message to every connected viewer.
type HubNotifier struct {
	hub Broadcaster
}

// NewHubNotifier creates a new HubNotifier.
func NewHubNotifier(hub Broadcaster) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) PostCreated(_ context.Context, post models.Post) error {
	n.hub.Broadcast(websocket.Encode(websocket.ActionFeedRefresh, eventFor(post)))
	return nil
}

// Publisher is satisfied by *nats.Conn.
type Publisher interface {
	PublishMsg(msg *nats.Msg) error
}

// NatsNotifier publishes PostCreatedEvent on SubjectPostCreated for other services.
type NatsNotifier struct {
	nc Publisher
}

// NewNatsNotifier creates a new NatsNotifier.
func NewNatsNotifier(nc Publisher) *NatsNotifier {
	return &NatsNotifier{nc: nc}
}

func (n *NatsNotifier) PostCreated(_ context.Context, post models.Post) error {
	data, err := json.Marshal(eventFor(post))
	if err != nil {
		return fmt.Errorf("marshalling error: %w", err)
	}
	msg := &nats.Msg{Subject: SubjectPostCreated, Data: data, Header: nats.Header{}}
	msg.Header.Set("Post-Id", post.ID)
	return n.nc.PublishMsg(msg)
}

// Multi fans a signal out to several notifiers. A failing notifier is logged and does not
// stop the others.
type Multi []Notifier

func (m Multi) PostCreated(ctx context.Context, post models.Post) error {
	var firstErr error
	for _, n := range m {
		if err := n.PostCreated(ctx, post); err != nil {
			log.Warn().Err(err).Str("post_id", post.ID).Msg("Refresh notifier failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
