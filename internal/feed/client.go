// Package feed is the change feed client: a websocket subscription to
// row-level events pushed by the realtime endpoint. Delivery is at least
// once with no ordering guarantee across reconnects, so consumers must pair
// it with polling.
package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Event is one raw change-feed message.
type Event struct {
	Type     string          `json:"type"`
	Relation string          `json:"relation"`
	Row      json.RawMessage `json:"row"`
}

type subscribeMessage struct {
	Action   string   `json:"action"`
	Relation string   `json:"relation"`
	Events   []string `json:"events"`
}

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// Client maintains a websocket subscription, reconnecting with backoff.
type Client struct {
	url    string
	log    *logrus.Logger
	dialer *websocket.Dialer
}

// NewClient creates a feed client for the given websocket URL.
func NewClient(url string, log *logrus.Logger) *Client {
	return &Client{
		url:    url,
		log:    log,
		dialer: websocket.DefaultDialer,
	}
}

// Subscribe starts the subscription and returns the event channel. The
// channel closes when ctx is cancelled. Events arriving for other relations
// are dropped.
func (c *Client) Subscribe(ctx context.Context, relation string, events []string) <-chan Event {
	ch := make(chan Event, 16)
	go c.run(ctx, relation, events, ch)
	return ch
}

func (c *Client) run(ctx context.Context, relation string, events []string, ch chan<- Event) {
	defer close(ch)

	backoff := initialBackoff
	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			c.log.WithError(err).WithField("url", c.url).Warn("change feed dial failed, falling back to polling")
			if !sleepCtx(ctx, backoff) {
				return
			}
			backoff = min(backoff*2, maxBackoff)
			continue
		}
		backoff = initialBackoff

		c.readLoop(ctx, conn, relation, events, ch)
	}
}

// readLoop consumes one connection until it breaks or ctx is cancelled.
func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, relation string, events []string, ch chan<- Event) {
	defer conn.Close()

	if err := conn.WriteJSON(subscribeMessage{Action: "subscribe", Relation: relation, Events: events}); err != nil {
		c.log.WithError(err).Warn("change feed subscribe failed")
		return
	}

	// Unblock the blocking read when ctx is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() == nil {
				c.log.WithError(err).Warn("change feed connection lost, reconnecting")
			}
			return
		}
		if ev.Relation != relation {
			continue
		}
		select {
		case ch <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
