package contracts

import (
	"context"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
)

// ChangeType tags a change feed event.
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
)

// ReadingEvent is one push-delivered row event on the readings relation.
// Delivery is at least once with no ordering guarantee across reconnects;
// the reconciler's admission rule is the consumer's only defense.
type ReadingEvent struct {
	Type    ChangeType
	Reading domain.Reading
}

// ReadingFeed subscribes to insert/update events on the readings relation.
type ReadingFeed interface {
	// Subscribe returns a channel of events. The channel closes when ctx is
	// cancelled or the feed shuts down; consumers must pair it with polling
	// because disconnects drop events silently.
	Subscribe(ctx context.Context) (<-chan ReadingEvent, error)
}
