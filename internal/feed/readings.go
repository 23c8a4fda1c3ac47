package feed

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/light-bringer/deli-pos-service/internal/app/sales/contracts"
	"github.com/light-bringer/deli-pos-service/internal/app/sales/domain"
	"github.com/light-bringer/deli-pos-service/internal/models/m_readings"
)

// readingRow is the wire shape of a readings row in feed events.
type readingRow struct {
	ReadingID string    `json:"reading_id"`
	ReadAt    time.Time `json:"read_at"`
	Weight    float64   `json:"weight"`
	ProductID *string   `json:"product_id"`
	Consumed  bool      `json:"consumed"`
	SaleID    *string   `json:"sale_id"`
}

// ReadingsFeed adapts the raw feed client to the typed reading feed contract.
type ReadingsFeed struct {
	client *Client
	log    *logrus.Logger
}

var _ contracts.ReadingFeed = (*ReadingsFeed)(nil)

func NewReadingsFeed(client *Client, log *logrus.Logger) *ReadingsFeed {
	return &ReadingsFeed{client: client, log: log}
}

// Subscribe streams insert and update events on the readings relation.
// Rows that fail to decode are logged and skipped rather than propagated:
// the poll loop will pick the reading up anyway.
func (f *ReadingsFeed) Subscribe(ctx context.Context) (<-chan contracts.ReadingEvent, error) {
	raw := f.client.Subscribe(ctx, m_readings.TableName, []string{
		string(contracts.ChangeInsert),
		string(contracts.ChangeUpdate),
	})

	out := make(chan contracts.ReadingEvent, 16)
	go func() {
		defer close(out)
		for ev := range raw {
			reading, err := decodeReading(ev.Row)
			if err != nil {
				f.log.WithError(err).Warn("discarding undecodable reading event")
				continue
			}
			select {
			case out <- contracts.ReadingEvent{Type: contracts.ChangeType(ev.Type), Reading: reading}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func decodeReading(row json.RawMessage) (domain.Reading, error) {
	var r readingRow
	if err := json.Unmarshal(row, &r); err != nil {
		return domain.Reading{}, err
	}
	if r.ReadingID == "" {
		return domain.Reading{}, errors.New("reading event missing reading_id")
	}
	if r.ReadAt.IsZero() {
		return domain.Reading{}, errors.New("reading event missing read_at")
	}
	reading := domain.Reading{
		ID:        r.ReadingID,
		Timestamp: r.ReadAt,
		Weight:    r.Weight,
		Consumed:  r.Consumed,
	}
	if r.ProductID != nil {
		reading.ProductID = *r.ProductID
	}
	if r.SaleID != nil {
		reading.SaleID = *r.SaleID
	}
	return reading, nil
}
