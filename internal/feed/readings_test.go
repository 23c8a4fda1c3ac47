package feed

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeReading(t *testing.T) {
	t.Run("full row", func(t *testing.T) {
		row := json.RawMessage(`{
			"reading_id": "r1",
			"read_at": "2026-08-28T10:00:00Z",
			"weight": 0.5,
			"product_id": "p1",
			"consumed": true,
			"sale_id": "s1"
		}`)
		r, err := decodeReading(row)
		require.NoError(t, err)
		assert.Equal(t, "r1", r.ID)
		assert.Equal(t, 0.5, r.Weight)
		assert.Equal(t, "p1", r.ProductID)
		assert.True(t, r.Consumed)
		assert.Equal(t, "s1", r.SaleID)
	})

	t.Run("fresh reading with nulls", func(t *testing.T) {
		row := json.RawMessage(`{
			"reading_id": "r2",
			"read_at": "2026-08-28T10:00:01Z",
			"weight": 1.2,
			"product_id": null,
			"consumed": false,
			"sale_id": null
		}`)
		r, err := decodeReading(row)
		require.NoError(t, err)
		assert.True(t, r.Unconsumed())
		assert.False(t, r.Bound())
	})

	t.Run("malformed rows rejected", func(t *testing.T) {
		_, err := decodeReading(json.RawMessage(`{"weight": 0.5, "read_at": "2026-08-28T10:00:00Z"}`))
		require.Error(t, err, "missing id")

		_, err = decodeReading(json.RawMessage(`{"reading_id": "r3", "weight": 0.5}`))
		require.Error(t, err, "missing timestamp")

		_, err = decodeReading(json.RawMessage(`not json`))
		require.Error(t, err)
	})
}
