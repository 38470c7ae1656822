package datafeed

import (
	"testing"
	"time"

	polygonmodels "github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandlesFromAggs(t *testing.T) {
	day := func(offset int) time.Time {
		return time.Date(2024, time.March, 1+offset, 0, 0, 0, 0, time.UTC)
	}

	agg := func(offset int, open, high, low, close float64) polygonmodels.Agg {
		return polygonmodels.Agg{
			Timestamp: polygonmodels.Millis(day(offset)),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    1000,
		}
	}

	t.Run("empty window yields an empty series, not an error", func(t *testing.T) {
		candles := candlesFromAggs(nil)

		assert.NotNil(t, candles)
		assert.Len(t, candles, 0)
	})

	t.Run("converts and sorts aggregates", func(t *testing.T) {
		candles := candlesFromAggs([]polygonmodels.Agg{
			agg(1, 101, 102, 100, 101.5),
			agg(0, 100, 101, 99, 100.5),
		})

		require.Len(t, candles, 2)
		assert.Equal(t, day(0), candles[0].Timestamp)
		assert.Equal(t, 100.5, candles[0].Close)
		assert.Equal(t, 101.5, candles[1].Close)
	})
}
