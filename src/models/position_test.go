package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testPosition(t *testing.T) *Position {
	t.Helper()

	cfg := NewBacktestConfig()
	entryDate := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	return NewPosition(NewStockSymbol("AAPL"), entryDate, 100.0, 1000, cfg)
}

func TestNewPosition(t *testing.T) {
	position := testPosition(t)

	assert.Equal(t, 95.0, position.StopLossPrice)
	assert.InDelta(t, 110.0, position.TakeProfitPrice, 1e-9)
	assert.Equal(t, position.EntryDate.AddDate(0, 0, 30), position.MaxExitDate)

	// long-only with positive percentages: stop < entry < target
	assert.Less(t, position.StopLossPrice, position.EntryPrice)
	assert.Greater(t, position.TakeProfitPrice, position.EntryPrice)
}

func TestCheckExit(t *testing.T) {
	day := func(offset int) time.Time {
		return time.Date(2024, time.March, 1+offset, 0, 0, 0, 0, time.UTC)
	}

	t.Run("no exit while inside the range", func(t *testing.T) {
		position := testPosition(t)
		c := NewCandle(day(1), 100, 104, 96, 101, 1000)

		_, _, ok := position.CheckExit(c, ExitPriorityStopFirst)
		assert.False(t, ok)
	})

	t.Run("stop loss fills at stop price", func(t *testing.T) {
		position := testPosition(t)
		c := NewCandle(day(1), 99, 99.5, 94, 94.5, 1000)

		price, reason, ok := position.CheckExit(c, ExitPriorityStopFirst)
		assert.True(t, ok)
		assert.Equal(t, ExitReasonStopLoss, reason)
		assert.Equal(t, 95.0, price)
	})

	t.Run("take profit fills at target price", func(t *testing.T) {
		position := testPosition(t)
		c := NewCandle(day(1), 105, 111, 104, 109, 1000)

		price, reason, ok := position.CheckExit(c, ExitPriorityStopFirst)
		assert.True(t, ok)
		assert.Equal(t, ExitReasonTakeProfit, reason)
		assert.Equal(t, position.TakeProfitPrice, price)
	})

	t.Run("stop wins the tie-break by default", func(t *testing.T) {
		position := testPosition(t)
		c := NewCandle(day(1), 100, 112, 93, 100, 1000)

		_, reason, ok := position.CheckExit(c, ExitPriorityStopFirst)
		assert.True(t, ok)
		assert.Equal(t, ExitReasonStopLoss, reason)
	})

	t.Run("target-first policy flips the tie-break", func(t *testing.T) {
		position := testPosition(t)
		c := NewCandle(day(1), 100, 112, 93, 100, 1000)

		price, reason, ok := position.CheckExit(c, ExitPriorityTargetFirst)
		assert.True(t, ok)
		assert.Equal(t, ExitReasonTakeProfit, reason)
		assert.Equal(t, position.TakeProfitPrice, price)
	})

	t.Run("holding period expiry closes at the bar close", func(t *testing.T) {
		position := testPosition(t)
		c := NewCandle(day(30), 100, 104, 96, 102, 1000)

		price, reason, ok := position.CheckExit(c, ExitPriorityStopFirst)
		assert.True(t, ok)
		assert.Equal(t, ExitReasonHoldingExpired, reason)
		assert.Equal(t, 102.0, price)
	})

	t.Run("expiry only on or after the max exit date", func(t *testing.T) {
		position := testPosition(t)
		c := NewCandle(day(29), 100, 104, 96, 102, 1000)

		_, _, ok := position.CheckExit(c, ExitPriorityStopFirst)
		assert.False(t, ok)
	})
}
