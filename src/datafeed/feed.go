package datafeed

import (
	"context"
	"fmt"
	"time"

	"github.com/quantfold/backtester/src/models"
)

// DataFeed supplies the ordered daily price series for a symbol over a date
// range. Implementations may fail or return partial data; the runner isolates
// such failures per symbol.
type DataFeed interface {
	FetchCandles(ctx context.Context, symbol models.StockSymbol, from, to time.Time) ([]*models.Candle, error)
}

// MemoryFeed serves preloaded candles, primarily for tests and the HTTP API.
type MemoryFeed struct {
	candles map[models.StockSymbol][]*models.Candle
}

func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{
		candles: make(map[models.StockSymbol][]*models.Candle),
	}
}

func (f *MemoryFeed) SetCandles(symbol models.StockSymbol, candles []*models.Candle) {
	f.candles[symbol] = candles
}

func (f *MemoryFeed) FetchCandles(ctx context.Context, symbol models.StockSymbol, from, to time.Time) ([]*models.Candle, error) {
	candles, found := f.candles[symbol]
	if !found {
		return nil, fmt.Errorf("MemoryFeed.FetchCandles: no series loaded for %s: %w", symbol, models.ErrDataUnavailable)
	}

	return filterRange(candles, from, to), nil
}

func filterRange(candles []*models.Candle, from, to time.Time) []*models.Candle {
	out := make([]*models.Candle, 0, len(candles))
	for _, c := range candles {
		if !from.IsZero() && c.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && c.Timestamp.After(to) {
			continue
		}
		out = append(out, c)
	}

	return out
}
