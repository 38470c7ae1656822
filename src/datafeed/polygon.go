package datafeed

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	polygonmodels "github.com/polygon-io/client-go/rest/models"
	log "github.com/sirupsen/logrus"

	"github.com/quantfold/backtester/src/models"
)

// PolygonFeed fetches adjusted daily aggregates from the Polygon REST API.
type PolygonFeed struct {
	Client *polygon.Client
}

func NewPolygonFeed(apiKey string) *PolygonFeed {
	return &PolygonFeed{
		Client: polygon.New(apiKey),
	}
}

func (f *PolygonFeed) FetchCandles(ctx context.Context, symbol models.StockSymbol, from, to time.Time) ([]*models.Candle, error) {
	log.Debugf("PolygonFeed.FetchCandles: fetching daily aggs for %s", symbol)

	params := polygonmodels.ListAggsParams{
		Ticker:     symbol.String(),
		Multiplier: 1,
		Timespan:   polygonmodels.Day,
		From:       polygonmodels.Millis(from),
		To:         polygonmodels.Millis(to),
	}.WithOrder(polygonmodels.Asc).WithAdjusted(true)

	iter := f.Client.ListAggs(ctx, params)

	var aggs []polygonmodels.Agg
	for iter.Next() {
		aggs = append(aggs, iter.Item())
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("PolygonFeed.FetchCandles: failed to fetch aggs for %s: %v: %w", symbol, err, models.ErrDataUnavailable)
	}

	// an empty window is valid data, not a feed failure; the run degenerates
	// to zero trades
	return candlesFromAggs(aggs), nil
}

func candlesFromAggs(aggs []polygonmodels.Agg) []*models.Candle {
	candles := make([]*models.Candle, 0, len(aggs))
	for _, item := range aggs {
		candles = append(candles, models.NewCandle(
			time.Time(item.Timestamp).UTC(),
			item.Open,
			item.High,
			item.Low,
			item.Close,
			item.Volume,
		))
	}

	return models.SortedValidCandles(candles)
}
