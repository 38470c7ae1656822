package backtester

import (
	"context"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/quantfold/backtester/src/datafeed"
	"github.com/quantfold/backtester/src/models"
)

const (
	TopicTradeClosed = "backtest:trade_closed"
	TopicRunComplete = "backtest:run_complete"
)

// BatchResult collects one batch run. Symbols whose data feed failed appear in
// Failures and are excluded from Results and the combined summary; a symbol
// with too little history still lands in Results with zero trades.
type BatchResult struct {
	RunID    uuid.UUID                                     `json:"run_id"`
	Results  map[models.StockSymbol]*models.BacktestResult `json:"results"`
	Failures map[models.StockSymbol]string                 `json:"failures"`
	Summary  *CombinedSummary                              `json:"summary"`
}

// CombinedSummary is summed from per-symbol results without re-reading the
// ledgers.
type CombinedSummary struct {
	TotalTrades     int     `json:"total_trades"`
	WinningTrades   int     `json:"winning_trades"`
	CombinedWinRate float64 `json:"combined_win_rate"`
	TotalPnl        float64 `json:"total_pnl"`
}

func NewCombinedSummary(results map[models.StockSymbol]*models.BacktestResult) *CombinedSummary {
	summary := &CombinedSummary{}
	for _, result := range results {
		summary.TotalTrades += result.TotalTrades
		summary.WinningTrades += result.WinningTrades
		summary.TotalPnl += result.TotalPnl
	}

	if summary.TotalTrades > 0 {
		summary.CombinedWinRate = float64(summary.WinningTrades) / float64(summary.TotalTrades) * 100.0
	}

	return summary
}

// Runner fans a batch request out to one simulation per symbol. Each
// simulation owns its candles, position and ledger exclusively, so the only
// synchronization is collecting results.
type Runner struct {
	engine *Engine
	feed   datafeed.DataFeed
	bus    EventBus.Bus
}

// NewRunner wires the engine to a data feed. The bus may be nil when no
// downstream consumers (alerting, paper-trading hooks) are attached.
func NewRunner(engine *Engine, feed datafeed.DataFeed, bus EventBus.Bus) *Runner {
	return &Runner{
		engine: engine,
		feed:   feed,
		bus:    bus,
	}
}

func (r *Runner) RunBatch(ctx context.Context, symbols []models.StockSymbol, from, to time.Time) *BatchResult {
	batch := &BatchResult{
		RunID:    uuid.New(),
		Results:  make(map[models.StockSymbol]*models.BacktestResult),
		Failures: make(map[models.StockSymbol]string),
	}

	var mtx sync.Mutex
	wg := sync.WaitGroup{}

	for _, symbol := range symbols {
		wg.Add(1)

		go func(symbol models.StockSymbol) {
			defer wg.Done()

			candles, err := r.feed.FetchCandles(ctx, symbol, from, to)
			if err != nil {
				log.Warnf("RunBatch %s: data feed failed for %s: %v", batch.RunID, symbol, err)

				mtx.Lock()
				batch.Failures[symbol] = err.Error()
				mtx.Unlock()
				return
			}

			result := r.engine.RunBacktest(symbol, candles)

			mtx.Lock()
			batch.Results[symbol] = result
			mtx.Unlock()

			if r.bus != nil {
				for _, trade := range result.Trades {
					r.bus.Publish(TopicTradeClosed, trade)
				}
			}
		}(symbol)
	}

	wg.Wait()

	batch.Summary = NewCombinedSummary(batch.Results)

	if r.bus != nil {
		r.bus.Publish(TopicRunComplete, batch)
	}

	log.Infof("RunBatch %s: %d symbols, %d failures, %d trades", batch.RunID, len(symbols), len(batch.Failures), batch.Summary.TotalTrades)

	return batch
}
