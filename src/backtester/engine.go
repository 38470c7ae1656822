package backtester

import (
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/quantfold/backtester/src/indicators"
	"github.com/quantfold/backtester/src/models"
	"github.com/quantfold/backtester/src/signals"
)

// Engine simulates a single-position, long-only strategy bar by bar. One
// engine is safe for concurrent use: every run owns its own indicator state,
// position and ledger.
type Engine struct {
	cfg *models.BacktestConfig
}

// NewEngine validates the configuration up front, so a bad config fails before
// any simulation runs.
func NewEngine(cfg *models.BacktestConfig) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		cfg: cfg,
	}, nil
}

func (e *Engine) Config() *models.BacktestConfig {
	return e.cfg
}

// RunBacktest walks the candles once. A series shorter than the indicator
// lookback simply produces zero trades.
func (e *Engine) RunBacktest(symbol models.StockSymbol, candles []*models.Candle) *models.BacktestResult {
	candles = models.SortedValidCandles(candles)

	ledger := models.NewTradeLedger()
	calculator := indicators.NewSnapshotCalculator(e.cfg)
	detector := signals.NewEntryDetector(e.cfg.OversoldThreshold)

	cash := e.cfg.InitialCapital
	equityCurve := make([]float64, 0, len(candles)+1)
	equityCurve = append(equityCurve, cash)

	var position *models.Position

	for i, c := range candles {
		snapshot := calculator.Update(c)
		entrySignal := detector.Update(snapshot, c.Close)
		isLastBar := i == len(candles)-1

		// exits are evaluated before entries; a symbol that closes on this
		// bar may not reopen until the next one
		closedThisBar := false
		if position != nil {
			if exitPrice, reason, ok := position.CheckExit(c, e.cfg.ExitPriority); ok {
				cash = closePosition(position, c.Timestamp, exitPrice, reason, cash, ledger)
				position = nil
				closedThisBar = true
			}
		}

		if position != nil && isLastBar {
			cash = closePosition(position, c.Timestamp, c.Close, models.ExitReasonEndOfData, cash, ledger)
			position = nil
			closedThisBar = true
		}

		// an entry on the final bar would force a zero-duration trade, so the
		// signal is ignored there
		if position == nil && !closedThisBar && !isLastBar && entrySignal {
			quantity := math.Floor(cash / c.Close)
			if quantity > 0 {
				position = models.NewPosition(symbol, c.Timestamp, c.Close, quantity, e.cfg)
				cash -= quantity * c.Close
				log.Debugf("RunBacktest: %s opened %v shares at %.2f on %s", symbol, quantity, c.Close, c.Timestamp.Format("2006-01-02"))
			}
		}

		equity := cash
		if position != nil {
			equity += position.Quantity * c.Close
		}
		equityCurve = append(equityCurve, equity)
	}

	return models.NewBacktestResult(symbol, e.cfg.InitialCapital, ledger, equityCurve)
}

func closePosition(position *models.Position, exitDate time.Time, exitPrice float64, reason models.ExitReason, cash float64, ledger *models.TradeLedger) float64 {
	trade := models.NewTrade(position.Symbol, position.EntryDate, position.EntryPrice, exitDate, exitPrice, position.Quantity, reason)
	ledger.Append(trade)

	log.Debugf("closePosition: %s closed at %.2f on %s (%s, pnl %.2f)", position.Symbol, exitPrice, exitDate.Format("2006-01-02"), reason, trade.Pnl)

	return cash + position.Quantity*exitPrice
}
