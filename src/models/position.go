package models

import (
	"time"
)

// Position is the single open holding for one symbol. It exists only while the
// state machine is OPEN and is owned exclusively by one simulation.
type Position struct {
	Symbol          StockSymbol `json:"symbol"`
	EntryDate       time.Time   `json:"entry_date"`
	EntryPrice      float64     `json:"entry_price"`
	Quantity        float64     `json:"quantity"`
	StopLossPrice   float64     `json:"stop_loss_price"`
	TakeProfitPrice float64     `json:"take_profit_price"`
	MaxExitDate     time.Time   `json:"max_exit_date"`
}

func NewPosition(symbol StockSymbol, entryDate time.Time, entryPrice, quantity float64, cfg *BacktestConfig) *Position {
	return &Position{
		Symbol:          symbol,
		EntryDate:       entryDate,
		EntryPrice:      entryPrice,
		Quantity:        quantity,
		StopLossPrice:   entryPrice * (1 - cfg.StopLossFraction()),
		TakeProfitPrice: entryPrice * (1 + cfg.TakeProfitFraction()),
		MaxExitDate:     entryDate.AddDate(0, 0, cfg.HoldingPeriodDays),
	}
}

// CheckExit evaluates the exit rules against the bar's full range, in priority
// order. Stops and targets fill at their trigger price, not the close.
func (p *Position) CheckExit(c *Candle, priority ExitPriority) (float64, ExitReason, bool) {
	stopHit := c.Low <= p.StopLossPrice
	targetHit := c.High >= p.TakeProfitPrice

	if stopHit && targetHit {
		if priority == ExitPriorityTargetFirst {
			return p.TakeProfitPrice, ExitReasonTakeProfit, true
		}
		return p.StopLossPrice, ExitReasonStopLoss, true
	}

	if stopHit {
		return p.StopLossPrice, ExitReasonStopLoss, true
	}

	if targetHit {
		return p.TakeProfitPrice, ExitReasonTakeProfit, true
	}

	if !c.Timestamp.Before(p.MaxExitDate) {
		return c.Close, ExitReasonHoldingExpired, true
	}

	return 0, "", false
}
