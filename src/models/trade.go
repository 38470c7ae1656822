package models

import (
	"time"
)

type ExitReason string

const (
	ExitReasonStopLoss       ExitReason = "stop_loss"
	ExitReasonTakeProfit     ExitReason = "take_profit"
	ExitReasonHoldingExpired ExitReason = "holding_period_expired"
	ExitReasonEndOfData      ExitReason = "end_of_data"
)

// Trade is one closed round trip. Immutable once appended to the ledger.
type Trade struct {
	Symbol     StockSymbol `json:"symbol"`
	EntryDate  time.Time   `json:"entry_date"`
	EntryPrice float64     `json:"entry_price"`
	ExitDate   time.Time   `json:"exit_date"`
	ExitPrice  float64     `json:"exit_price"`
	Quantity   float64     `json:"quantity"`
	ExitReason ExitReason  `json:"exit_reason"`
	Pnl        float64     `json:"pnl"`
	PnlPct     float64     `json:"pnl_pct"`
	IsWinner   bool        `json:"is_winner"`
}

// NewTrade derives pnl from the entry/exit spread on a long position. PnlPct is
// measured against the capital allocated at entry.
func NewTrade(symbol StockSymbol, entryDate time.Time, entryPrice float64, exitDate time.Time, exitPrice float64, quantity float64, exitReason ExitReason) *Trade {
	pnl := (exitPrice - entryPrice) * quantity

	allocation := entryPrice * quantity
	var pnlPct float64
	if allocation > 0 {
		pnlPct = pnl / allocation * 100.0
	}

	return &Trade{
		Symbol:     symbol,
		EntryDate:  entryDate,
		EntryPrice: entryPrice,
		ExitDate:   exitDate,
		ExitPrice:  exitPrice,
		Quantity:   quantity,
		ExitReason: exitReason,
		Pnl:        pnl,
		PnlPct:     pnlPct,
		IsWinner:   pnl > 0,
	}
}
