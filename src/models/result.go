package models

import (
	"math"

	"github.com/montanaflynn/stats"
)

const tradingDaysPerYear = 252

// BacktestResult aggregates one symbol's closed trades and capital trajectory.
// It is computed once from the ledger and equity curve and never mutated.
type BacktestResult struct {
	Symbol         StockSymbol `json:"symbol"`
	InitialCapital float64     `json:"initial_capital"`
	FinalCapital   float64     `json:"final_capital"`
	Trades         []*Trade    `json:"trades"`
	TotalTrades    int         `json:"total_trades"`
	WinningTrades  int         `json:"winning_trades"`
	LosingTrades   int         `json:"losing_trades"`
	WinRate        float64     `json:"win_rate"`
	TotalPnl       float64     `json:"total_pnl"`
	TotalReturnPct float64     `json:"total_return_pct"`
	AvgPnl         float64     `json:"avg_pnl"`
	AvgWin         float64     `json:"avg_win"`
	AvgLoss        float64     `json:"avg_loss"`
	MaxWin         float64     `json:"max_win"`
	MaxLoss        float64     `json:"max_loss"`
	SharpeRatio    float64     `json:"sharpe_ratio"`
	MaxDrawdown    float64     `json:"max_drawdown"`

	// ProfitFactor is nil when gross loss is zero: the ratio is undefined
	// rather than infinite-by-division.
	ProfitFactor *float64 `json:"profit_factor"`
}

// NewBacktestResult derives all aggregates from the ledger and the equity
// curve. A nil or empty ledger yields the zero-trade result, not an error.
func NewBacktestResult(symbol StockSymbol, initialCapital float64, ledger *TradeLedger, equityCurve []float64) *BacktestResult {
	result := &BacktestResult{
		Symbol:         symbol,
		InitialCapital: initialCapital,
		FinalCapital:   initialCapital,
		Trades:         []*Trade{},
	}

	if ledger != nil {
		result.Trades = ledger.Trades()
	}

	var wins, losses []float64
	for _, trade := range result.Trades {
		result.TotalPnl += trade.Pnl
		if trade.IsWinner {
			result.WinningTrades++
			wins = append(wins, trade.Pnl)
		} else {
			result.LosingTrades++
			losses = append(losses, trade.Pnl)
		}
	}

	result.TotalTrades = len(result.Trades)
	result.FinalCapital = initialCapital + result.TotalPnl
	result.TotalReturnPct = result.TotalPnl / initialCapital * 100.0

	if result.TotalTrades > 0 {
		result.WinRate = float64(result.WinningTrades) / float64(result.TotalTrades) * 100.0
		result.AvgPnl = result.TotalPnl / float64(result.TotalTrades)
	}

	result.AvgWin = meanOrZero(wins)
	result.AvgLoss = meanOrZero(losses)
	result.MaxWin = maxOrZero(wins)
	result.MaxLoss = minOrZero(losses)

	grossProfit := sum(wins)
	grossLoss := math.Abs(sum(losses))
	if grossLoss > 0 {
		profitFactor := grossProfit / grossLoss
		result.ProfitFactor = &profitFactor
	}

	result.SharpeRatio = sharpeRatio(equityCurve)
	result.MaxDrawdown = maxDrawdown(equityCurve)

	return result
}

// sharpeRatio annualizes the mean/stddev of the daily equity returns. Zero
// variance, including the zero-trade case, yields 0.
func sharpeRatio(equityCurve []float64) float64 {
	returns := dailyReturns(equityCurve)
	if len(returns) < 2 {
		return 0
	}

	mean, err := stats.Mean(returns)
	if err != nil {
		return 0
	}

	stdDev, err := stats.StandardDeviation(returns)
	if err != nil || stdDev == 0 {
		return 0
	}

	return mean / stdDev * math.Sqrt(tradingDaysPerYear)
}

// maxDrawdown scans the equity curve once, tracking the running peak, and
// returns the largest peak-to-trough percentage decline.
func maxDrawdown(equityCurve []float64) float64 {
	var peak, drawdown float64
	for _, equity := range equityCurve {
		if equity > peak {
			peak = equity
		}

		if peak > 0 {
			dd := (peak - equity) / peak * 100.0
			if dd > drawdown {
				drawdown = dd
			}
		}
	}

	return drawdown
}

func dailyReturns(equityCurve []float64) []float64 {
	if len(equityCurve) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(equityCurve)-1)
	for i := 1; i < len(equityCurve); i++ {
		if equityCurve[i-1] == 0 {
			continue
		}
		returns = append(returns, (equityCurve[i]-equityCurve[i-1])/equityCurve[i-1])
	}

	return returns
}

func meanOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return 0
	}

	return mean
}

func maxOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	max, err := stats.Max(values)
	if err != nil {
		return 0
	}

	return max
}

func minOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	min, err := stats.Min(values)
	if err != nil {
		return 0
	}

	return min
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}

	return total
}
