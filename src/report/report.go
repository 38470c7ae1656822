package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/quantfold/backtester/src/backtester"
	"github.com/quantfold/backtester/src/models"
)

// PrintResult renders one symbol's report: capital summary, trade statistics,
// risk metrics and the trade log.
func PrintResult(w io.Writer, result *models.BacktestResult) {
	p := message.NewPrinter(language.English)

	fmt.Fprintf(w, "Backtest report: %s\n", result.Symbol)

	summary := tablewriter.NewWriter(w)
	summary.SetAlignment(tablewriter.ALIGN_RIGHT)
	summary.SetColumnSeparator("")

	profitFactor := "undefined"
	if result.ProfitFactor != nil {
		profitFactor = fmt.Sprintf("%.2f", *result.ProfitFactor)
	}

	rows := [][]string{
		{"Initial Capital", p.Sprintf("$%.2f", result.InitialCapital)},
		{"Final Capital", p.Sprintf("$%.2f", result.FinalCapital)},
		{"Total P&L", p.Sprintf("$%.2f", result.TotalPnl)},
		{"Total Return", fmt.Sprintf("%.2f%%", result.TotalReturnPct)},
		{"Total Trades", fmt.Sprintf("%d", result.TotalTrades)},
		{"Winning Trades", fmt.Sprintf("%d", result.WinningTrades)},
		{"Losing Trades", fmt.Sprintf("%d", result.LosingTrades)},
		{"Win Rate", fmt.Sprintf("%.2f%%", result.WinRate)},
		{"Avg Win", p.Sprintf("$%.2f", result.AvgWin)},
		{"Avg Loss", p.Sprintf("$%.2f", result.AvgLoss)},
		{"Sharpe Ratio", fmt.Sprintf("%.2f", result.SharpeRatio)},
		{"Max Drawdown", fmt.Sprintf("%.2f%%", result.MaxDrawdown)},
		{"Profit Factor", profitFactor},
	}

	for _, row := range rows {
		summary.Append(row)
	}

	summary.Render()

	if len(result.Trades) == 0 {
		return
	}

	fmt.Fprintln(w, "Trades:")

	trades := tablewriter.NewWriter(w)
	trades.SetHeader([]string{"Entry", "Exit", "Entry Px", "Exit Px", "Qty", "Reason", "P&L", "Return"})
	trades.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, trade := range result.Trades {
		trades.Append([]string{
			trade.EntryDate.Format("2006-01-02"),
			trade.ExitDate.Format("2006-01-02"),
			fmt.Sprintf("%.2f", trade.EntryPrice),
			fmt.Sprintf("%.2f", trade.ExitPrice),
			fmt.Sprintf("%.0f", trade.Quantity),
			string(trade.ExitReason),
			p.Sprintf("$%.2f", trade.Pnl),
			fmt.Sprintf("%.2f%%", trade.PnlPct),
		})
	}

	trades.Render()
}

// PrintBatch renders every per-symbol report, the data failures and the
// combined summary.
func PrintBatch(w io.Writer, batch *backtester.BatchResult) {
	for _, result := range sortedResults(batch) {
		PrintResult(w, result)
		fmt.Fprintln(w)
	}

	for symbol, msg := range batch.Failures {
		fmt.Fprintf(w, "Failed: %s: %s\n", symbol, msg)
	}

	if batch.Summary != nil {
		fmt.Fprintf(w, "Combined: %d trades, win rate %.2f%%, total pnl %.2f\n",
			batch.Summary.TotalTrades, batch.Summary.CombinedWinRate, batch.Summary.TotalPnl)
	}
}

// SaveBatch writes each per-symbol result as an indented JSON file in outDir.
func SaveBatch(batch *backtester.BatchResult, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("SaveBatch: failed to create %s: %w", outDir, err)
	}

	for symbol, result := range batch.Results {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("SaveBatch: failed to marshal result for %s: %w", symbol, err)
		}

		outFile := filepath.Join(outDir, fmt.Sprintf("backtest_%s.json", symbol))
		if err := os.WriteFile(outFile, data, 0644); err != nil {
			return fmt.Errorf("SaveBatch: failed to write %s: %w", outFile, err)
		}
	}

	return nil
}

func sortedResults(batch *backtester.BatchResult) []*models.BacktestResult {
	symbols := make([]models.StockSymbol, 0, len(batch.Results))
	for symbol := range batch.Results {
		symbols = append(symbols, symbol)
	}

	// map order is random; reports should not be
	sort.Slice(symbols, func(i, j int) bool {
		return symbols[i] < symbols[j]
	})

	results := make([]*models.BacktestResult, 0, len(symbols))
	for _, symbol := range symbols {
		results = append(results, batch.Results[symbol])
	}

	return results
}
