package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/backtester/src/backtester"
	"github.com/quantfold/backtester/src/models"
)

func sampleResult(t *testing.T) *models.BacktestResult {
	t.Helper()

	entryDate := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	ledger := models.NewTradeLedger()
	ledger.Append(models.NewTrade(models.NewStockSymbol("AAPL"), entryDate, 100, entryDate.AddDate(0, 0, 1), 95, 1000, models.ExitReasonStopLoss))

	return models.NewBacktestResult(models.NewStockSymbol("AAPL"), 100000, ledger, []float64{100000, 100000, 95000})
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	PrintResult(&buf, sampleResult(t))

	out := buf.String()
	assert.Contains(t, out, "Backtest report: AAPL")
	assert.Contains(t, out, "Win Rate")
	assert.Contains(t, out, "stop_loss")
	assert.Contains(t, out, "undefined")
}

func TestPrintBatch(t *testing.T) {
	batch := &backtester.BatchResult{
		RunID: uuid.New(),
		Results: map[models.StockSymbol]*models.BacktestResult{
			models.NewStockSymbol("AAPL"): sampleResult(t),
		},
		Failures: map[models.StockSymbol]string{
			models.NewStockSymbol("MISSING"): "market data unavailable",
		},
		Summary: &backtester.CombinedSummary{TotalTrades: 1, TotalPnl: -5000},
	}

	var buf bytes.Buffer
	PrintBatch(&buf, batch)

	out := buf.String()
	assert.Contains(t, out, "Failed: MISSING")
	assert.Contains(t, out, "Combined: 1 trades")
}

func TestSaveBatch(t *testing.T) {
	dir := t.TempDir()

	batch := &backtester.BatchResult{
		RunID: uuid.New(),
		Results: map[models.StockSymbol]*models.BacktestResult{
			models.NewStockSymbol("AAPL"): sampleResult(t),
		},
	}

	require.NoError(t, SaveBatch(batch, dir))

	data, err := os.ReadFile(filepath.Join(dir, "backtest_AAPL.json"))
	require.NoError(t, err)

	var decoded models.BacktestResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 1, decoded.TotalTrades)
	assert.Nil(t, decoded.ProfitFactor)
}
