package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/backtester/src/datafeed"
	"github.com/quantfold/backtester/src/models"
)

func setupTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	day := func(offset int) time.Time {
		return time.Date(2024, time.March, 1+offset, 0, 0, 0, 0, time.UTC)
	}

	feed := datafeed.NewMemoryFeed()
	feed.SetCandles(models.NewStockSymbol("AAPL"), []*models.Candle{
		models.NewCandle(day(0), 104, 105, 103, 104, 1000),
		models.NewCandle(day(1), 103, 104, 98, 99, 1000),
		models.NewCandle(day(2), 99, 100, 96, 97, 1000),
		models.NewCandle(day(3), 97, 101, 96, 100, 1000),
		models.NewCandle(day(4), 99, 99.5, 94, 94.5, 1000),
	})

	r := mux.NewRouter()
	NewHandler(feed, nil).SetupRoutes(r)
	return r
}

func postBacktest(t *testing.T, r *mux.Router, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/backtest", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	r := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
}

func TestRunBacktestEndpoint(t *testing.T) {
	t.Run("runs a batch with config overrides", func(t *testing.T) {
		r := setupTestRouter(t)

		rec := postBacktest(t, r, map[string]interface{}{
			"symbols": []string{"AAPL", "MISSING"},
			"config": map[string]interface{}{
				"sma_period":         3,
				"ema_period":         3,
				"rsi_period":         2,
				"macd_fast_period":   2,
				"macd_slow_period":   3,
				"macd_signal_period": 2,
			},
		})

		require.Equal(t, 200, rec.Code)

		var resp struct {
			Results  map[string]*models.BacktestResult `json:"results"`
			Failures map[string]string                 `json:"failures"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		require.Contains(t, resp.Results, "AAPL")
		assert.Equal(t, 1, resp.Results["AAPL"].TotalTrades)
		assert.Equal(t, models.ExitReasonStopLoss, resp.Results["AAPL"].Trades[0].ExitReason)
		assert.Contains(t, resp.Failures, "MISSING")
	})

	t.Run("null config falls back to the defaults", func(t *testing.T) {
		r := setupTestRouter(t)

		rec := postBacktest(t, r, map[string]interface{}{
			"symbols": []string{"AAPL"},
			"config":  nil,
		})

		require.Equal(t, 200, rec.Code)

		var resp struct {
			Results map[string]*models.BacktestResult `json:"results"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		// the five-bar series is shorter than the default lookback
		require.Contains(t, resp.Results, "AAPL")
		assert.Equal(t, 0, resp.Results["AAPL"].TotalTrades)
	})

	t.Run("rejects invalid configuration", func(t *testing.T) {
		r := setupTestRouter(t)

		rec := postBacktest(t, r, map[string]interface{}{
			"symbols": []string{"AAPL"},
			"config": map[string]interface{}{
				"stop_loss_pct": -5,
			},
		})

		assert.Equal(t, 400, rec.Code)
	})

	t.Run("rejects an empty symbol list", func(t *testing.T) {
		r := setupTestRouter(t)

		rec := postBacktest(t, r, map[string]interface{}{
			"symbols": []string{},
		})

		assert.Equal(t, 400, rec.Code)
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		r := setupTestRouter(t)

		rec := postBacktest(t, r, map[string]interface{}{
			"symbols": []string{"AAPL"},
			"from":    "03/01/2024",
		})

		assert.Equal(t, 400, rec.Code)
	})
}
