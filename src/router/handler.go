package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/quantfold/backtester/src/backtester"
	"github.com/quantfold/backtester/src/datafeed"
	"github.com/quantfold/backtester/src/models"
)

type errorResponse struct {
	Type string `json:"type"`
	Msg  string `json:"message"`
}

func setResponse(response interface{}, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		return fmt.Errorf("setResponse: encode: %w", err)
	}

	return nil
}

func setErrorResponse(errType string, statusCode int, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := &errorResponse{
		Type: errType,
		Msg:  err.Error(),
	}

	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		log.Errorf("setErrorResponse: encode: %v", encodeErr)
	}
}

type backtestRequest struct {
	Symbols []string               `json:"symbols"`
	From    string                 `json:"from"`
	To      string                 `json:"to"`
	Config  *models.BacktestConfig `json:"config"`
}

// Handler serves backtest requests over HTTP. The data feed and bus are fixed
// at startup; the rule set arrives with each request.
type Handler struct {
	feed datafeed.DataFeed
	bus  EventBus.Bus
}

func NewHandler(feed datafeed.DataFeed, bus EventBus.Bus) *Handler {
	return &Handler{
		feed: feed,
		bus:  bus,
	}
}

func (h *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/backtest", h.runBacktest).Methods("POST")
	r.HandleFunc("/health", h.health).Methods("GET")
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := setResponse(map[string]string{"status": "ok"}, w); err != nil {
		log.Errorf("health: %v", err)
	}
}

func (h *Handler) runBacktest(w http.ResponseWriter, r *http.Request) {
	// absent config fields fall back to the defaults
	req := backtestRequest{
		Config: models.NewBacktestConfig(),
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		setErrorResponse("runBacktest: failed to decode request", 400, err, w)
		return
	}

	// an explicit "config": null overwrites the pre-seeded defaults
	if req.Config == nil {
		req.Config = models.NewBacktestConfig()
	}

	if len(req.Symbols) == 0 {
		setErrorResponse("runBacktest: invalid request", 400, fmt.Errorf("at least one symbol is required"), w)
		return
	}

	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		setErrorResponse("runBacktest: invalid request", 400, err, w)
		return
	}

	engine, err := backtester.NewEngine(req.Config)
	if err != nil {
		if errors.Is(err, models.ErrInvalidConfiguration) {
			setErrorResponse("runBacktest: invalid configuration", 400, err, w)
		} else {
			setErrorResponse("runBacktest: failed to create engine", 500, err, w)
		}
		return
	}

	symbols := make([]models.StockSymbol, 0, len(req.Symbols))
	for _, s := range req.Symbols {
		symbols = append(symbols, models.NewStockSymbol(s))
	}

	batch := backtester.NewRunner(engine, h.feed, h.bus).RunBatch(r.Context(), symbols, from, to)

	if err := setResponse(batch, w); err != nil {
		log.Errorf("runBacktest: %v", err)
	}
}

func parseDateRange(fromStr, toStr string) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error

	if fromStr != "" {
		from, err = time.Parse("2006-01-02", fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parseDateRange: failed to parse from date %q: %w", fromStr, err)
		}
	}

	if toStr != "" {
		to, err = time.Parse("2006-01-02", toStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parseDateRange: failed to parse to date %q: %w", toStr, err)
		}
	}

	return from, to, nil
}
