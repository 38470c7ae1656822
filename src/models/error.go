package models

import "errors"

var (
	// ErrInvalidConfiguration rejects a backtest request before any simulation runs.
	ErrInvalidConfiguration = errors.New("invalid backtest configuration")

	// ErrDataUnavailable marks a per-symbol data feed failure. It never aborts
	// the rest of a batch.
	ErrDataUnavailable = errors.New("market data unavailable")
)
