package indicators

import (
	"time"

	"github.com/quantfold/backtester/src/models"
)

// Snapshot holds the indicator values for one bar. A nil field means the
// indicator is still inside its warm-up window; undefined values must never
// reach a trading decision as numbers.
type Snapshot struct {
	Timestamp  time.Time `json:"timestamp"`
	Sma        *float64  `json:"sma,omitempty"`
	Ema        *float64  `json:"ema,omitempty"`
	Rsi        *float64  `json:"rsi,omitempty"`
	Macd       *float64  `json:"macd,omitempty"`
	MacdSignal *float64  `json:"macd_signal,omitempty"`
}

// SnapshotCalculator derives one Snapshot per bar from the bars seen so far.
// Each simulation owns its own calculator; nothing is cached across symbols.
type SnapshotCalculator struct {
	sma  *Sma
	ema  *Ema
	rsi  *Rsi
	macd *Macd
}

func NewSnapshotCalculator(cfg *models.BacktestConfig) *SnapshotCalculator {
	return &SnapshotCalculator{
		sma:  NewSma(cfg.SmaPeriod),
		ema:  NewEma(cfg.EmaPeriod),
		rsi:  NewRsi(cfg.RsiPeriod),
		macd: NewMacd(cfg.MacdFastPeriod, cfg.MacdSlowPeriod, cfg.MacdSignalPeriod),
	}
}

func (s *SnapshotCalculator) Update(c *models.Candle) *Snapshot {
	snapshot := &Snapshot{
		Timestamp: c.Timestamp,
	}

	if val, ok := s.sma.Update(c); ok {
		v := val
		snapshot.Sma = &v
	}

	if val, ok := s.ema.Update(c); ok {
		v := val
		snapshot.Ema = &v
	}

	if val, ok := s.rsi.Update(c); ok {
		v := val
		snapshot.Rsi = &v
	}

	snapshot.Macd, snapshot.MacdSignal = s.macd.Update(c)

	return snapshot
}
