package models

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ExitPriority resolves a bar whose range breaches both the stop and the
// target. The conservative default assumes the loss was realized first.
type ExitPriority string

const (
	ExitPriorityStopFirst   ExitPriority = "stop_first"
	ExitPriorityTargetFirst ExitPriority = "target_first"
)

// BacktestConfig holds the fixed rule set for one backtest run. Percentages are
// whole numbers externally (5 means 5%) and converted to fractions in the
// engine via StopLossFraction and TakeProfitFraction.
type BacktestConfig struct {
	InitialCapital    float64      `yaml:"initial_capital" json:"initial_capital"`
	StopLossPct       float64      `yaml:"stop_loss_pct" json:"stop_loss_pct"`
	TakeProfitPct     float64      `yaml:"take_profit_pct" json:"take_profit_pct"`
	HoldingPeriodDays int          `yaml:"holding_period_days" json:"holding_period_days"`
	SmaPeriod         int          `yaml:"sma_period" json:"sma_period"`
	EmaPeriod         int          `yaml:"ema_period" json:"ema_period"`
	RsiPeriod         int          `yaml:"rsi_period" json:"rsi_period"`
	MacdFastPeriod    int          `yaml:"macd_fast_period" json:"macd_fast_period"`
	MacdSlowPeriod    int          `yaml:"macd_slow_period" json:"macd_slow_period"`
	MacdSignalPeriod  int          `yaml:"macd_signal_period" json:"macd_signal_period"`
	OversoldThreshold float64      `yaml:"oversold_threshold" json:"oversold_threshold"`
	ExitPriority      ExitPriority `yaml:"exit_priority" json:"exit_priority"`
}

func NewBacktestConfig() *BacktestConfig {
	return &BacktestConfig{
		InitialCapital:    100000,
		StopLossPct:       5,
		TakeProfitPct:     10,
		HoldingPeriodDays: 30,
		SmaPeriod:         20,
		EmaPeriod:         20,
		RsiPeriod:         14,
		MacdFastPeriod:    12,
		MacdSlowPeriod:    26,
		MacdSignalPeriod:  9,
		OversoldThreshold: 30,
		ExitPriority:      ExitPriorityStopFirst,
	}
}

// NewBacktestConfigFromYAML overlays yaml settings onto the defaults, so a
// config file only needs the fields it changes.
func NewBacktestConfigFromYAML(data []byte) (*BacktestConfig, error) {
	cfg := NewBacktestConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("NewBacktestConfigFromYAML: failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func (c *BacktestConfig) StopLossFraction() float64 {
	return c.StopLossPct / 100.0
}

func (c *BacktestConfig) TakeProfitFraction() float64 {
	return c.TakeProfitPct / 100.0
}

// MinimumLookback is the number of bars consumed before every indicator the
// entry rule depends on becomes defined. Wilder RSI needs one bar beyond its
// period for the first delta window.
func (c *BacktestConfig) MinimumLookback() int {
	lookback := c.RsiPeriod + 1
	if c.SmaPeriod > lookback {
		lookback = c.SmaPeriod
	}

	return lookback
}

func (c *BacktestConfig) Validate() error {
	if c.InitialCapital <= 0 {
		return fmt.Errorf("BacktestConfig.Validate: initial capital must be positive, got %v: %w", c.InitialCapital, ErrInvalidConfiguration)
	}

	if c.StopLossPct <= 0 {
		return fmt.Errorf("BacktestConfig.Validate: stop loss pct must be positive, got %v: %w", c.StopLossPct, ErrInvalidConfiguration)
	}

	if c.TakeProfitPct <= 0 {
		return fmt.Errorf("BacktestConfig.Validate: take profit pct must be positive, got %v: %w", c.TakeProfitPct, ErrInvalidConfiguration)
	}

	if c.HoldingPeriodDays <= 0 {
		return fmt.Errorf("BacktestConfig.Validate: holding period must be positive, got %v: %w", c.HoldingPeriodDays, ErrInvalidConfiguration)
	}

	for _, period := range []int{c.SmaPeriod, c.EmaPeriod, c.RsiPeriod, c.MacdFastPeriod, c.MacdSlowPeriod, c.MacdSignalPeriod} {
		if period <= 0 {
			return fmt.Errorf("BacktestConfig.Validate: indicator periods must be positive: %w", ErrInvalidConfiguration)
		}
	}

	if c.OversoldThreshold <= 0 || c.OversoldThreshold >= 100 {
		return fmt.Errorf("BacktestConfig.Validate: oversold threshold must be between 0 and 100, got %v: %w", c.OversoldThreshold, ErrInvalidConfiguration)
	}

	switch c.ExitPriority {
	case ExitPriorityStopFirst, ExitPriorityTargetFirst:
	default:
		return fmt.Errorf("BacktestConfig.Validate: unknown exit priority %q: %w", c.ExitPriority, ErrInvalidConfiguration)
	}

	return nil
}
