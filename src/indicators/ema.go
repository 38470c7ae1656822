package indicators

import (
	"github.com/quantfold/backtester/src/models"
)

type Ema struct {
	Period int
	warmup []float64
	prev   *float64
}

func NewEma(period int) *Ema {
	return &Ema{
		Period: period,
	}
}

// Add feeds one value into the average. The first defined value is the simple
// average of the warm-up window; subsequent values use the standard recursive
// smoothing.
func (e *Ema) Add(value float64) (float64, bool) {
	if e.prev == nil {
		e.warmup = append(e.warmup, value)
		if len(e.warmup) < e.Period {
			return 0, false
		}

		seed := average(e.warmup)
		e.prev = &seed
		e.warmup = nil
		return seed, true
	}

	multiplier := 2.0 / (float64(e.Period) + 1.0)
	next := value*multiplier + *e.prev*(1-multiplier)
	e.prev = &next
	return next, true
}

func (e *Ema) Update(c *models.Candle) (float64, bool) {
	return e.Add(c.Close)
}
