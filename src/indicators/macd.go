package indicators

import (
	"github.com/quantfold/backtester/src/models"
)

// Macd tracks the fast/slow EMA spread and its signal line. The line is
// undefined until the slow EMA fills; the signal line further waits for its
// own EMA over the line values.
type Macd struct {
	fastEma   *Ema
	slowEma   *Ema
	signalEma *Ema
}

func NewMacd(fastPeriod, slowPeriod, signalPeriod int) *Macd {
	return &Macd{
		fastEma:   NewEma(fastPeriod),
		slowEma:   NewEma(slowPeriod),
		signalEma: NewEma(signalPeriod),
	}
}

func (m *Macd) Update(c *models.Candle) (macd *float64, signal *float64) {
	fastVal, fastOk := m.fastEma.Add(c.Close)
	slowVal, slowOk := m.slowEma.Add(c.Close)

	if !fastOk || !slowOk {
		return nil, nil
	}

	line := fastVal - slowVal
	macd = &line

	if signalVal, ok := m.signalEma.Add(line); ok {
		signal = &signalVal
	}

	return macd, signal
}
