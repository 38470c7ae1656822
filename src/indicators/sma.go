package indicators

import (
	"github.com/quantfold/backtester/src/models"
)

type Sma struct {
	Period int
	values []float64
}

func NewSma(period int) *Sma {
	return &Sma{
		Period: period,
	}
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// Add feeds one value into the rolling window. The second return value is
// false until the window has filled.
func (s *Sma) Add(value float64) (float64, bool) {
	s.values = append(s.values, value)
	if len(s.values) < s.Period {
		return 0, false
	}

	if len(s.values) > s.Period {
		s.values = s.values[1:]
	}

	return average(s.values), true
}

func (s *Sma) Update(c *models.Candle) (float64, bool) {
	return s.Add(c.Close)
}
