package indicators

import (
	"math"

	"github.com/quantfold/backtester/src/models"
)

// Rsi computes the relative strength index with Wilder smoothing: the first
// value averages the warm-up gains and losses, subsequent values blend each new
// delta into the previous averages.
type Rsi struct {
	Period      int
	prevAvgGain *float64
	prevAvgLoss *float64
	closes      []float64
}

func NewRsi(period int) *Rsi {
	return &Rsi{
		Period: period,
	}
}

func (r *Rsi) deriveRS() float64 {
	if r.prevAvgGain != nil {
		curPrice := r.closes[len(r.closes)-1]
		prevPrice := r.closes[len(r.closes)-2]
		delta := curPrice - prevPrice

		var deltaGain, deltaLoss float64
		if delta > 0 {
			deltaGain = delta
		} else {
			deltaLoss = math.Abs(delta)
		}

		avgGain := ((*r.prevAvgGain)*(float64(r.Period)-1.0) + deltaGain) / float64(r.Period)
		avgLoss := ((*r.prevAvgLoss)*(float64(r.Period)-1.0) + deltaLoss) / float64(r.Period)

		r.prevAvgGain = &avgGain
		r.prevAvgLoss = &avgLoss

		if avgLoss == 0 {
			return math.Inf(1)
		}

		return avgGain / avgLoss
	}

	gains := make([]float64, r.Period+1)
	losses := make([]float64, r.Period+1)

	prevPrice := r.closes[0]
	for i, price := range r.closes {
		delta := price - prevPrice
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = math.Abs(delta)
		}

		prevPrice = price
	}

	avgGain := average(gains[1:])
	avgLoss := average(losses[1:])
	r.prevAvgGain = &avgGain
	r.prevAvgLoss = &avgLoss

	if avgLoss == 0 {
		return math.Inf(1)
	}

	return avgGain / avgLoss
}

// Update feeds one bar. The value is undefined until Period+1 closes have been
// seen, matching the Wilder warm-up.
func (r *Rsi) Update(c *models.Candle) (float64, bool) {
	if len(r.closes) < r.Period {
		r.closes = append(r.closes, c.Close)
		return 0, false
	}

	r.closes = append(r.closes, c.Close)

	rs := r.deriveRS()

	r.closes = r.closes[1:]

	if math.IsInf(rs, 1) {
		return 100, true
	}

	return 100 - (100 / (1 + rs)), true
}
