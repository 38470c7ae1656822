package models

import (
	"math"
	"sort"
	"time"
)

type StockSymbol string

func (s StockSymbol) String() string {
	return string(s)
}

func NewStockSymbol(symbol string) StockSymbol {
	return StockSymbol(symbol)
}

// Candle is one daily bar of the price series. Bars are ordered and unique,
// ascending by timestamp; calendar gaps between bars are treated as sequential.
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

func NewCandle(timestamp time.Time, open, high, low, close, volume float64) *Candle {
	return &Candle{
		Timestamp: timestamp,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    volume,
	}
}

// IsValid reports whether every price on the bar is a finite, positive number.
// Zero volume is valid: thinly traded days still carry usable prices.
func (c *Candle) IsValid() bool {
	for _, v := range []float64{c.Open, c.High, c.Low, c.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return false
		}
	}

	return c.High >= c.Low
}

// SortedValidCandles drops malformed bars, sorts the remainder ascending by
// timestamp and removes duplicate dates, keeping the first occurrence.
func SortedValidCandles(candles []*Candle) []*Candle {
	out := make([]*Candle, 0, len(candles))
	for _, c := range candles {
		if c != nil && c.IsValid() {
			out = append(out, c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})

	deduped := out[:0]
	var prev *Candle
	for _, c := range out {
		if prev != nil && c.Timestamp.Equal(prev.Timestamp) {
			continue
		}
		deduped = append(deduped, c)
		prev = c
	}

	return deduped
}
