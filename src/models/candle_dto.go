package models

import (
	"fmt"
	"time"
)

// CandleDTO is the external representation of a daily bar, shared by the CSV
// loader and the HTTP API.
type CandleDTO struct {
	Date   string  `csv:"date" json:"date"`
	Open   float64 `csv:"open" json:"open"`
	High   float64 `csv:"high" json:"high"`
	Low    float64 `csv:"low" json:"low"`
	Close  float64 `csv:"close" json:"close"`
	Volume float64 `csv:"volume" json:"volume"`
}

func (dto *CandleDTO) ToModel() (*Candle, error) {
	t, err := time.Parse("2006-01-02", dto.Date)
	if err != nil {
		t, err = time.Parse(time.RFC3339, dto.Date)
		if err != nil {
			return nil, fmt.Errorf("CandleDTO.ToModel: failed to parse date %q: %w", dto.Date, err)
		}
	}

	return NewCandle(t.UTC(), dto.Open, dto.High, dto.Low, dto.Close, dto.Volume), nil
}

func (c *Candle) ToDTO() *CandleDTO {
	return &CandleDTO{
		Date:   c.Timestamp.Format("2006-01-02"),
		Open:   c.Open,
		High:   c.High,
		Low:    c.Low,
		Close:  c.Close,
		Volume: c.Volume,
	}
}
