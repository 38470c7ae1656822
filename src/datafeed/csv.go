package datafeed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"

	"github.com/quantfold/backtester/src/models"
)

// CsvFeed loads daily candles from <dir>/<SYMBOL>.csv files with a
// date,open,high,low,close,volume header.
type CsvFeed struct {
	Dir string
}

func NewCsvFeed(dir string) *CsvFeed {
	return &CsvFeed{
		Dir: dir,
	}
}

func (f *CsvFeed) FetchCandles(ctx context.Context, symbol models.StockSymbol, from, to time.Time) ([]*models.Candle, error) {
	fname := filepath.Join(f.Dir, fmt.Sprintf("%s.csv", symbol))

	file, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("CsvFeed.FetchCandles: failed to open %s: %v: %w", fname, err, models.ErrDataUnavailable)
	}
	defer file.Close()

	var dtos []*models.CandleDTO
	if err := gocsv.UnmarshalFile(file, &dtos); err != nil {
		return nil, fmt.Errorf("CsvFeed.FetchCandles: failed to unmarshal %s: %v: %w", fname, err, models.ErrDataUnavailable)
	}

	candles := make([]*models.Candle, 0, len(dtos))
	for _, dto := range dtos {
		c, err := dto.ToModel()
		if err != nil {
			log.Warnf("CsvFeed.FetchCandles: skipping row in %s: %v", fname, err)
			continue
		}

		candles = append(candles, c)
	}

	return filterRange(models.SortedValidCandles(candles), from, to), nil
}
