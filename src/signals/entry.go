package signals

import (
	"github.com/quantfold/backtester/src/indicators"
)

// EntryDetector implements the long-only entry rule: RSI crosses above the
// oversold threshold on the current bar while the close sits above its SMA.
// The only state is the previous bar's snapshot, needed to detect the cross.
type EntryDetector struct {
	OversoldThreshold float64
	prev              *indicators.Snapshot
}

func NewEntryDetector(oversoldThreshold float64) *EntryDetector {
	return &EntryDetector{
		OversoldThreshold: oversoldThreshold,
	}
}

// Update consumes the bar's snapshot and close price and reports whether an
// entry signal fired. Any undefined indicator on either snapshot means no
// entry.
func (d *EntryDetector) Update(snapshot *indicators.Snapshot, close float64) bool {
	prev := d.prev
	d.prev = snapshot

	if prev == nil {
		return false
	}

	if prev.Rsi == nil || snapshot.Rsi == nil || snapshot.Sma == nil {
		return false
	}

	crossedAbove := *prev.Rsi <= d.OversoldThreshold && *snapshot.Rsi > d.OversoldThreshold

	return crossedAbove && close > *snapshot.Sma
}
