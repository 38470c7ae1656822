package models

// TradeLedger is the append-only record of closed trades for one symbol. A
// single simulation goroutine owns it exclusively, so no locking is needed.
type TradeLedger struct {
	trades []*Trade
}

func NewTradeLedger() *TradeLedger {
	return &TradeLedger{}
}

func (l *TradeLedger) Append(trade *Trade) {
	l.trades = append(l.trades, trade)
}

func (l *TradeLedger) Len() int {
	return len(l.trades)
}

// Trades returns the closed trades in entry order. The returned slice is a
// copy; the ledger itself cannot be mutated through it.
func (l *TradeLedger) Trades() []*Trade {
	out := make([]*Trade, len(l.trades))
	copy(out, l.trades)
	return out
}
