// Package demand implements the day-keyed demand ledger: the accumulator of
// per-SKU production needs folded in from every marketplace feed uploaded
// during one business day.
package demand

import (
	"sync"
	"time"
)

// DayKeyLayout is the business-day label format.
const DayKeyLayout = "2006-01-02"

// ProductNeed is one ledger entry: the accumulated requirement for a single
// base SKU. RequiredQty only grows during a day; SourceChannels preserves
// first-insertion order and only grows. ShortfallQty is valid after the last
// ComputeShortfalls since the last mutation.
type ProductNeed struct {
	SKU            string   `json:"sku"`
	RequiredQty    int      `json:"required_qty"`
	OnHandQty      int      `json:"on_hand_qty"`
	ShortfallQty   int      `json:"shortfall_qty"`
	SourceChannels []string `json:"source_channels"`
}

// HasChannel reports whether the entry has demand from the given channel.
func (n *ProductNeed) HasChannel(channel string) bool {
	for _, c := range n.SourceChannels {
		if c == channel {
			return true
		}
	}
	return false
}

// Ledger accumulates ProductNeed entries for exactly one business day.
// Entry and channel orderings preserve first insertion; they are the stable
// tie-break keys used by the report emitter.
type Ledger struct {
	mu       sync.Mutex
	dayKey   string
	order    []string
	entries  map[string]*ProductNeed
	channels []string
}

// NewLedger returns a ledger reset to today's local calendar date.
func NewLedger() *Ledger {
	l := &Ledger{}
	l.Reset("")
	return l
}

// Reset atomically starts a new day: entries and channels are cleared and
// the day key replaced. An empty dayKey defaults to today.
func (l *Ledger) Reset(dayKey string) {
	if dayKey == "" {
		dayKey = time.Now().Format(DayKeyLayout)
	}
	l.mu.Lock()
	l.dayKey = dayKey
	l.order = nil
	l.entries = make(map[string]*ProductNeed)
	l.channels = nil
	l.mu.Unlock()
}

// DayKey returns the current business-day label.
func (l *Ledger) DayKey() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dayKey
}

// Channels returns the channels seen this day in first-insertion order.
func (l *Ledger) Channels() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, l.channels...)
}

// Snapshot returns a consistent copy of all entries in SKU first-insertion
// order. Reports work off snapshots so readers never observe a mid-row state.
func (l *Ledger) Snapshot() []ProductNeed {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *Ledger) snapshotLocked() []ProductNeed {
	out := make([]ProductNeed, 0, len(l.order))
	for _, sku := range l.order {
		entry := l.entries[sku]
		copied := *entry
		copied.SourceChannels = append([]string{}, entry.SourceChannels...)
		out = append(out, copied)
	}
	return out
}

// add upserts a need for a base SKU. Must be called with l.mu held.
func (l *Ledger) add(sku string, qty int, channel string) {
	entry, ok := l.entries[sku]
	if !ok {
		entry = &ProductNeed{SKU: sku}
		l.entries[sku] = entry
		l.order = append(l.order, sku)
	}
	entry.RequiredQty += qty
	if !entry.HasChannel(channel) {
		entry.SourceChannels = append(entry.SourceChannels, channel)
	}
	if !l.hasChannel(channel) {
		l.channels = append(l.channels, channel)
	}
}

func (l *Ledger) hasChannel(channel string) bool {
	for _, c := range l.channels {
		if c == channel {
			return true
		}
	}
	return false
}
