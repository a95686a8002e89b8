package analytics

import (
	"drinksales/internal/core"
)

// DateRange bounds a view by calendar day. Both ends are inclusive and
// either may be nil for an open bound.
type DateRange struct {
	Start *core.Date `json:"start,omitempty"`
	End   *core.Date `json:"end,omitempty"`
}

// Between is a convenience for a closed range.
func Between(start, end core.Date) DateRange {
	return DateRange{Start: &start, End: &end}
}

// LastMonth is the dashboard's default range: one calendar month back
// from today, through today.
func LastMonth(today core.Date) DateRange {
	return Between(today.AddMonths(-1), today)
}

// IsZero reports whether the range is unbounded on both sides.
func (r DateRange) IsZero() bool {
	return r.Start == nil && r.End == nil
}

// Contains reports whether d falls inside the range.
func (r DateRange) Contains(d core.Date) bool {
	if r.Start != nil && d.Compare(*r.Start) < 0 {
		return false
	}
	if r.End != nil && d.Compare(*r.End) > 0 {
		return false
	}
	return true
}

// Filter returns the transactions dated inside r, in their original
// order. The input slice is not modified.
func Filter(txs []core.Transaction, r DateRange) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, t := range txs {
		if r.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}
