package analytics

import (
	"fmt"

	"drinksales/internal/core"
)

// Rejection describes a row that could not be aggregated.
type Rejection struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

func (r Rejection) Error() string {
	if r.ID != "" {
		return fmt.Sprintf("row %d (%s): %v", r.Index, r.ID, r.Err)
	}
	return fmt.Sprintf("row %d: %v", r.Index, r.Err)
}

func (r Rejection) Unwrap() error { return r.Err }

// Clean splits a snapshot into rows that can be aggregated and rows that
// cannot. A rejected row never reaches a fold, so one bad date does not
// affect any other total.
func Clean(txs []core.Transaction) ([]core.Transaction, []Rejection) {
	valid := make([]core.Transaction, 0, len(txs))
	var rejected []Rejection
	for i, t := range txs {
		if err := t.Aggregatable(); err != nil {
			rejected = append(rejected, Rejection{Index: i, ID: t.ID, Reason: err.Error(), Err: err})
			continue
		}
		valid = append(valid, t)
	}
	return valid, rejected
}
