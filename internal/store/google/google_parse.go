package google

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"drinksales/internal/core"
)

const (
	colDate = iota
	colTime
	colAccount
	colCategory
	colNote
	colQuantity
	colFlow
	colAmount
	numCols
)

// parseRows converts a values matrix (as returned by the Sheets API) into
// transactions. A header row is recognised by its first cell and skipped.
// Each transaction's ID is its 1-based row reference.
func parseRows(values [][]interface{}) ([]core.Transaction, []error) {
	var out []core.Transaction
	var skipped []error
	for i, raw := range values {
		row := toStrings(raw)
		if isBlank(row) {
			continue
		}
		if i == 0 && strings.EqualFold(safeGet(row, colDate), "Date") {
			continue
		}
		rec := core.Record{
			ID:       rowRef(i + 1),
			Date:     safeGet(row, colDate),
			Time:     safeGet(row, colTime),
			Account:  safeGet(row, colAccount),
			Category: safeGet(row, colCategory),
			Note:     safeGet(row, colNote),
			Quantity: json.Number(safeGet(row, colQuantity)),
			Flow:     safeGet(row, colFlow),
			Amount:   json.Number(safeGet(row, colAmount)),
		}
		t, err := rec.ToTransaction()
		if err != nil {
			skipped = append(skipped, fmt.Errorf("row %d: %w", i+1, err))
			continue
		}
		out = append(out, t)
	}
	return out, skipped
}

// toRow lays a transaction out in sheet column order.
func toRow(t core.Transaction) []interface{} {
	row := make([]interface{}, numCols)
	row[colDate] = t.Date.String()
	row[colTime] = t.Time
	row[colAccount] = t.Account
	row[colCategory] = t.Category
	row[colNote] = t.Note
	row[colQuantity] = t.Quantity.InexactFloat64()
	row[colFlow] = string(t.Flow)
	row[colAmount] = t.Amount.Units()
	return row
}

func rowRef(n int) string {
	return "row:" + strconv.Itoa(n)
}

// rowRefFromRange turns "Transactions!A12:H12" into "row:12".
func rowRefFromRange(rng string) string {
	if i := strings.LastIndex(rng, "!"); i >= 0 {
		rng = rng[i+1:]
	}
	if i := strings.Index(rng, ":"); i >= 0 {
		rng = rng[:i]
	}
	digits := strings.TrimLeft(rng, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	n, err := strconv.Atoi(digits)
	if err != nil {
		return rng
	}
	return rowRef(n)
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		switch x := v.(type) {
		case float64:
			out[i] = strconv.FormatFloat(x, 'f', -1, 64)
		default:
			out[i] = strings.TrimSpace(fmt.Sprint(v))
		}
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

func isBlank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
