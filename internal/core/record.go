package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Record is the wire shape of a transaction as exchanged with the
// bookkeeping sheet and the JSON API. Numbers stay as json.Number so
// that the decimal value is never squeezed through a float.
type Record struct {
	ID       string      `json:"id,omitempty"`
	Date     string      `json:"Date"`
	Time     string      `json:"Time (hh:mm:ss),omitempty"`
	Account  string      `json:"Account"`
	Category string      `json:"Category"`
	Note     string      `json:"Note"`
	Quantity json.Number `json:"Quantity"`
	Flow     string      `json:"Income/Expense"`
	Amount   json.Number `json:"PGK"`
}

// ToTransaction parses the record. It only fails on fields that make the
// row unusable: the date, the flow and the numbers.
func (r Record) ToTransaction() (Transaction, error) {
	d, err := ParseDate(r.Date)
	if err != nil {
		return Transaction{}, err
	}
	f, err := ParseFlow(r.Flow)
	if err != nil {
		return Transaction{}, err
	}
	q, err := ParseQuantity(string(r.Quantity))
	if err != nil {
		return Transaction{}, err
	}
	var amount Money
	if s := strings.TrimSpace(string(r.Amount)); s != "" {
		amount, err = ParseAmount(s)
		if err != nil {
			return Transaction{}, err
		}
	}
	tm, err := NormalizeTime(r.Time)
	if err != nil {
		return Transaction{}, err
	}
	return Transaction{
		ID:       r.ID,
		Date:     d,
		Time:     tm,
		Account:  strings.TrimSpace(r.Account),
		Category: strings.TrimSpace(r.Category),
		Note:     strings.TrimSpace(r.Note),
		Quantity: q,
		Flow:     f,
		Amount:   amount,
	}, nil
}

// RecordOf converts a transaction back to its wire shape.
func RecordOf(t Transaction) Record {
	return Record{
		ID:       t.ID,
		Date:     t.Date.String(),
		Time:     t.Time,
		Account:  t.Account,
		Category: t.Category,
		Note:     t.Note,
		Quantity: json.Number(t.Quantity.String()),
		Flow:     string(t.Flow),
		Amount:   json.Number(t.Amount.String()),
	}
}

// ParseRecords decodes a JSON array of records.
func ParseRecords(data []byte) ([]Record, error) {
	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return recs, nil
}

// Draft is a transaction as submitted by the entry form: the amount is
// derived from the catalog price and the quantity.
type Draft struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Account  string `json:"account"`
	Category string `json:"category"`
	Note     string `json:"note"`
	Quantity string `json:"quantity"`
	Flow     string `json:"flow"`
	// Amount overrides the catalog price when set. Expenses have no
	// catalog price, so they must carry one.
	Amount string `json:"amount,omitempty"`
}

// Resolve validates the draft and turns it into a transaction using the
// catalog for unit prices.
func (dr Draft) Resolve(cat Catalog) (Transaction, error) {
	d, err := ParseDate(dr.Date)
	if err != nil {
		return Transaction{}, err
	}
	f, err := ParseFlow(dr.Flow)
	if err != nil {
		return Transaction{}, err
	}
	q, err := ParseQuantity(dr.Quantity)
	if err != nil {
		return Transaction{}, err
	}
	tm, err := NormalizeTime(dr.Time)
	if err != nil {
		return Transaction{}, err
	}
	category := strings.TrimSpace(dr.Category)
	var amount Money
	switch {
	case strings.TrimSpace(dr.Amount) != "":
		amount, err = ParseAmount(dr.Amount)
		if err != nil {
			return Transaction{}, err
		}
	default:
		price, ok := cat.UnitPrice(category)
		if !ok {
			return Transaction{}, fmt.Errorf("%w: no price for %q", ErrInvalidAmount, category)
		}
		amount = price.Mul(q)
	}
	t := Transaction{
		Date:     d,
		Time:     tm,
		Account:  strings.TrimSpace(dr.Account),
		Category: category,
		Note:     strings.TrimSpace(dr.Note),
		Quantity: q,
		Flow:     f,
		Amount:   amount,
	}
	if err := t.Validate(); err != nil {
		return Transaction{}, err
	}
	return t, nil
}
