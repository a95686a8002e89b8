package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  Flow = "Income"
	Expense Flow = "Expense"
)

type (
	// Flow classifies a transaction as money coming in or going out.
	Flow string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single drink sale or expense. Amount is never
	// negative; the sign is implied by Flow.
	Transaction struct {
		ID       string
		Date     Date
		Time     string // HH:MM:SS, optional
		Account  string // payment method
		Category string // product sale type or expense category
		Note     string // expense sub-category or stock item
		Quantity decimal.Decimal
		Flow     Flow
		Amount   Money
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidDay      = errors.New("invalid day")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrInvalidFlow     = errors.New("invalid flow")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidTime     = errors.New("invalid time")
	ErrEmptyCategory   = errors.New("empty category")
	ErrNoteTooLong     = errors.New("note too long (max 200 characters)")
)

// ParseFlow accepts "Income" or "Expense" in any letter case.
func ParseFlow(s string) (Flow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income, nil
	case "expense":
		return Expense, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFlow, s)
}

func (f Flow) Valid() bool {
	return f == Income || f == Expense
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate reads a calendar date written as DD/MM/YYYY (the canonical
// form) or YYYY-MM-DD (what HTML date inputs submit).
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	if strings.Contains(s, "-") {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		return Date{Time: t}, nil
	}
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		nums[i] = n
	}
	day, month, year := nums[0], nums[1], nums[2]
	if month < 1 || month > 12 {
		return Date{}, fmt.Errorf("%w: %w: %q", ErrInvalidDate, ErrInvalidMonth, s)
	}
	d := NewDate(year, month, day)
	// time.Date normalises 31/02 into March; reject instead of rolling over.
	if d.Day() != day || d.Month() != month {
		return Date{}, fmt.Errorf("%w: %w: %q", ErrInvalidDate, ErrInvalidDay, s)
	}
	return d, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// Compare orders two dates by calendar day.
func (d Date) Compare(o Date) int {
	return d.Time.Compare(o.Time)
}

// String renders the canonical DD/MM/YYYY form.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("02/01/2006")
}

// ISO renders YYYY-MM-DD, the form stored in SQLite.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

// AddMonths moves the date by n calendar months, clamping to the last
// day of the target month.
func (d Date) AddMonths(n int) Date {
	first := NewDate(d.Year(), d.Month()+n, 1)
	last := NewDate(first.Year(), first.Month()+1, 1).Time.AddDate(0, 0, -1).Day()
	day := d.Day()
	if day > last {
		day = last
	}
	return NewDate(first.Year(), first.Month(), day)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, string(b))
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// NormalizeTime accepts HH:MM or HH:MM:SS and returns HH:MM:SS. An empty
// string stays empty since the time of day is optional.
func NormalizeTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	parts := strings.Split(s, ":")
	if len(parts) == 2 {
		parts = append(parts, "00")
	}
	if len(parts) != 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	limits := []int{23, 59, 59}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] || len(p) > 2 {
			return "", fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
		parts[i] = fmt.Sprintf("%02d", n)
	}
	return strings.Join(parts, ":"), nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	if !t.Flow.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFlow, string(t.Flow))
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if t.Quantity.IsNegative() {
		return ErrInvalidQuantity
	}
	if t.Time != "" {
		if _, err := NormalizeTime(t.Time); err != nil {
			return err
		}
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Note) > 200 {
		return ErrNoteTooLong
	}
	return nil
}

// Aggregatable reports whether the row can take part in aggregation:
// it needs a real calendar date and a known flow. Everything else is
// free text and is folded as-is.
func (t Transaction) Aggregatable() error {
	if err := t.Date.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	if !t.Flow.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFlow, string(t.Flow))
	}
	return nil
}
