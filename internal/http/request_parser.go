// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request
// data: the date range shared by every dashboard endpoint and the body of
// a new transaction.

package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"drinksales/internal/analytics"
	"drinksales/internal/core"
)

// maxBodyBytes bounds a transaction submission.
const maxBodyBytes = 64 << 10

// Accepted values of the period query parameter.
const (
	PeriodAll       = "all"
	PeriodLastMonth = "last-month"
)

// ParseRange reads start, end and period from the query. An explicit
// bound always wins over period; period=last-month only applies when
// neither bound is given.
func ParseRange(query url.Values, today core.Date) (analytics.DateRange, error) {
	var r analytics.DateRange
	for _, p := range []struct {
		name string
		dst  **core.Date
	}{{"start", &r.Start}, {"end", &r.End}} {
		v := strings.TrimSpace(query.Get(p.name))
		if v == "" {
			continue
		}
		d, err := core.ParseDate(v)
		if err != nil {
			return analytics.DateRange{}, fmt.Errorf("%w: %s: %v", errBadRequest, p.name, err)
		}
		*p.dst = &d
	}

	switch period := strings.ToLower(strings.TrimSpace(query.Get("period"))); period {
	case "", PeriodAll:
	case PeriodLastMonth:
		if r.IsZero() {
			r = analytics.LastMonth(today)
		}
	default:
		return analytics.DateRange{}, fmt.Errorf("%w: unknown period %q", errBadRequest, period)
	}
	return r, nil
}

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		p.err = fmt.Errorf("%w: read body: %v", errBadRequest, p.err)
		return p.err
	}

	body := strings.TrimSpace(string(p.body))
	if body == "" {
		p.formData = url.Values{}
		return nil
	}

	if body[0] == '{' {
		p.jsonData = make(map[string]any)
		dec := json.NewDecoder(strings.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&p.jsonData); err != nil {
			p.err = fmt.Errorf("%w: malformed JSON: %v", errBadRequest, err)
			return p.err
		}
		return nil
	}

	var err error
	p.formData, err = url.ParseQuery(body)
	if err != nil {
		p.err = fmt.Errorf("%w: malformed form: %v", errBadRequest, err)
	}
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// Draft reads a transaction draft. The entry form's field names and the
// Record key names are both accepted.
func (p *RequestBodyParser) Draft() (core.Draft, error) {
	if err := p.Parse(); err != nil {
		return core.Draft{}, err
	}
	first := func(keys ...string) string {
		for _, k := range keys {
			if v := p.Get(k); v != "" {
				return v
			}
		}
		return ""
	}
	return core.Draft{
		Date:     first("date", "Date"),
		Time:     first("time", "Time (hh:mm:ss)"),
		Account:  first("account", "Account"),
		Category: first("category", "Category"),
		Note:     first("note", "Note"),
		Quantity: first("quantity", "Quantity"),
		Flow:     first("flow", "Income/Expense"),
		Amount:   first("amount", "PGK"),
	}, nil
}

// stringValue converts a decoded JSON value to string.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
