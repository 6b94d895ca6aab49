package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// NumericParseError reports an index field that is not a valid number.
type NumericParseError struct {
	Field string
	Value string
}

func (e *NumericParseError) Error() string {
	return fmt.Sprintf("parse %s: invalid number %q", e.Field, e.Value)
}

// ParseDecimal parses a string field delivered by the index. Empty and
// non-numeric values are errors; there is no implicit coercion.
func ParseDecimal(field, value string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Zero, &NumericParseError{Field: field, Value: value}
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, &NumericParseError{Field: field, Value: value}
	}
	return d, nil
}

// ParseCount parses a non-negative integer count field.
func ParseCount(field, value string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || n < 0 {
		return 0, &NumericParseError{Field: field, Value: value}
	}
	return n, nil
}
