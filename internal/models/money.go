package models

import "github.com/shopspring/decimal"

// Money is an exact decimal amount encoded as a bare JSON number
type Money struct {
	decimal.Decimal
}

// NewMoney parses a decimal literal such as "29.98". It panics on malformed
// input and is meant for fixed amounts.
func NewMoney(value string) Money {
	return Money{Decimal: decimal.RequireFromString(value)}
}

// MarshalJSON writes the amount without quotes
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

// UnmarshalJSON accepts both quoted and bare numbers
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Decimal.UnmarshalJSON(data)
}
