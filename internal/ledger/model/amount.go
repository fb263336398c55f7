package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// amountExp is the display scale of one base unit (1 satoshi = 1e-8 BTC).
const amountExp = -8

// FormatAmount renders satoshis at display scale with a fixed 8 decimals.
func FormatAmount(sats int64) string {
	return decimal.New(sats, amountExp).StringFixed(-amountExp)
}

// ParseAmount converts a display-scale amount back to satoshis without going through floats.
func ParseAmount(value string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", value, err)
	}
	sats := d.Shift(-amountExp)
	if !sats.Equal(sats.Truncate(0)) {
		return 0, fmt.Errorf("amount %q finer than base unit", value)
	}
	return sats.IntPart(), nil
}

// FormatAmounts joins amounts with ListSeparator.
func FormatAmounts(values []int64) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, FormatAmount(v))
	}
	return strings.Join(parts, ListSeparator)
}

// ParseAmounts reverses FormatAmounts. An empty string yields no amounts.
func ParseAmounts(value string) ([]int64, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parts := strings.Split(value, strings.TrimSpace(ListSeparator))
	out := make([]int64, 0, len(parts))
	for _, part := range parts {
		v, err := ParseAmount(part)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
