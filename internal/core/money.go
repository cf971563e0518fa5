// Package core provides the loan domain: records, amounts, due windows,
// notifications and summary statistics.
//
// This file contains permissive amount parsing and rupee formatting.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every formatted amount.
const CurrencySymbol = "₹"

var amountCleaner = strings.NewReplacer(",", "", "_", "", " ", "", "\u00a0", "")

// ParseAmount converts a stored amount to a decimal.
//
// Parsing is permissive: blank, missing or non-numeric input yields zero
// instead of an error, digit grouping separators are ignored and a leading
// rupee sign is accepted.
//
// Examples:
//
//	ParseAmount("15000")     -> 15000
//	ParseAmount("₹1,50,000") -> 150000
//	ParseAmount("abc")       -> 0
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, CurrencySymbol)
	s = amountCleaner.Replace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatINR formats an amount with the rupee sign and Indian digit grouping
// (lakh/crore: 15,00,000). Fractions are rounded to paise and dropped when
// zero, so 15000 renders as "₹15,000" and 1234.5 as "₹1,234.5".
func FormatINR(d decimal.Decimal) string {
	d = d.Round(2)
	neg := d.IsNegative()
	fixed := d.Abs().StringFixed(2)

	intPart, frac, _ := strings.Cut(fixed, ".")
	frac = strings.TrimRight(frac, "0")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(CurrencySymbol)
	b.WriteString(groupIndian(intPart))
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// groupIndian groups the last three digits, then every two digits before them.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append(parts, head[len(head)-2:])
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append(parts, head)
	}

	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteString(parts[i])
		b.WriteByte(',')
	}
	b.WriteString(tail)
	return b.String()
}
