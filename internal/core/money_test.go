package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain integer", "15000", "15000"},
		{"decimal", "1234.56", "1234.56"},
		{"indian grouping", "1,50,000", "150000"},
		{"rupee sign", "₹ 8,000", "8000"},
		{"surrounding spaces", "  42 ", "42"},
		{"empty", "", "0"},
		{"blank", "   ", "0"},
		{"not a number", "abc", "0"},
		{"nan", "NaN", "0"},
		{"double dot", "1.2.3", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmount(tt.in)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "ParseAmount(%q) = %s, want %s", tt.in, got, tt.want)
		})
	}
}

func TestFormatINR(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "₹0"},
		{"999", "₹999"},
		{"8000", "₹8,000"},
		{"15000", "₹15,000"},
		{"150000", "₹1,50,000"},
		{"1500000", "₹15,00,000"},
		{"123456789", "₹12,34,56,789"},
		{"1234.5", "₹1,234.5"},
		{"1234.567", "₹1,234.57"},
		{"15000.00", "₹15,000"},
		{"-2500", "-₹2,500"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatINR(decimal.RequireFromString(tt.in)))
		})
	}
}
