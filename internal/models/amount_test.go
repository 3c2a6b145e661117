package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidAmount(t *testing.T) {
	tests := []struct {
		amount string
		want   bool
	}{
		{"0.01", true},
		{"12.50", true},
		{"9999999999.99", true},
		{"0", false},
		{"-5", false},
		{"0.004", false},
		{"12.345", false},
		{"10000000000", false},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			if got := ValidAmount(decimal.RequireFromString(tt.amount)); got != tt.want {
				t.Errorf("ValidAmount(%s) = %v, want %v", tt.amount, got, tt.want)
			}
		})
	}
}
