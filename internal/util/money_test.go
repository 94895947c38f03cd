package util

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestEmergencyFund(t *testing.T) {
	testCases := []struct {
		amount int64
		rate   int
		want   int64
	}{
		{100000, 10, 10000},
		{100000, 5, 5000},
		{99, 10, 9},     // 9.9 floors
		{19, 5, 0},      // 0.95 floors
		{12345, 7, 864}, // 864.15
		{1, 10, 0},
	}

	for _, tc := range testCases {
		if got := EmergencyFund(tc.amount, tc.rate); got != tc.want {
			t.Errorf("EmergencyFund(%d, %d) = %d, want %d", tc.amount, tc.rate, got, tc.want)
		}
	}
}

func TestFormatRupiah(t *testing.T) {
	testCases := map[string]string{
		"0":       "Rp 0",
		"5":       "Rp 5",
		"999":     "Rp 999",
		"1000":    "Rp 1.000",
		"1234567": "Rp 1.234.567",
		"100000":  "Rp 100.000",
		"-2500":   "-Rp 2.500",
		"1499.5":  "Rp 1.500",
		"-0.4":    "Rp 0",
	}

	for in, want := range testCases {
		if got := FormatRupiah(decimal.RequireFromString(in)); got != want {
			t.Errorf("FormatRupiah(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatRupiahInt(t *testing.T) {
	if got := FormatRupiahInt(15000000); got != "Rp 15.000.000" {
		t.Errorf("got %q", got)
	}
}
