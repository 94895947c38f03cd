package util

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// EmergencyFund returns floor(amount * rate / 100).
func EmergencyFund(amount int64, rate int) int64 {
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromInt(int64(rate))).
		Div(hundred).
		Floor().
		IntPart()
}

// FormatRupiah renders an amount as "Rp 1.234.567", rounded to whole Rupiah.
func FormatRupiah(d decimal.Decimal) string {
	d = d.Round(0)
	neg := d.IsNegative()
	digits := d.Abs().String()

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("Rp ")
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatRupiahInt is FormatRupiah for stored integer amounts.
func FormatRupiahInt(amount int64) string {
	return FormatRupiah(decimal.NewFromInt(amount))
}

// FormatRupiahFloat is FormatRupiah for model output.
func FormatRupiahFloat(f float64) string {
	return FormatRupiah(decimal.NewFromFloat(f))
}
