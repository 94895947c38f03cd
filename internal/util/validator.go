package util

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MaxAmount is the largest amount a single entry may carry (Rp 1 quadrillion).
// Totals over thousands of such entries still fit in int64.
const MaxAmount int64 = 1_000_000_000_000_000

var amountCleaner = strings.NewReplacer(".", "", ",", "", " ", "", "_", "")

// ParseAmount parses a user-typed Rupiah amount such as "100000",
// "100.000" or "Rp 1,250,000". Thousands separators are dropped, so the
// result is always a whole number; it must be positive and at most MaxAmount.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(s, "Rp"), "rp"))
	if s == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	cleaned := amountCleaner.Replace(s)
	for _, ch := range cleaned {
		if ch < '0' || ch > '9' {
			return 0, fmt.Errorf("amount %q is not a number", s)
		}
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("amount %q is not a number: %w", s, err)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("amount must be positive")
	}
	if d.GreaterThan(decimal.NewFromInt(MaxAmount)) {
		return 0, fmt.Errorf("amount too large, the maximum is %s", FormatRupiahInt(MaxAmount))
	}
	return d.IntPart(), nil
}

// ValidateDate checks the YYYY-MM-DD format.
func ValidateDate(dateStr string) error {
	if dateStr == "" {
		return fmt.Errorf("date is empty")
	}
	_, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}
	return nil
}

// ValidateImage accepts PNG and JPEG payloads only.
func ValidateImage(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("image is empty")
	}
	switch http.DetectContentType(data) {
	case "image/png", "image/jpeg":
		return nil
	default:
		return fmt.Errorf("image must be PNG or JPG")
	}
}
