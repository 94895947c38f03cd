package util

import (
	"testing"
)

func TestParseAmount_Valid(t *testing.T) {
	testCases := map[string]int64{
		"1":                     1,
		"100000":                100000,
		"100.000":               100000,
		"1,250,000":             1250000,
		" 75 000 ":              75000,
		"Rp 2.500":              2500,
		"Rp5000":                5000,
		"1.000.000.000.000.000": MaxAmount,
	}

	for in, want := range testCases {
		got, err := ParseAmount(in)
		if err != nil {
			t.Errorf("ParseAmount(%q) error = %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseAmount(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	testCases := []string{
		"",
		"   ",
		"0",
		"000",
		"-100",
		"abc",
		"12a",
		"1e5",
		"Rp",
		"1.000.000.000.000.001",
		"9.000.000.000.000.000.000",
		"9223372036854775808",
	}

	for _, in := range testCases {
		if got, err := ParseAmount(in); err == nil {
			t.Errorf("ParseAmount(%q) = %d, want error", in, got)
		}
	}
}

func TestParseAmount_SumsStayInRange(t *testing.T) {
	max, err := ParseAmount("Rp 1.000.000.000.000.000")
	if err != nil {
		t.Fatalf("ParseAmount(max) error = %v", err)
	}
	// thousands of maximal entries still add up without wrapping
	const rows = 9000
	var total int64
	for i := 0; i < rows; i++ {
		total += max
	}
	if total <= 0 || total/rows != max {
		t.Errorf("sum of %d maximal amounts = %d, overflowed", rows, total)
	}
}

func TestValidateDate_Valid(t *testing.T) {
	for _, date := range []string{"2024-01-01", "2024-12-31", "2025-06-15"} {
		if err := ValidateDate(date); err != nil {
			t.Errorf("ValidateDate(%q) error = %v, want nil", date, err)
		}
	}
}

func TestValidateDate_InvalidFormat(t *testing.T) {
	testCases := []string{
		"",
		"2024/01/01",
		"01-01-2024",
		"2024-1-1",
		"not-a-date",
		"2024-13-01",
		"2024-01-32",
	}

	for _, date := range testCases {
		if err := ValidateDate(date); err == nil {
			t.Errorf("ValidateDate(%q) error = nil, want error", date)
		}
	}
}

func TestValidateImage(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

	if err := ValidateImage(png); err != nil {
		t.Errorf("png rejected: %v", err)
	}
	if err := ValidateImage(jpg); err != nil {
		t.Errorf("jpeg rejected: %v", err)
	}
	if err := ValidateImage(nil); err == nil {
		t.Error("empty image accepted")
	}
	if err := ValidateImage([]byte("GIF89a......")); err == nil {
		t.Error("gif accepted")
	}
}
