// Package report filters a user's entries and aggregates them for the dashboard.
// Everything here is a pure function of its input.
package report

import (
	"fmt"
	"sort"
	"time"

	"xpense/internal/models"
)

const All = "all"

// Time filter modes.
const (
	TimeAll   = "all"
	TimeDay   = "day"
	TimeMonth = "month" // month of year, across all years
	TimeYear  = "year"
	TimeRange = "range"
)

// Filter is the dashboard selection. Zero values mean "all".
type Filter struct {
	Type     string `form:"type" json:"type"`         // all / income / expense
	Category string `form:"category" json:"category"` // all / exact category
	TimeMode string `form:"time" json:"time"`
	Day      string `form:"day" json:"day"`     // YYYY-MM-DD
	Month    int    `form:"month" json:"month"` // 1-12
	Year     int    `form:"year" json:"year"`
	From     string `form:"from" json:"from"` // YYYY-MM-DD, inclusive
	To       string `form:"to" json:"to"`     // YYYY-MM-DD, inclusive
}

// Validate checks the parameters the selected time mode needs.
func (f Filter) Validate() error {
	switch f.Type {
	case "", All, models.TypeIncome, models.TypeExpense:
	default:
		return fmt.Errorf("unknown type %q", f.Type)
	}
	switch f.TimeMode {
	case "", TimeAll:
	case TimeDay:
		if _, err := time.Parse(models.DateLayout, f.Day); err != nil {
			return fmt.Errorf("day must be YYYY-MM-DD")
		}
	case TimeMonth:
		if f.Month < 1 || f.Month > 12 {
			return fmt.Errorf("month must be 1-12")
		}
	case TimeYear:
		if f.Year <= 0 {
			return fmt.Errorf("year is required")
		}
	case TimeRange:
		for _, d := range []string{f.From, f.To} {
			if d == "" {
				continue
			}
			if _, err := time.Parse(models.DateLayout, d); err != nil {
				return fmt.Errorf("range dates must be YYYY-MM-DD")
			}
		}
	default:
		return fmt.Errorf("unknown time filter %q", f.TimeMode)
	}
	return nil
}

// Apply runs the type, category and time filters, in that order, and returns
// the matching entries in their original order. The input is not modified.
func Apply(entries []models.Entry, f Filter) []models.Entry {
	out := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if f.Type != "" && f.Type != All && e.Type != f.Type {
			continue
		}
		if f.Category != "" && f.Category != All && e.Category != f.Category {
			continue
		}
		if !f.matchTime(e) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (f Filter) matchTime(e models.Entry) bool {
	switch f.TimeMode {
	case TimeDay:
		return e.Date == f.Day
	case TimeMonth:
		d, err := e.Day()
		return err == nil && int(d.Month()) == f.Month
	case TimeYear:
		d, err := e.Day()
		return err == nil && d.Year() == f.Year
	case TimeRange:
		// a half-filled range picker does not filter yet
		if f.From == "" || f.To == "" {
			return true
		}
		// ISO dates compare correctly as strings
		return e.Date >= f.From && e.Date <= f.To
	}
	return true
}

// Categories lists the distinct categories present, sorted.
func Categories(entries []models.Entry) []string {
	seen := make(map[string]struct{})
	for _, e := range entries {
		seen[e.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Years lists the distinct years present, ascending.
func Years(entries []models.Entry) []int {
	seen := make(map[int]struct{})
	for _, e := range entries {
		if d, err := e.Day(); err == nil {
			seen[d.Year()] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for y := range seen {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}
