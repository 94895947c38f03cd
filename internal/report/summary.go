package report

import (
	"sort"

	"xpense/internal/models"
)

// DailySummary is one chart point: income and expense for a date.
type DailySummary struct {
	Date    string `json:"date"`
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
}

// CategorySummary totals one category.
type CategorySummary struct {
	Category string `json:"category"`
	Income   int64  `json:"income"`
	Expense  int64  `json:"expense"`
}

// Summary is what the dashboard shows for a filtered set of entries.
type Summary struct {
	TotalIncome    int64             `json:"total_income"`
	TotalExpense   int64             `json:"total_expense"`
	Net            int64             `json:"net"` // income - expense
	TotalEmergency int64             `json:"total_emergency_fund"`
	Count          int               `json:"count"`
	FirstDate      string            `json:"first_date,omitempty"`
	LastDate       string            `json:"last_date,omitempty"`
	Daily          []DailySummary    `json:"daily"`
	ByCategory     []CategorySummary `json:"by_category"`
}

// Summarize aggregates entries. Days and categories with no entries of a
// type simply carry zero for that type.
func Summarize(entries []models.Entry) Summary {
	s := Summary{
		Count:      len(entries),
		Daily:      []DailySummary{},
		ByCategory: []CategorySummary{},
	}

	daily := make(map[string]*DailySummary)
	byCat := make(map[string]*CategorySummary)

	for _, e := range entries {
		ds, ok := daily[e.Date]
		if !ok {
			ds = &DailySummary{Date: e.Date}
			daily[e.Date] = ds
		}
		cs, ok := byCat[e.Category]
		if !ok {
			cs = &CategorySummary{Category: e.Category}
			byCat[e.Category] = cs
		}

		switch e.Type {
		case models.TypeIncome:
			s.TotalIncome += e.Amount
			ds.Income += e.Amount
			cs.Income += e.Amount
		case models.TypeExpense:
			s.TotalExpense += e.Amount
			ds.Expense += e.Amount
			cs.Expense += e.Amount
		}
		s.TotalEmergency += e.EmergencyFund

		if s.FirstDate == "" || e.Date < s.FirstDate {
			s.FirstDate = e.Date
		}
		if e.Date > s.LastDate {
			s.LastDate = e.Date
		}
	}
	s.Net = s.TotalIncome - s.TotalExpense

	for _, ds := range daily {
		s.Daily = append(s.Daily, *ds)
	}
	sort.Slice(s.Daily, func(i, j int) bool { return s.Daily[i].Date < s.Daily[j].Date })

	for _, cs := range byCat {
		s.ByCategory = append(s.ByCategory, *cs)
	}
	sort.Slice(s.ByCategory, func(i, j int) bool { return s.ByCategory[i].Category < s.ByCategory[j].Category })

	return s
}
