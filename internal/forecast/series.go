package forecast

import (
	"fmt"
	"sort"
	"time"

	"xpense/internal/models"
)

// Kind selects which cash flow is forecast.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
	KindNet     Kind = "net" // income - expense
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindIncome, KindExpense, KindNet:
		return k, nil
	}
	return "", fmt.Errorf("unknown forecast kind %q", s)
}

// Point is one (date, value) observation.
type Point struct {
	Date  time.Time
	Value float64
}

// BuildSeries sums entries per day for the chosen kind, sorted by date.
// For KindNet every date that has income or expense appears; the missing
// side counts as zero.
func BuildSeries(entries []models.Entry, kind Kind) []Point {
	sums := make(map[string]float64)
	for _, e := range entries {
		switch {
		case e.Type == models.TypeIncome && (kind == KindIncome || kind == KindNet):
			sums[e.Date] += float64(e.Amount)
		case e.Type == models.TypeExpense && kind == KindExpense:
			sums[e.Date] += float64(e.Amount)
		case e.Type == models.TypeExpense && kind == KindNet:
			sums[e.Date] -= float64(e.Amount)
		}
	}

	series := make([]Point, 0, len(sums))
	for date, v := range sums {
		d, err := time.Parse(models.DateLayout, date)
		if err != nil {
			continue
		}
		series = append(series, Point{Date: d, Value: v})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series
}

// Span is the number of days between the first and last observation.
func Span(series []Point) int {
	if len(series) < 2 {
		return 0
	}
	return int(series[len(series)-1].Date.Sub(series[0].Date).Hours() / 24)
}
