package forecast

import (
	"fmt"
	"math"
	"testing"
	"time"

	"xpense/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBuildSeries(t *testing.T) {
	entries := []models.Entry{
		{Date: "2025-01-02", Type: models.TypeIncome, Amount: 100},
		{Date: "2025-01-01", Type: models.TypeIncome, Amount: 50},
		{Date: "2025-01-01", Type: models.TypeIncome, Amount: 25},
		{Date: "2025-01-03", Type: models.TypeExpense, Amount: 40},
		{Date: "2025-01-02", Type: models.TypeExpense, Amount: 10},
	}

	income := BuildSeries(entries, KindIncome)
	require.Len(t, income, 2)
	assert.Equal(t, Point{Date: day("2025-01-01"), Value: 75}, income[0])
	assert.Equal(t, Point{Date: day("2025-01-02"), Value: 100}, income[1])

	expense := BuildSeries(entries, KindExpense)
	require.Len(t, expense, 2)
	assert.Equal(t, 10.0, expense[0].Value)

	net := BuildSeries(entries, KindNet)
	require.Len(t, net, 3)
	assert.Equal(t, []float64{75, 90, -40}, []float64{net[0].Value, net[1].Value, net[2].Value})
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("net")
	require.NoError(t, err)
	assert.Equal(t, KindNet, k)

	_, err = ParseKind("profit")
	assert.Error(t, err)
}

func dailySeries(start string, values ...float64) []Point {
	d := day(start)
	out := make([]Point, len(values))
	for i, v := range values {
		out[i] = Point{Date: d.AddDate(0, 0, i), Value: v}
	}
	return out
}

func TestOptionsFor(t *testing.T) {
	short := dailySeries("2025-01-01", 1, 2, 3)
	opts, err := OptionsFor(short, 30)
	require.NoError(t, err)
	assert.Equal(t, Options{Horizon: 30}, opts)

	twoWeeks := []Point{{Date: day("2025-01-01")}, {Date: day("2025-01-15")}}
	opts, err = OptionsFor(twoWeeks, 7)
	require.NoError(t, err)
	assert.True(t, opts.Weekly)
	assert.False(t, opts.Yearly)

	twoYears := []Point{{Date: day("2023-01-01")}, {Date: day("2025-01-01")}}
	opts, err = OptionsFor(twoYears, 365)
	require.NoError(t, err)
	assert.True(t, opts.Weekly)
	assert.True(t, opts.Yearly)

	for _, h := range []int{0, -1, 366} {
		_, err := OptionsFor(short, h)
		assert.Error(t, err, "horizon %d", h)
	}
}

func TestAdditive_LinearTrend(t *testing.T) {
	values := make([]float64, 10)
	for i := range values {
		values[i] = 1000 + 100*float64(i)
	}
	series := dailySeries("2025-01-01", values...)

	rows, err := Additive{}.Forecast(series, Options{Horizon: 5})
	require.NoError(t, err)
	require.Len(t, rows, 15)

	assert.Equal(t, "2025-01-01", rows[0].Date)
	assert.Equal(t, "2025-01-11", rows[10].Date)
	assert.Equal(t, "2025-01-15", rows[14].Date)
	assert.InDelta(t, 1000+100*14.0, rows[14].Yhat, 1e-6)
	assert.InDelta(t, rows[14].Yhat, rows[14].Lower, 1e-6)
	assert.InDelta(t, rows[14].Yhat, rows[14].Upper, 1e-6)
}

func TestAdditive_IntervalCoversNoise(t *testing.T) {
	series := dailySeries("2025-01-01", 100, 140, 90, 150, 95, 160, 100, 130, 110, 150, 90, 145, 105, 155, 100, 150)

	opts, err := OptionsFor(series, 10)
	require.NoError(t, err)
	require.True(t, opts.Weekly)

	rows, err := Additive{}.Forecast(series, opts)
	require.NoError(t, err)
	require.Len(t, rows, len(series)+10)
	for _, r := range rows {
		assert.LessOrEqual(t, r.Lower, r.Yhat)
		assert.GreaterOrEqual(t, r.Upper, r.Yhat)
	}
	// the band widens further out
	last := rows[len(rows)-1]
	first := rows[len(series)]
	assert.Greater(t, last.Upper-last.Lower, first.Upper-first.Lower)
}

func TestAdditive_Errors(t *testing.T) {
	_, err := Additive{}.Forecast(nil, Options{Horizon: 5})
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = Additive{}.Forecast(dailySeries("2025-01-01", 1), Options{Horizon: 5})
	assert.ErrorIs(t, err, ErrInsufficientData)

	sameDay := []Point{{Date: day("2025-01-01"), Value: 1}, {Date: day("2025-01-01"), Value: 3}}
	_, err = Additive{}.Forecast(sameDay, Options{Horizon: 5})
	assert.ErrorIs(t, err, ErrDegenerateSeries)

	_, err = Additive{}.Forecast(dailySeries("2025-01-01", 1, 2), Options{Horizon: 0})
	assert.Error(t, err)
}

func flatRows(n int, yhat, width float64) []Prediction {
	rows := make([]Prediction, n)
	for i := range rows {
		rows[i] = Prediction{
			Date:  fmt.Sprintf("2025-01-%02d", i+1),
			Yhat:  yhat,
			Lower: yhat - width/2,
			Upper: yhat + width/2,
		}
	}
	return rows
}

func TestInsights_FlatIsStable(t *testing.T) {
	got := CollectInsights(flatRows(10, 5000, 100), 4, "income")
	require.Len(t, got, 3)
	assert.Contains(t, got[0], "stay stable")
	assert.Contains(t, got[0], "Income")
	assert.Contains(t, got[1], "high confidence")
	assert.Contains(t, got[2], "No significant seasonal pattern")
}

func TestInsights_ZeroMeanVolatility(t *testing.T) {
	rows := flatRows(6, 0, 50)
	rows[4].Yhat, rows[5].Yhat = -100, 100 // mean of window is exactly zero

	got := CollectInsights(rows, 2, "net")
	require.Len(t, got, 3)
	assert.Contains(t, got[1], "Unable to analyze volatility")
	assert.Contains(t, got[2], "No significant seasonal pattern")
}

func TestInsights_HorizonLongerThanRows(t *testing.T) {
	rows := flatRows(3, 1000, 10)
	rows[2].Yhat = 1300

	var got []string
	require.NotPanics(t, func() { got = CollectInsights(rows, 30, "expense") })
	require.Len(t, got, 3)
	// the first future prediction is the baseline
	assert.Contains(t, got[0], "upward")
	assert.Contains(t, got[0], "+Rp 300")
	assert.Contains(t, got[0], "next 3 days")
}

func TestInsights_NonFiniteValues(t *testing.T) {
	for name, mutate := range map[string]func(r *Prediction){
		"nan yhat":   func(r *Prediction) { r.Yhat = math.NaN() },
		"inf upper":  func(r *Prediction) { r.Upper = math.Inf(1) },
		"-inf lower": func(r *Prediction) { r.Lower = math.Inf(-1) },
	} {
		t.Run(name, func(t *testing.T) {
			rows := flatRows(6, 1000, 100)
			mutate(&rows[len(rows)-1])

			var got []string
			assert.NotPanics(t, func() { got = CollectInsights(rows, 3, "expense") })
			require.Len(t, got, 1)
			assert.Contains(t, got[0], "Unable to analyze the expense forecast")
		})
	}

	// a broken baseline row is caught too
	rows := flatRows(6, 1000, 100)
	rows[2].Yhat = math.NaN()
	got := CollectInsights(rows, 3, "expense")
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "invalid values")
}

func TestInsights_NoFutureRows(t *testing.T) {
	for _, tc := range []struct {
		rows    []Prediction
		horizon int
	}{
		{nil, 30},
		{flatRows(5, 10, 1), 0},
		{flatRows(5, 10, 1), -3},
	} {
		got := CollectInsights(tc.rows, tc.horizon, "income")
		require.Len(t, got, 1)
		assert.Contains(t, got[0], "no future income forecast")
	}
}

func TestInsights_TrendAndSeasonality(t *testing.T) {
	rows := flatRows(8, 1000, 100)
	// history ends at 1000, future dips then falls to 700
	rows[5].Yhat, rows[6].Yhat, rows[7].Yhat = 1200, 900, 700

	got := CollectInsights(rows, 3, "income")
	require.Len(t, got, 3)
	assert.Contains(t, got[0], "downward")
	assert.Contains(t, got[0], "-Rp 300")
	assert.Contains(t, got[2], "seasonal pattern")
	assert.Contains(t, got[2], "Rp 700")
	assert.Contains(t, got[2], "Rp 1.200")
}

func TestInsights_ConfidenceLevels(t *testing.T) {
	cases := []struct {
		width float64
		want  string
	}{
		{50, "high confidence"},      // 5%
		{200, "moderate confidence"}, // 20%
		{500, "fairly uncertain"},    // 50%
	}
	for _, tc := range cases {
		got := CollectInsights(flatRows(4, 1000, tc.width), 2, "expense")
		require.Len(t, got, 3)
		assert.Contains(t, got[1], tc.want)
	}
}

func TestInsights_StopsEarly(t *testing.T) {
	n := 0
	for range Insights(flatRows(4, 1000, 10), 2, "income") {
		n++
		break
	}
	assert.Equal(t, 1, n)
}
