package forecast

import (
	"fmt"
	"iter"
	"math"
	"slices"
	"unicode"
	"unicode/utf8"

	"xpense/internal/util"
)

const (
	highConfidenceRatio     = 0.1
	moderateConfidenceRatio = 0.3
	seasonalRatio           = 0.2
)

// Insights describes the future part of a forecast: trend, volatility and
// seasonality, in that order. rows must be in date order with the last
// horizon rows being the future; label names the series ("income", ...).
//
// The baseline for the trend is the row right before the future window. If
// the window covers every row there is no such row and the first future
// prediction is used instead.
func Insights(rows []Prediction, horizon int, label string) iter.Seq[string] {
	return func(yield func(string) bool) {
		n := min(max(horizon, 0), len(rows))
		if n == 0 {
			yield(fmt.Sprintf("There is no future %s forecast to analyze.", label))
			return
		}
		window := rows[len(rows)-n:]

		baseline := window[0].Yhat
		if len(rows) > n {
			baseline = rows[len(rows)-n-1].Yhat
		}

		if !finite(window, baseline) {
			yield(fmt.Sprintf("Unable to analyze the %s forecast because it contains invalid values.", label))
			return
		}

		if !yield(trendStatement(window, baseline, n, label)) {
			return
		}

		mean := meanYhat(window)
		if !yield(volatilityStatement(window, mean, label)) {
			return
		}

		yield(seasonalityStatement(window, mean, n, label))
	}
}

// CollectInsights runs Insights to completion.
func CollectInsights(rows []Prediction, horizon int, label string) []string {
	return slices.Collect(Insights(rows, horizon, label))
}

func trendStatement(window []Prediction, baseline float64, days int, label string) string {
	change := window[len(window)-1].Yhat - baseline
	switch {
	case change > 0:
		return fmt.Sprintf("%s is expected to trend upward over the next %d days, changing by about +%s from the last recorded period.",
			capitalize(label), days, util.FormatRupiahFloat(change))
	case change < 0:
		return fmt.Sprintf("%s is expected to trend downward over the next %d days, changing by about %s from the last recorded period.",
			capitalize(label), days, util.FormatRupiahFloat(change))
	default:
		return fmt.Sprintf("%s is expected to stay stable over the next %d days.", capitalize(label), days)
	}
}

func volatilityStatement(window []Prediction, mean float64, label string) string {
	if mean == 0 {
		return fmt.Sprintf("Unable to analyze volatility because the average forecast %s is zero.", label)
	}

	var width float64
	for _, r := range window {
		width += r.Upper - r.Lower
	}
	width /= float64(len(window))
	scale := math.Abs(mean)
	w := util.FormatRupiahFloat(width)

	switch {
	case width < scale*highConfidenceRatio:
		return fmt.Sprintf("The model shows high confidence in this forecast, with an average uncertainty range of about %s per day.", w)
	case width < scale*moderateConfidenceRatio:
		return fmt.Sprintf("The forecast has moderate confidence, with an average uncertainty range of about %s per day. Small fluctuations may occur.", w)
	default:
		return fmt.Sprintf("The forecast is fairly uncertain, with an average uncertainty range of about %s per day. "+
			"The history may vary a lot; consider adding more data or checking for anomalies.", w)
	}
}

func seasonalityStatement(window []Prediction, mean float64, days int, label string) string {
	lo, hi := window[0].Yhat, window[0].Yhat
	for _, r := range window[1:] {
		lo = min(lo, r.Yhat)
		hi = max(hi, r.Yhat)
	}
	if mean != 0 && hi-lo > math.Abs(mean)*seasonalRatio {
		return fmt.Sprintf("There are signs of a seasonal pattern in %s, fluctuating between %s and %s over the next %d days. "+
			"Watch for days or periods where %s runs higher or lower.",
			label, util.FormatRupiahFloat(lo), util.FormatRupiahFloat(hi), days, label)
	}
	return fmt.Sprintf("No significant seasonal pattern shows up in this forecast; %s looks consistent from day to day.", label)
}

// finite reports whether every number the statements use is a real value.
func finite(window []Prediction, baseline float64) bool {
	ok := func(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
	if !ok(baseline) {
		return false
	}
	for _, r := range window {
		if !ok(r.Yhat) || !ok(r.Lower) || !ok(r.Upper) {
			return false
		}
	}
	return true
}

func meanYhat(rows []Prediction) float64 {
	var sum float64
	for _, r := range rows {
		sum += r.Yhat
	}
	return sum / float64(len(rows))
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
