// Package forecast turns recorded cash flows into a daily forecast and
// summarizes that forecast in plain sentences.
package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"

	"xpense/internal/models"

	"gonum.org/v1/gonum/stat"
)

const (
	MinHorizon     = 1
	MaxHorizon     = 365
	DefaultHorizon = 30

	weeklyMinSpan = 14      // days
	yearlyMinSpan = 365 * 2 // days

	// two-sided 80% normal interval
	intervalZ = 1.2816
)

var (
	ErrInsufficientData = errors.New("at least 2 data points are needed to forecast")
	ErrDegenerateSeries = errors.New("series cannot be fitted")
)

// Prediction is one forecast row. History dates come first, then Horizon
// future days.
type Prediction struct {
	Date  string  `json:"date"`
	Yhat  float64 `json:"yhat"`
	Lower float64 `json:"yhat_lower"`
	Upper float64 `json:"yhat_upper"`
}

// Options controls a forecast run.
type Options struct {
	Horizon int
	Weekly  bool
	Yearly  bool
}

// OptionsFor validates the horizon and turns on the seasonalities the data
// span can support: weekly from two weeks of data, yearly from two years.
func OptionsFor(series []Point, horizon int) (Options, error) {
	if horizon < MinHorizon || horizon > MaxHorizon {
		return Options{}, fmt.Errorf("horizon must be between %d and %d days", MinHorizon, MaxHorizon)
	}
	span := Span(series)
	return Options{
		Horizon: horizon,
		Weekly:  span >= weeklyMinSpan,
		Yearly:  span >= yearlyMinSpan,
	}, nil
}

// Forecaster fits a series and predicts it forward. Implementations may be
// backed by an external statistics package.
type Forecaster interface {
	Forecast(series []Point, opts Options) ([]Prediction, error)
}

// Additive is a small built-in Forecaster: a least-squares linear trend plus
// optional weekday and month offsets, with an interval from the residual
// spread that widens with distance from the data.
type Additive struct{}

type fitted struct {
	origin  time.Time
	alpha   float64
	beta    float64
	weekday [7]float64
	month   [13]float64
	sigma   float64
	n       int
}

func (f *fitted) x(d time.Time) float64 {
	return d.Sub(f.origin).Hours() / 24
}

func (f *fitted) predict(d time.Time) float64 {
	return f.alpha + f.beta*f.x(d) + f.weekday[d.Weekday()] + f.month[d.Month()]
}

func (Additive) Forecast(series []Point, opts Options) ([]Prediction, error) {
	if len(series) < 2 {
		return nil, ErrInsufficientData
	}
	if opts.Horizon < MinHorizon || opts.Horizon > MaxHorizon {
		return nil, fmt.Errorf("horizon must be between %d and %d days", MinHorizon, MaxHorizon)
	}

	f := &fitted{origin: series[0].Date, n: len(series)}
	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	for i, p := range series {
		xs[i] = f.x(p.Date)
		ys[i] = p.Value
	}
	if xs[len(xs)-1] == xs[0] {
		return nil, fmt.Errorf("%w: all points fall on one day", ErrDegenerateSeries)
	}

	f.alpha, f.beta = stat.LinearRegression(xs, ys, nil, false)

	resid := make([]float64, len(series))
	for i := range series {
		resid[i] = ys[i] - (f.alpha + f.beta*xs[i])
	}
	if opts.Weekly {
		seasonalOffsets(series, resid, f.weekday[:], func(d time.Time) int { return int(d.Weekday()) })
	}
	if opts.Yearly {
		seasonalOffsets(series, resid, f.month[:], func(d time.Time) int { return int(d.Month()) })
	}

	f.sigma = stat.StdDev(resid, nil)
	if math.IsNaN(f.sigma) {
		f.sigma = 0
	}

	out := make([]Prediction, 0, len(series)+opts.Horizon)
	band := intervalZ * f.sigma
	for _, p := range series {
		out = append(out, row(p.Date, f.predict(p.Date), band))
	}
	last := series[len(series)-1].Date
	for h := 1; h <= opts.Horizon; h++ {
		d := last.AddDate(0, 0, h)
		widen := math.Sqrt(1 + float64(h)/float64(f.n))
		out = append(out, row(d, f.predict(d), band*widen))
	}

	for _, r := range out {
		if math.IsNaN(r.Yhat) || math.IsInf(r.Yhat, 0) {
			return nil, ErrDegenerateSeries
		}
	}
	return out, nil
}

// seasonalOffsets stores the mean residual per bucket into offsets and
// removes it from resid. Buckets with no observation stay zero.
func seasonalOffsets(series []Point, resid, offsets []float64, bucket func(time.Time) int) {
	counts := make([]int, len(offsets))
	for i, p := range series {
		b := bucket(p.Date)
		offsets[b] += resid[i]
		counts[b]++
	}
	for b := range offsets {
		if counts[b] > 0 {
			offsets[b] /= float64(counts[b])
		}
	}
	for i, p := range series {
		resid[i] -= offsets[bucket(p.Date)]
	}
}

func row(d time.Time, yhat, band float64) Prediction {
	return Prediction{
		Date:  d.Format(models.DateLayout),
		Yhat:  yhat,
		Lower: yhat - band,
		Upper: yhat + band,
	}
}
