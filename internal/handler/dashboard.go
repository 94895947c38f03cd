package handler

import (
	"net/http"

	"xpense/internal/forecast"
	"xpense/internal/report"
	"xpense/internal/service"
	"xpense/internal/util"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the aggregated view and the forecast.
type DashboardHandler struct {
	Entries        *service.EntryService
	Forecaster     forecast.Forecaster
	DefaultHorizon int
}

func NewDashboardHandler(entries *service.EntryService, f forecast.Forecaster, defaultHorizon int) *DashboardHandler {
	if f == nil {
		f = forecast.Additive{}
	}
	if defaultHorizon < forecast.MinHorizon || defaultHorizon > forecast.MaxHorizon {
		defaultHorizon = forecast.DefaultHorizon
	}
	return &DashboardHandler{
		Entries:        entries,
		Forecaster:     f,
		DefaultHorizon: defaultHorizon,
	}
}

// GetSummary aggregates the filtered entries. Category choices follow the
// selected type only; years always come from the unfiltered set.
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var f report.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid filter")
		return
	}
	if err := f.Validate(); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	all, err := h.Entries.List(sess.Username)
	if err != nil {
		fail(c, err, "failed to load entries")
		return
	}
	summary := report.Summarize(report.Apply(all, f))

	util.Success(c, util.Response{
		"summary": summary,
		"totals": gin.H{
			"income":         util.FormatRupiahInt(summary.TotalIncome),
			"expense":        util.FormatRupiahInt(summary.TotalExpense),
			"net":            util.FormatRupiahInt(summary.Net),
			"emergency_fund": util.FormatRupiahInt(summary.TotalEmergency),
		},
		"categories": report.Categories(report.Apply(all, report.Filter{Type: f.Type})),
		"years":      report.Years(all),
	})
}

type forecastReq struct {
	Kind    string        `json:"kind"`
	Horizon int           `json:"horizon"`
	Filter  report.Filter `json:"filter"`
}

// Forecast fits the selected cash flow of the filtered entries and returns
// the prediction table followed by plain-language insights.
func (h *DashboardHandler) Forecast(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req forecastReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	if req.Kind == "" {
		req.Kind = string(forecast.KindNet)
	}
	if req.Horizon == 0 {
		req.Horizon = h.DefaultHorizon
	}
	kind, err := forecast.ParseKind(req.Kind)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	if err := req.Filter.Validate(); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	all, err := h.Entries.List(sess.Username)
	if err != nil {
		fail(c, err, "failed to load entries")
		return
	}
	series := forecast.BuildSeries(report.Apply(all, req.Filter), kind)

	opts, err := forecast.OptionsFor(series, req.Horizon)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	rows, err := h.Forecaster.Forecast(series, opts)
	if err != nil {
		fail(c, err, "forecast failed")
		return
	}

	util.Success(c, util.Response{
		"kind":        kind,
		"horizon":     opts.Horizon,
		"weekly":      opts.Weekly,
		"yearly":      opts.Yearly,
		"predictions": rows,
		"insights":    forecast.CollectInsights(rows, opts.Horizon, string(kind)),
	})
}
