package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"xpense/internal/models"
	"xpense/internal/report"
	"xpense/internal/service"
	"xpense/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{"Date", "Type", "Category", "Amount", "Emergency Fund", "Note"}

type ImportExportHandler struct {
	Entries   *service.EntryService
	MaxUpload int64
}

func NewImportExportHandler(entries *service.EntryService, maxUpload int64) *ImportExportHandler {
	if maxUpload <= 0 {
		maxUpload = 5 << 20
	}
	return &ImportExportHandler{
		Entries:   entries,
		MaxUpload: maxUpload,
	}
}

// filtered loads the user's entries narrowed by the query filter. It writes
// the error response itself and returns ok=false on failure.
func (h *ImportExportHandler) filtered(c *gin.Context) ([]models.Entry, bool) {
	sess, ok := currentSession(c)
	if !ok {
		return nil, false
	}
	var f report.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid filter")
		return nil, false
	}
	if err := f.Validate(); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return nil, false
	}
	all, err := h.Entries.List(sess.Username)
	if err != nil {
		fail(c, err, "failed to load entries")
		return nil, false
	}
	return report.Apply(all, f), true
}

// ExportCSV writes entries as CSV with Rupiah-formatted amounts.
func (h *ImportExportHandler) ExportCSV(c *gin.Context) {
	entries, ok := h.filtered(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"xpense_%s.csv\"",
		time.Now().Format("20060102")))

	// UTF-8 BOM so spreadsheet apps pick the right encoding
	_, _ = c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	_ = writer.Write(exportHeaders)
	for _, e := range entries {
		_ = writer.Write([]string{
			e.Date,
			e.Type,
			e.Category,
			util.FormatRupiahInt(e.Amount),
			util.FormatRupiahInt(e.EmergencyFund),
			e.Note,
		})
	}
}

// ExportXLSX writes entries as a workbook. Amounts stay numeric and get a
// Rupiah number format so sums still work in the sheet.
func (h *ImportExportHandler) ExportXLSX(c *gin.Context) {
	entries, ok := h.filtered(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Entries"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		fail(c, err, "failed to create sheet")
		return
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	rupiah := `"Rp "#,##0`
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &rupiah})
	if err != nil {
		fail(c, err, "failed to create sheet")
		return
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		fail(c, err, "failed to create sheet")
		return
	}

	for i, title := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, title)
	}
	_ = f.SetCellStyle(sheetName, "A1", "F1", headerStyle)

	for idx, e := range entries {
		row := idx + 2
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), e.Date)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), e.Type)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), e.Category)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), e.Amount)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), e.EmergencyFund)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), e.Note)
	}
	if len(entries) > 0 {
		_ = f.SetCellStyle(sheetName, "D2", fmt.Sprintf("E%d", len(entries)+1), moneyStyle)
	}

	_ = f.SetColWidth(sheetName, "A", "A", 12)
	_ = f.SetColWidth(sheetName, "B", "B", 10)
	_ = f.SetColWidth(sheetName, "C", "C", 16)
	_ = f.SetColWidth(sheetName, "D", "E", 16)
	_ = f.SetColWidth(sheetName, "F", "F", 40)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"xpense_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}

type importRowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ImportCSV adds entries from an uploaded CSV with at least the Date, Type,
// Category and Amount columns (the export layout works). Every row goes
// through the normal entry validation; bad rows are reported and skipped.
func (h *ImportExportHandler) ImportCSV(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUpload+1<<20)
	fh, err := c.FormFile("file")
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "please choose a CSV file")
		return
	}
	file, err := fh.Open()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "cannot read file")
		return
	}
	defer file.Close()

	reader := csv.NewReader(io.LimitReader(file, h.MaxUpload))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "file has no header row")
		return
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "type", "category", "amount"} {
		if _, ok := cols[required]; !ok {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, fmt.Sprintf("missing column %q", required))
			return
		}
	}
	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	imported := 0
	rowErrors := []importRowError{}
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			rowErrors = append(rowErrors, importRowError{Line: line, Message: "malformed row"})
			continue
		}
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "cannot read file")
			return
		}

		_, err = h.Entries.Create(sess.Username, service.EntryInput{
			Date:     field(rec, "date"),
			Type:     field(rec, "type"),
			Category: field(rec, "category"),
			Amount:   field(rec, "amount"),
			Note:     field(rec, "note"),
		})
		var ve *service.ValidationError
		switch {
		case err == nil:
			imported++
		case errors.As(err, &ve):
			rowErrors = append(rowErrors, importRowError{Line: line, Message: ve.Error()})
		default:
			fail(c, err, "import failed")
			return
		}
	}

	util.Success(c, util.Response{
		"imported": imported,
		"errors":   rowErrors,
	})
}
