package handler

import (
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
)

// EntryHandler serves the entry form and the history page.
type EntryHandler struct {
	Entries   *service.EntryService
	MaxUpload int64
}

func NewEntryHandler(entries *service.EntryService, maxUpload int64) *EntryHandler {
	if maxUpload <= 0 {
		maxUpload = 5 << 20
	}
	return &EntryHandler{
		Entries:   entries,
		MaxUpload: maxUpload,
	}
}

// ---------- request/response ----------

// entryReq is the JSON form of an entry. The receipt is base64 in JSON;
// multipart requests send it as the "receipt" file instead.
type entryReq struct {
	Date     string `json:"date"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Note     string `json:"note"`
	Receipt  []byte `json:"receipt"`
}

type entryResp struct {
	ID            uint      `json:"id"`
	Date          string    `json:"date"`
	Type          string    `json:"type"`
	Category      string    `json:"category"`
	Amount        int64     `json:"amount"`
	AmountText    string    `json:"amount_text"` // "Rp 1.234"
	EmergencyFund int64     `json:"emergency_fund"`
	EmergencyText string    `json:"emergency_fund_text"`
	Note          string    `json:"note"`
	HasReceipt    bool      `json:"has_receipt"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toEntryResp(e *models.Entry) entryResp {
	return entryResp{
		ID:            e.ID,
		Date:          e.Date,
		Type:          e.Type,
		Category:      e.Category,
		Amount:        e.Amount,
		AmountText:    util.FormatRupiahInt(e.Amount),
		EmergencyFund: e.EmergencyFund,
		EmergencyText: util.FormatRupiahInt(e.EmergencyFund),
		Note:          e.Note,
		HasReceipt:    len(e.ReceiptImage) > 0,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// readInput accepts either a JSON body or a (multipart) form.
func (h *EntryHandler) readInput(c *gin.Context) (service.EntryInput, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUpload+1<<20)

	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req entryReq
		if err := c.ShouldBindJSON(&req); err != nil {
			return service.EntryInput{}, fmt.Errorf("invalid request body")
		}
		return service.EntryInput(req), nil
	}

	in := service.EntryInput{
		Date:     c.PostForm("date"),
		Type:     c.PostForm("type"),
		Category: c.PostForm("category"),
		Amount:   c.PostForm("amount"),
		Note:     c.PostForm("note"),
	}
	fh, err := c.FormFile("receipt")
	if err != nil {
		// no file is fine
		return in, nil
	}
	if fh.Size > h.MaxUpload {
		return in, fmt.Errorf("receipt is larger than %d bytes", h.MaxUpload)
	}
	f, err := fh.Open()
	if err != nil {
		return in, fmt.Errorf("cannot read receipt")
	}
	defer f.Close()
	in.Receipt, err = io.ReadAll(io.LimitReader(f, h.MaxUpload))
	if err != nil {
		return in, fmt.Errorf("cannot read receipt")
	}
	return in, nil
}

// ---------- add entry ----------

func (h *EntryHandler) CreateEntry(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	in, err := h.readInput(c)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	id, err := h.Entries.Create(sess.Username, in)
	if err != nil {
		fail(c, err, "failed to save entry")
		return
	}
	entry, err := h.Entries.Get(id, sess.Username)
	if err != nil {
		fail(c, err, "failed to load entry")
		return
	}

	util.Success(c, util.Response{
		"message": "entry saved",
		"entry":   toEntryResp(entry),
	})
}

// ---------- edit entry ----------

func (h *EntryHandler) UpdateEntry(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	in, err := h.readInput(c)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	if err := h.Entries.Update(id, sess.Username, in); err != nil {
		fail(c, err, "failed to update entry")
		return
	}
	entry, err := h.Entries.Get(id, sess.Username)
	if err != nil {
		fail(c, err, "failed to load entry")
		return
	}

	util.Success(c, util.Response{
		"message": "entry updated",
		"entry":   toEntryResp(entry),
	})
}

// ---------- history ----------

// ListEntries returns the user's entries newest first, optionally narrowed
// by the same filter the dashboard uses.
func (h *EntryHandler) ListEntries(c *gin.Context) {
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
	list := report.Apply(all, f)

	items := make([]entryResp, 0, len(list))
	for i := range list {
		items = append(items, toEntryResp(&list[i]))
	}

	util.Success(c, util.Response{
		"items": items,
		"total": len(items),
	})
}

func (h *EntryHandler) GetEntry(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	entry, err := h.Entries.Get(id, sess.Username)
	if err != nil {
		fail(c, err, "failed to load entry")
		return
	}
	util.Success(c, util.Response{
		"entry": toEntryResp(entry),
	})
}

// GetReceipt streams the stored receipt image.
func (h *EntryHandler) GetReceipt(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	entry, err := h.Entries.Get(id, sess.Username)
	if err != nil {
		fail(c, err, "failed to load entry")
		return
	}
	if len(entry.ReceiptImage) == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "no receipt for this entry")
		return
	}
	c.Data(http.StatusOK, http.DetectContentType(entry.ReceiptImage), entry.ReceiptImage)
}

// ---------- delete ----------

func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.Entries.Delete(id, sess.Username); err != nil {
		fail(c, err, "failed to delete entry")
		return
	}
	util.Success(c, util.Response{
		"message": "entry deleted",
	})
}

// ListCategories returns the fixed vocabulary for ?type=income|expense, or
// both lists when type is missing.
func ListCategories(c *gin.Context) {
	switch typ := c.Query("type"); typ {
	case models.TypeIncome, models.TypeExpense:
		util.Success(c, util.Response{
			"type":       typ,
			"categories": models.Categories(typ),
		})
	case "":
		util.Success(c, util.Response{
			models.TypeIncome:  models.Categories(models.TypeIncome),
			models.TypeExpense: models.Categories(models.TypeExpense),
		})
	default:
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "type must be income or expense")
	}
}
