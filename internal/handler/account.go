package handler

import (
	"io"
	"net/http"

	"xpense/internal/service"
	"xpense/internal/util"

	"github.com/gin-gonic/gin"
)

// AccountHandler serves the account page: emergency rate and profile picture.
type AccountHandler struct {
	Accounts  *service.AccountService
	Entries   *service.EntryService
	MaxUpload int64
}

func NewAccountHandler(accounts *service.AccountService, entries *service.EntryService, maxUpload int64) *AccountHandler {
	if maxUpload <= 0 {
		maxUpload = 5 << 20
	}
	return &AccountHandler{
		Accounts:  accounts,
		Entries:   entries,
		MaxUpload: maxUpload,
	}
}

// GetAccount returns the profile shown on the account page.
func (h *AccountHandler) GetAccount(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	user, err := h.Accounts.User(sess.Username)
	if err != nil {
		fail(c, err, "failed to load account")
		return
	}
	count, err := h.Entries.Count(sess.Username)
	if err != nil {
		fail(c, err, "failed to load account")
		return
	}

	util.Success(c, util.Response{
		"user": gin.H{
			"username":        user.Username,
			"role":            user.Role,
			"emergency_rate":  user.EmergencyRate,
			"has_profile_pic": len(user.ProfilePic) > 0,
			"entry_count":     count,
			"created_at":      user.CreatedAt,
		},
	})
}

// UpdateEmergencyRateReq sets the share of income put aside, in percent.
type UpdateEmergencyRateReq struct {
	Rate int `json:"rate" form:"rate" binding:"required"`
}

func (h *AccountHandler) UpdateEmergencyRate(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req UpdateEmergencyRateReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "rate is required")
		return
	}
	if err := h.Accounts.SetEmergencyRate(sess.Username, req.Rate); err != nil {
		fail(c, err, "failed to update emergency rate")
		return
	}

	util.Success(c, util.Response{
		"message":        "emergency rate updated",
		"emergency_rate": req.Rate,
	})
}

// UploadProfilePicture takes a PNG or JPEG from the "file" form field.
func (h *AccountHandler) UploadProfilePicture(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUpload+1<<20)
	fh, err := c.FormFile("file")
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "please choose an image")
		return
	}
	if fh.Size > h.MaxUpload {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "image is too large")
		return
	}
	f, err := fh.Open()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "cannot read image")
		return
	}
	defer f.Close()
	img, err := io.ReadAll(io.LimitReader(f, h.MaxUpload))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "cannot read image")
		return
	}

	if err := h.Accounts.SetProfilePicture(sess.Username, img); err != nil {
		fail(c, err, "failed to save profile picture")
		return
	}
	util.Success(c, util.Response{
		"message": "profile picture updated",
	})
}

func (h *AccountHandler) GetProfilePicture(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	user, err := h.Accounts.User(sess.Username)
	if err != nil {
		fail(c, err, "failed to load account")
		return
	}
	if len(user.ProfilePic) == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "no profile picture")
		return
	}
	c.Data(http.StatusOK, http.DetectContentType(user.ProfilePic), user.ProfilePic)
}
