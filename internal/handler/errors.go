package handler

import (
	"errors"
	"net/http"
	"strconv"

	"xpense/internal/forecast"
	"xpense/internal/middleware"
	"xpense/internal/models"
	"xpense/internal/service"
	"xpense/internal/util"

	"github.com/gin-gonic/gin"
)

// fail maps a service error onto the response envelope. Unexpected errors
// are attached to the context for the access log and reported generically.
func fail(c *gin.Context, err error, serverMsg string) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, ve.Message)
	case errors.Is(err, service.ErrEntryNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "entry not found")
	case errors.Is(err, service.ErrBackupNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "backup not found")
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrSessionInvalid):
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
	case errors.Is(err, forecast.ErrInsufficientData), errors.Is(err, forecast.ErrDegenerateSeries):
		util.Error(c, http.StatusUnprocessableEntity, util.CodeUnprocessable, err.Error())
	default:
		_ = c.Error(err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, serverMsg)
	}
}

// currentSession fetches the session set by the auth middleware, answering
// 401 when there is none.
func currentSession(c *gin.Context) (*models.Session, bool) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil, false
	}
	return sess, true
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return 0, false
	}
	return uint(id), true
}
