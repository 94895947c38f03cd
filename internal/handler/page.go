package handler

import (
	"net/http"
	"time"

	"xpense/internal/middleware"
	"xpense/internal/models"
	"xpense/internal/service"
	"xpense/internal/session"
	"xpense/internal/util"

	"github.com/gin-gonic/gin"
)

var pageTitles = map[session.Page]string{
	session.LoggedOut: "Xpense - Login",
	session.Home:      "Xpense - Add Entry",
	session.Dashboard: "Xpense - Dashboard",
	session.History:   "Xpense - History",
	session.Account:   "Xpense - Account",
}

// PageHandler renders the HTML pages and moves the session between them.
type PageHandler struct {
	Auth      *service.AuthService
	JWTSecret string
}

func NewPageHandler(auth *service.AuthService, jwtSecret string) *PageHandler {
	return &PageHandler{Auth: auth, JWTSecret: jwtSecret}
}

// Index shows the login page to visitors and sends logged-in users back to
// the page their session is on.
func (h *PageHandler) Index(c *gin.Context) {
	if tok := middleware.TokenFromRequest(c); tok != "" {
		if claims, err := util.ParseToken(h.JWTSecret, tok); err == nil {
			if sess, err := h.Auth.Session(claims.SessionID); err == nil {
				c.Redirect(http.StatusSeeOther, "/"+sess.Page)
				return
			}
		}
	}
	c.HTML(http.StatusOK, "login.html", gin.H{
		"title": pageTitles[session.LoggedOut],
		"page":  string(session.LoggedOut),
	})
}

// Show navigates the session to target and renders it. Must run behind the
// page variant of AuthMiddleware.
func (h *PageHandler) Show(target session.Page) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := middleware.CurrentSession(c)
		if !ok {
			c.Redirect(http.StatusSeeOther, "/")
			return
		}
		if err := h.Auth.Navigate(sess, target); err != nil {
			if service.IsValidation(err) {
				c.Redirect(http.StatusSeeOther, "/")
				return
			}
			_ = c.Error(err)
			c.String(http.StatusInternalServerError, "something went wrong")
			return
		}

		c.HTML(http.StatusOK, string(target)+".html", gin.H{
			"title":    pageTitles[target],
			"page":     sess.Page,
			"username": sess.Username,
			"role":     sess.Role,
			"today":    time.Now().Format(models.DateLayout),
			"income":   models.Categories(models.TypeIncome),
			"expense":  models.Categories(models.TypeExpense),
			"minRate":  models.MinEmergencyRate,
			"maxRate":  models.MaxEmergencyRate,
		})
	}
}
