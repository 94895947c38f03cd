package handler

import (
	"net/http"
	"strings"
	"time"

	"xpense/internal/middleware"
	"xpense/internal/service"
	"xpense/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves register / login / logout.
type AuthHandler struct {
	Auth      *service.AuthService
	JWTSecret string
	Issuer    string
	TokenTTL  time.Duration
}

func NewAuthHandler(auth *service.AuthService, jwtSecret, issuer string, ttlHours int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthHandler{
		Auth:      auth,
		JWTSecret: jwtSecret,
		Issuer:    issuer,
		TokenTTL:  time.Duration(ttlHours) * time.Hour,
	}
}

// ---------- register ----------

type registerReq struct {
	Username        string `json:"username" form:"username" binding:"required,max=64"`
	Password        string `json:"password" form:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "username, password and confirmation are required")
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	if req.Password != req.ConfirmPassword {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "passwords do not match")
		return
	}

	// self registration always creates plain users
	created, err := h.Auth.Register(req.Username, req.Password, "")
	if err != nil {
		fail(c, err, "failed to create user")
		return
	}
	if !created {
		util.Error(c, http.StatusConflict, util.CodeConflict, "username already exists")
		return
	}

	util.Success(c, util.Response{
		"message": "registration successful, please log in",
		"user": gin.H{
			"username": req.Username,
		},
	})
}

// ---------- login ----------

type loginReq struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "username and password are required")
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	ok, role, err := h.Auth.Login(req.Username, req.Password)
	if err != nil {
		fail(c, err, "login failed")
		return
	}
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "invalid username or password")
		return
	}

	sess, err := h.Auth.StartSession(req.Username, role)
	if err != nil {
		fail(c, err, "login failed")
		return
	}
	token, err := util.GenerateToken(h.JWTSecret, h.Issuer, sess.ID, sess.Username, h.TokenTTL)
	if err != nil {
		fail(c, err, "failed to issue token")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(h.TokenTTL.Seconds()), "/", "", c.Request.TLS != nil, true)

	util.Success(c, util.Response{
		"token": token,
		"page":  sess.Page,
		"user": gin.H{
			"username": sess.Username,
			"role":     sess.Role,
		},
	})
}

// ---------- logout ----------

func (h *AuthHandler) Logout(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	if err := h.Auth.EndSession(sess.ID); err != nil {
		fail(c, err, "logout failed")
		return
	}
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", c.Request.TLS != nil, true)

	util.Success(c, util.Response{
		"message": "logged out",
	})
}
