package middleware

import (
	"errors"
	"net/http"
	"strings"

	"xpense/internal/models"
	"xpense/internal/service"
	"xpense/internal/util"

	"github.com/gin-gonic/gin"
)

const (
	// TokenCookie is where the browser keeps the session token.
	TokenCookie = "xp_token"

	ctxSession = "currentSession"
)

// TokenFromRequest reads the session token from the Authorization header or
// the xp_token cookie.
func TokenFromRequest(c *gin.Context) string {
	// 1) Header: Authorization: Bearer xxx
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	// 2) Cookie set at login
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

// AuthMiddleware resolves the token to a live session and stores it in the
// context. API routes get a 401 envelope; page routes (redirectTo != "") are
// redirected to the login page instead.
func AuthMiddleware(jwtSecret string, auth *service.AuthService, redirectTo string) gin.HandlerFunc {
	return func(c *gin.Context) {
		reject := func(status, code int, msg string) {
			if redirectTo != "" {
				c.Redirect(http.StatusSeeOther, redirectTo)
			} else {
				util.Error(c, status, code, msg)
			}
			c.Abort()
		}

		tokenStr := TokenFromRequest(c)
		if tokenStr == "" {
			reject(http.StatusUnauthorized, util.CodeAuth, "not logged in")
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil {
			reject(http.StatusUnauthorized, util.CodeAuth, "session expired, please log in again")
			return
		}

		sess, err := auth.Session(claims.SessionID)
		if err != nil {
			if errors.Is(err, service.ErrSessionInvalid) {
				reject(http.StatusUnauthorized, util.CodeAuth, "session expired, please log in again")
			} else {
				reject(http.StatusInternalServerError, util.CodeServerErr, "failed to load session")
			}
			return
		}

		c.Set(ctxSession, sess)
		c.Next()
	}
}

// CurrentSession returns the session stored by AuthMiddleware.
func CurrentSession(c *gin.Context) (*models.Session, bool) {
	v, ok := c.Get(ctxSession)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*models.Session)
	return sess, ok && sess != nil
}
