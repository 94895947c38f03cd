package handler

import (
	"xpense/internal/util"

	"github.com/gin-gonic/gin"
)

// GetMe returns who is logged in and on which page (requires AuthMiddleware).
func GetMe(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	util.Success(c, util.Response{
		"user": gin.H{
			"username": sess.Username,
			"role":     sess.Role,
		},
		"page":       sess.Page,
		"expires_at": sess.ExpiresAt,
	})
}
