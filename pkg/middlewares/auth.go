package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"momo-insights/pkg"
)

// SessionAuth gates protected routes behind a valid login session. Browser
// requests are redirected to the login page; JSON clients get a 401 body.
func SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		rawID, _ := sess.Get(pkg.SessionUserId).(string)
		userID, err := uuid.Parse(rawID)
		if rawID == "" || err != nil {
			if wantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, pkg.ErrorResponse{
					Code:    pkg.ErrSessionRequiredCode.Code,
					Message: pkg.ErrSessionRequiredCode.Message,
				})
				return
			}
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		username, _ := sess.Get(pkg.SessionUsername).(string)
		c.Set(pkg.UserId, userID)
		c.Set(pkg.Username, username)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id set by SessionAuth.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(pkg.UserId)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func wantsJSON(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}
