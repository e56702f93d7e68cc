package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orgforge-labs/orgforge/internal/resputil"
	"github.com/orgforge-labs/orgforge/internal/util"
)

// AuthProtected verifies the bearer session token and stashes the
// session id on the request context.
func AuthProtected() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")
		t := strings.Split(authHeader, " ")
		if len(t) < 2 || t[0] != "Bearer" {
			resputil.HTTPError(c, http.StatusUnauthorized, "Invalid token", resputil.TokenInvalid)
			c.Abort()
			return
		}

		authToken := t[1]
		token, err := util.GetTokenMgr().CheckToken(authToken)
		if err != nil {
			resputil.HTTPError(c, http.StatusUnauthorized, err.Error(), resputil.TokenExpired)
			c.Abort()
			return
		}
		if token.SessionID == "" {
			resputil.HTTPError(c, http.StatusUnauthorized, "Token carries no session", resputil.TokenInvalid)
			c.Abort()
			return
		}

		util.SetJWTContext(c, token)
		c.Next()
	}
}
