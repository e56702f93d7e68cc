package util

import (
	"github.com/gin-gonic/gin"
)

const (
	SessionIDKey = "x-session-id"
)

func SetJWTContext(c *gin.Context, msg JWTMessage) {
	c.Set(SessionIDKey, msg.SessionID)
}

func GetSessionID(ctx *gin.Context) string {
	return ctx.GetString(SessionIDKey)
}
