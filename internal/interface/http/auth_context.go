package http

import (
	"github.com/gin-gonic/gin"

	"github.com/yanqian/pocket-activities/internal/domain/session"
)

const sessionClaimsKey = "session_claims"

func setClaims(c *gin.Context, claims session.Claims) {
	c.Set(sessionClaimsKey, claims)
}

func getClaims(c *gin.Context) (session.Claims, bool) {
	value, ok := c.Get(sessionClaimsKey)
	if !ok {
		return session.Claims{}, false
	}
	claims, ok := value.(session.Claims)
	return claims, ok
}
