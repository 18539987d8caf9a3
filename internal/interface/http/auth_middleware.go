package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/pocket-activities/internal/domain/session"
	apperrors "github.com/yanqian/pocket-activities/pkg/errors"
)

// authMiddleware resolves the bearer token into session claims. Browsers
// cannot set headers on WebSocket upgrades, so a token query parameter is
// accepted as well.
func authMiddleware(svc session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, herr := bearerToken(c)
		if herr != nil {
			abortWithError(c, herr)
			return
		}
		claims, err := svc.Authenticate(token)
		if err != nil {
			status := http.StatusUnauthorized
			code := apperrors.CodeInvalidToken
			if !apperrors.IsCode(err, apperrors.CodeInvalidToken) {
				status = http.StatusInternalServerError
				code = "auth_failed"
			}
			abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, *HTTPError) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if token := strings.TrimSpace(c.Query("token")); token != "" {
			return token, nil
		}
		return "", NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing authorization header", nil)
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", NewHTTPError(http.StatusUnauthorized, "unauthorized", "invalid authorization header", nil)
	}
	return strings.TrimSpace(parts[1]), nil
}
