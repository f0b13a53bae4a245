package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-user-mediator/pkg/helpers"
	"github.com/oksasatya/go-ddd-user-mediator/pkg/response"
)

// Context keys set by Auth.
const (
	CtxUserID      = "userID"
	CtxAccessToken = "accessToken"
)

// AccessToken returns the bearer token from the Authorization header, or
// the access cookie for browser clients.
func AccessToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "bearer") {
			return strings.TrimSpace(tok)
		}
	}
	tok, _ := c.Cookie(helpers.AccessCookie)
	return tok
}

// Auth validates the access token and sets userID and accessToken in the
// Gin context on success.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := AccessToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseToken(token, helpers.PurposeAccess)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxAccessToken, token)
		c.Next()
	}
}
