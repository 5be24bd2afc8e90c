package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/campus-hub-api/pkg/errors"
	"github.com/noah-isme/campus-hub-api/pkg/response"
)

type limiter interface {
	Allow(key string) bool
}

// RateLimitWrites throttles mutating requests per signed-in user, falling back to the
// client address. Reads pass through.
func RateLimitWrites(l limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		key := "ip:" + c.ClientIP()
		if token := Token(c); token != nil && token.UserID != "" {
			key = "user:" + token.UserID
		}
		if !l.Allow(key) {
			c.Header("Retry-After", "1")
			response.Abort(c, appErrors.ErrRateLimited)
			return
		}
		c.Next()
	}
}
