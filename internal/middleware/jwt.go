package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-hub-api/internal/models"
	"github.com/noah-isme/campus-hub-api/internal/service"
	appErrors "github.com/noah-isme/campus-hub-api/pkg/errors"
	"github.com/noah-isme/campus-hub-api/pkg/response"
)

// ContextTokenKey is the gin context key storing the evaluated access token.
const ContextTokenKey = "accessToken"

type tokenParser interface {
	ParseToken(raw string) models.AccessToken
}

// Authenticate evaluates the bearer token of every request and stores the result on the
// context. It never rejects: a missing or invalid token becomes the zero token, which
// holds no scopes.
func Authenticate(parser tokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := parser.ParseToken(c.GetHeader("Authorization"))
		c.Set(ContextTokenKey, &token)
		c.Next()
	}
}

// RequireAuthenticated rejects requests that do not carry a signed-in user's token.
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !service.Authenticated(Token(c)) {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// Token returns the access token evaluated for this request, or nil when Authenticate
// did not run.
func Token(c *gin.Context) *models.AccessToken {
	value, exists := c.Get(ContextTokenKey)
	if !exists {
		return nil
	}
	token, ok := value.(*models.AccessToken)
	if !ok {
		return nil
	}
	return token
}
