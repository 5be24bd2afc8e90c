package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-hub-api/internal/models"
	"github.com/noah-isme/campus-hub-api/internal/service"
	appErrors "github.com/noah-isme/campus-hub-api/pkg/errors"
	"github.com/noah-isme/campus-hub-api/pkg/response"
)

// RequireScope admits callers whose token grants at least one of scopes. Callers needing
// several scopes at once chain one RequireScope per scope.
func RequireScope(scopes ...models.Scope) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := Token(c)
		if !service.Authenticated(token) {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}
		if !service.HasScope(token, scopes...) {
			response.Abort(c, appErrors.Clone(appErrors.ErrForbidden, "missing required scope"))
			return
		}
		c.Next()
	}
}
