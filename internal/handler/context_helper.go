package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-hub-api/internal/middleware"
	"github.com/noah-isme/campus-hub-api/internal/models"
	appErrors "github.com/noah-isme/campus-hub-api/pkg/errors"
	"github.com/noah-isme/campus-hub-api/pkg/pagination"
)

// Paging holds the list defaults shared by every collection endpoint.
type Paging struct {
	DefaultLimit int
	MaxLimit     int
}

func tokenFromContext(c *gin.Context) *models.AccessToken {
	return middleware.Token(c)
}

func (p Paging) params(c *gin.Context) pagination.Params {
	return pagination.FromQuery(c.Query("limit"), c.Query("offset"), p.DefaultLimit, p.MaxLimit)
}

// preloads collects the relations named by preload query values. Both repeated parameters
// and comma-separated lists are accepted.
func preloads(c *gin.Context) map[string]bool {
	set := make(map[string]bool)
	for _, raw := range c.QueryArray("preload") {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				set[part] = true
			}
		}
	}
	return set
}

func boolQuery(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}

func invalidPayload(err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
}
