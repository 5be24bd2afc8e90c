package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-hub-api/internal/models"
	"github.com/noah-isme/campus-hub-api/pkg/response"
)

type autocompleteService interface {
	Suggest(ctx context.Context, kind models.AutocompleteKind, q string, limit int) ([]models.Suggestion, error)
}

// AutocompleteHandler serves suggestion lists.
type AutocompleteHandler struct {
	service autocompleteService
}

// NewAutocompleteHandler constructs an autocomplete handler.
func NewAutocompleteHandler(svc autocompleteService) *AutocompleteHandler {
	return &AutocompleteHandler{service: svc}
}

// Suggest godoc
// @Summary Autocomplete suggestions
// @Tags Autocomplete
// @Produce json
// @Param kind path string true "area-of-study, course, professor, tag or factrak"
// @Param q query string true "Typed prefix"
// @Param limit query int false "Maximum suggestions"
// @Success 200 {object} response.Envelope
// @Router /autocomplete/{kind} [get]
func (h *AutocompleteHandler) Suggest(c *gin.Context) {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		limit = 0
	}
	suggestions, err := h.service.Suggest(c.Request.Context(), models.AutocompleteKind(c.Param("kind")), c.Query("q"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, suggestions)
}
