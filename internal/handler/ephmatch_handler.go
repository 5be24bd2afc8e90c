package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-hub-api/internal/models"
	"github.com/noah-isme/campus-hub-api/pkg/response"
)

type ephmatchService interface {
	GetSelf(ctx context.Context, caller *models.AccessToken) (*models.EphmatchProfile, error)
	OptOut(ctx context.Context, caller *models.AccessToken) (*models.EphmatchProfile, error)
	OptIn(ctx context.Context, caller *models.AccessToken) (*models.EphmatchProfile, error)
}

// EphmatchHandler serves the caller's matching profile.
type EphmatchHandler struct {
	service ephmatchService
}

// NewEphmatchHandler constructs an ephmatch handler.
func NewEphmatchHandler(svc ephmatchService) *EphmatchHandler {
	return &EphmatchHandler{service: svc}
}

// GetSelf godoc
// @Summary Get my ephmatch profile
// @Tags Ephmatch
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /ephmatch/profile/self [get]
func (h *EphmatchHandler) GetSelf(c *gin.Context) {
	profile, err := h.service.GetSelf(c.Request.Context(), tokenFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile)
}

// OptOut godoc
// @Summary Leave ephmatch
// @Tags Ephmatch
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /ephmatch/profile/self [delete]
func (h *EphmatchHandler) OptOut(c *gin.Context) {
	profile, err := h.service.OptOut(c.Request.Context(), tokenFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile)
}

// OptIn godoc
// @Summary Rejoin ephmatch
// @Tags Ephmatch
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /ephmatch/profile/self [post]
func (h *EphmatchHandler) OptIn(c *gin.Context) {
	profile, err := h.service.OptIn(c.Request.Context(), tokenFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile)
}
