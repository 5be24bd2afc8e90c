package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-hub-api/internal/models"
	"github.com/noah-isme/campus-hub-api/internal/service"
	"github.com/noah-isme/campus-hub-api/pkg/response"
)

type surveyService interface {
	Submit(ctx context.Context, caller *models.AccessToken, mode models.SurveyMode, id string, req service.SurveyRequest) (*models.Survey, error)
	Get(ctx context.Context, caller *models.AccessToken, id string, filter models.SurveyFilter) (*models.Survey, error)
	List(ctx context.Context, caller *models.AccessToken, filter models.SurveyFilter) ([]models.Survey, int, error)
	Delete(ctx context.Context, caller *models.AccessToken, id string) error
	Flag(ctx context.Context, caller *models.AccessToken, id string) (*models.Survey, error)
	SetAgreement(ctx context.Context, caller *models.AccessToken, id string, agrees bool) (*models.Survey, error)
	ClearAgreement(ctx context.Context, caller *models.AccessToken, id string) (*models.Survey, error)
}

type moderationService interface {
	ListFlagged(ctx context.Context, caller *models.AccessToken, filter models.FlaggedFilter) ([]models.Survey, int, error)
	Unflag(ctx context.Context, caller *models.AccessToken, id string) (*models.Survey, error)
	Delete(ctx context.Context, caller *models.AccessToken, id string) error
	Export(ctx context.Context, caller *models.AccessToken, format service.ExportFormat) (*service.ExportFile, error)
}

// AgreementRequest carries an agree or disagree vote.
type AgreementRequest struct {
	Agrees *bool `json:"agrees" binding:"required"`
}

// FactrakHandler serves surveys and the moderation queue.
type FactrakHandler struct {
	surveys    surveyService
	moderation moderationService
	paging     Paging
}

// NewFactrakHandler constructs a factrak handler.
func NewFactrakHandler(surveys surveyService, moderation moderationService, paging Paging) *FactrakHandler {
	return &FactrakHandler{surveys: surveys, moderation: moderation, paging: paging}
}

func surveyPreload(c *gin.Context) models.SurveyPreload {
	set := preloads(c)
	return models.SurveyPreload{Professor: set["professor"], Course: set["course"]}
}

func (h *FactrakHandler) surveyFilter(c *gin.Context) models.SurveyFilter {
	p := h.paging.params(c)
	return models.SurveyFilter{
		ProfessorID:             c.Query("professorID"),
		CourseID:                c.Query("courseID"),
		AreaOfStudyID:           c.Query("areaOfStudyID"),
		Limit:                   p.Limit,
		Offset:                  p.Offset,
		Preload:                 surveyPreload(c),
		PopulateAgreements:      boolQuery(c, "populateAgreements"),
		PopulateClientAgreement: boolQuery(c, "populateClientAgreement"),
	}
}

// ListSurveys godoc
// @Summary List surveys, newest first
// @Tags Factrak
// @Produce json
// @Param professorID query string false "Professor filter"
// @Param courseID query string false "Course filter"
// @Param areaOfStudyID query string false "Area of study filter"
// @Param preload query []string false "professor, course"
// @Param populateAgreements query bool false "Include agreement tallies"
// @Param populateClientAgreement query bool false "Include the caller's vote"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /factrak/surveys [get]
func (h *FactrakHandler) ListSurveys(c *gin.Context) {
	surveys, total, err := h.surveys.List(c.Request.Context(), tokenFromContext(c), h.surveyFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, surveys, total)
}

// GetSurvey godoc
// @Summary Get a survey
// @Tags Factrak
// @Produce json
// @Param id path string true "Survey ID"
// @Success 200 {object} response.Envelope
// @Router /factrak/surveys/{id} [get]
func (h *FactrakHandler) GetSurvey(c *gin.Context) {
	survey, err := h.surveys.Get(c.Request.Context(), tokenFromContext(c), c.Param("id"), h.surveyFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, survey)
}

// CreateSurvey godoc
// @Summary Submit a new survey
// @Tags Factrak
// @Accept json
// @Produce json
// @Param payload body service.SurveyRequest true "Survey payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /factrak/surveys [post]
func (h *FactrakHandler) CreateSurvey(c *gin.Context) {
	var req service.SurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	survey, err := h.surveys.Submit(c.Request.Context(), tokenFromContext(c), models.SurveyModeCreate, "", req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, survey)
}

// UpdateSurvey godoc
// @Summary Edit an existing survey
// @Tags Factrak
// @Accept json
// @Produce json
// @Param id path string true "Survey ID"
// @Param payload body service.SurveyRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /factrak/surveys/{id} [patch]
func (h *FactrakHandler) UpdateSurvey(c *gin.Context) {
	var req service.SurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	survey, err := h.surveys.Submit(c.Request.Context(), tokenFromContext(c), models.SurveyModeEdit, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, survey)
}

// DeleteSurvey godoc
// @Summary Delete a survey
// @Tags Factrak
// @Param id path string true "Survey ID"
// @Success 204
// @Router /factrak/surveys/{id} [delete]
func (h *FactrakHandler) DeleteSurvey(c *gin.Context) {
	if err := h.surveys.Delete(c.Request.Context(), tokenFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// FlagSurvey godoc
// @Summary Flag a survey for moderation
// @Tags Factrak
// @Produce json
// @Param id path string true "Survey ID"
// @Success 200 {object} response.Envelope
// @Router /factrak/surveys/{id}/flag [post]
func (h *FactrakHandler) FlagSurvey(c *gin.Context) {
	survey, err := h.surveys.Flag(c.Request.Context(), tokenFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, survey)
}

// SetAgreement godoc
// @Summary Agree or disagree with a survey
// @Tags Factrak
// @Accept json
// @Produce json
// @Param id path string true "Survey ID"
// @Param payload body AgreementRequest true "Vote"
// @Success 200 {object} response.Envelope
// @Router /factrak/surveys/{id}/agreement [post]
func (h *FactrakHandler) SetAgreement(c *gin.Context) {
	var req AgreementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	survey, err := h.surveys.SetAgreement(c.Request.Context(), tokenFromContext(c), c.Param("id"), *req.Agrees)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, survey)
}

// ClearAgreement godoc
// @Summary Withdraw a vote on a survey
// @Tags Factrak
// @Produce json
// @Param id path string true "Survey ID"
// @Success 200 {object} response.Envelope
// @Router /factrak/surveys/{id}/agreement [delete]
func (h *FactrakHandler) ClearAgreement(c *gin.Context) {
	survey, err := h.surveys.ClearAgreement(c.Request.Context(), tokenFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, survey)
}

// ListFlagged godoc
// @Summary List flagged surveys, oldest first
// @Tags Factrak Moderation
// @Produce json
// @Param preload query []string false "professor, course"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /factrak/flagged [get]
func (h *FactrakHandler) ListFlagged(c *gin.Context) {
	p := h.paging.params(c)
	surveys, total, err := h.moderation.ListFlagged(c.Request.Context(), tokenFromContext(c), models.FlaggedFilter{
		Limit:   p.Limit,
		Offset:  p.Offset,
		Preload: surveyPreload(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, surveys, total)
}

// Unflag godoc
// @Summary Clear the flag of a survey
// @Tags Factrak Moderation
// @Produce json
// @Param id path string true "Survey ID"
// @Success 200 {object} response.Envelope
// @Router /factrak/surveys/{id}/unflag [post]
func (h *FactrakHandler) Unflag(c *gin.Context) {
	survey, err := h.moderation.Unflag(c.Request.Context(), tokenFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, survey)
}

// DeleteFlagged godoc
// @Summary Remove a flagged survey
// @Tags Factrak Moderation
// @Param id path string true "Survey ID"
// @Success 204
// @Router /factrak/flagged/{id} [delete]
func (h *FactrakHandler) DeleteFlagged(c *gin.Context) {
	if err := h.moderation.Delete(c.Request.Context(), tokenFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ExportFlagged godoc
// @Summary Download the moderation queue
// @Tags Factrak Moderation
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /factrak/flagged/export [get]
func (h *FactrakHandler) ExportFlagged(c *gin.Context) {
	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(service.ExportCSV))))
	file, err := h.moderation.Export(c.Request.Context(), tokenFromContext(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
