package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-hub-api/internal/models"
	"github.com/noah-isme/campus-hub-api/pkg/response"
)

type catalogService interface {
	ListProfessors(ctx context.Context, filter models.ProfessorFilter) ([]models.Professor, int, error)
	GetProfessor(ctx context.Context, id string) (*models.Professor, error)
	ListCourses(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	GetCourse(ctx context.Context, id string) (*models.Course, error)
	ListAreasOfStudy(ctx context.Context, limit, offset int) ([]models.AreaOfStudy, int, error)
	GetAreaOfStudy(ctx context.Context, id string) (*models.AreaOfStudy, error)
}

// CatalogHandler serves professors, courses and areas of study.
type CatalogHandler struct {
	service catalogService
	paging  Paging
}

// NewCatalogHandler constructs a catalog handler.
func NewCatalogHandler(svc catalogService, paging Paging) *CatalogHandler {
	return &CatalogHandler{service: svc, paging: paging}
}

// ListProfessors godoc
// @Summary List professors
// @Tags Factrak Catalog
// @Produce json
// @Param areaOfStudyID query string false "Area of study filter"
// @Param courseID query string false "Only professors reviewed for this course"
// @Param q query string false "Name search"
// @Success 200 {object} response.Envelope
// @Router /factrak/professors [get]
func (h *CatalogHandler) ListProfessors(c *gin.Context) {
	p := h.paging.params(c)
	professors, total, err := h.service.ListProfessors(c.Request.Context(), models.ProfessorFilter{
		AreaOfStudyID: c.Query("areaOfStudyID"),
		CourseID:      c.Query("courseID"),
		Query:         c.Query("q"),
		Limit:         p.Limit,
		Offset:        p.Offset,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, professors, total)
}

// GetProfessor godoc
// @Summary Get a professor with derived ratings
// @Tags Factrak Catalog
// @Produce json
// @Param id path string true "Professor ID"
// @Success 200 {object} response.Envelope
// @Router /factrak/professors/{id} [get]
func (h *CatalogHandler) GetProfessor(c *gin.Context) {
	professor, err := h.service.GetProfessor(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, professor)
}

// ListCourses godoc
// @Summary List courses
// @Tags Factrak Catalog
// @Produce json
// @Param areaOfStudyID query string false "Area of study filter"
// @Param q query string false "Search"
// @Param preload query []string false "areaOfStudy, professors"
// @Success 200 {object} response.Envelope
// @Router /factrak/courses [get]
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	p := h.paging.params(c)
	set := preloads(c)
	courses, total, err := h.service.ListCourses(c.Request.Context(), models.CourseFilter{
		AreaOfStudyID: c.Query("areaOfStudyID"),
		Query:         c.Query("q"),
		Limit:         p.Limit,
		Offset:        p.Offset,
		Preload:       models.CoursePreload{AreaOfStudy: set["areaOfStudy"], Professors: set["professors"]},
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, courses, total)
}

// GetCourse godoc
// @Summary Get a course
// @Tags Factrak Catalog
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /factrak/courses/{id} [get]
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	course, err := h.service.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// ListAreasOfStudy godoc
// @Summary List areas of study
// @Tags Factrak Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /factrak/areas-of-study [get]
func (h *CatalogHandler) ListAreasOfStudy(c *gin.Context) {
	p := h.paging.params(c)
	areas, total, err := h.service.ListAreasOfStudy(c.Request.Context(), p.Limit, p.Offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, areas, total)
}

// GetAreaOfStudy godoc
// @Summary Get an area of study
// @Tags Factrak Catalog
// @Produce json
// @Param id path string true "Area of study ID"
// @Success 200 {object} response.Envelope
// @Router /factrak/areas-of-study/{id} [get]
func (h *CatalogHandler) GetAreaOfStudy(c *gin.Context) {
	area, err := h.service.GetAreaOfStudy(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, area)
}
