package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-hub-api/internal/models"
	"github.com/noah-isme/campus-hub-api/internal/service"
	"github.com/noah-isme/campus-hub-api/pkg/response"
)

type bulletinService interface {
	ListThreads(ctx context.Context, filter models.ThreadFilter) ([]models.Thread, int, error)
	GetThread(ctx context.Context, id string, preload models.ThreadPreload) (*models.Thread, error)
	CreateThread(ctx context.Context, caller *models.AccessToken, req service.CreateThreadRequest) (*models.Thread, error)
	UpdateThread(ctx context.Context, caller *models.AccessToken, id string, req service.UpdateThreadRequest) (*models.Thread, error)
	DeleteThread(ctx context.Context, caller *models.AccessToken, id string) error
	ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error)
	GetPost(ctx context.Context, id string, withUser bool) (*models.Post, error)
	CreatePost(ctx context.Context, caller *models.AccessToken, threadID string, req service.PostRequest) (*models.Post, error)
	EditPost(ctx context.Context, caller *models.AccessToken, id string, req service.PostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, caller *models.AccessToken, id string) error
}

// BulletinHandler serves discussion threads and posts.
type BulletinHandler struct {
	service bulletinService
	paging  Paging
}

// NewBulletinHandler constructs a bulletin handler.
func NewBulletinHandler(svc bulletinService, paging Paging) *BulletinHandler {
	return &BulletinHandler{service: svc, paging: paging}
}

func threadPreload(c *gin.Context) models.ThreadPreload {
	set := preloads(c)
	return models.ThreadPreload{User: set["user"], Posts: set["posts"], PostsUsers: set["postsUsers"]}
}

// ListThreads godoc
// @Summary List discussions, newest first
// @Tags Bulletin
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Param preload query []string false "user, posts, postsUsers"
// @Success 200 {object} response.Envelope
// @Router /bulletin/discussions [get]
func (h *BulletinHandler) ListThreads(c *gin.Context) {
	p := h.paging.params(c)
	threads, total, err := h.service.ListThreads(c.Request.Context(), models.ThreadFilter{
		Limit:   p.Limit,
		Offset:  p.Offset,
		Preload: threadPreload(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, threads, total)
}

// GetThread godoc
// @Summary Get a discussion
// @Tags Bulletin
// @Produce json
// @Param id path string true "Discussion ID"
// @Success 200 {object} response.Envelope
// @Router /bulletin/discussions/{id} [get]
func (h *BulletinHandler) GetThread(c *gin.Context) {
	thread, err := h.service.GetThread(c.Request.Context(), c.Param("id"), threadPreload(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, thread)
}

// CreateThread godoc
// @Summary Start a discussion
// @Tags Bulletin
// @Accept json
// @Produce json
// @Param payload body service.CreateThreadRequest true "Discussion payload"
// @Success 201 {object} response.Envelope
// @Router /bulletin/discussions [post]
func (h *BulletinHandler) CreateThread(c *gin.Context) {
	var req service.CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	thread, err := h.service.CreateThread(c.Request.Context(), tokenFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, thread)
}

// UpdateThread godoc
// @Summary Rename a discussion
// @Tags Bulletin
// @Accept json
// @Produce json
// @Param id path string true "Discussion ID"
// @Param payload body service.UpdateThreadRequest true "Discussion payload"
// @Success 200 {object} response.Envelope
// @Router /bulletin/discussions/{id} [patch]
func (h *BulletinHandler) UpdateThread(c *gin.Context) {
	var req service.UpdateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	thread, err := h.service.UpdateThread(c.Request.Context(), tokenFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, thread)
}

// DeleteThread godoc
// @Summary Delete a discussion and its posts
// @Tags Bulletin
// @Param id path string true "Discussion ID"
// @Success 204
// @Router /bulletin/discussions/{id} [delete]
func (h *BulletinHandler) DeleteThread(c *gin.Context) {
	if err := h.service.DeleteThread(c.Request.Context(), tokenFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListPosts godoc
// @Summary List the posts of a discussion in reading order
// @Tags Bulletin
// @Produce json
// @Param id path string true "Discussion ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /bulletin/discussions/{id}/posts [get]
func (h *BulletinHandler) ListPosts(c *gin.Context) {
	p := h.paging.params(c)
	posts, total, err := h.service.ListPosts(c.Request.Context(), models.PostFilter{
		ThreadID: c.Param("id"),
		Limit:    p.Limit,
		Offset:   p.Offset,
		Preload:  preloads(c)["user"],
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, posts, total)
}

// CreatePost godoc
// @Summary Reply to a discussion
// @Tags Bulletin
// @Accept json
// @Produce json
// @Param id path string true "Discussion ID"
// @Param payload body service.PostRequest true "Post payload"
// @Success 201 {object} response.Envelope
// @Router /bulletin/discussions/{id}/posts [post]
func (h *BulletinHandler) CreatePost(c *gin.Context) {
	var req service.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	post, err := h.service.CreatePost(c.Request.Context(), tokenFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, post)
}

// GetPost godoc
// @Summary Get a post
// @Tags Bulletin
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} response.Envelope
// @Router /bulletin/posts/{id} [get]
func (h *BulletinHandler) GetPost(c *gin.Context) {
	post, err := h.service.GetPost(c.Request.Context(), c.Param("id"), preloads(c)["user"])
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, post)
}

// UpdatePost godoc
// @Summary Edit a post
// @Tags Bulletin
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param payload body service.PostRequest true "Post payload"
// @Success 200 {object} response.Envelope
// @Router /bulletin/posts/{id} [patch]
func (h *BulletinHandler) UpdatePost(c *gin.Context) {
	var req service.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	post, err := h.service.EditPost(c.Request.Context(), tokenFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, post)
}

// DeletePost godoc
// @Summary Delete a post
// @Tags Bulletin
// @Param id path string true "Post ID"
// @Success 204
// @Router /bulletin/posts/{id} [delete]
func (h *BulletinHandler) DeletePost(c *gin.Context) {
	if err := h.service.DeletePost(c.Request.Context(), tokenFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
