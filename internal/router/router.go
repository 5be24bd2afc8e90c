// Package router assembles the HTTP surface of the API.
package router

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-hub-api/internal/handler"
	internalmiddleware "github.com/noah-isme/campus-hub-api/internal/middleware"
	"github.com/noah-isme/campus-hub-api/internal/models"
	"github.com/noah-isme/campus-hub-api/internal/service"
	"github.com/noah-isme/campus-hub-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-hub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-hub-api/pkg/middleware/requestid"
	"github.com/noah-isme/campus-hub-api/pkg/ratelimit"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Bulletin     *handler.BulletinHandler
	Factrak      *handler.FactrakHandler
	Catalog      *handler.CatalogHandler
	Autocomplete *handler.AutocompleteHandler
	Ephmatch     *handler.EphmatchHandler
	Metrics      *handler.MetricsHandler
}

// Dependencies is what New needs besides the handlers.
type Dependencies struct {
	Prefix         string
	AllowedOrigins []string
	EnableDocs     bool
	Logger         *zap.Logger
	Access         *service.AccessService
	Metrics        *service.MetricsService
	Limiter        *ratelimit.UserLimiter
}

var (
	bulletinScopes = []models.Scope{models.ScopeBulletin, models.ScopeAdminAll}
	factrakScopes  = []models.Scope{models.ScopeFactrakLimited, models.ScopeFactrakFull, models.ScopeFactrakAdmin, models.ScopeAdminAll}
	moderateScopes = []models.Scope{models.ScopeFactrakAdmin, models.ScopeAdminAll}
	ephmatchScopes = []models.Scope{models.ScopeEphmatch, models.ScopeAdminAll}
)

// New builds the gin engine with the middleware chain and every route.
func New(deps Dependencies, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	if deps.Logger != nil {
		r.Use(logger.GinMiddleware(deps.Logger))
	}
	r.Use(corsmiddleware.New(deps.AllowedOrigins))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if deps.Metrics != nil {
		r.Use(internalmiddleware.Metrics(deps.Metrics))
	}

	if h.Metrics != nil {
		r.GET("/health", h.Metrics.Health)
		r.GET("/ready", h.Metrics.Ready)
		r.GET("/metrics", h.Metrics.Prometheus)
	}
	if deps.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(deps.Prefix)
	api.Use(internalmiddleware.Authenticate(deps.Access))
	if deps.Limiter != nil {
		api.Use(internalmiddleware.RateLimitWrites(deps.Limiter))
	}

	if h.Autocomplete != nil {
		api.GET("/autocomplete/:kind", internalmiddleware.RequireAuthenticated(), h.Autocomplete.Suggest)
	}

	if h.Bulletin != nil {
		bulletin := api.Group("/bulletin", internalmiddleware.RequireScope(bulletinScopes...))
		bulletin.GET("/discussions", h.Bulletin.ListThreads)
		bulletin.POST("/discussions", h.Bulletin.CreateThread)
		bulletin.GET("/discussions/:id", h.Bulletin.GetThread)
		bulletin.PATCH("/discussions/:id", h.Bulletin.UpdateThread)
		bulletin.DELETE("/discussions/:id", h.Bulletin.DeleteThread)
		bulletin.GET("/discussions/:id/posts", h.Bulletin.ListPosts)
		bulletin.POST("/discussions/:id/posts", h.Bulletin.CreatePost)
		bulletin.GET("/posts/:id", h.Bulletin.GetPost)
		bulletin.PATCH("/posts/:id", h.Bulletin.UpdatePost)
		bulletin.DELETE("/posts/:id", h.Bulletin.DeletePost)
	}

	factrak := api.Group("/factrak", internalmiddleware.RequireScope(factrakScopes...))
	if h.Factrak != nil {
		factrak.GET("/surveys", h.Factrak.ListSurveys)
		factrak.POST("/surveys", h.Factrak.CreateSurvey)
		factrak.GET("/surveys/:id", h.Factrak.GetSurvey)
		factrak.PATCH("/surveys/:id", h.Factrak.UpdateSurvey)
		factrak.DELETE("/surveys/:id", h.Factrak.DeleteSurvey)
		factrak.POST("/surveys/:id/flag", h.Factrak.FlagSurvey)
		factrak.POST("/surveys/:id/agreement", h.Factrak.SetAgreement)
		factrak.DELETE("/surveys/:id/agreement", h.Factrak.ClearAgreement)

		moderation := factrak.Group("", internalmiddleware.RequireScope(moderateScopes...))
		moderation.POST("/surveys/:id/unflag", h.Factrak.Unflag)
		moderation.GET("/flagged", h.Factrak.ListFlagged)
		moderation.GET("/flagged/export", h.Factrak.ExportFlagged)
		moderation.DELETE("/flagged/:id", h.Factrak.DeleteFlagged)
	}
	if h.Catalog != nil {
		factrak.GET("/professors", h.Catalog.ListProfessors)
		factrak.GET("/professors/:id", h.Catalog.GetProfessor)
		factrak.GET("/courses", h.Catalog.ListCourses)
		factrak.GET("/courses/:id", h.Catalog.GetCourse)
		factrak.GET("/areas-of-study", h.Catalog.ListAreasOfStudy)
		factrak.GET("/areas-of-study/:id", h.Catalog.GetAreaOfStudy)
	}

	if h.Ephmatch != nil {
		ephmatch := api.Group("/ephmatch", internalmiddleware.RequireScope(ephmatchScopes...))
		ephmatch.GET("/profile/self", h.Ephmatch.GetSelf)
		ephmatch.DELETE("/profile/self", h.Ephmatch.OptOut)
		ephmatch.POST("/profile/self", h.Ephmatch.OptIn)
	}

	return r
}
