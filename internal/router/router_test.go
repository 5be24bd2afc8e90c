package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-hub-api/internal/handler"
	"github.com/noah-isme/campus-hub-api/internal/models"
	"github.com/noah-isme/campus-hub-api/internal/service"
)

type stubSurveys struct{}

func (stubSurveys) Submit(ctx context.Context, caller *models.AccessToken, mode models.SurveyMode, id string, req service.SurveyRequest) (*models.Survey, error) {
	return &models.Survey{ID: "s-1"}, nil
}

func (stubSurveys) Get(ctx context.Context, caller *models.AccessToken, id string, filter models.SurveyFilter) (*models.Survey, error) {
	return &models.Survey{ID: id}, nil
}

func (stubSurveys) List(ctx context.Context, caller *models.AccessToken, filter models.SurveyFilter) ([]models.Survey, int, error) {
	return []models.Survey{}, 0, nil
}

func (stubSurveys) Delete(ctx context.Context, caller *models.AccessToken, id string) error {
	return nil
}

func (stubSurveys) Flag(ctx context.Context, caller *models.AccessToken, id string) (*models.Survey, error) {
	return &models.Survey{ID: id, Flagged: true}, nil
}

func (stubSurveys) SetAgreement(ctx context.Context, caller *models.AccessToken, id string, agrees bool) (*models.Survey, error) {
	return &models.Survey{ID: id}, nil
}

func (stubSurveys) ClearAgreement(ctx context.Context, caller *models.AccessToken, id string) (*models.Survey, error) {
	return &models.Survey{ID: id}, nil
}

type stubModeration struct{}

func (stubModeration) ListFlagged(ctx context.Context, caller *models.AccessToken, filter models.FlaggedFilter) ([]models.Survey, int, error) {
	return []models.Survey{}, 0, nil
}

func (stubModeration) Unflag(ctx context.Context, caller *models.AccessToken, id string) (*models.Survey, error) {
	return &models.Survey{ID: id}, nil
}

func (stubModeration) Delete(ctx context.Context, caller *models.AccessToken, id string) error {
	return nil
}

func (stubModeration) Export(ctx context.Context, caller *models.AccessToken, format service.ExportFormat) (*service.ExportFile, error) {
	return &service.ExportFile{Filename: "flagged.csv", ContentType: "text/csv"}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *service.AccessService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	access := service.NewAccessService(service.AccessConfig{Secret: "router-secret", Issuer: "campus-hub"})
	r := New(Dependencies{
		Prefix:  "/api/v2",
		Access:  access,
		Metrics: service.NewMetricsService(),
	}, Handlers{
		Factrak: handler.NewFactrakHandler(stubSurveys{}, stubModeration{}, handler.Paging{DefaultLimit: 20, MaxLimit: 50}),
		Metrics: handler.NewMetricsHandler(nil, nil),
	})
	return r, access
}

func bearer(t *testing.T, access *service.AccessService, scopes ...models.Scope) string {
	t.Helper()
	raw, err := access.IssueToken(models.AccessToken{UserID: "u-1", Scopes: scopes, Level: models.LevelAuthenticated}, time.Hour)
	require.NoError(t, err)
	return "Bearer " + raw
}

func serve(r http.Handler, method, path, auth string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRouterHealth(t *testing.T) {
	r, _ := newTestRouter(t)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health", ""))
}

func TestRouterFactrakScopes(t *testing.T) {
	r, access := newTestRouter(t)
	limited := bearer(t, access, models.ScopeFactrakLimited)
	admin := bearer(t, access, models.ScopeFactrakAdmin)
	bulletinOnly := bearer(t, access, models.ScopeBulletin)

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/api/v2/factrak/surveys", ""))
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/api/v2/factrak/surveys", "Bearer forged"))
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/api/v2/factrak/surveys", bulletinOnly))
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/v2/factrak/surveys", limited))

	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/api/v2/factrak/flagged", limited))
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/v2/factrak/flagged", admin))
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodDelete, "/api/v2/factrak/flagged/s-1", admin))
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodPost, "/api/v2/factrak/surveys/s-1/unflag", limited))
}

func TestRouterAdminAllReachesModeration(t *testing.T) {
	r, access := newTestRouter(t)
	root := bearer(t, access, models.ScopeAdminAll)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/v2/factrak/flagged/export", root))
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/v2/factrak/surveys/s-1", root))
}
