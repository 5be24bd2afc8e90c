package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-hub-api/internal/models"
	appErrors "github.com/noah-isme/campus-hub-api/pkg/errors"
)

func newCacheRepo(t *testing.T) (*CacheRepository, *miniredis.Miniredis) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheRepository(client), srv
}

func TestCacheRepositoryRoundTrip(t *testing.T) {
	repo, srv := newCacheRepo(t)
	ctx := context.Background()

	avg := 5.5
	in := models.ProfessorRatings{ProfessorID: "p1", SurveyCount: 2, AvgApproachability: &avg}
	require.NoError(t, repo.Set(ctx, ProfessorRatingsKey("p1"), in, time.Minute))

	var out models.ProfessorRatings
	require.NoError(t, repo.Get(ctx, ProfessorRatingsKey("p1"), &out))
	assert.Equal(t, 2, out.SurveyCount)
	require.NotNil(t, out.AvgApproachability)
	assert.InDelta(t, 5.5, *out.AvgApproachability, 0.0001)

	srv.FastForward(2 * time.Minute)
	err := repo.Get(ctx, ProfessorRatingsKey("p1"), &out)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
}

func TestCacheRepositoryDelete(t *testing.T) {
	repo, srv := newCacheRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, CourseProfessorsKey("c1"), []string{"p1"}, time.Minute))
	require.NoError(t, repo.Set(ctx, CourseProfessorsKey("c2"), []string{"p2"}, time.Minute))
	require.NoError(t, repo.Delete(ctx, CourseProfessorsKey("c1")))
	assert.False(t, srv.Exists(CourseProfessorsKey("c1")))
	assert.True(t, srv.Exists(CourseProfessorsKey("c2")))
}

func TestCacheRepositoryDisabled(t *testing.T) {
	repo := NewCacheRepository(nil)
	ctx := context.Background()

	var out []string
	assert.ErrorIs(t, repo.Get(ctx, "any", &out), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "any", out, time.Minute))
	assert.NoError(t, repo.Delete(ctx, "any"))
	assert.NoError(t, repo.Ping(ctx))
}
