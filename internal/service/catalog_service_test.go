package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-hub-api/internal/models"
	appErrors "github.com/noah-isme/campus-hub-api/pkg/errors"
)

func TestCatalogServiceGetProfessorAttachesRatings(t *testing.T) {
	f := newFactrakFixture()
	ctx := context.Background()
	catalog := NewCatalogService(f.catalog, f.aggregation, time.Second)

	_, err := f.service.Submit(ctx, userToken("u-1", models.ScopeFactrakFull), models.SurveyModeCreate, "", validSurveyRequest())
	require.NoError(t, err)

	professor, err := catalog.GetProfessor(ctx, "prof-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", professor.Name)
	require.NotNil(t, professor.Ratings)
	assert.Equal(t, 1, professor.Ratings.SurveyCount)
	require.NotNil(t, professor.Ratings.AvgApproachability)
	assert.InDelta(t, 6.0, *professor.Ratings.AvgApproachability, 0.0001)

	unreviewed, err := catalog.GetProfessor(ctx, "prof-2")
	require.NoError(t, err)
	require.NotNil(t, unreviewed.Ratings)
	assert.Zero(t, unreviewed.Ratings.SurveyCount)

	_, err = catalog.GetProfessor(ctx, "prof-404")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestCatalogServiceCourseRelations(t *testing.T) {
	f := newFactrakFixture()
	ctx := context.Background()
	catalog := NewCatalogService(f.catalog, f.aggregation, time.Second)

	for _, prof := range []string{"prof-1", "prof-2"} {
		req := validSurveyRequest()
		req.ProfessorID = strPtr(prof)
		_, err := f.service.Submit(ctx, userToken("u-1", models.ScopeFactrakFull), models.SurveyModeCreate, "", req)
		require.NoError(t, err)
	}

	course, err := catalog.GetCourse(ctx, "course-134")
	require.NoError(t, err)
	require.NotNil(t, course.AreaOfStudy)
	assert.Equal(t, "CSCI", course.AreaOfStudy.Abbreviation)
	require.Len(t, course.Professors, 2)
	assert.Equal(t, "prof-1", course.Professors[0].ID)
	assert.Equal(t, "prof-2", course.Professors[1].ID)

	courses, total, err := catalog.ListCourses(ctx, models.CourseFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, courses, 1)
	assert.Nil(t, courses[0].AreaOfStudy)
	assert.Empty(t, courses[0].Professors)

	courses, _, err = catalog.ListCourses(ctx, models.CourseFilter{Limit: 10, Preload: models.CoursePreload{AreaOfStudy: true}})
	require.NoError(t, err)
	require.NotNil(t, courses[0].AreaOfStudy)
	assert.Equal(t, "Computer Science", courses[0].AreaOfStudy.Name)
}

func TestCatalogServiceListings(t *testing.T) {
	f := newFactrakFixture()
	ctx := context.Background()
	catalog := NewCatalogService(f.catalog, f.aggregation, time.Second)

	professors, total, err := catalog.ListProfessors(ctx, models.ProfessorFilter{Query: "turing", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, professors, 1)
	assert.Equal(t, "prof-2", professors[0].ID)

	areas, total, err := catalog.ListAreasOfStudy(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, areas, 1)
	assert.Equal(t, "Computer Science", areas[0].Name)

	area, err := catalog.GetAreaOfStudy(ctx, "area-math")
	require.NoError(t, err)
	assert.Equal(t, "MATH", area.Abbreviation)

	_, err = catalog.GetAreaOfStudy(ctx, "area-404")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	_, err = catalog.GetCourse(ctx, "course-404")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
