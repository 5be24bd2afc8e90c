package service

import (
	"context"
	"time"

	"github.com/noah-isme/campus-hub-api/internal/models"
)

type catalogRepository interface {
	ListProfessors(ctx context.Context, filter models.ProfessorFilter) ([]models.Professor, int, error)
	FindProfessor(ctx context.Context, id string) (*models.Professor, error)
	ProfessorsByIDs(ctx context.Context, ids []string) ([]models.Professor, error)
	ListCourses(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	FindCourse(ctx context.Context, id string) (*models.Course, error)
	ListAreasOfStudy(ctx context.Context, limit, offset int) ([]models.AreaOfStudy, int, error)
	FindAreaOfStudy(ctx context.Context, id string) (*models.AreaOfStudy, error)
	AreasByIDs(ctx context.Context, ids []string) ([]models.AreaOfStudy, error)
}

type ratingsReader interface {
	ProfessorRatings(ctx context.Context, professorID string) (*models.ProfessorRatings, error)
	CourseProfessorIDs(ctx context.Context, courseID string) ([]string, error)
}

// CatalogService serves the professor, course and area-of-study read models.
type CatalogService struct {
	repo    catalogRepository
	ratings ratingsReader
	store   storeScope
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(repo catalogRepository, ratings ratingsReader, storeTimeout time.Duration) *CatalogService {
	return &CatalogService{repo: repo, ratings: ratings, store: newStoreScope(storeTimeout)}
}

// ListProfessors returns professors matching filter.
func (s *CatalogService) ListProfessors(ctx context.Context, filter models.ProfessorFilter) ([]models.Professor, int, error) {
	ctx, cancel := s.store.read(ctx)
	defer cancel()

	professors, total, err := fetchWindow(filter.Limit, filter.Offset, func(limit, offset int) ([]models.Professor, int, error) {
		window := filter
		window.Limit, window.Offset = limit, offset
		return s.repo.ListProfessors(ctx, window)
	})
	if err != nil {
		return nil, 0, storeError(ctx, err, "professor not found", "failed to list professors")
	}
	return professors, total, nil
}

// GetProfessor returns a professor with its derived ratings.
func (s *CatalogService) GetProfessor(ctx context.Context, id string) (*models.Professor, error) {
	ctx, cancel := s.store.read(ctx)
	defer cancel()

	professor, err := s.repo.FindProfessor(ctx, id)
	if err != nil {
		return nil, storeError(ctx, err, "professor not found", "failed to load professor")
	}
	ratings, err := s.ratings.ProfessorRatings(ctx, id)
	if err != nil {
		return nil, storeError(ctx, err, "professor not found", "failed to load professor ratings")
	}
	professor.Ratings = ratings
	return professor, nil
}

// ListCourses returns courses matching filter with the requested relations.
func (s *CatalogService) ListCourses(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	ctx, cancel := s.store.read(ctx)
	defer cancel()

	courses, total, err := fetchWindow(filter.Limit, filter.Offset, func(limit, offset int) ([]models.Course, int, error) {
		window := filter
		window.Limit, window.Offset = limit, offset
		return s.repo.ListCourses(ctx, window)
	})
	if err != nil {
		return nil, 0, storeError(ctx, err, "course not found", "failed to list courses")
	}
	if err := s.attachCourseRelations(ctx, courses, filter.Preload); err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

// GetCourse returns a course with its area and reviewed professors.
func (s *CatalogService) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	ctx, cancel := s.store.read(ctx)
	defer cancel()

	course, err := s.repo.FindCourse(ctx, id)
	if err != nil {
		return nil, storeError(ctx, err, "course not found", "failed to load course")
	}
	courses := []models.Course{*course}
	if err := s.attachCourseRelations(ctx, courses, models.CoursePreload{AreaOfStudy: true, Professors: true}); err != nil {
		return nil, err
	}
	return &courses[0], nil
}

// ListAreasOfStudy returns one window of areas.
func (s *CatalogService) ListAreasOfStudy(ctx context.Context, limit, offset int) ([]models.AreaOfStudy, int, error) {
	ctx, cancel := s.store.read(ctx)
	defer cancel()

	areas, total, err := fetchWindow(limit, offset, func(limit, offset int) ([]models.AreaOfStudy, int, error) {
		return s.repo.ListAreasOfStudy(ctx, limit, offset)
	})
	if err != nil {
		return nil, 0, storeError(ctx, err, "area of study not found", "failed to list areas of study")
	}
	return areas, total, nil
}

// GetAreaOfStudy returns one area.
func (s *CatalogService) GetAreaOfStudy(ctx context.Context, id string) (*models.AreaOfStudy, error) {
	ctx, cancel := s.store.read(ctx)
	defer cancel()

	area, err := s.repo.FindAreaOfStudy(ctx, id)
	if err != nil {
		return nil, storeError(ctx, err, "area of study not found", "failed to load area of study")
	}
	return area, nil
}

func (s *CatalogService) attachCourseRelations(ctx context.Context, courses []models.Course, preload models.CoursePreload) error {
	if len(courses) == 0 {
		return nil
	}
	if preload.AreaOfStudy {
		ids := make([]string, len(courses))
		for i := range courses {
			ids[i] = courses[i].AreaOfStudyID
		}
		areas, err := s.repo.AreasByIDs(ctx, uniqueStrings(ids))
		if err != nil {
			return storeError(ctx, err, "area of study not found", "failed to load areas of study")
		}
		byID := make(map[string]models.AreaOfStudy, len(areas))
		for _, a := range areas {
			byID[a.ID] = a
		}
		for i := range courses {
			if a, ok := byID[courses[i].AreaOfStudyID]; ok {
				area := a
				courses[i].AreaOfStudy = &area
			}
		}
	}
	if preload.Professors {
		for i := range courses {
			ids, err := s.ratings.CourseProfessorIDs(ctx, courses[i].ID)
			if err != nil {
				return storeError(ctx, err, "course not found", "failed to load course professors")
			}
			professors, err := s.repo.ProfessorsByIDs(ctx, ids)
			if err != nil {
				return storeError(ctx, err, "professor not found", "failed to load professors")
			}
			courses[i].Professors = professors
		}
	}
	return nil
}
