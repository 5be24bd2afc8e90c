package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-hub-api/internal/models"
)

// CatalogRepository reads professors, courses and areas of study.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository creates the repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListProfessors returns professors ordered by name.
func (r *CatalogRepository) ListProfessors(ctx context.Context, filter models.ProfessorFilter) ([]models.Professor, int, error) {
	from := "FROM professors p"
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.CourseID != "" {
		from += " JOIN factrak_course_professors cp ON cp.professor_id = p.id"
		args = append(args, filter.CourseID)
		where = append(where, fmt.Sprintf("cp.course_id = $%d", len(args)))
	}
	if filter.AreaOfStudyID != "" {
		args = append(args, filter.AreaOfStudyID)
		where = append(where, fmt.Sprintf("p.area_of_study_id = $%d", len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+q+"%")
		where = append(where, fmt.Sprintf("p.name ILIKE $%d", len(args)))
	}
	whereClause := strings.Join(where, " AND ")

	query := fmt.Sprintf("SELECT p.id, p.name, p.title, p.area_of_study_id %s WHERE %s ORDER BY p.name ASC, p.id ASC LIMIT %d OFFSET %d",
		from, whereClause, filter.Limit, filter.Offset)
	professors := []models.Professor{}
	if err := r.db.SelectContext(ctx, &professors, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list professors: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", from, whereClause), args...); err != nil {
		return nil, 0, fmt.Errorf("count professors: %w", err)
	}
	return professors, total, nil
}

// FindProfessor returns a professor by identifier.
func (r *CatalogRepository) FindProfessor(ctx context.Context, id string) (*models.Professor, error) {
	var professor models.Professor
	if err := r.db.GetContext(ctx, &professor, "SELECT id, name, title, area_of_study_id FROM professors WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &professor, nil
}

// ProfessorExists reports whether id names a professor.
func (r *CatalogRepository) ProfessorExists(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	var exists bool
	if err := r.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM professors WHERE id = $1)", id); err != nil {
		return false, fmt.Errorf("check professor: %w", err)
	}
	return exists, nil
}

// ProfessorsByIDs returns the professors matching ids.
func (r *CatalogRepository) ProfessorsByIDs(ctx context.Context, ids []string) ([]models.Professor, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	professors := []models.Professor{}
	if err := r.db.SelectContext(ctx, &professors, "SELECT id, name, title, area_of_study_id FROM professors WHERE id = ANY($1)", pqStringArray(ids)); err != nil {
		return nil, fmt.Errorf("find professors: %w", err)
	}
	return professors, nil
}

// ListCourses returns courses ordered by area abbreviation then number.
func (r *CatalogRepository) ListCourses(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.AreaOfStudyID != "" {
		args = append(args, filter.AreaOfStudyID)
		where = append(where, fmt.Sprintf("c.area_of_study_id = $%d", len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+q+"%")
		where = append(where, fmt.Sprintf("(c.number ILIKE $%[1]d OR c.title ILIKE $%[1]d OR a.abbreviation ILIKE $%[1]d)", len(args)))
	}
	whereClause := strings.Join(where, " AND ")
	const from = "FROM courses c JOIN areas_of_study a ON a.id = c.area_of_study_id"

	query := fmt.Sprintf("SELECT c.id, c.area_of_study_id, c.number, c.title %s WHERE %s ORDER BY a.abbreviation ASC, c.number ASC, c.id ASC LIMIT %d OFFSET %d",
		from, whereClause, filter.Limit, filter.Offset)
	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", from, whereClause), args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	return courses, total, nil
}

// FindCourse returns a course by identifier.
func (r *CatalogRepository) FindCourse(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := r.db.GetContext(ctx, &course, "SELECT id, area_of_study_id, number, title FROM courses WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &course, nil
}

type courseWithArea struct {
	models.Course
	AreaName         string `db:"area_name"`
	AreaAbbreviation string `db:"area_abbreviation"`
}

// CoursesByIDs returns the courses matching ids, each with its area of study attached.
func (r *CatalogRepository) CoursesByIDs(ctx context.Context, ids []string) ([]models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT c.id, c.area_of_study_id, c.number, c.title, a.name AS area_name, a.abbreviation AS area_abbreviation
FROM courses c JOIN areas_of_study a ON a.id = c.area_of_study_id
WHERE c.id = ANY($1)`
	rows := []courseWithArea{}
	if err := r.db.SelectContext(ctx, &rows, query, pqStringArray(ids)); err != nil {
		return nil, fmt.Errorf("find courses: %w", err)
	}
	courses := make([]models.Course, len(rows))
	for i, row := range rows {
		course := row.Course
		course.AreaOfStudy = &models.AreaOfStudy{ID: course.AreaOfStudyID, Name: row.AreaName, Abbreviation: row.AreaAbbreviation}
		courses[i] = course
	}
	return courses, nil
}

// FindCourseByNumber resolves (area, number) without creating anything.
func (r *CatalogRepository) FindCourseByNumber(ctx context.Context, areaOfStudyID, number string) (*models.Course, error) {
	var course models.Course
	if err := r.db.GetContext(ctx, &course, "SELECT id, area_of_study_id, number, title FROM courses WHERE area_of_study_id = $1 AND UPPER(number) = UPPER($2)", areaOfStudyID, number); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindOrCreateCourse resolves (area, number) to a course row, inserting it when absent.
func (r *CatalogRepository) FindOrCreateCourse(ctx context.Context, areaOfStudyID, number string) (*models.Course, error) {
	var course models.Course
	err := r.db.GetContext(ctx, &course, "SELECT id, area_of_study_id, number, title FROM courses WHERE area_of_study_id = $1 AND number = $2", areaOfStudyID, number)
	if err == nil {
		return &course, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find course: %w", err)
	}

	course = models.Course{ID: uuid.NewString(), AreaOfStudyID: areaOfStudyID, Number: number}
	const insert = `INSERT INTO courses (id, area_of_study_id, number, title) VALUES ($1, $2, $3, '')
ON CONFLICT (area_of_study_id, number) DO UPDATE SET number = EXCLUDED.number
RETURNING id, area_of_study_id, number, title`
	if err := r.db.GetContext(ctx, &course, insert, course.ID, areaOfStudyID, number); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return &course, nil
}

// ListAreasOfStudy returns every area ordered by abbreviation.
func (r *CatalogRepository) ListAreasOfStudy(ctx context.Context, limit, offset int) ([]models.AreaOfStudy, int, error) {
	areas := []models.AreaOfStudy{}
	if err := r.db.SelectContext(ctx, &areas, "SELECT id, name, abbreviation FROM areas_of_study ORDER BY abbreviation ASC LIMIT $1 OFFSET $2", limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list areas of study: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM areas_of_study"); err != nil {
		return nil, 0, fmt.Errorf("count areas of study: %w", err)
	}
	return areas, total, nil
}

// FindAreaOfStudy returns an area by identifier.
func (r *CatalogRepository) FindAreaOfStudy(ctx context.Context, id string) (*models.AreaOfStudy, error) {
	var area models.AreaOfStudy
	if err := r.db.GetContext(ctx, &area, "SELECT id, name, abbreviation FROM areas_of_study WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &area, nil
}

// FindAreaByAbbreviation resolves an abbreviation case-insensitively.
func (r *CatalogRepository) FindAreaByAbbreviation(ctx context.Context, abbreviation string) (*models.AreaOfStudy, error) {
	var area models.AreaOfStudy
	if err := r.db.GetContext(ctx, &area, "SELECT id, name, abbreviation FROM areas_of_study WHERE UPPER(abbreviation) = UPPER($1)", abbreviation); err != nil {
		return nil, err
	}
	return &area, nil
}

// AreasByIDs returns the areas matching ids.
func (r *CatalogRepository) AreasByIDs(ctx context.Context, ids []string) ([]models.AreaOfStudy, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	areas := []models.AreaOfStudy{}
	if err := r.db.SelectContext(ctx, &areas, "SELECT id, name, abbreviation FROM areas_of_study WHERE id = ANY($1)", pqStringArray(ids)); err != nil {
		return nil, fmt.Errorf("find areas of study: %w", err)
	}
	return areas, nil
}
