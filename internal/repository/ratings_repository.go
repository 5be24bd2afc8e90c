package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-hub-api/internal/models"
)

// RatingsRepository maintains the aggregates derived from factrak surveys.
type RatingsRepository struct {
	db *sqlx.DB
}

// NewRatingsRepository creates the repository.
func NewRatingsRepository(db *sqlx.DB) *RatingsRepository {
	return &RatingsRepository{db: db}
}

// RecomputeProfessor rebuilds the ratings row of a professor from its surveys. A professor
// with no surveys keeps a row with a zero count and no averages, so reads never have to
// recompute it again.
func (r *RatingsRepository) RecomputeProfessor(ctx context.Context, professorID string) (*models.ProfessorRatings, error) {
	const upsert = `INSERT INTO factrak_professor_ratings (professor_id, survey_count,
avg_course_workload, avg_approachability, avg_lead_lecture, avg_promote_discussion, avg_outside_helpfulness,
would_recommend_pct, would_take_another_pct, updated_at)
SELECT $1, COUNT(*),
AVG(course_workload), AVG(approachability), AVG(lead_lecture), AVG(promote_discussion), AVG(outside_helpfulness),
100.0 * COUNT(*) FILTER (WHERE would_recommend_course) / NULLIF(COUNT(would_recommend_course), 0),
100.0 * COUNT(*) FILTER (WHERE would_take_another) / NULLIF(COUNT(would_take_another), 0),
NOW()
FROM factrak_surveys WHERE professor_id = $1
ON CONFLICT (professor_id) DO UPDATE SET survey_count = EXCLUDED.survey_count,
avg_course_workload = EXCLUDED.avg_course_workload, avg_approachability = EXCLUDED.avg_approachability,
avg_lead_lecture = EXCLUDED.avg_lead_lecture, avg_promote_discussion = EXCLUDED.avg_promote_discussion,
avg_outside_helpfulness = EXCLUDED.avg_outside_helpfulness, would_recommend_pct = EXCLUDED.would_recommend_pct,
would_take_another_pct = EXCLUDED.would_take_another_pct, updated_at = EXCLUDED.updated_at
RETURNING professor_id, survey_count, avg_course_workload, avg_approachability, avg_lead_lecture,
avg_promote_discussion, avg_outside_helpfulness, would_recommend_pct, would_take_another_pct, updated_at`
	var ratings models.ProfessorRatings
	if err := r.db.GetContext(ctx, &ratings, upsert, professorID); err != nil {
		return nil, fmt.Errorf("upsert professor ratings: %w", err)
	}
	return &ratings, nil
}

// RebuildCourseProfessors refreshes the distinct professor list of a course.
func (r *RatingsRepository) RebuildCourseProfessors(ctx context.Context, courseID string) ([]string, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin rebuild course professors: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM factrak_course_professors WHERE course_id = $1", courseID); err != nil {
		return nil, fmt.Errorf("clear course professors: %w", err)
	}
	const insert = `INSERT INTO factrak_course_professors (course_id, professor_id)
SELECT DISTINCT course_id, professor_id FROM factrak_surveys WHERE course_id = $1`
	if _, err := tx.ExecContext(ctx, insert, courseID); err != nil {
		return nil, fmt.Errorf("insert course professors: %w", err)
	}
	ids := []string{}
	if err := tx.SelectContext(ctx, &ids, "SELECT professor_id FROM factrak_course_professors WHERE course_id = $1 ORDER BY professor_id", courseID); err != nil {
		return nil, fmt.Errorf("read course professors: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit rebuild course professors: %w", err)
	}
	return ids, nil
}

// ProfessorRatings returns the stored ratings of a professor; sql.ErrNoRows when none were computed.
func (r *RatingsRepository) ProfessorRatings(ctx context.Context, professorID string) (*models.ProfessorRatings, error) {
	const query = `SELECT professor_id, survey_count, avg_course_workload, avg_approachability, avg_lead_lecture,
avg_promote_discussion, avg_outside_helpfulness, would_recommend_pct, would_take_another_pct, updated_at
FROM factrak_professor_ratings WHERE professor_id = $1`
	var ratings models.ProfessorRatings
	if err := r.db.GetContext(ctx, &ratings, query, professorID); err != nil {
		return nil, err
	}
	return &ratings, nil
}

// CourseProfessorIDs returns the stored professor ids of a course.
func (r *RatingsRepository) CourseProfessorIDs(ctx context.Context, courseID string) ([]string, error) {
	ids := []string{}
	if err := r.db.SelectContext(ctx, &ids, "SELECT professor_id FROM factrak_course_professors WHERE course_id = $1 ORDER BY professor_id", courseID); err != nil {
		return nil, fmt.Errorf("course professors: %w", err)
	}
	return ids, nil
}
