package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-hub-api/internal/models"
)

const surveySelect = `SELECT s.id, s.professor_id, s.course_id, c.number AS course_number, a.abbreviation AS area_of_study_abbreviation,
s.course_workload, s.approachability, s.lead_lecture, s.promote_discussion, s.outside_helpfulness,
s.would_recommend_course, s.would_take_another, s.comment, s.user_id, s.ex_user_name, s.flagged, s.created_at, s.updated_at
FROM factrak_surveys s
JOIN courses c ON c.id = s.course_id
JOIN areas_of_study a ON a.id = c.area_of_study_id`

// SurveyRepository provides persistence for factrak surveys and their agreements.
type SurveyRepository struct {
	db *sqlx.DB
}

// NewSurveyRepository creates the repository.
func NewSurveyRepository(db *sqlx.DB) *SurveyRepository {
	return &SurveyRepository{db: db}
}

// List returns surveys matching filter, newest first.
func (r *SurveyRepository) List(ctx context.Context, filter models.SurveyFilter) ([]models.Survey, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.ProfessorID != "" {
		args = append(args, filter.ProfessorID)
		where = append(where, fmt.Sprintf("s.professor_id = $%d", len(args)))
	}
	if filter.CourseID != "" {
		args = append(args, filter.CourseID)
		where = append(where, fmt.Sprintf("s.course_id = $%d", len(args)))
	}
	if filter.AreaOfStudyID != "" {
		args = append(args, filter.AreaOfStudyID)
		where = append(where, fmt.Sprintf("c.area_of_study_id = $%d", len(args)))
	}
	whereClause := strings.Join(where, " AND ")

	query := fmt.Sprintf("%s WHERE %s ORDER BY s.created_at DESC, s.id ASC LIMIT %d OFFSET %d", surveySelect, whereClause, filter.Limit, filter.Offset)
	surveys := []models.Survey{}
	if err := r.db.SelectContext(ctx, &surveys, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list surveys: %w", err)
	}
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM factrak_surveys s JOIN courses c ON c.id = s.course_id WHERE %s`, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count surveys: %w", err)
	}
	return surveys, total, nil
}

// ListFlagged returns the moderation queue, oldest first.
func (r *SurveyRepository) ListFlagged(ctx context.Context, limit, offset int) ([]models.Survey, int, error) {
	query := fmt.Sprintf("%s WHERE s.flagged ORDER BY s.created_at ASC, s.id ASC LIMIT $1 OFFSET $2", surveySelect)
	surveys := []models.Survey{}
	if err := r.db.SelectContext(ctx, &surveys, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list flagged surveys: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM factrak_surveys WHERE flagged"); err != nil {
		return nil, 0, fmt.Errorf("count flagged surveys: %w", err)
	}
	return surveys, total, nil
}

// FindByID returns a survey by identifier.
func (r *SurveyRepository) FindByID(ctx context.Context, id string) (*models.Survey, error) {
	var survey models.Survey
	if err := r.db.GetContext(ctx, &survey, surveySelect+" WHERE s.id = $1", id); err != nil {
		return nil, err
	}
	return &survey, nil
}

// ExistsForAuthor reports whether userID already reviewed professorID for courseID.
// excludeID skips one survey so edits do not collide with themselves.
func (r *SurveyRepository) ExistsForAuthor(ctx context.Context, userID, professorID, courseID, excludeID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM factrak_surveys
WHERE user_id = $1 AND professor_id = $2 AND course_id = $3 AND ($4 = '' OR id::text <> $4))`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID, professorID, courseID, excludeID); err != nil {
		return false, fmt.Errorf("check survey tuple: %w", err)
	}
	return exists, nil
}

// Create inserts a survey.
func (r *SurveyRepository) Create(ctx context.Context, survey *models.Survey) error {
	if survey.ID == "" {
		survey.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if survey.CreatedTime.IsZero() {
		survey.CreatedTime = now
	}
	survey.UpdatedTime = now
	const query = `INSERT INTO factrak_surveys (id, professor_id, course_id, course_workload, approachability, lead_lecture,
promote_discussion, outside_helpfulness, would_recommend_course, would_take_another, comment, user_id, ex_user_name, flagged, created_at, updated_at)
VALUES (:id, :professor_id, :course_id, :course_workload, :approachability, :lead_lecture,
:promote_discussion, :outside_helpfulness, :would_recommend_course, :would_take_another, :comment, :user_id, :ex_user_name, :flagged, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, survey); err != nil {
		return fmt.Errorf("create survey: %w", err)
	}
	return nil
}

// Update overwrites the editable fields of a survey.
func (r *SurveyRepository) Update(ctx context.Context, survey *models.Survey) error {
	survey.UpdatedTime = time.Now().UTC()
	const query = `UPDATE factrak_surveys SET professor_id = :professor_id, course_id = :course_id,
course_workload = :course_workload, approachability = :approachability, lead_lecture = :lead_lecture,
promote_discussion = :promote_discussion, outside_helpfulness = :outside_helpfulness,
would_recommend_course = :would_recommend_course, would_take_another = :would_take_another,
comment = :comment, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, survey); err != nil {
		return fmt.Errorf("update survey: %w", err)
	}
	return nil
}

// SetFlagged updates the moderation flag of a survey.
func (r *SurveyRepository) SetFlagged(ctx context.Context, id string, flagged bool) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE factrak_surveys SET flagged = $2, updated_at = $3 WHERE id = $1", id, flagged, time.Now().UTC()); err != nil {
		return fmt.Errorf("set survey flag: %w", err)
	}
	return nil
}

// Delete removes a survey; agreements go with it.
func (r *SurveyRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM factrak_surveys WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete survey: %w", err)
	}
	return nil
}

// AgreementTallies counts agree/disagree votes for the given surveys.
func (r *SurveyRepository) AgreementTallies(ctx context.Context, surveyIDs []string) ([]models.AgreementTally, error) {
	if len(surveyIDs) == 0 {
		return nil, nil
	}
	const query = `SELECT survey_id,
COUNT(*) FILTER (WHERE agrees) AS total_agree,
COUNT(*) FILTER (WHERE NOT agrees) AS total_disagree
FROM factrak_agreements WHERE survey_id = ANY($1) GROUP BY survey_id`
	rows := []models.AgreementTally{}
	if err := r.db.SelectContext(ctx, &rows, query, pqStringArray(surveyIDs)); err != nil {
		return nil, fmt.Errorf("agreement tallies: %w", err)
	}
	return rows, nil
}

// AgreementsByUser returns userID's votes on the given surveys.
func (r *SurveyRepository) AgreementsByUser(ctx context.Context, surveyIDs []string, userID string) ([]models.Agreement, error) {
	if len(surveyIDs) == 0 || userID == "" {
		return nil, nil
	}
	const query = `SELECT survey_id, user_id, agrees, created_at FROM factrak_agreements WHERE survey_id = ANY($1) AND user_id = $2`
	rows := []models.Agreement{}
	if err := r.db.SelectContext(ctx, &rows, query, pqStringArray(surveyIDs), userID); err != nil {
		return nil, fmt.Errorf("client agreements: %w", err)
	}
	return rows, nil
}

// UpsertAgreement records or replaces a user's vote.
func (r *SurveyRepository) UpsertAgreement(ctx context.Context, agreement *models.Agreement) error {
	if agreement.CreatedTime.IsZero() {
		agreement.CreatedTime = time.Now().UTC()
	}
	const query = `INSERT INTO factrak_agreements (survey_id, user_id, agrees, created_at)
VALUES (:survey_id, :user_id, :agrees, :created_at)
ON CONFLICT (survey_id, user_id) DO UPDATE SET agrees = EXCLUDED.agrees`
	if _, err := r.db.NamedExecContext(ctx, query, agreement); err != nil {
		return fmt.Errorf("upsert agreement: %w", err)
	}
	return nil
}

// DeleteAgreement removes a user's vote if present.
func (r *SurveyRepository) DeleteAgreement(ctx context.Context, surveyID, userID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM factrak_agreements WHERE survey_id = $1 AND user_id = $2", surveyID, userID); err != nil {
		return fmt.Errorf("delete agreement: %w", err)
	}
	return nil
}
