package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-hub-api/internal/models"
	"github.com/noah-isme/campus-hub-api/internal/repository"
	appErrors "github.com/noah-isme/campus-hub-api/pkg/errors"
	"github.com/noah-isme/campus-hub-api/pkg/lock"
)

type surveyRepository interface {
	List(ctx context.Context, filter models.SurveyFilter) ([]models.Survey, int, error)
	FindByID(ctx context.Context, id string) (*models.Survey, error)
	ExistsForAuthor(ctx context.Context, userID, professorID, courseID, excludeID string) (bool, error)
	Create(ctx context.Context, survey *models.Survey) error
	Update(ctx context.Context, survey *models.Survey) error
	SetFlagged(ctx context.Context, id string, flagged bool) error
	Delete(ctx context.Context, id string) error
	UpsertAgreement(ctx context.Context, agreement *models.Agreement) error
	DeleteAgreement(ctx context.Context, surveyID, userID string) error
}

type surveyCatalog interface {
	ProfessorExists(ctx context.Context, id string) (bool, error)
	FindAreaByAbbreviation(ctx context.Context, abbreviation string) (*models.AreaOfStudy, error)
	FindCourseByNumber(ctx context.Context, areaOfStudyID, number string) (*models.Course, error)
	FindOrCreateCourse(ctx context.Context, areaOfStudyID, number string) (*models.Course, error)
	ProfessorsByIDs(ctx context.Context, ids []string) ([]models.Professor, error)
	CoursesByIDs(ctx context.Context, ids []string) ([]models.Course, error)
}

type surveyAggregator interface {
	Recompute(ctx context.Context, targets ...AggregateTarget)
	DecorateSurveys(ctx context.Context, surveys []models.Survey, tallies bool, clientID string) error
}

// SurveyRequest is the payload of a survey submission. On edit every nil field keeps its
// stored value.
type SurveyRequest struct {
	ProfessorID             *string `json:"professorID"`
	AreaOfStudyAbbreviation *string `json:"areaOfStudyAbbreviation"`
	CourseNumber            *string `json:"courseNumber"`
	CourseWorkload          *int    `json:"courseWorkload"`
	Approachability         *int    `json:"approachability"`
	LeadLecture             *int    `json:"leadLecture"`
	PromoteDiscussion       *int    `json:"promoteDiscussion"`
	OutsideHelpfulness      *int    `json:"outsideHelpfulness"`
	WouldRecommendCourse    *bool   `json:"wouldRecommendCourse"`
	WouldTakeAnother        *bool   `json:"wouldTakeAnother"`
	Comment                 *string `json:"comment"`
}

// surveyDraft is the merged submission that must pass validation before any write.
type surveyDraft struct {
	ProfessorID             string `validate:"required"`
	AreaOfStudyAbbreviation string `validate:"required,max=16"`
	CourseNumber            string `validate:"required,max=16"`
	CourseWorkload          *int   `validate:"omitempty,gte=1,lte=7"`
	Approachability         *int   `validate:"omitempty,gte=1,lte=7"`
	LeadLecture             *int   `validate:"omitempty,gte=1,lte=7"`
	PromoteDiscussion       *int   `validate:"omitempty,gte=1,lte=7"`
	OutsideHelpfulness      *int   `validate:"omitempty,gte=1,lte=7"`
	Comment                 string `validate:"required,min=100,max=10000"`
}

// SurveyService manages the lifecycle of factrak surveys: explicit create and edit paths,
// validation, the duplicate guard, flags and agreement votes.
type SurveyService struct {
	surveys    surveyRepository
	catalog    surveyCatalog
	aggregator surveyAggregator
	locks      *lock.KeyedMutex
	store      storeScope
	validator  *validator.Validate
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewSurveyService constructs a SurveyService.
func NewSurveyService(surveys surveyRepository, catalog surveyCatalog, aggregator surveyAggregator, locks *lock.KeyedMutex,
	storeTimeout time.Duration, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *SurveyService {
	if locks == nil {
		locks = lock.NewKeyedMutex()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SurveyService{
		surveys:    surveys,
		catalog:    catalog,
		aggregator: aggregator,
		locks:      locks,
		store:      newStoreScope(storeTimeout),
		validator:  validate,
		metrics:    metrics,
		logger:     logger,
	}
}

// Submit runs one lifecycle path. mode is never inferred from id: create ignores id and
// edit requires it.
func (s *SurveyService) Submit(ctx context.Context, caller *models.AccessToken, mode models.SurveyMode, id string, req SurveyRequest) (*models.Survey, error) {
	switch mode {
	case models.SurveyModeCreate:
		return s.create(ctx, caller, req)
	case models.SurveyModeEdit:
		if strings.TrimSpace(id) == "" {
			return nil, appErrors.Validation("invalid survey payload", "survey id is required when editing")
		}
		return s.edit(ctx, caller, id, req)
	default:
		return nil, appErrors.Validation("invalid survey payload", fmt.Sprintf("unknown survey mode %q", mode))
	}
}

func (s *SurveyService) create(ctx context.Context, caller *models.AccessToken, req SurveyRequest) (*models.Survey, error) {
	if !Authenticated(caller) {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "sign in to write a review")
	}
	if !HasScope(caller, models.ScopeFactrakFull, models.ScopeFactrakAdmin, models.ScopeAdminAll) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "full factrak access required to write a review")
	}

	survey := &models.Survey{AuthorRef: models.AuthorFromToken(caller)}
	applySurveyRequest(survey, req)

	wctx, cancel := s.store.write(ctx)
	defer cancel()

	area, err := s.validate(wctx, survey)
	if err != nil {
		return nil, err
	}

	unlock, err := acquire(wctx, s.locks, tupleKey(caller.UserID, survey.ProfessorID, area.ID, survey.CourseNumber))
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.guardDuplicate(wctx, caller.UserID, survey, area.ID, ""); err != nil {
		return nil, err
	}
	course, err := s.catalog.FindOrCreateCourse(wctx, area.ID, survey.CourseNumber)
	if err != nil {
		return nil, storeError(wctx, err, "course not found", "failed to resolve course")
	}
	survey.CourseID = course.ID
	survey.CourseNumber = course.Number
	survey.AreaOfStudyAbbreviation = area.Abbreviation

	if err := s.surveys.Create(wctx, survey); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, duplicateSurvey()
		}
		return nil, storeError(wctx, err, "survey not found", "failed to create survey")
	}
	s.metrics.RecordMutation("survey", "create")
	s.aggregator.Recompute(wctx, AggregateTarget{ProfessorID: survey.ProfessorID, CourseID: survey.CourseID})

	return s.reload(wctx, survey.ID)
}

func (s *SurveyService) edit(ctx context.Context, caller *models.AccessToken, id string, req SurveyRequest) (*models.Survey, error) {
	wctx, cancel := s.store.write(ctx)
	defer cancel()
	unlock, err := acquire(wctx, s.locks, "survey:"+id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	existing, err := s.surveys.FindByID(wctx, id)
	if err != nil {
		return nil, storeError(wctx, err, "survey not found", "failed to load survey")
	}
	if !CanMutate(existing, caller, models.ScopeFactrakAdmin, models.ScopeAdminAll) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the author can edit this review")
	}

	before := AggregateTarget{ProfessorID: existing.ProfessorID, CourseID: existing.CourseID}
	merged := *existing
	applySurveyRequest(&merged, req)

	area, err := s.validate(wctx, &merged)
	if err != nil {
		return nil, err
	}

	owner := existing.OwnerID()
	if owner != "" {
		release, err := acquire(wctx, s.locks, tupleKey(owner, merged.ProfessorID, area.ID, merged.CourseNumber))
		if err != nil {
			return nil, err
		}
		defer release()
		if err := s.guardDuplicate(wctx, owner, &merged, area.ID, existing.ID); err != nil {
			return nil, err
		}
	}
	course, err := s.catalog.FindOrCreateCourse(wctx, area.ID, merged.CourseNumber)
	if err != nil {
		return nil, storeError(wctx, err, "course not found", "failed to resolve course")
	}
	merged.CourseID = course.ID

	if err := s.surveys.Update(wctx, &merged); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, duplicateSurvey()
		}
		return nil, storeError(wctx, err, "survey not found", "failed to update survey")
	}
	s.metrics.RecordMutation("survey", "update")
	s.aggregator.Recompute(wctx, before, AggregateTarget{ProfessorID: merged.ProfessorID, CourseID: merged.CourseID})

	return s.reload(wctx, id)
}

// Get returns one survey as seen by caller. A single survey always carries its professor
// and its course with the course's area of study.
func (s *SurveyService) Get(ctx context.Context, caller *models.AccessToken, id string, filter models.SurveyFilter) (*models.Survey, error) {
	filter.Preload = models.SurveyPreload{Professor: true, Course: true}
	ctx, cancel := s.store.read(ctx)
	defer cancel()

	survey, err := s.surveys.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(ctx, err, "survey not found", "failed to load survey")
	}
	surveys := []models.Survey{*survey}
	if err := s.enrich(ctx, caller, surveys, filter); err != nil {
		return nil, err
	}
	return &surveys[0], nil
}

// List returns one window of surveys, newest first.
func (s *SurveyService) List(ctx context.Context, caller *models.AccessToken, filter models.SurveyFilter) ([]models.Survey, int, error) {
	ctx, cancel := s.store.read(ctx)
	defer cancel()

	surveys, total, err := fetchWindow(filter.Limit, filter.Offset, func(limit, offset int) ([]models.Survey, int, error) {
		window := filter
		window.Limit, window.Offset = limit, offset
		return s.surveys.List(ctx, window)
	})
	if err != nil {
		return nil, 0, storeError(ctx, err, "survey not found", "failed to list surveys")
	}
	if err := s.enrich(ctx, caller, surveys, filter); err != nil {
		return nil, 0, err
	}
	return surveys, total, nil
}

// Delete removes a survey written by caller, or any survey for an admin.
func (s *SurveyService) Delete(ctx context.Context, caller *models.AccessToken, id string) error {
	return s.remove(ctx, id, func(survey *models.Survey) error {
		if !CanMutate(survey, caller, models.ScopeFactrakAdmin, models.ScopeAdminAll) {
			return appErrors.Clone(appErrors.ErrForbidden, "only the author can delete this review")
		}
		return nil
	})
}

// Flag marks a survey for moderation. Flagging twice is a no-op.
func (s *SurveyService) Flag(ctx context.Context, caller *models.AccessToken, id string) (*models.Survey, error) {
	if !HasScope(caller, models.ScopeFactrakFull, models.ScopeFactrakAdmin, models.ScopeAdminAll) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "factrak access required")
	}
	return s.setFlag(ctx, id, true)
}

// SetAgreement records caller's agree or disagree vote, replacing a previous one.
func (s *SurveyService) SetAgreement(ctx context.Context, caller *models.AccessToken, id string, agrees bool) (*models.Survey, error) {
	if !Authenticated(caller) || !HasScope(caller, models.ScopeFactrakFull, models.ScopeFactrakAdmin, models.ScopeAdminAll) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "factrak access required")
	}
	wctx, cancel := s.store.write(ctx)
	defer cancel()
	unlock, err := acquire(wctx, s.locks, "survey:"+id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, err := s.surveys.FindByID(wctx, id); err != nil {
		return nil, storeError(wctx, err, "survey not found", "failed to load survey")
	}
	if err := s.surveys.UpsertAgreement(wctx, &models.Agreement{SurveyID: id, UserID: caller.UserID, Agrees: agrees}); err != nil {
		return nil, storeError(wctx, err, "survey not found", "failed to record agreement")
	}
	s.metrics.RecordMutation("agreement", "upsert")
	return s.Get(wctx, caller, id, models.SurveyFilter{PopulateAgreements: true, PopulateClientAgreement: true})
}

// ClearAgreement withdraws caller's vote. Withdrawing a missing vote succeeds.
func (s *SurveyService) ClearAgreement(ctx context.Context, caller *models.AccessToken, id string) (*models.Survey, error) {
	if !Authenticated(caller) || !HasScope(caller, models.ScopeFactrakFull, models.ScopeFactrakAdmin, models.ScopeAdminAll) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "factrak access required")
	}
	wctx, cancel := s.store.write(ctx)
	defer cancel()
	unlock, err := acquire(wctx, s.locks, "survey:"+id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, err := s.surveys.FindByID(wctx, id); err != nil {
		return nil, storeError(wctx, err, "survey not found", "failed to load survey")
	}
	if err := s.surveys.DeleteAgreement(wctx, id, caller.UserID); err != nil {
		return nil, storeError(wctx, err, "survey not found", "failed to withdraw agreement")
	}
	s.metrics.RecordMutation("agreement", "delete")
	return s.Get(wctx, caller, id, models.SurveyFilter{PopulateAgreements: true, PopulateClientAgreement: true})
}

// remove deletes a survey after authorize accepts it and rebuilds the aggregates it fed.
func (s *SurveyService) remove(ctx context.Context, id string, authorize func(*models.Survey) error) error {
	wctx, cancel := s.store.write(ctx)
	defer cancel()
	unlock, err := acquire(wctx, s.locks, "survey:"+id)
	if err != nil {
		return err
	}
	defer unlock()

	survey, err := s.surveys.FindByID(wctx, id)
	if err != nil {
		return storeError(wctx, err, "survey not found", "failed to load survey")
	}
	if err := authorize(survey); err != nil {
		return err
	}
	if err := s.surveys.Delete(wctx, id); err != nil {
		return storeError(wctx, err, "survey not found", "failed to delete survey")
	}
	s.metrics.RecordMutation("survey", "delete")
	s.aggregator.Recompute(wctx, AggregateTarget{ProfessorID: survey.ProfessorID, CourseID: survey.CourseID})
	return nil
}

// setFlag updates the moderation flag; an unchanged flag is not written.
func (s *SurveyService) setFlag(ctx context.Context, id string, flagged bool) (*models.Survey, error) {
	wctx, cancel := s.store.write(ctx)
	defer cancel()
	unlock, err := acquire(wctx, s.locks, "survey:"+id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	survey, err := s.surveys.FindByID(wctx, id)
	if err != nil {
		return nil, storeError(wctx, err, "survey not found", "failed to load survey")
	}
	if survey.Flagged == flagged {
		return survey, nil
	}
	if err := s.surveys.SetFlagged(wctx, id, flagged); err != nil {
		return nil, storeError(wctx, err, "survey not found", "failed to update survey flag")
	}
	survey.Flagged = flagged
	action := "unflag"
	if flagged {
		action = "flag"
	}
	s.metrics.RecordModeration(action)
	return survey, nil
}

// validate checks the merged draft and resolves its area of study. Every failure is a
// ValidationFailed carrying the full list of problems.
func (s *SurveyService) validate(ctx context.Context, survey *models.Survey) (*models.AreaOfStudy, error) {
	draft := surveyDraft{
		ProfessorID:             survey.ProfessorID,
		AreaOfStudyAbbreviation: survey.AreaOfStudyAbbreviation,
		CourseNumber:            survey.CourseNumber,
		CourseWorkload:          survey.CourseWorkload,
		Approachability:         survey.Approachability,
		LeadLecture:             survey.LeadLecture,
		PromoteDiscussion:       survey.PromoteDiscussion,
		OutsideHelpfulness:      survey.OutsideHelpfulness,
		Comment:                 survey.Comment,
	}
	if err := s.validator.Struct(draft); err != nil {
		return nil, validationError(err, "invalid survey payload")
	}

	var details []string
	exists, err := s.catalog.ProfessorExists(ctx, survey.ProfessorID)
	if err != nil {
		return nil, storeError(ctx, err, "professor not found", "failed to resolve professor")
	}
	if !exists {
		details = append(details, "professorID does not name a professor")
	}
	area, err := s.catalog.FindAreaByAbbreviation(ctx, survey.AreaOfStudyAbbreviation)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		details = append(details, "areaOfStudyAbbreviation does not name an area of study")
	case err != nil:
		return nil, storeError(ctx, err, "area of study not found", "failed to resolve area of study")
	}
	if len(details) > 0 {
		return nil, appErrors.Validation("invalid survey payload", details...)
	}
	return area, nil
}

// guardDuplicate rejects a second survey by author for the same professor and course.
func (s *SurveyService) guardDuplicate(ctx context.Context, author string, survey *models.Survey, areaID, excludeID string) error {
	if author == "" {
		return nil
	}
	course, err := s.catalog.FindCourseByNumber(ctx, areaID, survey.CourseNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return storeError(ctx, err, "course not found", "failed to resolve course")
	}
	exists, err := s.surveys.ExistsForAuthor(ctx, author, survey.ProfessorID, course.ID, excludeID)
	if err != nil {
		return storeError(ctx, err, "survey not found", "failed to check existing reviews")
	}
	if exists {
		return duplicateSurvey()
	}
	return nil
}

func (s *SurveyService) reload(ctx context.Context, id string) (*models.Survey, error) {
	survey, err := s.surveys.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(ctx, err, "survey not found", "failed to load survey")
	}
	return survey, nil
}

// enrich applies derived values, requested relations and comment redaction.
func (s *SurveyService) enrich(ctx context.Context, caller *models.AccessToken, surveys []models.Survey, filter models.SurveyFilter) error {
	if len(surveys) == 0 {
		return nil
	}
	clientID := ""
	if filter.PopulateClientAgreement && caller != nil {
		clientID = caller.UserID
	}
	if err := s.aggregator.DecorateSurveys(ctx, surveys, filter.PopulateAgreements, clientID); err != nil {
		return storeError(ctx, err, "survey not found", "failed to load agreements")
	}
	if err := attachSurveyRelations(ctx, s.catalog, surveys, filter.Preload); err != nil {
		return err
	}
	if !CanReadComments(caller) {
		for i := range surveys {
			if surveys[i].OwnerID() == "" || caller == nil || surveys[i].OwnerID() != caller.UserID {
				surveys[i].Comment = ""
			}
		}
	}
	return nil
}

// CanReadComments reports whether caller may read review text. Limited factrak users
// browse ratings only.
func CanReadComments(caller *models.AccessToken) bool {
	return HasScope(caller, models.ScopeFactrakFull, models.ScopeFactrakAdmin, models.ScopeAdminAll)
}

type relationLoader interface {
	ProfessorsByIDs(ctx context.Context, ids []string) ([]models.Professor, error)
	CoursesByIDs(ctx context.Context, ids []string) ([]models.Course, error)
}

func attachSurveyRelations(ctx context.Context, loader relationLoader, surveys []models.Survey, preload models.SurveyPreload) error {
	if preload.Professor {
		ids := make([]string, len(surveys))
		for i := range surveys {
			ids[i] = surveys[i].ProfessorID
		}
		professors, err := loader.ProfessorsByIDs(ctx, uniqueStrings(ids))
		if err != nil {
			return storeError(ctx, err, "professor not found", "failed to load professors")
		}
		byID := make(map[string]models.Professor, len(professors))
		for _, p := range professors {
			byID[p.ID] = p
		}
		for i := range surveys {
			if p, ok := byID[surveys[i].ProfessorID]; ok {
				professor := p
				surveys[i].Professor = &professor
			}
		}
	}
	if preload.Course {
		ids := make([]string, len(surveys))
		for i := range surveys {
			ids[i] = surveys[i].CourseID
		}
		courses, err := loader.CoursesByIDs(ctx, uniqueStrings(ids))
		if err != nil {
			return storeError(ctx, err, "course not found", "failed to load courses")
		}
		byID := make(map[string]models.Course, len(courses))
		for _, c := range courses {
			byID[c.ID] = c
		}
		for i := range surveys {
			if c, ok := byID[surveys[i].CourseID]; ok {
				course := c
				surveys[i].Course = &course
			}
		}
	}
	return nil
}

func applySurveyRequest(survey *models.Survey, req SurveyRequest) {
	if req.ProfessorID != nil {
		survey.ProfessorID = strings.TrimSpace(*req.ProfessorID)
	}
	if req.AreaOfStudyAbbreviation != nil {
		survey.AreaOfStudyAbbreviation = strings.ToUpper(strings.TrimSpace(*req.AreaOfStudyAbbreviation))
	}
	if req.CourseNumber != nil {
		survey.CourseNumber = strings.ToUpper(strings.TrimSpace(*req.CourseNumber))
	}
	if req.CourseWorkload != nil {
		survey.CourseWorkload = req.CourseWorkload
	}
	if req.Approachability != nil {
		survey.Approachability = req.Approachability
	}
	if req.LeadLecture != nil {
		survey.LeadLecture = req.LeadLecture
	}
	if req.PromoteDiscussion != nil {
		survey.PromoteDiscussion = req.PromoteDiscussion
	}
	if req.OutsideHelpfulness != nil {
		survey.OutsideHelpfulness = req.OutsideHelpfulness
	}
	if req.WouldRecommendCourse != nil {
		survey.WouldRecommendCourse = req.WouldRecommendCourse
	}
	if req.WouldTakeAnother != nil {
		survey.WouldTakeAnother = req.WouldTakeAnother
	}
	if req.Comment != nil {
		survey.Comment = sanitizeText(*req.Comment)
	}
}

func tupleKey(author, professorID, areaID, courseNumber string) string {
	return fmt.Sprintf("survey-tuple:%s:%s:%s:%s", author, professorID, areaID, courseNumber)
}

func duplicateSurvey() error {
	return appErrors.Clone(appErrors.ErrConflict, "you have already reviewed this professor for this course")
}
