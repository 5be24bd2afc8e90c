package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-hub-api/internal/models"
	"github.com/noah-isme/campus-hub-api/internal/repository"
	"github.com/noah-isme/campus-hub-api/pkg/jobs"
)

const (
	recomputeProfessor = "recompute_professor"
	recomputeCourse    = "recompute_course"
)

type ratingsRepository interface {
	RecomputeProfessor(ctx context.Context, professorID string) (*models.ProfessorRatings, error)
	RebuildCourseProfessors(ctx context.Context, courseID string) ([]string, error)
	ProfessorRatings(ctx context.Context, professorID string) (*models.ProfessorRatings, error)
	CourseProfessorIDs(ctx context.Context, courseID string) ([]string, error)
}

type threadActivityRepository interface {
	Activity(ctx context.Context, threadIDs []string) ([]models.ThreadActivity, error)
}

type agreementReader interface {
	AgreementTallies(ctx context.Context, surveyIDs []string) ([]models.AgreementTally, error)
	AgreementsByUser(ctx context.Context, surveyIDs []string, userID string) ([]models.Agreement, error)
}

type retryQueue interface {
	Enqueue(job jobs.Job) error
}

// AggregateTarget names one professor/course pair whose derived values changed.
type AggregateTarget struct {
	ProfessorID string
	CourseID    string
}

// AggregationService derives metrics from raw content. Thread and agreement figures are
// computed on every read; professor ratings and course professor lists are rebuilt eagerly
// on every survey write and cached.
//
// Each cache key carries a local generation that every recompute bumps. A reader only fills
// the cache if the generation it saw before reading the store is still current, so a read
// that raced a recompute cannot park the old value behind the recompute's delete.
type AggregationService struct {
	ratings    ratingsRepository
	activity   threadActivityRepository
	agreements agreementReader
	cache      *CacheService
	cacheTTL   time.Duration
	queue      retryQueue
	metrics    *MetricsService
	logger     *zap.Logger

	mu          sync.Mutex
	generations map[string]uint64
}

// NewAggregationService constructs an AggregationService.
func NewAggregationService(ratings ratingsRepository, activity threadActivityRepository, agreements agreementReader,
	cache *CacheService, cacheTTL time.Duration, metrics *MetricsService, logger *zap.Logger) *AggregationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AggregationService{
		ratings:    ratings,
		activity:   activity,
		agreements: agreements,
		cache:      cache,
		cacheTTL:   cacheTTL,
		metrics:    metrics,
		logger:     logger,

		generations: make(map[string]uint64),
	}
}

// UseRetryQueue routes failed recomputes to queue for background retries.
func (s *AggregationService) UseRetryQueue(queue retryQueue) {
	s.queue = queue
}

// Recompute rebuilds the aggregates of every target. Failures never fail the write that
// triggered them: they are logged and handed to the retry queue, and reads reconcile.
func (s *AggregationService) Recompute(ctx context.Context, targets ...AggregateTarget) {
	professors := make([]string, 0, len(targets))
	courses := make([]string, 0, len(targets))
	for _, t := range targets {
		if t.ProfessorID != "" {
			professors = append(professors, t.ProfessorID)
		}
		if t.CourseID != "" {
			courses = append(courses, t.CourseID)
		}
	}
	for _, id := range uniqueStrings(professors) {
		if err := s.recomputeProfessor(ctx, id); err != nil {
			s.deferRecompute(recomputeProfessor, id, err)
		}
	}
	for _, id := range uniqueStrings(courses) {
		if err := s.rebuildCourse(ctx, id); err != nil {
			s.deferRecompute(recomputeCourse, id, err)
		}
	}
}

// HandleJob processes a deferred recompute from the retry queue.
func (s *AggregationService) HandleJob(ctx context.Context, job jobs.Job) error {
	id, ok := job.Payload.(string)
	if !ok || id == "" {
		return nil
	}
	switch job.Type {
	case recomputeProfessor:
		return s.recomputeProfessor(ctx, id)
	case recomputeCourse:
		return s.rebuildCourse(ctx, id)
	default:
		s.logger.Warn("unknown aggregation job", zap.String("type", job.Type))
		return nil
	}
}

// ProfessorRatings returns the derived ratings of a professor. A professor whose row was
// never written (or lost to a failed recompute) is recomputed on demand. A professor without
// surveys has a zero count and no averages.
func (s *AggregationService) ProfessorRatings(ctx context.Context, professorID string) (*models.ProfessorRatings, error) {
	key := repository.ProfessorRatingsKey(professorID)
	var cached models.ProfessorRatings
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	gen := s.generation(key)
	ratings, err := s.ratings.ProfessorRatings(ctx, professorID)
	if errors.Is(err, sql.ErrNoRows) {
		ratings, err = s.ratings.RecomputeProfessor(ctx, professorID)
	}
	if err != nil {
		return nil, err
	}
	s.fill(ctx, key, gen, ratings)
	return ratings, nil
}

// CourseProfessorIDs returns the distinct professors that have been reviewed for a course.
func (s *AggregationService) CourseProfessorIDs(ctx context.Context, courseID string) ([]string, error) {
	key := repository.CourseProfessorsKey(courseID)
	var cached []string
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}
	gen := s.generation(key)
	ids, err := s.ratings.CourseProfessorIDs(ctx, courseID)
	if err != nil {
		return nil, err
	}
	s.fill(ctx, key, gen, ids)
	return ids, nil
}

// DecorateThreads fills post counts and last activity. A thread without posts was last
// active when it was created.
func (s *AggregationService) DecorateThreads(ctx context.Context, threads []models.Thread) error {
	if len(threads) == 0 {
		return nil
	}
	ids := make([]string, len(threads))
	for i := range threads {
		ids[i] = threads[i].ID
	}
	rows, err := s.activity.Activity(ctx, ids)
	if err != nil {
		return err
	}
	byThread := make(map[string]models.ThreadActivity, len(rows))
	for _, row := range rows {
		byThread[row.ThreadID] = row
	}
	for i := range threads {
		threads[i].PostCount = 0
		threads[i].LastActive = threads[i].CreatedTime
		row, ok := byThread[threads[i].ID]
		if !ok {
			continue
		}
		threads[i].PostCount = row.PostCount
		if row.LastPostAt != nil && row.LastPostAt.After(threads[i].LastActive) {
			threads[i].LastActive = *row.LastPostAt
		}
	}
	return nil
}

// DecorateSurveys fills agreement tallies and, when clientID is set, the caller's own vote.
func (s *AggregationService) DecorateSurveys(ctx context.Context, surveys []models.Survey, tallies bool, clientID string) error {
	if len(surveys) == 0 || (!tallies && clientID == "") {
		return nil
	}
	ids := make([]string, len(surveys))
	index := make(map[string]int, len(surveys))
	for i := range surveys {
		ids[i] = surveys[i].ID
		index[surveys[i].ID] = i
	}
	if tallies {
		rows, err := s.agreements.AgreementTallies(ctx, ids)
		if err != nil {
			return err
		}
		for _, row := range rows {
			if i, ok := index[row.SurveyID]; ok {
				surveys[i].TotalAgree = row.TotalAgree
				surveys[i].TotalDisagree = row.TotalDisagree
			}
		}
	}
	if clientID != "" {
		votes, err := s.agreements.AgreementsByUser(ctx, ids, clientID)
		if err != nil {
			return err
		}
		for _, vote := range votes {
			if i, ok := index[vote.SurveyID]; ok {
				agrees := vote.Agrees
				surveys[i].ClientAgreement = &agrees
			}
		}
	}
	return nil
}

func (s *AggregationService) recomputeProfessor(ctx context.Context, professorID string) error {
	start := time.Now()
	_, err := s.ratings.RecomputeProfessor(ctx, professorID)
	s.metrics.RecordRecompute("professor", time.Since(start), err)
	if err != nil {
		return err
	}
	s.invalidate(ctx, repository.ProfessorRatingsKey(professorID))
	return nil
}

func (s *AggregationService) rebuildCourse(ctx context.Context, courseID string) error {
	start := time.Now()
	_, err := s.ratings.RebuildCourseProfessors(ctx, courseID)
	s.metrics.RecordRecompute("course", time.Since(start), err)
	if err != nil {
		return err
	}
	s.invalidate(ctx, repository.CourseProfessorsKey(courseID))
	return nil
}

func (s *AggregationService) generation(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[key]
}

// fill caches value unless key was invalidated after the reader captured gen.
func (s *AggregationService) fill(ctx context.Context, key string, gen uint64, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generations[key] != gen {
		s.logger.Debug("skipping stale cache fill", zap.String("key", key))
		return
	}
	s.cache.Set(ctx, key, value, s.cacheTTL)
}

func (s *AggregationService) invalidate(ctx context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[key]++
	s.cache.Delete(ctx, key)
}

func (s *AggregationService) deferRecompute(kind, id string, cause error) {
	fields := []zap.Field{zap.String("type", kind), zap.String("id", id), zap.Error(cause)}
	if s.queue == nil {
		s.logger.Warn("aggregate recompute failed", fields...)
		return
	}
	s.logger.Warn("aggregate recompute failed, deferring", fields...)
	job := jobs.Job{Key: fmt.Sprintf("%s:%s", kind, id), Type: kind, Payload: id}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Error("aggregate recompute not queued", zap.String("id", id), zap.Error(err))
	}
}
