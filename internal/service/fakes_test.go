package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/campus-hub-api/internal/models"
	"github.com/noah-isme/campus-hub-api/pkg/jobs"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func userToken(id string, scopes ...models.Scope) *models.AccessToken {
	return &models.AccessToken{UserID: id, Name: id, Scopes: scopes, Level: models.LevelAuthenticated}
}

// clock hands out strictly increasing timestamps so ordering in the fakes is deterministic.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *clock) tick() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

// --- bulletin ---

type bulletinData struct {
	mu      sync.Mutex
	clock   *clock
	seq     int
	threads map[string]*models.Thread
	posts   map[string]*models.Post
	users   map[string]models.User
}

func newBulletinData() *bulletinData {
	return &bulletinData{
		clock:   newClock(),
		threads: make(map[string]*models.Thread),
		posts:   make(map[string]*models.Post),
		users:   make(map[string]models.User),
	}
}

func (d *bulletinData) nextID(prefix string) string {
	d.seq++
	return fmt.Sprintf("%s-%d", prefix, d.seq)
}

type fakeThreadRepo struct{ data *bulletinData }

func (r *fakeThreadRepo) List(ctx context.Context, filter models.ThreadFilter) ([]models.Thread, int, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	all := make([]models.Thread, 0, len(r.data.threads))
	for _, t := range r.data.threads {
		all = append(all, *t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedTime.After(all[j].CreatedTime) })
	return window(all, filter.Limit, filter.Offset), len(all), nil
}

func (r *fakeThreadRepo) FindByID(ctx context.Context, id string) (*models.Thread, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	t, ok := r.data.threads[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *t
	return &cp, nil
}

func (r *fakeThreadRepo) Create(ctx context.Context, thread *models.Thread, firstPost *models.Post) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	thread.ID = r.data.nextID("thread")
	thread.CreatedTime = r.data.clock.tick()
	thread.UpdatedTime = thread.CreatedTime
	cp := *thread
	r.data.threads[thread.ID] = &cp
	if firstPost != nil {
		firstPost.ID = r.data.nextID("post")
		firstPost.ThreadID = thread.ID
		firstPost.CreatedTime = thread.CreatedTime
		pc := *firstPost
		r.data.posts[firstPost.ID] = &pc
	}
	return nil
}

func (r *fakeThreadRepo) UpdateTitle(ctx context.Context, thread *models.Thread) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	stored, ok := r.data.threads[thread.ID]
	if !ok {
		return sql.ErrNoRows
	}
	stored.Title = thread.Title
	return nil
}

func (r *fakeThreadRepo) Delete(ctx context.Context, id string) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	if _, ok := r.data.threads[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.data.threads, id)
	for pid, p := range r.data.posts {
		if p.ThreadID == id {
			delete(r.data.posts, pid)
		}
	}
	return nil
}

func (r *fakeThreadRepo) Activity(ctx context.Context, threadIDs []string) ([]models.ThreadActivity, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	wanted := make(map[string]bool, len(threadIDs))
	for _, id := range threadIDs {
		wanted[id] = true
	}
	byThread := make(map[string]*models.ThreadActivity)
	for _, p := range r.data.posts {
		if !wanted[p.ThreadID] {
			continue
		}
		row, ok := byThread[p.ThreadID]
		if !ok {
			row = &models.ThreadActivity{ThreadID: p.ThreadID}
			byThread[p.ThreadID] = row
		}
		row.PostCount++
		created := p.CreatedTime
		if row.LastPostAt == nil || created.After(*row.LastPostAt) {
			row.LastPostAt = &created
		}
	}
	out := make([]models.ThreadActivity, 0, len(byThread))
	for _, row := range byThread {
		out = append(out, *row)
	}
	return out, nil
}

type fakePostRepo struct{ data *bulletinData }

func (r *fakePostRepo) sorted(threadIDs map[string]bool) []models.Post {
	out := []models.Post{}
	for _, p := range r.data.posts {
		if threadIDs[p.ThreadID] {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedTime.Equal(out[j].CreatedTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedTime.Before(out[j].CreatedTime)
	})
	return out
}

func (r *fakePostRepo) ListByThread(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	all := r.sorted(map[string]bool{filter.ThreadID: true})
	return window(all, filter.Limit, filter.Offset), len(all), nil
}

func (r *fakePostRepo) ListByThreadIDs(ctx context.Context, threadIDs []string) ([]models.Post, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	set := make(map[string]bool, len(threadIDs))
	for _, id := range threadIDs {
		set[id] = true
	}
	return r.sorted(set), nil
}

func (r *fakePostRepo) FindByID(ctx context.Context, id string) (*models.Post, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	p, ok := r.data.posts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (r *fakePostRepo) Create(ctx context.Context, post *models.Post) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	post.ID = r.data.nextID("post")
	post.CreatedTime = r.data.clock.tick()
	post.UpdatedTime = post.CreatedTime
	cp := *post
	r.data.posts[post.ID] = &cp
	return nil
}

func (r *fakePostRepo) UpdateContent(ctx context.Context, post *models.Post) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	stored, ok := r.data.posts[post.ID]
	if !ok {
		return sql.ErrNoRows
	}
	stored.Content = post.Content
	return nil
}

func (r *fakePostRepo) Delete(ctx context.Context, id string) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	if _, ok := r.data.posts[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.data.posts, id)
	return nil
}

type fakeUserRepo struct{ data *bulletinData }

func (r *fakeUserRepo) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	out := []models.User{}
	for _, id := range ids {
		if u, ok := r.data.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// --- factrak ---

type factrakData struct {
	mu         sync.Mutex
	clock      *clock
	seq        int
	professors map[string]models.Professor
	areas      map[string]models.AreaOfStudy
	courses    map[string]models.Course
	surveys    map[string]*models.Survey
	agreements map[string]map[string]bool

	ratings        map[string]*models.ProfessorRatings
	courseProfs    map[string][]string
	recomputeErr   error
	recomputes     []string
	rebuilds       []string
	coursesCreated int
	flagWrites     int
}

func newFactrakData() *factrakData {
	d := &factrakData{
		clock:       newClock(),
		professors:  make(map[string]models.Professor),
		areas:       make(map[string]models.AreaOfStudy),
		courses:     make(map[string]models.Course),
		surveys:     make(map[string]*models.Survey),
		agreements:  make(map[string]map[string]bool),
		ratings:     make(map[string]*models.ProfessorRatings),
		courseProfs: make(map[string][]string),
	}
	d.professors["prof-1"] = models.Professor{ID: "prof-1", Name: "Ada Lovelace"}
	d.professors["prof-2"] = models.Professor{ID: "prof-2", Name: "Alan Turing"}
	d.areas["area-csci"] = models.AreaOfStudy{ID: "area-csci", Name: "Computer Science", Abbreviation: "CSCI"}
	d.areas["area-math"] = models.AreaOfStudy{ID: "area-math", Name: "Mathematics", Abbreviation: "MATH"}
	d.courses["course-134"] = models.Course{ID: "course-134", AreaOfStudyID: "area-csci", Number: "134"}
	return d
}

func (d *factrakData) nextID(prefix string) string {
	d.seq++
	return fmt.Sprintf("%s-%d", prefix, d.seq)
}

// hydrate mirrors the join the SQL repository performs.
func (d *factrakData) hydrate(s models.Survey) models.Survey {
	if c, ok := d.courses[s.CourseID]; ok {
		s.CourseNumber = c.Number
		if a, ok := d.areas[c.AreaOfStudyID]; ok {
			s.AreaOfStudyAbbreviation = a.Abbreviation
		}
	}
	return s
}

type fakeSurveyRepo struct{ data *factrakData }

func (r *fakeSurveyRepo) List(ctx context.Context, filter models.SurveyFilter) ([]models.Survey, int, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	all := []models.Survey{}
	for _, s := range r.data.surveys {
		if filter.ProfessorID != "" && s.ProfessorID != filter.ProfessorID {
			continue
		}
		if filter.CourseID != "" && s.CourseID != filter.CourseID {
			continue
		}
		all = append(all, r.data.hydrate(*s))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedTime.After(all[j].CreatedTime) })
	return window(all, filter.Limit, filter.Offset), len(all), nil
}

func (r *fakeSurveyRepo) ListFlagged(ctx context.Context, limit, offset int) ([]models.Survey, int, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	all := []models.Survey{}
	for _, s := range r.data.surveys {
		if s.Flagged {
			all = append(all, r.data.hydrate(*s))
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedTime.Equal(all[j].CreatedTime) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedTime.Before(all[j].CreatedTime)
	})
	return window(all, limit, offset), len(all), nil
}

func (r *fakeSurveyRepo) FindByID(ctx context.Context, id string) (*models.Survey, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	s, ok := r.data.surveys[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := r.data.hydrate(*s)
	return &cp, nil
}

func (r *fakeSurveyRepo) ExistsForAuthor(ctx context.Context, userID, professorID, courseID, excludeID string) (bool, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	for _, s := range r.data.surveys {
		if s.OwnerID() == userID && s.ProfessorID == professorID && s.CourseID == courseID && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSurveyRepo) Create(ctx context.Context, survey *models.Survey) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	survey.ID = r.data.nextID("survey")
	survey.CreatedTime = r.data.clock.tick()
	survey.UpdatedTime = survey.CreatedTime
	cp := *survey
	r.data.surveys[survey.ID] = &cp
	return nil
}

func (r *fakeSurveyRepo) Update(ctx context.Context, survey *models.Survey) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	if _, ok := r.data.surveys[survey.ID]; !ok {
		return sql.ErrNoRows
	}
	survey.UpdatedTime = r.data.clock.tick()
	cp := *survey
	r.data.surveys[survey.ID] = &cp
	return nil
}

func (r *fakeSurveyRepo) SetFlagged(ctx context.Context, id string, flagged bool) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	s, ok := r.data.surveys[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.data.flagWrites++
	s.Flagged = flagged
	return nil
}

func (r *fakeSurveyRepo) Delete(ctx context.Context, id string) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	if _, ok := r.data.surveys[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.data.surveys, id)
	delete(r.data.agreements, id)
	return nil
}

func (r *fakeSurveyRepo) UpsertAgreement(ctx context.Context, agreement *models.Agreement) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	votes, ok := r.data.agreements[agreement.SurveyID]
	if !ok {
		votes = make(map[string]bool)
		r.data.agreements[agreement.SurveyID] = votes
	}
	votes[agreement.UserID] = agreement.Agrees
	return nil
}

func (r *fakeSurveyRepo) DeleteAgreement(ctx context.Context, surveyID, userID string) error {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	delete(r.data.agreements[surveyID], userID)
	return nil
}

func (r *fakeSurveyRepo) AgreementTallies(ctx context.Context, surveyIDs []string) ([]models.AgreementTally, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	out := []models.AgreementTally{}
	for _, id := range surveyIDs {
		tally := models.AgreementTally{SurveyID: id}
		for _, agrees := range r.data.agreements[id] {
			if agrees {
				tally.TotalAgree++
			} else {
				tally.TotalDisagree++
			}
		}
		out = append(out, tally)
	}
	return out, nil
}

func (r *fakeSurveyRepo) AgreementsByUser(ctx context.Context, surveyIDs []string, userID string) ([]models.Agreement, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	out := []models.Agreement{}
	for _, id := range surveyIDs {
		if agrees, ok := r.data.agreements[id][userID]; ok {
			out = append(out, models.Agreement{SurveyID: id, UserID: userID, Agrees: agrees})
		}
	}
	return out, nil
}

type fakeCatalogRepo struct{ data *factrakData }

func (r *fakeCatalogRepo) ListProfessors(ctx context.Context, filter models.ProfessorFilter) ([]models.Professor, int, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	all := []models.Professor{}
	for _, p := range r.data.professors {
		if filter.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Query)) {
			continue
		}
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return window(all, filter.Limit, filter.Offset), len(all), nil
}

func (r *fakeCatalogRepo) FindProfessor(ctx context.Context, id string) (*models.Professor, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	p, ok := r.data.professors[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (r *fakeCatalogRepo) ProfessorExists(ctx context.Context, id string) (bool, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	_, ok := r.data.professors[id]
	return ok, nil
}

func (r *fakeCatalogRepo) ProfessorsByIDs(ctx context.Context, ids []string) ([]models.Professor, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	out := []models.Professor{}
	for _, id := range ids {
		if p, ok := r.data.professors[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeCatalogRepo) ListCourses(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	all := []models.Course{}
	for _, c := range r.data.courses {
		if filter.AreaOfStudyID != "" && c.AreaOfStudyID != filter.AreaOfStudyID {
			continue
		}
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Number < all[j].Number })
	return window(all, filter.Limit, filter.Offset), len(all), nil
}

func (r *fakeCatalogRepo) FindCourse(ctx context.Context, id string) (*models.Course, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	c, ok := r.data.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (r *fakeCatalogRepo) CoursesByIDs(ctx context.Context, ids []string) ([]models.Course, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	out := []models.Course{}
	for _, id := range ids {
		if c, ok := r.data.courses[id]; ok {
			if area, ok := r.data.areas[c.AreaOfStudyID]; ok {
				c.AreaOfStudy = &area
			}
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCatalogRepo) FindCourseByNumber(ctx context.Context, areaOfStudyID, number string) (*models.Course, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	for _, c := range r.data.courses {
		if c.AreaOfStudyID == areaOfStudyID && strings.EqualFold(c.Number, number) {
			cp := c
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeCatalogRepo) FindOrCreateCourse(ctx context.Context, areaOfStudyID, number string) (*models.Course, error) {
	if c, err := r.FindCourseByNumber(ctx, areaOfStudyID, number); err == nil {
		return c, nil
	}
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	c := models.Course{ID: r.data.nextID("course"), AreaOfStudyID: areaOfStudyID, Number: strings.ToUpper(number)}
	r.data.courses[c.ID] = c
	r.data.coursesCreated++
	return &c, nil
}

func (r *fakeCatalogRepo) ListAreasOfStudy(ctx context.Context, limit, offset int) ([]models.AreaOfStudy, int, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	all := []models.AreaOfStudy{}
	for _, a := range r.data.areas {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return window(all, limit, offset), len(all), nil
}

func (r *fakeCatalogRepo) FindAreaOfStudy(ctx context.Context, id string) (*models.AreaOfStudy, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	a, ok := r.data.areas[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &a, nil
}

func (r *fakeCatalogRepo) FindAreaByAbbreviation(ctx context.Context, abbreviation string) (*models.AreaOfStudy, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	for _, a := range r.data.areas {
		if strings.EqualFold(a.Abbreviation, abbreviation) {
			cp := a
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeCatalogRepo) AreasByIDs(ctx context.Context, ids []string) ([]models.AreaOfStudy, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	out := []models.AreaOfStudy{}
	for _, id := range ids {
		if a, ok := r.data.areas[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeRatingsRepo struct {
	data        *factrakData
	ratingReads int
}

func (r *fakeRatingsRepo) RecomputeProfessor(ctx context.Context, professorID string) (*models.ProfessorRatings, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	r.data.recomputes = append(r.data.recomputes, professorID)
	if r.data.recomputeErr != nil {
		return nil, r.data.recomputeErr
	}
	ratings := &models.ProfessorRatings{ProfessorID: professorID}
	var sum, n float64
	for _, s := range r.data.surveys {
		if s.ProfessorID != professorID {
			continue
		}
		ratings.SurveyCount++
		if s.Approachability != nil {
			sum += float64(*s.Approachability)
			n++
		}
	}
	if n > 0 {
		avg := sum / n
		ratings.AvgApproachability = &avg
	}
	r.data.ratings[professorID] = ratings
	return ratings, nil
}

func (r *fakeRatingsRepo) RebuildCourseProfessors(ctx context.Context, courseID string) ([]string, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	r.data.rebuilds = append(r.data.rebuilds, courseID)
	if r.data.recomputeErr != nil {
		return nil, r.data.recomputeErr
	}
	seen := map[string]bool{}
	ids := []string{}
	for _, s := range r.data.surveys {
		if s.CourseID == courseID && !seen[s.ProfessorID] {
			seen[s.ProfessorID] = true
			ids = append(ids, s.ProfessorID)
		}
	}
	sort.Strings(ids)
	r.data.courseProfs[courseID] = ids
	return ids, nil
}

func (r *fakeRatingsRepo) ProfessorRatings(ctx context.Context, professorID string) (*models.ProfessorRatings, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	r.ratingReads++
	ratings, ok := r.data.ratings[professorID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *ratings
	return &cp, nil
}

func (r *fakeRatingsRepo) CourseProfessorIDs(ctx context.Context, courseID string) ([]string, error) {
	r.data.mu.Lock()
	defer r.data.mu.Unlock()
	return append([]string(nil), r.data.courseProfs[courseID]...), nil
}

type recordingQueue struct {
	mu   sync.Mutex
	jobs []jobs.Job
	err  error
}

func (q *recordingQueue) Enqueue(job jobs.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

// factrakFixture wires the survey, moderation and catalog services over one in-memory store.
type factrakFixture struct {
	data        *factrakData
	surveys     *fakeSurveyRepo
	catalog     *fakeCatalogRepo
	ratings     *fakeRatingsRepo
	aggregation *AggregationService
	service     *SurveyService
	moderation  *ModerationService
}

func newFactrakFixture() *factrakFixture {
	data := newFactrakData()
	f := &factrakFixture{
		data:    data,
		surveys: &fakeSurveyRepo{data: data},
		catalog: &fakeCatalogRepo{data: data},
		ratings: &fakeRatingsRepo{data: data},
	}
	f.aggregation = NewAggregationService(f.ratings, nil, f.surveys, nil, time.Minute, nil, nil)
	f.service = NewSurveyService(f.surveys, f.catalog, f.aggregation, nil, time.Second, nil, nil, nil)
	f.moderation = NewModerationService(f.surveys, f.service, f.aggregation, f.catalog, nil, nil, time.Second, nil, nil)
	return f
}

func validSurveyRequest() SurveyRequest {
	return SurveyRequest{
		ProfessorID:             strPtr("prof-1"),
		AreaOfStudyAbbreviation: strPtr("csci"),
		CourseNumber:            strPtr("134"),
		CourseWorkload:          intPtr(4),
		Approachability:         intPtr(6),
		LeadLecture:             intPtr(5),
		PromoteDiscussion:       intPtr(5),
		OutsideHelpfulness:      intPtr(7),
		WouldRecommendCourse:    boolPtr(true),
		WouldTakeAnother:        boolPtr(true),
		Comment:                 strPtr(strings.Repeat("c", models.MinSurveyCommentLength)),
	}
}

var errStoreDown = errors.New("store unavailable")

func window[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
