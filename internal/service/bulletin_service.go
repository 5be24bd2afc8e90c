package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-hub-api/internal/models"
	appErrors "github.com/noah-isme/campus-hub-api/pkg/errors"
	"github.com/noah-isme/campus-hub-api/pkg/lock"
)

type threadRepository interface {
	List(ctx context.Context, filter models.ThreadFilter) ([]models.Thread, int, error)
	FindByID(ctx context.Context, id string) (*models.Thread, error)
	Create(ctx context.Context, thread *models.Thread, firstPost *models.Post) error
	UpdateTitle(ctx context.Context, thread *models.Thread) error
	Delete(ctx context.Context, id string) error
}

type postRepository interface {
	ListByThread(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error)
	ListByThreadIDs(ctx context.Context, threadIDs []string) ([]models.Post, error)
	FindByID(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	UpdateContent(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
}

type userRepository interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
}

type threadDecorator interface {
	DecorateThreads(ctx context.Context, threads []models.Thread) error
}

// CreateThreadRequest is the payload of a new discussion. Content becomes the first post.
type CreateThreadRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"omitempty,max=10000"`
}

// UpdateThreadRequest renames a discussion.
type UpdateThreadRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

// PostRequest carries the content of a new or edited post.
type PostRequest struct {
	Content string `json:"content" validate:"required,max=10000"`
}

// BulletinService manages discussion threads and their posts.
type BulletinService struct {
	threads   threadRepository
	posts     postRepository
	users     userRepository
	decorator threadDecorator
	locks     *lock.KeyedMutex
	store     storeScope
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewBulletinService constructs a BulletinService.
func NewBulletinService(threads threadRepository, posts postRepository, users userRepository, decorator threadDecorator,
	locks *lock.KeyedMutex, storeTimeout time.Duration, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *BulletinService {
	if locks == nil {
		locks = lock.NewKeyedMutex()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BulletinService{
		threads:   threads,
		posts:     posts,
		users:     users,
		decorator: decorator,
		locks:     locks,
		store:     newStoreScope(storeTimeout),
		validator: validate,
		metrics:   metrics,
		logger:    logger,
	}
}

// ListThreads returns one window of threads, newest first, with derived activity.
func (s *BulletinService) ListThreads(ctx context.Context, filter models.ThreadFilter) ([]models.Thread, int, error) {
	ctx, cancel := s.store.read(ctx)
	defer cancel()

	threads, total, err := fetchWindow(filter.Limit, filter.Offset, func(limit, offset int) ([]models.Thread, int, error) {
		window := filter
		window.Limit, window.Offset = limit, offset
		return s.threads.List(ctx, window)
	})
	if err != nil {
		return nil, 0, storeError(ctx, err, "thread not found", "failed to list threads")
	}
	if err := s.enrichThreads(ctx, threads, filter.Preload); err != nil {
		return nil, 0, err
	}
	return threads, total, nil
}

// GetThread returns one thread with derived activity and the requested relations.
func (s *BulletinService) GetThread(ctx context.Context, id string, preload models.ThreadPreload) (*models.Thread, error) {
	ctx, cancel := s.store.read(ctx)
	defer cancel()

	thread, err := s.threads.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(ctx, err, "thread not found", "failed to load thread")
	}
	threads := []models.Thread{*thread}
	if err := s.enrichThreads(ctx, threads, preload); err != nil {
		return nil, err
	}
	return &threads[0], nil
}

// CreateThread opens a discussion authored by caller.
func (s *BulletinService) CreateThread(ctx context.Context, caller *models.AccessToken, req CreateThreadRequest) (*models.Thread, error) {
	if !Authenticated(caller) {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "sign in to start a discussion")
	}
	req.Title = sanitizeText(req.Title)
	req.Content = sanitizeText(req.Content)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid discussion payload")
	}

	author := models.AuthorFromToken(caller)
	thread := &models.Thread{Title: req.Title, AuthorRef: author}
	var first *models.Post
	if req.Content != "" {
		first = &models.Post{Content: req.Content, AuthorRef: author}
	}

	wctx, cancel := s.store.write(ctx)
	defer cancel()
	if err := s.threads.Create(wctx, thread, first); err != nil {
		return nil, storeError(wctx, err, "thread not found", "failed to create thread")
	}
	s.metrics.RecordMutation("thread", "create")

	return s.GetThread(wctx, thread.ID, models.ThreadPreload{User: true})
}

// UpdateThread renames a thread owned by caller, or any thread for an admin.
func (s *BulletinService) UpdateThread(ctx context.Context, caller *models.AccessToken, id string, req UpdateThreadRequest) (*models.Thread, error) {
	req.Title = sanitizeText(req.Title)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid discussion payload")
	}

	wctx, cancel := s.store.write(ctx)
	defer cancel()
	unlock, err := acquire(wctx, s.locks, "thread:"+id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	thread, err := s.threads.FindByID(wctx, id)
	if err != nil {
		return nil, storeError(wctx, err, "thread not found", "failed to load thread")
	}
	if !CanMutate(thread, caller, models.ScopeAdminAll) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the author can edit this discussion")
	}
	thread.Title = req.Title
	if err := s.threads.UpdateTitle(wctx, thread); err != nil {
		return nil, storeError(wctx, err, "thread not found", "failed to update thread")
	}
	s.metrics.RecordMutation("thread", "update")

	return s.GetThread(wctx, id, models.ThreadPreload{User: true})
}

// DeleteThread removes a thread and its posts.
func (s *BulletinService) DeleteThread(ctx context.Context, caller *models.AccessToken, id string) error {
	wctx, cancel := s.store.write(ctx)
	defer cancel()
	unlock, err := acquire(wctx, s.locks, "thread:"+id)
	if err != nil {
		return err
	}
	defer unlock()

	thread, err := s.threads.FindByID(wctx, id)
	if err != nil {
		return storeError(wctx, err, "thread not found", "failed to load thread")
	}
	if !CanMutate(thread, caller, models.ScopeAdminAll) {
		return appErrors.Clone(appErrors.ErrForbidden, "only the author can delete this discussion")
	}
	if err := s.threads.Delete(wctx, id); err != nil {
		return storeError(wctx, err, "thread not found", "failed to delete thread")
	}
	s.metrics.RecordMutation("thread", "delete")
	s.logger.Info("thread deleted", zap.String("thread_id", id), zap.String("actor", caller.UserID))
	return nil
}

// ListPosts returns one window of a thread's posts in reading order.
func (s *BulletinService) ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error) {
	ctx, cancel := s.store.read(ctx)
	defer cancel()

	if _, err := s.threads.FindByID(ctx, filter.ThreadID); err != nil {
		return nil, 0, storeError(ctx, err, "thread not found", "failed to load thread")
	}
	posts, total, err := fetchWindow(filter.Limit, filter.Offset, func(limit, offset int) ([]models.Post, int, error) {
		window := filter
		window.Limit, window.Offset = limit, offset
		return s.posts.ListByThread(ctx, window)
	})
	if err != nil {
		return nil, 0, storeError(ctx, err, "post not found", "failed to list posts")
	}
	if filter.Preload {
		if err := s.attachPostUsers(ctx, posts); err != nil {
			return nil, 0, err
		}
	}
	return posts, total, nil
}

// GetPost returns one post, optionally with its author.
func (s *BulletinService) GetPost(ctx context.Context, id string, withUser bool) (*models.Post, error) {
	ctx, cancel := s.store.read(ctx)
	defer cancel()

	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(ctx, err, "post not found", "failed to load post")
	}
	if withUser {
		posts := []models.Post{*post}
		if err := s.attachPostUsers(ctx, posts); err != nil {
			return nil, err
		}
		post = &posts[0]
	}
	return post, nil
}

// CreatePost appends a reply by caller to a thread.
func (s *BulletinService) CreatePost(ctx context.Context, caller *models.AccessToken, threadID string, req PostRequest) (*models.Post, error) {
	if !Authenticated(caller) {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "sign in to reply")
	}
	req.Content = sanitizeText(req.Content)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid post payload")
	}

	wctx, cancel := s.store.write(ctx)
	defer cancel()
	unlock, err := acquire(wctx, s.locks, "thread:"+threadID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, err := s.threads.FindByID(wctx, threadID); err != nil {
		return nil, storeError(wctx, err, "thread not found", "failed to load thread")
	}
	post := &models.Post{ThreadID: threadID, Content: req.Content, AuthorRef: models.AuthorFromToken(caller)}
	if err := s.posts.Create(wctx, post); err != nil {
		return nil, storeError(wctx, err, "post not found", "failed to create post")
	}
	s.metrics.RecordMutation("post", "create")
	return post, nil
}

// EditPost replaces the content of a post owned by caller, or any post for an admin.
func (s *BulletinService) EditPost(ctx context.Context, caller *models.AccessToken, id string, req PostRequest) (*models.Post, error) {
	req.Content = sanitizeText(req.Content)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid post payload")
	}

	wctx, cancel := s.store.write(ctx)
	defer cancel()
	unlock, err := acquire(wctx, s.locks, "post:"+id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	post, err := s.posts.FindByID(wctx, id)
	if err != nil {
		return nil, storeError(wctx, err, "post not found", "failed to load post")
	}
	if !CanMutate(post, caller, models.ScopeAdminAll) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the author can edit this post")
	}
	post.Content = req.Content
	if err := s.posts.UpdateContent(wctx, post); err != nil {
		return nil, storeError(wctx, err, "post not found", "failed to update post")
	}
	s.metrics.RecordMutation("post", "update")
	return post, nil
}

// DeletePost removes a post owned by caller, or any post for an admin.
func (s *BulletinService) DeletePost(ctx context.Context, caller *models.AccessToken, id string) error {
	wctx, cancel := s.store.write(ctx)
	defer cancel()
	unlock, err := acquire(wctx, s.locks, "post:"+id)
	if err != nil {
		return err
	}
	defer unlock()

	post, err := s.posts.FindByID(wctx, id)
	if err != nil {
		return storeError(wctx, err, "post not found", "failed to load post")
	}
	if !CanMutate(post, caller, models.ScopeAdminAll) {
		return appErrors.Clone(appErrors.ErrForbidden, "only the author can delete this post")
	}
	if err := s.posts.Delete(wctx, id); err != nil {
		return storeError(wctx, err, "post not found", "failed to delete post")
	}
	s.metrics.RecordMutation("post", "delete")
	return nil
}

func (s *BulletinService) enrichThreads(ctx context.Context, threads []models.Thread, preload models.ThreadPreload) error {
	if len(threads) == 0 {
		return nil
	}
	if s.decorator != nil {
		if err := s.decorator.DecorateThreads(ctx, threads); err != nil {
			return storeError(ctx, err, "thread not found", "failed to compute thread activity")
		}
	}
	if preload.Posts || preload.PostsUsers {
		if err := s.attachPosts(ctx, threads, preload.PostsUsers); err != nil {
			return err
		}
	}
	if preload.User {
		ids := make([]string, 0, len(threads))
		for i := range threads {
			if id := threads[i].OwnerID(); id != "" {
				ids = append(ids, id)
			}
		}
		users, err := s.loadUsers(ctx, ids)
		if err != nil {
			return err
		}
		for i := range threads {
			if u, ok := users[threads[i].OwnerID()]; ok {
				user := u
				threads[i].User = &user
			}
		}
	}
	return nil
}

func (s *BulletinService) attachPosts(ctx context.Context, threads []models.Thread, withUsers bool) error {
	ids := make([]string, len(threads))
	index := make(map[string]int, len(threads))
	for i := range threads {
		ids[i] = threads[i].ID
		index[threads[i].ID] = i
	}
	posts, err := s.posts.ListByThreadIDs(ctx, ids)
	if err != nil {
		return storeError(ctx, err, "post not found", "failed to load posts")
	}
	if withUsers {
		if err := s.attachPostUsers(ctx, posts); err != nil {
			return err
		}
	}
	for _, post := range posts {
		if i, ok := index[post.ThreadID]; ok {
			threads[i].Posts = append(threads[i].Posts, post)
		}
	}
	return nil
}

func (s *BulletinService) attachPostUsers(ctx context.Context, posts []models.Post) error {
	ids := make([]string, 0, len(posts))
	for i := range posts {
		if id := posts[i].OwnerID(); id != "" {
			ids = append(ids, id)
		}
	}
	users, err := s.loadUsers(ctx, ids)
	if err != nil {
		return err
	}
	for i := range posts {
		if u, ok := users[posts[i].OwnerID()]; ok {
			user := u
			posts[i].User = &user
		}
	}
	return nil
}

func (s *BulletinService) loadUsers(ctx context.Context, ids []string) (map[string]models.User, error) {
	result := make(map[string]models.User, len(ids))
	if len(ids) == 0 || s.users == nil {
		return result, nil
	}
	users, err := s.users.FindByIDs(ctx, uniqueStrings(ids))
	if err != nil {
		return nil, storeError(ctx, err, "user not found", "failed to load users")
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
