package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-hub-api/internal/models"
)

const postColumns = "id, thread_id, content, user_id, ex_user_name, created_at, updated_at"

// PostRepository provides persistence for bulletin posts.
type PostRepository struct {
	db *sqlx.DB
}

// NewPostRepository creates the repository.
func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

// ListByThread returns one window of a thread's posts in reading order.
func (r *PostRepository) ListByThread(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error) {
	query := fmt.Sprintf(`SELECT %s FROM bulletin_posts WHERE thread_id = $1 ORDER BY created_at ASC, id ASC LIMIT $2 OFFSET $3`, postColumns)
	posts := []models.Post{}
	if err := r.db.SelectContext(ctx, &posts, query, filter.ThreadID, filter.Limit, filter.Offset); err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM bulletin_posts WHERE thread_id = $1", filter.ThreadID); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}
	return posts, total, nil
}

// ListByThreadIDs returns every post of the given threads in reading order.
func (r *PostRepository) ListByThreadIDs(ctx context.Context, threadIDs []string) ([]models.Post, error) {
	if len(threadIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM bulletin_posts WHERE thread_id = ANY($1) ORDER BY created_at ASC, id ASC`, postColumns)
	posts := []models.Post{}
	if err := r.db.SelectContext(ctx, &posts, query, pqStringArray(threadIDs)); err != nil {
		return nil, fmt.Errorf("list posts by threads: %w", err)
	}
	return posts, nil
}

// FindByID returns a post by identifier.
func (r *PostRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	query := fmt.Sprintf("SELECT %s FROM bulletin_posts WHERE id = $1", postColumns)
	var post models.Post
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		return nil, err
	}
	return &post, nil
}

// Create inserts a post.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return insertPost(ctx, r.db, post)
}

// UpdateContent replaces the content of a post.
func (r *PostRepository) UpdateContent(ctx context.Context, post *models.Post) error {
	post.UpdatedTime = time.Now().UTC()
	const query = `UPDATE bulletin_posts SET content = :content, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, post); err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes a post.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM bulletin_posts WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

func insertPost(ctx context.Context, exec sqlx.ExtContext, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.CreatedTime.IsZero() {
		post.CreatedTime = time.Now().UTC()
	}
	post.UpdatedTime = post.CreatedTime
	const query = `INSERT INTO bulletin_posts (id, thread_id, content, user_id, ex_user_name, created_at, updated_at)
VALUES (:id, :thread_id, :content, :user_id, :ex_user_name, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, post); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}
