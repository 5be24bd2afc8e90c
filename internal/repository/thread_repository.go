package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-hub-api/internal/models"
)

const threadColumns = "id, title, user_id, ex_user_name, created_at, updated_at"

// ThreadRepository provides persistence for bulletin threads.
type ThreadRepository struct {
	db *sqlx.DB
}

// NewThreadRepository creates the repository.
func NewThreadRepository(db *sqlx.DB) *ThreadRepository {
	return &ThreadRepository{db: db}
}

// List returns one window of threads, newest first, along with the total count.
func (r *ThreadRepository) List(ctx context.Context, filter models.ThreadFilter) ([]models.Thread, int, error) {
	query := fmt.Sprintf(`SELECT %s FROM bulletin_threads ORDER BY created_at DESC, id ASC LIMIT $1 OFFSET $2`, threadColumns)
	threads := []models.Thread{}
	if err := r.db.SelectContext(ctx, &threads, query, filter.Limit, filter.Offset); err != nil {
		return nil, 0, fmt.Errorf("list threads: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM bulletin_threads"); err != nil {
		return nil, 0, fmt.Errorf("count threads: %w", err)
	}
	return threads, total, nil
}

// FindByID returns a thread by identifier.
func (r *ThreadRepository) FindByID(ctx context.Context, id string) (*models.Thread, error) {
	query := fmt.Sprintf("SELECT %s FROM bulletin_threads WHERE id = $1", threadColumns)
	var thread models.Thread
	if err := r.db.GetContext(ctx, &thread, query, id); err != nil {
		return nil, err
	}
	return &thread, nil
}

// Create inserts a thread and, when firstPost is non-nil, its opening post in one transaction.
func (r *ThreadRepository) Create(ctx context.Context, thread *models.Thread, firstPost *models.Post) error {
	if thread.ID == "" {
		thread.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if thread.CreatedTime.IsZero() {
		thread.CreatedTime = now
	}
	thread.UpdatedTime = thread.CreatedTime

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create thread: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insertThread = `INSERT INTO bulletin_threads (id, title, user_id, ex_user_name, created_at, updated_at)
VALUES (:id, :title, :user_id, :ex_user_name, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, insertThread, thread); err != nil {
		return fmt.Errorf("create thread: %w", err)
	}
	if firstPost != nil {
		firstPost.ThreadID = thread.ID
		if firstPost.CreatedTime.IsZero() {
			firstPost.CreatedTime = thread.CreatedTime
		}
		if err := insertPost(ctx, tx, firstPost); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create thread: %w", err)
	}
	return nil
}

// UpdateTitle changes the title of a thread.
func (r *ThreadRepository) UpdateTitle(ctx context.Context, thread *models.Thread) error {
	thread.UpdatedTime = time.Now().UTC()
	const query = `UPDATE bulletin_threads SET title = :title, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, thread); err != nil {
		return fmt.Errorf("update thread: %w", err)
	}
	return nil
}

// Delete removes a thread; its posts are removed by the foreign key cascade.
func (r *ThreadRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM bulletin_threads WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete thread: %w", err)
	}
	return nil
}

// Activity returns post aggregates for the given threads.
func (r *ThreadRepository) Activity(ctx context.Context, threadIDs []string) ([]models.ThreadActivity, error) {
	if len(threadIDs) == 0 {
		return nil, nil
	}
	const query = `SELECT thread_id, COUNT(*) AS post_count, MAX(created_at) AS last_post_at
FROM bulletin_posts WHERE thread_id = ANY($1) GROUP BY thread_id`
	rows := []models.ThreadActivity{}
	if err := r.db.SelectContext(ctx, &rows, query, pqStringArray(threadIDs)); err != nil {
		return nil, fmt.Errorf("thread activity: %w", err)
	}
	return rows, nil
}
