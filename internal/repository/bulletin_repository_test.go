package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-hub-api/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestThreadRepositoryList(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewThreadRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "title", "user_id", "ex_user_name", "created_at", "updated_at"}).
		AddRow("t2", "Lost keys", "u1", "", now, now).
		AddRow("t1", "Ride to Boston", nil, "legacy", now.Add(-time.Hour), now.Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, user_id, ex_user_name, created_at, updated_at FROM bulletin_threads ORDER BY created_at DESC, id ASC LIMIT $1 OFFSET $2")).
		WithArgs(20, 0).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM bulletin_threads")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	threads, total, err := repo.List(context.Background(), models.ThreadFilter{Limit: 20})
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, 2, total)
	assert.Equal(t, "u1", threads[0].OwnerID())
	assert.Nil(t, threads[1].UserID)
	assert.Equal(t, "legacy", threads[1].ExUserName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestThreadRepositoryCreateWithFirstPost(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewThreadRepository(db)
	uid := "u1"

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bulletin_threads").
		WithArgs(sqlmock.AnyArg(), "Lost keys", sqlmock.AnyArg(), "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO bulletin_posts").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "Near Paresky", sqlmock.AnyArg(), "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	thread := &models.Thread{Title: "Lost keys", AuthorRef: models.AuthorRef{UserID: &uid}}
	post := &models.Post{Content: "Near Paresky", AuthorRef: models.AuthorRef{UserID: &uid}}
	require.NoError(t, repo.Create(context.Background(), thread, post))
	assert.NotEmpty(t, thread.ID)
	assert.Equal(t, thread.ID, post.ThreadID)
	assert.Equal(t, thread.CreatedTime, post.CreatedTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestThreadRepositoryCreateRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewThreadRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bulletin_threads").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO bulletin_posts").WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Thread{Title: "x", AuthorRef: models.AuthorRef{ExUserName: "a"}},
		&models.Post{Content: "y", AuthorRef: models.AuthorRef{ExUserName: "a"}})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestThreadRepositoryFindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewThreadRepository(db)

	mock.ExpectQuery("FROM bulletin_threads WHERE id = \\$1").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestThreadRepositoryActivity(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewThreadRepository(db)
	last := time.Now()

	mock.ExpectQuery("FROM bulletin_posts WHERE thread_id = ANY\\(\\$1\\) GROUP BY thread_id").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"thread_id", "post_count", "last_post_at"}).AddRow("t1", 3, last))

	activity, err := repo.Activity(context.Background(), []string{"t1", "t2"})
	require.NoError(t, err)
	require.Len(t, activity, 1)
	assert.Equal(t, 3, activity[0].PostCount)
	require.NotNil(t, activity[0].LastPostAt)

	empty, err := repo.Activity(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepositoryListByThread(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM bulletin_posts WHERE thread_id = $1 ORDER BY created_at ASC, id ASC LIMIT $2 OFFSET $3")).
		WithArgs("t1", 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "thread_id", "content", "user_id", "ex_user_name", "created_at", "updated_at"}).
			AddRow("p11", "t1", "eleventh", "u1", "", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM bulletin_posts WHERE thread_id = $1")).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	posts, total, err := repo.ListByThread(context.Background(), models.PostFilter{ThreadID: "t1", Limit: 10, Offset: 10})
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, 11, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepositoryUpdateAndDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectExec("UPDATE bulletin_posts SET content").
		WithArgs("edited", sqlmock.AnyArg(), "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM bulletin_posts WHERE id = \\$1").
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateContent(context.Background(), &models.Post{ID: "p1", Content: "edited"}))
	require.NoError(t, repo.Delete(context.Background(), "p1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
