package pg

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internal_errors "github.com/innosearch-dev/innosearch/internal/errors"
)

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWithDB(db), mock
}

func expectPostLock(mock sqlmock.Sqlmock, postId int64) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM posts WHERE id = $1 FOR UPDATE`)).
		WithArgs(postId).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(postId))
}

func TestCreateComment_FirstCommentAssignsAlias(t *testing.T) {
	s, mock := newMockStorage(t)
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	expectPostLock(mock, 7)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT anon_index FROM comment_alias WHERE post_id = $1 AND user_id = $2`)).
		WithArgs(int64(7), int64(3)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(anon_index), 0) + 1 FROM comment_alias WHERE post_id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO comment_alias(post_id, user_id, anon_index)`)).
		WithArgs(int64(7), int64(3), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO comments(post_id, user_id, content)`)).
		WithArgs(int64(7), int64(3), "첫 댓글").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, created))
	mock.ExpectCommit()

	comment, err := s.CreateComment(context.Background(), 7, 3, "첫 댓글")
	require.NoError(t, err)
	assert.Equal(t, int64(11), int64(comment.Id))
	assert.Equal(t, 1, comment.AnonIndex)
	assert.Equal(t, created, comment.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateComment_ReusesExistingAlias(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectBegin()
	expectPostLock(mock, 7)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT anon_index FROM comment_alias WHERE post_id = $1 AND user_id = $2`)).
		WithArgs(int64(7), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"anon_index"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO comments(post_id, user_id, content)`)).
		WithArgs(int64(7), int64(3), "두번째 댓글").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(12, time.Now()))
	mock.ExpectCommit()

	comment, err := s.CreateComment(context.Background(), 7, 3, "두번째 댓글")
	require.NoError(t, err)
	assert.Equal(t, 2, comment.AnonIndex)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A failed alias insert must abort the whole transaction so no orphan
// comment row can appear.
func TestCreateComment_AliasFailureRollsBackComment(t *testing.T) {
	s, mock := newMockStorage(t)
	boom := errors.New("disk on fire")

	mock.ExpectBegin()
	expectPostLock(mock, 7)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT anon_index FROM comment_alias`)).
		WithArgs(int64(7), int64(3)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(anon_index), 0) + 1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO comment_alias`)).
		WithArgs(int64(7), int64(3), 1).
		WillReturnError(boom)
	mock.ExpectRollback()

	_, err := s.CreateComment(context.Background(), 7, 3, "유실될 댓글")
	require.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Losing the alias race surfaces as a unique violation; the transaction is
// retried once and picks up the winner's row.
func TestCreateComment_RetriesOnAliasRace(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectBegin()
	expectPostLock(mock, 7)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT anon_index FROM comment_alias`)).
		WithArgs(int64(7), int64(3)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(anon_index), 0) + 1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO comment_alias`)).
		WithArgs(int64(7), int64(3), 1).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	mock.ExpectBegin()
	expectPostLock(mock, 7)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT anon_index FROM comment_alias`)).
		WithArgs(int64(7), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"anon_index"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO comments`)).
		WithArgs(int64(7), int64(3), "재시도").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(13, time.Now()))
	mock.ExpectCommit()

	comment, err := s.CreateComment(context.Background(), 7, 3, "재시도")
	require.NoError(t, err)
	assert.Equal(t, 1, comment.AnonIndex)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateComment_PostMissing(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM posts WHERE id = $1 FOR UPDATE`)).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := s.CreateComment(context.Background(), 99, 3, "어디에도 없는 글")
	var ec *internal_errors.ErrorWithStatusCode
	require.ErrorAs(t, err, &ec)
	assert.Equal(t, 404, ec.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListComments_MissingAliasReadsAsZero(t *testing.T) {
	s, mock := newMockStorage(t)
	created := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`LEFT JOIN comment_alias`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id", "content", "created_at", "anon_index"}).
			AddRow(1, 7, 3, "댓글 하나", created, 1).
			AddRow(2, 7, 4, "댓글 둘", created.Add(time.Minute), 0))

	comments, err := s.ListComments(7)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, 1, comments[0].AnonIndex)
	assert.Equal(t, 0, comments[1].AnonIndex)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPost_NotFound(t *testing.T) {
	s, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM posts p`)).
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetPost(42)
	var ec *internal_errors.ErrorWithStatusCode
	require.ErrorAs(t, err, &ec)
	assert.Equal(t, 404, ec.StatusCode)
}
