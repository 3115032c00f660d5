package pg

import (
	"context"
	"database/sql"
	"errors"

	"github.com/innosearch-dev/innosearch/internal/domain"
	internal_errors "github.com/innosearch-dev/innosearch/internal/errors"
)

func (s *Storage) CreatePost(data domain.PostCreationData) (domain.PostId, error) {
	var id domain.PostId
	err := s.db.QueryRow(`
	INSERT INTO posts(user_id, title, content)
	VALUES($1, $2, $3)
	RETURNING id`,
		data.Author, data.Title, data.Content).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Storage) GetPost(id domain.PostId) (domain.Post, error) {
	var p domain.Post
	err := s.db.QueryRow(`
	SELECT p.id, p.title, p.content, p.user_id, p.created_at, u.name
	FROM posts p
	JOIN users u ON u.id = p.user_id
	WHERE p.id = $1`, id).Scan(&p.Id, &p.Title, &p.Content, &p.AuthorId, &p.CreatedAt, &p.AuthorName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Post{}, &internal_errors.ErrorWithStatusCode{Message: "Post not found", StatusCode: 404}
		}
		return domain.Post{}, err
	}
	return p, nil
}

func (s *Storage) ListPosts() ([]domain.PostMetadata, error) {
	rows, err := s.db.Query(`
	SELECT p.id, p.title, p.created_at, u.name
	FROM posts p
	JOIN users u ON u.id = p.user_id
	ORDER BY p.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.PostMetadata
	for rows.Next() {
		var p domain.PostMetadata
		if err := rows.Scan(&p.Id, &p.Title, &p.CreatedAt, &p.AuthorName); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListComments returns the post's comments joined with their alias rows.
// A comment whose author has no alias row yet carries AnonIndex 0.
func (s *Storage) ListComments(postId domain.PostId) ([]domain.Comment, error) {
	rows, err := s.db.Query(`
	SELECT c.id, c.post_id, c.user_id, c.content, c.created_at, COALESCE(a.anon_index, 0)
	FROM comments c
	LEFT JOIN comment_alias a ON a.post_id = c.post_id AND a.user_id = c.user_id
	WHERE c.post_id = $1
	ORDER BY c.created_at ASC, c.id ASC`, postId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.Id, &c.PostId, &c.AuthorId, &c.Content, &c.CreatedAt, &c.AnonIndex); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// CreateComment inserts the comment and assigns the author's per-post
// anonymous alias as one transaction: either both rows land or neither.
//
// The post row is locked first, which serializes the max-lookup+insert for
// concurrent first-time commenters on the same post (and doubles as the
// existence check). The (post_id, user_id) primary key remains as backstop:
// on the unlikely unique violation the whole transaction is retried once
// and finds the winner's row.
func (s *Storage) CreateComment(ctx context.Context, postId domain.PostId, authorId domain.UserId, content string) (domain.Comment, error) {
	comment, err := s.createComment(ctx, postId, authorId, content)
	if err != nil && isUniqueViolation(err) {
		comment, err = s.createComment(ctx, postId, authorId, content)
	}
	return comment, err
}

func (s *Storage) createComment(ctx context.Context, postId domain.PostId, authorId domain.UserId, content string) (domain.Comment, error) {
	var c domain.Comment
	err := WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var locked domain.PostId
		err := tx.QueryRow(`SELECT id FROM posts WHERE id = $1 FOR UPDATE`, postId).Scan(&locked)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &internal_errors.ErrorWithStatusCode{Message: "Post not found", StatusCode: 404}
			}
			return err
		}

		anonIndex, err := ensureAlias(tx, postId, authorId)
		if err != nil {
			return err
		}

		c = domain.Comment{PostId: postId, AuthorId: authorId, Content: content, AnonIndex: anonIndex}
		return tx.QueryRow(`
		INSERT INTO comments(post_id, user_id, content)
		VALUES($1, $2, $3)
		RETURNING id, created_at`,
			postId, authorId, content).Scan(&c.Id, &c.CreatedAt)
	})
	if err != nil {
		return domain.Comment{}, err
	}
	return c, nil
}

// ensureAlias returns the author's existing alias number for the post, or
// assigns the next one. Must run inside a transaction holding the post lock.
func ensureAlias(tx *sql.Tx, postId domain.PostId, userId domain.UserId) (int, error) {
	var anonIndex int
	err := tx.QueryRow(`
	SELECT anon_index FROM comment_alias WHERE post_id = $1 AND user_id = $2`,
		postId, userId).Scan(&anonIndex)
	if err == nil {
		return anonIndex, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	err = tx.QueryRow(`
	SELECT COALESCE(MAX(anon_index), 0) + 1 FROM comment_alias WHERE post_id = $1`,
		postId).Scan(&anonIndex)
	if err != nil {
		return 0, err
	}

	_, err = tx.Exec(`
	INSERT INTO comment_alias(post_id, user_id, anon_index)
	VALUES($1, $2, $3)`,
		postId, userId, anonIndex)
	if err != nil {
		return 0, err
	}
	return anonIndex, nil
}

// AliasFor returns the assigned alias for (postId, userId), 404 if none.
func (s *Storage) AliasFor(postId domain.PostId, userId domain.UserId) (int, error) {
	var anonIndex int
	err := s.db.QueryRow(`
	SELECT anon_index FROM comment_alias WHERE post_id = $1 AND user_id = $2`,
		postId, userId).Scan(&anonIndex)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, &internal_errors.ErrorWithStatusCode{Message: "Alias not found", StatusCode: 404}
		}
		return 0, err
	}
	return anonIndex, nil
}

// MaxAlias returns the highest alias number assigned for the post, 0 if none.
func (s *Storage) MaxAlias(postId domain.PostId) (int, error) {
	var max int
	err := s.db.QueryRow(`
	SELECT COALESCE(MAX(anon_index), 0) FROM comment_alias WHERE post_id = $1`,
		postId).Scan(&max)
	if err != nil {
		return 0, err
	}
	return max, nil
}
