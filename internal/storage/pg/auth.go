package pg

import (
	"database/sql"
	"errors"
	"time"

	"github.com/innosearch-dev/innosearch/internal/domain"
	internal_errors "github.com/innosearch-dev/innosearch/internal/errors"
	"github.com/lib/pq"
)

const uniqueViolation = pq.ErrorCode("23505")

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func (s *Storage) SaveUser(user domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := s.db.QueryRow(`
	INSERT INTO users(name, email, pass_hash, organization)
	VALUES($1, $2, $3, $4)
	RETURNING id`,
		user.Name, user.Email, user.PassHash, user.Organization).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, &internal_errors.ErrorWithStatusCode{Message: "Email already in use", StatusCode: 409}
		}
		return 0, err
	}
	return id, nil
}

func (s *Storage) UserByEmail(email domain.Email) (domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(`
	SELECT id, name, email, pass_hash, organization, created_at
	FROM users
	WHERE email = $1`, email).Scan(&u.Id, &u.Name, &u.Email, &u.PassHash, &u.Organization, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: 404}
		}
		return domain.User{}, err
	}
	return u, nil
}

func (s *Storage) UserById(id domain.UserId) (domain.User, error) {
	var u domain.User
	err := s.db.QueryRow(`
	SELECT id, name, email, pass_hash, organization, created_at
	FROM users
	WHERE id = $1`, id).Scan(&u.Id, &u.Name, &u.Email, &u.PassHash, &u.Organization, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: 404}
		}
		return domain.User{}, err
	}
	return u, nil
}

// DeleteUser removes the user; sessions, posts, comments and aliases go
// with it via ON DELETE CASCADE.
func (s *Storage) DeleteUser(id domain.UserId) error {
	result, err := s.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: 404}
	}
	return nil
}

func (s *Storage) SaveSession(session domain.Session) error {
	_, err := s.db.Exec(`
	INSERT INTO sessions(token, user_id, expires_at)
	VALUES($1, $2, $3)`,
		session.Token, session.UserId, session.ExpiresAt)
	return err
}

// UserBySession resolves a session token to its user. Expired sessions are
// rejected and purged lazily.
func (s *Storage) UserBySession(token domain.SessionToken) (domain.User, error) {
	var u domain.User
	var expiresAt time.Time
	err := s.db.QueryRow(`
	SELECT u.id, u.name, u.email, u.organization, u.created_at, s.expires_at
	FROM sessions s
	JOIN users u ON u.id = s.user_id
	WHERE s.token = $1`, token).Scan(&u.Id, &u.Name, &u.Email, &u.Organization, &u.CreatedAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "Session not found", StatusCode: 401}
		}
		return domain.User{}, err
	}
	if time.Now().After(expiresAt) {
		_, _ = s.db.Exec(`DELETE FROM sessions WHERE token = $1`, token)
		return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "Session expired", StatusCode: 401}
	}
	return u, nil
}

func (s *Storage) DeleteSession(token domain.SessionToken) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE token = $1`, token)
	return err
}
