package service

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/innosearch-dev/innosearch/internal/config"
	"github.com/innosearch-dev/innosearch/internal/domain"
	"github.com/innosearch-dev/innosearch/internal/errors"
	"github.com/innosearch-dev/innosearch/internal/logger"
)

const minPasswordLen = 8

type AuthService interface {
	Signup(reg domain.Registration) (domain.Session, error)
	Login(creds domain.Credentials) (domain.Session, error)
	Logout(token domain.SessionToken) error
	Authenticate(token domain.SessionToken) (domain.User, error)
	DeleteAccount(userId domain.UserId) error
}

type AuthStorage interface {
	SaveUser(user domain.User) (domain.UserId, error)
	UserByEmail(email domain.Email) (domain.User, error)
	DeleteUser(id domain.UserId) error
	SaveSession(session domain.Session) error
	UserBySession(token domain.SessionToken) (domain.User, error)
	DeleteSession(token domain.SessionToken) error
}

type Auth struct {
	storage AuthStorage
	cfg     *config.Public
}

func NewAuth(storage AuthStorage, cfg *config.Public) *Auth {
	return &Auth{storage: storage, cfg: cfg}
}

// Signup validates the registration, hashes the password, stores the user
// and opens a session right away, so a fresh account is logged in without a
// separate login round-trip. Emails are normalized to lower case so they
// stay unique case-insensitively.
func (a *Auth) Signup(reg domain.Registration) (domain.Session, error) {
	if len(reg.Password) < minPasswordLen {
		return domain.Session{}, &errors.ErrorWithStatusCode{Message: "비밀번호는 8자 이상이어야 합니다.", StatusCode: http.StatusBadRequest}
	}
	if reg.Password != reg.PasswordConfirm {
		return domain.Session{}, &errors.ErrorWithStatusCode{Message: "비밀번호가 일치하지 않습니다.", StatusCode: http.StatusBadRequest}
	}
	if strings.TrimSpace(reg.Name) == "" {
		return domain.Session{}, &errors.ErrorWithStatusCode{Message: "이름을 입력해주세요.", StatusCode: http.StatusBadRequest}
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return domain.Session{}, err
	}

	id, err := a.storage.SaveUser(domain.User{
		Name:         strings.TrimSpace(reg.Name),
		Email:        strings.ToLower(strings.TrimSpace(reg.Email)),
		PassHash:     string(passHash),
		Organization: strings.TrimSpace(reg.Organization),
	})
	if err != nil {
		return domain.Session{}, err
	}
	logger.Log.Info("user registered", "user_id", id)
	return a.openSession(id)
}

// Login checks the credentials and opens a new session.
// A missing user and a wrong password produce the same 401 so existing
// accounts can't be probed.
func (a *Auth) Login(creds domain.Credentials) (domain.Session, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))

	user, err := a.storage.UserByEmail(email)
	if err != nil {
		if e, ok := err.(*errors.ErrorWithStatusCode); ok && e.StatusCode == http.StatusNotFound {
			return domain.Session{}, &errors.ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}
		}
		return domain.Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(creds.Password)); err != nil {
		logger.Log.Debug("password verification failed", "user_id", user.Id)
		return domain.Session{}, &errors.ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}
	}

	return a.openSession(user.Id)
}

func (a *Auth) openSession(userId domain.UserId) (domain.Session, error) {
	token, err := newSessionToken()
	if err != nil {
		logger.Log.Error("failed to generate session token", "error", err)
		return domain.Session{}, err
	}
	session := domain.Session{
		Token:     token,
		UserId:    userId,
		ExpiresAt: time.Now().UTC().Add(a.cfg.SessionTTL()),
	}
	if err := a.storage.SaveSession(session); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

func (a *Auth) Logout(token domain.SessionToken) error {
	return a.storage.DeleteSession(token)
}

// Authenticate resolves a session token to its user.
func (a *Auth) Authenticate(token domain.SessionToken) (domain.User, error) {
	return a.storage.UserBySession(token)
}

func (a *Auth) DeleteAccount(userId domain.UserId) error {
	if err := a.storage.DeleteUser(userId); err != nil {
		return err
	}
	logger.Log.Info("account deleted", "user_id", userId)
	return nil
}

func newSessionToken() (domain.SessionToken, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
