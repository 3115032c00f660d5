package handler

import (
	"net/http"

	"github.com/innosearch-dev/innosearch/internal/api"
	"github.com/innosearch-dev/innosearch/internal/domain"
	"github.com/innosearch-dev/innosearch/internal/middleware"
	"github.com/innosearch-dev/innosearch/internal/utils"
)

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var body api.SignupRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	session, err := h.auth.Signup(domain.Registration{
		Name:            body.Name,
		Email:           body.Email,
		Password:        body.Password,
		PasswordConfirm: body.Password2,
		Organization:    body.Organization,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	// a fresh account is logged in immediately
	http.SetCookie(w, h.sessionCookie(session.Token, int(h.cfg.Public.SessionTTL().Seconds())))
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body api.LoginRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	session, err := h.auth.Login(domain.Credentials{Email: body.Email, Password: body.Password})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(session.Token, int(h.cfg.Public.SessionTTL().Seconds())))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("You logged in"))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil {
		if err := h.auth.Logout(cookie.Value); err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
	}

	http.SetCookie(w, h.sessionCookie("", -1))
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}
	writeJSON(w, api.UserResponse{
		Id:           user.Id,
		Name:         user.Name,
		Email:        user.Email,
		Organization: user.Organization,
	})
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	if err := h.auth.DeleteAccount(user.Id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	http.SetCookie(w, h.sessionCookie("", -1))
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Path:     "/",
		Name:     middleware.SessionCookie,
		Value:    value,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
