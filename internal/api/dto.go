package api

import (
	"time"

	"github.com/innosearch-dev/innosearch/internal/domain"
)

// Request DTOs

type SignupRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required"`
	Password2    string `json:"password2" validate:"required"`
	Organization string `json:"organization,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreatePostRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

type QuickSearchRequest struct {
	Keyword string `json:"keyword" validate:"required"`
}

type DetailedSearchRequest struct {
	Keyword         string `json:"keyword,omitempty"`
	TechSubCategory string `json:"techSubCategory,omitempty"`
}

// Response DTOs

type UserResponse struct {
	Id           domain.UserId `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Organization string        `json:"organization,omitempty"`
}

type PostSummaryResponse struct {
	Id        domain.PostId `json:"id"`
	Title     string        `json:"title"`
	Author    string        `json:"author"`
	CreatedAt time.Time     `json:"created_at"`
}

type PostResponse struct {
	Id        domain.PostId `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Author    string        `json:"author"`
	CreatedAt time.Time     `json:"created_at"`
	Mine      bool          `json:"mine"` // whether the requester wrote it
}

// CommentResponse never carries the author's user id; only the per-post
// anonymous label is exposed.
type CommentResponse struct {
	Id        domain.CommentId `json:"id"`
	PostId    domain.PostId    `json:"post_id"`
	Author    string           `json:"author"` // "익명N"
	Content   string           `json:"content"`
	CreatedAt time.Time        `json:"created_at"`
}

type QuickSearchResponse struct {
	Keyword    string   `json:"keyword"`
	TotalCount int      `json:"totalCount"`
	Results    []string `json:"results"`
}

type DetailedSearchResponse struct {
	Results []domain.TechMatch `json:"results"`
}

type TechByNameResponse struct {
	Tech   domain.TechMatch   `json:"tech"`
	Others []domain.TechMatch `json:"others,omitempty"`
}
