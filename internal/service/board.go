package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/innosearch-dev/innosearch/internal/domain"
	"github.com/innosearch-dev/innosearch/internal/errors"
)

const (
	maxTitleLen   = 200
	maxContentLen = 20000
)

type BoardService interface {
	CreatePost(data domain.PostCreationData) (domain.PostId, error)
	GetPost(id domain.PostId) (domain.Post, error)
	ListPosts() ([]domain.PostMetadata, error)
	CreateComment(ctx context.Context, postId domain.PostId, authorId domain.UserId, content string) (domain.Comment, error)
	ListComments(postId domain.PostId) ([]domain.Comment, error)
}

type BoardStorage interface {
	CreatePost(data domain.PostCreationData) (domain.PostId, error)
	GetPost(id domain.PostId) (domain.Post, error)
	ListPosts() ([]domain.PostMetadata, error)
	CreateComment(ctx context.Context, postId domain.PostId, authorId domain.UserId, content string) (domain.Comment, error)
	ListComments(postId domain.PostId) ([]domain.Comment, error)
}

type Board struct {
	storage  BoardStorage
	sanitize *bluemonday.Policy
}

func NewBoard(storage BoardStorage) *Board {
	// posts and comments are plain text, so any markup gets stripped
	return &Board{storage: storage, sanitize: bluemonday.StrictPolicy()}
}

func (b *Board) CreatePost(data domain.PostCreationData) (domain.PostId, error) {
	data.Title = strings.TrimSpace(b.sanitize.Sanitize(data.Title))
	data.Content = strings.TrimSpace(b.sanitize.Sanitize(data.Content))
	if data.Title == "" || data.Content == "" {
		return 0, &errors.ErrorWithStatusCode{Message: "제목과 내용을 입력해주세요.", StatusCode: http.StatusBadRequest}
	}
	if len(data.Title) > maxTitleLen {
		return 0, &errors.ErrorWithStatusCode{Message: "제목이 너무 깁니다.", StatusCode: http.StatusBadRequest}
	}
	if len(data.Content) > maxContentLen {
		return 0, &errors.ErrorWithStatusCode{Message: "내용이 너무 깁니다.", StatusCode: http.StatusBadRequest}
	}
	return b.storage.CreatePost(data)
}

func (b *Board) GetPost(id domain.PostId) (domain.Post, error) {
	return b.storage.GetPost(id)
}

func (b *Board) ListPosts() ([]domain.PostMetadata, error) {
	return b.storage.ListPosts()
}

func (b *Board) CreateComment(ctx context.Context, postId domain.PostId, authorId domain.UserId, content string) (domain.Comment, error) {
	content = strings.TrimSpace(b.sanitize.Sanitize(content))
	if content == "" {
		return domain.Comment{}, &errors.ErrorWithStatusCode{Message: "댓글 내용을 입력해주세요.", StatusCode: http.StatusBadRequest}
	}
	if len(content) > maxContentLen {
		return domain.Comment{}, &errors.ErrorWithStatusCode{Message: "댓글이 너무 깁니다.", StatusCode: http.StatusBadRequest}
	}
	return b.storage.CreateComment(ctx, postId, authorId, content)
}

func (b *Board) ListComments(postId domain.PostId) ([]domain.Comment, error) {
	return b.storage.ListComments(postId)
}
