package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/innosearch-dev/innosearch/internal/api"
	"github.com/innosearch-dev/innosearch/internal/domain"
	"github.com/innosearch-dev/innosearch/internal/middleware"
	"github.com/innosearch-dev/innosearch/internal/utils"
)

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.board.ListPosts()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	response := make([]api.PostSummaryResponse, 0, len(posts))
	for _, p := range posts {
		response = append(response, api.PostSummaryResponse{
			Id:        p.Id,
			Title:     p.Title,
			Author:    p.AuthorName,
			CreatedAt: p.CreatedAt,
		})
	}
	writeJSON(w, response)
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	var body api.CreatePostRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	id, err := h.board.CreatePost(domain.PostCreationData{
		Title:   body.Title,
		Content: body.Content,
		Author:  user.Id,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSONStatus(w, http.StatusCreated, map[string]domain.PostId{"id": id})
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(chi.URLParam(r, "id"), "post id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.board.GetPost(domain.PostId(id))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	user := middleware.GetUserFromContext(r)
	writeJSON(w, api.PostResponse{
		Id:        post.Id,
		Title:     post.Title,
		Content:   post.Content,
		Author:    post.AuthorName,
		CreatedAt: post.CreatedAt,
		Mine:      user != nil && user.Id == post.AuthorId,
	})
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(chi.URLParam(r, "id"), "post id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	comments, err := h.board.ListComments(domain.PostId(id))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	response := make([]api.CommentResponse, 0, len(comments))
	for _, c := range comments {
		response = append(response, commentResponse(c))
	}
	writeJSON(w, response)
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	id, err := parseIntParam(chi.URLParam(r, "id"), "post id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var body api.CreateCommentRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	comment, err := h.board.CreateComment(r.Context(), domain.PostId(id), user.Id, body.Content)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSONStatus(w, http.StatusCreated, commentResponse(comment))
}

func commentResponse(c domain.Comment) api.CommentResponse {
	return api.CommentResponse{
		Id:        c.Id,
		PostId:    c.PostId,
		Author:    domain.AnonLabel(c.AnonIndex),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}
