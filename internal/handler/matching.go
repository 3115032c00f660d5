package handler

import (
	"net/http"

	"github.com/innosearch-dev/innosearch/internal/api"
	"github.com/innosearch-dev/innosearch/internal/errors"
	"github.com/innosearch-dev/innosearch/internal/utils"
)

func (h *Handler) QuickSearch(w http.ResponseWriter, r *http.Request) {
	var body api.QuickSearchRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	names, total, err := h.search.QuickSearch(body.Keyword)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.QuickSearchResponse{
		Keyword:    body.Keyword,
		TotalCount: total,
		Results:    names,
	})
}

func (h *Handler) DetailedSearch(w http.ResponseWriter, r *http.Request) {
	var body api.DetailedSearchRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	results, err := h.search.DetailedSearch(body.Keyword, body.TechSubCategory)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.DetailedSearchResponse{Results: results})
}

func (h *Handler) TechByName(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	matches, err := h.search.FindByName(name)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if len(matches) == 0 {
		utils.WriteErrorAndStatusCode(w, &errors.ErrorWithStatusCode{
			Message: "기술을 찾을 수 없습니다.", StatusCode: http.StatusNotFound,
		})
		return
	}

	writeJSON(w, api.TechByNameResponse{Tech: matches[0], Others: matches[1:]})
}
