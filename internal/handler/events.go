package handler

import (
	"net/http"

	"github.com/innosearch-dev/innosearch/internal/events"
	"github.com/innosearch-dev/innosearch/internal/utils"
)

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	q := events.Query{
		Region: query.Get("region"),
		Sort:   query.Get("sort"),
		Text:   query.Get("q"),
	}

	if raw := query.Get("page"); raw != "" {
		page, err := parseIntParam(raw, "page")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		q.Page = page
	}

	if raw := query.Get("pageSize"); raw != "" {
		pageSize, err := parseIntParam(raw, "pageSize")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		q.PageSize = pageSize
	} else if h.cfg.Public.EventsPageSize > 0 {
		q.PageSize = h.cfg.Public.EventsPageSize
	}

	result, err := h.events.Query(q)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, result)
}
