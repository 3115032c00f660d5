// Package handler contains the HTTP handlers for the API surface.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/innosearch-dev/innosearch/internal/config"
	"github.com/innosearch-dev/innosearch/internal/domain"
	"github.com/innosearch-dev/innosearch/internal/events"
	"github.com/innosearch-dev/innosearch/internal/logger"
	"github.com/innosearch-dev/innosearch/internal/service"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type SearchEngine interface {
	QuickSearch(keyword string) (names []string, total int, err error)
	DetailedSearch(keyword, subCategory string) ([]domain.TechMatch, error)
	FindByName(name string) ([]domain.TechMatch, error)
}

type EventsDirectory interface {
	Query(q events.Query) (*events.Result, error)
}

type Handler struct {
	auth   service.AuthService
	board  service.BoardService
	search SearchEngine
	events EventsDirectory
	health HealthChecker
	cfg    *config.Config
}

func New(auth service.AuthService, board service.BoardService, searchEngine SearchEngine, eventsDir EventsDirectory, health HealthChecker, cfg *config.Config) *Handler {
	return &Handler{auth: auth, board: board, search: searchEngine, events: eventsDir, health: health, cfg: cfg}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

func writeJSONStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

func parseIntParam(param, paramName string) (int, error) {
	val, err := strconv.Atoi(param)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be an integer", paramName)
	}
	return val, nil
}
