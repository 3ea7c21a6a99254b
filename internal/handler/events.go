package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/RewardEngine_Go/internal/eventlog"
)

// HandleUserEvents returns a user's reward feed, newest first
// @Summary User event feed
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Param type query string false "Comma separated event types, e.g. pack.opened,badge.awarded"
// @Param limit query int false "Max entries"
// @Success 200 {array} eventlog.Entry
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/users/{id}/events [get]
func HandleUserEvents(feed eventlog.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, ParamID)

		limit, ok := GetOptionalIntQueryParam(r, w, ParamLimit, eventlog.DefaultQueryLimit)
		if !ok {
			return
		}

		var types []string
		if raw := r.URL.Query().Get(ParamType); raw != "" {
			for _, t := range strings.Split(raw, ",") {
				if t = strings.TrimSpace(t); t != "" {
					types = append(types, t)
				}
			}
		}

		entries, err := feed.UserFeed(r.Context(), id, types, limit)
		if err != nil {
			respondServiceError(w, r, "user events", err)
			return
		}
		respondJSON(w, http.StatusOK, entries)
	}
}
