package handler

import (
	"net/http"

	"github.com/osse101/RewardEngine_Go/internal/badge"
	"github.com/osse101/RewardEngine_Go/internal/domain"
)

// EvaluateBadgesResponse lists the badges completed by one evaluation
type EvaluateBadgesResponse struct {
	Awarded []domain.AwardedBadge `json:"awarded"`
}

// HandleEvaluateBadges refreshes badge progress and pays completed badges
// @Summary Evaluate badges
// @Tags badges
// @Accept json
// @Produce json
// @Param request body UserRequest true "User"
// @Success 200 {object} EvaluateBadgesResponse
// @Router /api/v1/badges/evaluate [post]
func HandleEvaluateBadges(svc badge.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UserRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Evaluate badges"); err != nil {
			return
		}

		awarded, err := svc.Evaluate(r.Context(), req.UserID)
		if err != nil {
			respondServiceError(w, r, "evaluate badges", err)
			return
		}
		if awarded == nil {
			awarded = []domain.AwardedBadge{}
		}
		respondJSON(w, http.StatusOK, EvaluateBadgesResponse{Awarded: awarded})
	}
}

// HandleListBadges returns progress on every active badge
// @Summary List badges
// @Tags badges
// @Produce json
// @Param user_id query string true "User ID"
// @Success 200 {array} domain.BadgeProgress
// @Router /api/v1/badges [get]
func HandleListBadges(svc badge.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetQueryParam(r, w, ParamUserID)
		if !ok {
			return
		}
		list, err := svc.List(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, "list badges", err)
			return
		}
		if list == nil {
			list = []domain.BadgeProgress{}
		}
		respondJSON(w, http.StatusOK, list)
	}
}
