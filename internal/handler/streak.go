package handler

import (
	"net/http"
	"strings"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/streak"
)

// StreakActivityRequest is the body of POST /streaks/activity
type StreakActivityRequest struct {
	UserID       string `json:"user_id" validate:"required,uuid"`
	ActivityType string `json:"activity_type" validate:"required,max=50"`
}

// UserRequest carries only the acting user
type UserRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// HandleRecordStreakActivity records today's activity for the login streak
// @Summary Record streak activity
// @Tags streaks
// @Accept json
// @Produce json
// @Param request body StreakActivityRequest true "Activity"
// @Success 200 {object} domain.StreakResult
// @Router /api/v1/streaks/activity [post]
func HandleRecordStreakActivity(svc streak.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StreakActivityRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Record streak activity"); err != nil {
			return
		}

		activityType := domain.ActivityType(strings.ToUpper(req.ActivityType))
		result, err := svc.RecordActivity(r.Context(), req.UserID, activityType)
		if err != nil {
			respondServiceError(w, r, "record streak activity", err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleStreakStatus returns the streak and its milestones
// @Summary Streak status
// @Tags streaks
// @Produce json
// @Param user_id query string true "User ID"
// @Success 200 {object} domain.StreakStatus
// @Router /api/v1/streaks/status [get]
func HandleStreakStatus(svc streak.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetQueryParam(r, w, ParamUserID)
		if !ok {
			return
		}
		status, err := svc.Status(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, "streak status", err)
			return
		}
		respondJSON(w, http.StatusOK, status)
	}
}

// HandleClaimDailyLogin pays today's login reward
// @Summary Claim daily login reward
// @Description A second claim on the same day answers 409
// @Tags daily-login
// @Accept json
// @Produce json
// @Param request body UserRequest true "User"
// @Success 200 {object} domain.DailyLoginResult
// @Failure 409 {object} RejectionResponse
// @Router /api/v1/daily-login/claim [post]
func HandleClaimDailyLogin(svc streak.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UserRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Claim daily login"); err != nil {
			return
		}

		result, err := svc.ClaimDailyLogin(r.Context(), req.UserID)
		if err != nil {
			respondServiceError(w, r, "claim daily login", err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleDailyLoginStatus returns the 7-day cycle and today's claim state
// @Summary Daily login status
// @Tags daily-login
// @Produce json
// @Param user_id query string true "User ID"
// @Success 200 {object} domain.DailyLoginStatus
// @Router /api/v1/daily-login/status [get]
func HandleDailyLoginStatus(svc streak.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetQueryParam(r, w, ParamUserID)
		if !ok {
			return
		}
		status, err := svc.DailyLoginStatus(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, "daily login status", err)
			return
		}
		respondJSON(w, http.StatusOK, status)
	}
}
