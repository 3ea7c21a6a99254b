package handler

import (
	"net/http"

	"github.com/osse101/RewardEngine_Go/internal/activity"
	"github.com/osse101/RewardEngine_Go/internal/logger"
)

// CompleteActivityRequest is the body of POST /activities/complete
type CompleteActivityRequest struct {
	UserID     string `json:"user_id" validate:"required,uuid"`
	ActivityID string `json:"activity_id" validate:"required,max=100"`
	Score      int    `json:"score" validate:"gte=0,lte=100"`
	TimeSpent  int    `json:"time_spent" validate:"gte=0"`
}

// HandleCompleteActivity records an attempt and grants first-clear rewards.
// A daily limit hit on the diamonds is still a 200: experience was granted
// and the rejection is part of the grant.
// @Summary Complete an activity
// @Tags activities
// @Accept json
// @Produce json
// @Param request body CompleteActivityRequest true "Attempt"
// @Success 200 {object} domain.RewardGrant
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/activities/complete [post]
func HandleCompleteActivity(svc activity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CompleteActivityRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Complete activity"); err != nil {
			return
		}

		grant, err := svc.Complete(r.Context(), req.UserID, req.ActivityID, req.Score, req.TimeSpent)
		if err != nil {
			respondServiceError(w, r, "complete activity", err)
			return
		}

		for _, se := range grant.SideEffects {
			if !se.Success {
				logger.FromContext(r.Context()).Warn(LogMsgSideEffectsFailing,
					"activity_id", req.ActivityID, "side_effect", se.Name, "error", se.Error)
			}
		}
		respondJSON(w, http.StatusOK, grant)
	}
}
