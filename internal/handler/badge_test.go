package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

func TestHandleEvaluateBadges(t *testing.T) {
	t.Run("Awarded", func(t *testing.T) {
		svc := &MockBadgeService{}
		svc.On("Evaluate", mock.Anything, testUserID).Return([]domain.AwardedBadge{
			{BadgeID: 1, Key: "first_steps", Name: "First Steps", RewardDiamonds: 50, EarnedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		}, nil)

		body := jsonBody(t, UserRequest{UserID: testUserID})
		w := httptest.NewRecorder()
		HandleEvaluateBadges(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/badges/evaluate", body))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"key":"first_steps"`)
	})

	t.Run("Nothing awarded is an empty list", func(t *testing.T) {
		svc := &MockBadgeService{}
		svc.On("Evaluate", mock.Anything, testUserID).Return(nil, nil)

		body := jsonBody(t, UserRequest{UserID: testUserID})
		w := httptest.NewRecorder()
		HandleEvaluateBadges(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/badges/evaluate", body))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"awarded":[]}`, w.Body.String())
	})
}

func TestHandleListBadges(t *testing.T) {
	svc := &MockBadgeService{}
	svc.On("List", mock.Anything, testUserID).Return([]domain.BadgeProgress{
		{BadgeID: 1, Key: "first_steps", Progress: 100, IsUnlocked: true, IsCompleted: true},
		{BadgeID: 2, Key: "climber", Progress: 20, IsUnlocked: true},
	}, nil)
	svc.On("List", mock.Anything, "ghost").Return(nil, domain.ErrUserNotFound)

	w := httptest.NewRecorder()
	HandleListBadges(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/badges?user_id="+testUserID, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"progress":20`)

	w = httptest.NewRecorder()
	HandleListBadges(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/badges?user_id=ghost", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
