package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

var testPacks = []domain.PackDefinition{
	{Type: "standard", DisplayName: "Standard Pack", Cost: 100, CardCount: 5},
	{Type: "premium", DisplayName: "Premium Pack", Cost: 300, CardCount: 5},
}

func TestHandleOpenPack(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &MockPackService{}
		svc.On("Open", mock.Anything, testUserID, "standard").Return(&domain.PackOpening{
			PackType:    "standard",
			Cards:       []domain.Card{{ID: 1, Name: "Owl", Rarity: domain.RarityRare}},
			RarityCount: map[domain.Rarity]int{domain.RarityRare: 1},
			SpecialEffects: domain.SpecialEffects{
				CelebrationLevel: domain.CelebrationRare,
			},
			TotalValue: 25,
			NewBalance: 0,
		}, nil)

		body := jsonBody(t, OpenPackRequest{UserID: testUserID, PackType: "standard"})
		w := httptest.NewRecorder()
		HandleOpenPack(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/packs/open", body))

		require.Equal(t, http.StatusOK, w.Code)
		var got domain.PackOpening
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 1, got.RarityCount[domain.RarityRare])
		assert.Equal(t, domain.CelebrationRare, got.SpecialEffects.CelebrationLevel)
	})

	t.Run("Insufficient balance", func(t *testing.T) {
		svc := &MockPackService{}
		svc.On("Open", mock.Anything, testUserID, "premium").Return(nil,
			&domain.Rejection{Reason: domain.RejectionInsufficientBalance, Current: 120, Needed: 300})

		body := jsonBody(t, OpenPackRequest{UserID: testUserID, PackType: "premium"})
		w := httptest.NewRecorder()
		HandleOpenPack(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/packs/open", body))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), `"needed":300`)
	})

	t.Run("Unknown pack", func(t *testing.T) {
		svc := &MockPackService{}
		svc.On("Open", mock.Anything, testUserID, "mythic").Return(nil, domain.ErrPackTypeNotFound)

		body := jsonBody(t, OpenPackRequest{UserID: testUserID, PackType: "mythic"})
		w := httptest.NewRecorder()
		HandleOpenPack(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/packs/open", body))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandlePackRates(t *testing.T) {
	packs := &MockPackService{}
	packs.On("Packs").Return(testPacks)

	t.Run("Success", func(t *testing.T) {
		legendary := domain.RarityLegendary
		rates := &MockRarityService{}
		rates.On("Rates", mock.Anything, testUserID, "premium").Return(&domain.RateSnapshot{
			PackType:   "premium",
			Guaranteed: &legendary,
			Rates:      map[domain.Rarity]float64{domain.RarityLegendary: 100},
		}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/packs/rates?pack_type=premium&user_id="+testUserID, nil)
		HandlePackRates(packs, rates).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var got PackRatesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 300, got.Pack.Cost)
		require.NotNil(t, got.Rates.Guaranteed)
		assert.Equal(t, domain.RarityLegendary, *got.Rates.Guaranteed)
	})

	t.Run("Unknown pack", func(t *testing.T) {
		rates := &MockRarityService{}
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/packs/rates?pack_type=mythic&user_id="+testUserID, nil)
		HandlePackRates(packs, rates).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		rates.AssertNotCalled(t, "Rates", mock.Anything, mock.Anything, mock.Anything)
	})
}
