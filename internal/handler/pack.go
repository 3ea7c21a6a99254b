package handler

import (
	"net/http"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/pack"
	"github.com/osse101/RewardEngine_Go/internal/rarity"
)

// OpenPackRequest is the body of POST /packs/open
type OpenPackRequest struct {
	UserID   string `json:"user_id" validate:"required,uuid"`
	PackType string `json:"pack_type" validate:"required,max=50"`
}

// PackRatesResponse pairs a pack with the user's odds for its next card
type PackRatesResponse struct {
	Pack  domain.PackDefinition `json:"pack"`
	Rates *domain.RateSnapshot  `json:"rates"`
}

// HandleOpenPack buys and opens a pack
// @Summary Open a card pack
// @Description A balance shortfall answers 409 and charges nothing
// @Tags packs
// @Accept json
// @Produce json
// @Param request body OpenPackRequest true "Pack to open"
// @Success 200 {object} domain.PackOpening
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} RejectionResponse
// @Router /api/v1/packs/open [post]
func HandleOpenPack(svc pack.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OpenPackRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Open pack"); err != nil {
			return
		}

		opening, err := svc.Open(r.Context(), req.UserID, req.PackType)
		if err != nil {
			respondServiceError(w, r, "open pack", err)
			return
		}
		respondJSON(w, http.StatusOK, opening)
	}
}

// HandlePackRates reports the odds of the user's next draw from a pack
// @Summary Pack drop rates
// @Tags packs
// @Produce json
// @Param user_id query string true "User ID"
// @Param pack_type query string true "Pack type"
// @Success 200 {object} PackRatesResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/packs/rates [get]
func HandlePackRates(packs pack.Service, rates rarity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetQueryParam(r, w, ParamUserID)
		if !ok {
			return
		}
		packType, ok := GetQueryParam(r, w, ParamPackType)
		if !ok {
			return
		}

		var def *domain.PackDefinition
		for _, p := range packs.Packs() {
			if p.Type == packType {
				def = &p
				break
			}
		}
		if def == nil {
			respondServiceError(w, r, "pack rates", domain.ErrPackTypeNotFound)
			return
		}

		snapshot, err := rates.Rates(r.Context(), userID, packType)
		if err != nil {
			respondServiceError(w, r, "pack rates", err)
			return
		}
		respondJSON(w, http.StatusOK, PackRatesResponse{Pack: *def, Rates: snapshot})
	}
}
