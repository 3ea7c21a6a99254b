package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/RewardEngine_Go/internal/user"
)

// RegisterUserRequest is the body of POST /users
type RegisterUserRequest struct {
	Username  string `json:"username" validate:"required,max=50,excludesall=\x00\n\r\t,nomarkup"`
	IsPremium bool   `json:"is_premium"`
}

// HandleRegisterUser creates a user
// @Summary Register user
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterUserRequest true "New user"
// @Success 201 {object} domain.User
// @Failure 400 {object} ValidationErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/users [post]
func HandleRegisterUser(svc user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterUserRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Register user"); err != nil {
			return
		}

		u, err := svc.Register(r.Context(), req.Username, req.IsPremium)
		if err != nil {
			respondServiceError(w, r, "register user", err)
			return
		}
		respondJSON(w, http.StatusCreated, u)
	}
}

// HandleGetUser returns a user's profile with today's allowance
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} user.Profile
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/users/{id} [get]
func HandleGetUser(svc user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, ParamID)
		profile, err := svc.Get(r.Context(), id)
		if err != nil {
			respondServiceError(w, r, "get user", err)
			return
		}
		respondJSON(w, http.StatusOK, profile)
	}
}
