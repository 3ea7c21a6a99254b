package handler

import (
	"net/http"
	"strings"

	"github.com/osse101/RewardEngine_Go/internal/diamond"
	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/ledger"
)

// EarnRequest is the body of the earn endpoint
type EarnRequest struct {
	UserID      string `json:"user_id" validate:"required,uuid"`
	Amount      int    `json:"amount" validate:"gt=0,lte=2147483647"`
	Source      string `json:"source" validate:"required,txtype,earnsource"`
	Description string `json:"description" validate:"max=255,nomarkup"`
	RelatedID   string `json:"related_id,omitempty" validate:"max=100"`
	RelatedType string `json:"related_type,omitempty" validate:"required_with=RelatedID,max=50"`
}

// SpendRequest is the body of the spend endpoint
type SpendRequest struct {
	UserID      string `json:"user_id" validate:"required,uuid"`
	Amount      int    `json:"amount" validate:"gt=0,lte=2147483647"`
	Source      string `json:"source" validate:"required,txtype,spendsource"`
	Description string `json:"description" validate:"max=255,nomarkup"`
	RelatedID   string `json:"related_id,omitempty" validate:"max=100"`
	RelatedType string `json:"related_type,omitempty" validate:"required_with=RelatedID,max=50"`
}

func serviceRequest(userID string, amount int, source, description, relatedID, relatedType string) diamond.Request {
	out := diamond.Request{
		UserID:      userID,
		Amount:      amount,
		Source:      domain.TransactionType(strings.ToUpper(source)),
		Description: description,
	}
	if relatedID != "" {
		out.Ref = &domain.Reference{ID: relatedID, Type: relatedType}
	}
	return out
}

func (req EarnRequest) toServiceRequest() diamond.Request {
	return serviceRequest(req.UserID, req.Amount, req.Source, req.Description, req.RelatedID, req.RelatedType)
}

func (req SpendRequest) toServiceRequest() diamond.Request {
	return serviceRequest(req.UserID, req.Amount, req.Source, req.Description, req.RelatedID, req.RelatedType)
}

// SetBalanceRequest is the body of the admin balance override
type SetBalanceRequest struct {
	UserID     string `json:"user_id" validate:"required,uuid"`
	NewBalance int    `json:"new_balance" validate:"gte=0,lte=2147483647"`
	Reason     string `json:"reason" validate:"required,max=255,nomarkup"`
}

// HandleGetBalance returns the caller's balance and daily allowance
// @Summary Get diamond balance
// @Tags diamonds
// @Produce json
// @Param user_id query string true "User ID"
// @Success 200 {object} domain.BalanceStatus
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/diamonds/balance [get]
func HandleGetBalance(svc diamond.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetQueryParam(r, w, ParamUserID)
		if !ok {
			return
		}
		status, err := svc.GetBalance(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, "get balance", err)
			return
		}
		respondJSON(w, http.StatusOK, status)
	}
}

// HandleEarn credits diamonds under the daily limit
// @Summary Earn diamonds
// @Description A daily limit hit answers 409 with limit, current and needed
// @Tags diamonds
// @Accept json
// @Produce json
// @Param request body EarnRequest true "Earn request"
// @Success 200 {object} domain.EarnResult
// @Failure 400 {object} ValidationErrorResponse
// @Failure 409 {object} RejectionResponse
// @Router /api/v1/diamonds/earn [post]
func HandleEarn(svc diamond.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EarnRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Earn diamonds"); err != nil {
			return
		}

		result, err := svc.Earn(r.Context(), req.toServiceRequest())
		if err != nil {
			respondServiceError(w, r, "earn diamonds", err)
			return
		}
		if !result.Applied && result.Rejection != nil {
			respondRejection(w, r, result.Rejection)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleSpend debits diamonds
// @Summary Spend diamonds
// @Description A balance shortfall answers 409 with current and needed
// @Tags diamonds
// @Accept json
// @Produce json
// @Param request body SpendRequest true "Spend request"
// @Success 200 {object} domain.SpendResult
// @Failure 400 {object} ValidationErrorResponse
// @Failure 409 {object} RejectionResponse
// @Router /api/v1/diamonds/spend [post]
func HandleSpend(svc diamond.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SpendRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Spend diamonds"); err != nil {
			return
		}

		result, err := svc.Spend(r.Context(), req.toServiceRequest())
		if err != nil {
			respondServiceError(w, r, "spend diamonds", err)
			return
		}
		if !result.Applied && result.Rejection != nil {
			respondRejection(w, r, result.Rejection)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleSetBalance overrides a balance and records the difference
// @Summary Set diamond balance
// @Tags admin
// @Accept json
// @Produce json
// @Param request body SetBalanceRequest true "New balance"
// @Success 200 {object} domain.AdjustResult
// @Failure 400 {object} ValidationErrorResponse
// @Router /api/v1/admin/diamonds/balance [post]
func HandleSetBalance(svc diamond.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SetBalanceRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Set balance"); err != nil {
			return
		}

		result, err := svc.SetBalance(r.Context(), req.UserID, req.NewBalance, req.Reason)
		if err != nil {
			respondServiceError(w, r, "set balance", err)
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

// HandleTransactions returns the newest ledger rows first
// @Summary Diamond transaction history
// @Tags diamonds
// @Produce json
// @Param user_id query string true "User ID"
// @Param limit query int false "Maximum rows"
// @Success 200 {array} domain.DiamondTransaction
// @Router /api/v1/diamonds/transactions [get]
func HandleTransactions(svc ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetQueryParam(r, w, ParamUserID)
		if !ok {
			return
		}
		limit, ok := GetOptionalIntQueryParam(r, w, ParamLimit, ledger.DefaultHistoryLimit)
		if !ok {
			return
		}

		rows, err := svc.History(r.Context(), userID, limit)
		if err != nil {
			respondServiceError(w, r, "transaction history", err)
			return
		}
		if rows == nil {
			rows = []domain.DiamondTransaction{}
		}
		respondJSON(w, http.StatusOK, rows)
	}
}

// HandleAudit compares a user's counters with their ledger
// @Summary Audit a balance against the ledger
// @Tags diamonds
// @Produce json
// @Param user_id query string true "User ID"
// @Success 200 {object} domain.AuditReport
// @Router /api/v1/diamonds/audit [get]
func HandleAudit(svc ledger.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetQueryParam(r, w, ParamUserID)
		if !ok {
			return
		}
		report, err := svc.Audit(r.Context(), userID)
		if err != nil {
			respondServiceError(w, r, "audit", err)
			return
		}
		respondJSON(w, http.StatusOK, report)
	}
}
