package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/logger"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// RejectionResponse is returned with 409 when a business rule turns the
// request down. Limit, current and needed let the client explain why.
type RejectionResponse struct {
	Error   string                 `json:"error"`
	Reason  domain.RejectionReason `json:"reason"`
	Limit   int                    `json:"limit,omitempty"`
	Current int                    `json:"current"`
	Needed  int                    `json:"needed"`
}

func newRejectionResponse(rej *domain.Rejection) RejectionResponse {
	return RejectionResponse{
		Error:   rej.Error(),
		Reason:  rej.Reason,
		Limit:   rej.Limit,
		Current: rej.Current,
		Needed:  rej.Needed,
	}
}

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 512))
	},
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	// Encode first so an encoding failure can still produce a 500
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error(LogMsgEncodeFailed, "error", err)
		http.Error(w, ErrMsgGenericServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondRejection sends a 409 with the rejection detail
func respondRejection(w http.ResponseWriter, r *http.Request, rej *domain.Rejection) {
	logger.FromContext(r.Context()).Info(LogMsgRejected,
		"reason", rej.Reason, "limit", rej.Limit, "current", rej.Current, "needed", rej.Needed)
	respondJSON(w, http.StatusConflict, newRejectionResponse(rej))
}

// respondServiceError logs err and writes the status its domain error maps to.
// Storage and unknown errors never leak their text.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	var rej *domain.Rejection
	if errors.As(err, &rej) {
		respondRejection(w, r, rej)
		return
	}

	status, msg := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(LogMsgServiceError, "operation", opName, "error", err)
	} else {
		log.Warn(LogMsgServiceError, "operation", opName, "error", err)
	}
	respondError(w, status, msg)
}

// mapServiceErrorToUserMessage maps domain errors to an HTTP status and a
// message users can act upon
func mapServiceErrorToUserMessage(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrMsgUserNotFoundError
	case errors.Is(err, domain.ErrActivityNotFound):
		return http.StatusNotFound, ErrMsgActivityNotFoundErr
	case errors.Is(err, domain.ErrPackTypeNotFound):
		return http.StatusNotFound, ErrMsgPackNotFoundError
	case errors.Is(err, domain.ErrBadgeNotFound):
		return http.StatusNotFound, ErrMsgBadgeNotFoundError
	case errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusConflict, ErrMsgUsernameTakenError
	case errors.Is(err, domain.ErrAlreadyRecorded):
		return http.StatusConflict, ErrMsgAlreadyRecordedErr
	case errors.Is(err, domain.ErrInvalidInput):
		// Validation messages are written for users
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, ErrMsgGenericServerError
}
