package handler

// Generic HTTP error messages for client responses.
// These messages do not expose internal error details.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingQueryParam     = "Missing %s query parameter"
	ErrMsgInvalidQueryParam     = "Invalid %s query parameter"
)

// User-facing messages for service errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUserNotFoundError   = "User not found"
	ErrMsgUsernameTakenError  = "Username is already taken"
	ErrMsgActivityNotFoundErr = "Activity not found"
	ErrMsgPackNotFoundError   = "Unknown pack type"
	ErrMsgBadgeNotFoundError  = "Badge not found"
	ErrMsgAlreadyRecordedErr  = "Already recorded today"
)

// Query parameter names
const (
	ParamUserID   = "user_id"
	ParamLimit    = "limit"
	ParamPackType = "pack_type"
	ParamType     = "type"
	ParamID       = "id"
)

// Readiness
const (
	ReadyCheckTimeoutSeconds = 2
	HealthStatusOK           = "ok"
	HealthStatusUnavailable  = "unavailable"
	HealthMsgDatabaseDown    = "database connection failed"
)

// Log messages
const (
	LogMsgDecodeFailed       = "Failed to decode request"
	LogMsgRequestDecoded     = "Request decoded"
	LogMsgValidationFailed   = "Request validation failed"
	LogMsgServiceError       = "Service call failed"
	LogMsgRejected           = "Request rejected by business rule"
	LogMsgEncodeFailed       = "Failed to encode JSON response"
	LogMsgWriteFailed        = "Failed to write response buffer"
	LogMsgReadinessFailed    = "Readiness check failed"
	LogMsgMissingQueryParam  = "Missing query parameter"
	LogMsgInvalidQueryParam  = "Invalid query parameter"
	LogMsgSideEffectsFailing = "Reward granted with failed side effects"
)
