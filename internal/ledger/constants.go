package ledger

// Error messages
const (
	ErrMsgRecordFailed     = "failed to record ledger entry: %w"
	ErrMsgGetHistoryFailed = "failed to get ledger history: %w"
	ErrMsgGetTotalsFailed  = "failed to get ledger totals: %w"
	ErrMsgGetUserFailed    = "failed to get user: %w"
)

// Log messages
const (
	LogMsgAuditMismatch = "Ledger audit mismatch"
)

// History limits
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)
