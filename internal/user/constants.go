package user

// MaxUsernameLength matches the users.username column
const MaxUsernameLength = 50

// Error messages
const (
	ErrMsgUsernameRequired = "username is required"
	ErrMsgUsernameTooLong  = "username is too long"
	ErrMsgCreateFailed     = "failed to create user: %w"
	ErrMsgGetFailed        = "failed to get user: %w"
)

// Log messages
const (
	LogMsgUserRegistered = "User registered"
)
