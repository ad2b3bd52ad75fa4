package constants

// Session and context keys
const (
	ContextKeyUserID  = "user_id"
	SessionCookieName = "promanagex_session"
)

// Validation limits
const (
	MinPasswordLength = 8
)
