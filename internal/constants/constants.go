package constants

// Session and context keys
const (
	SessionCookieName     = "disaster_session"
	ContextKeyUserID      = "user_id"
	ContextKeyCurrentUser = "current_user"
	ContextKeyRequestID   = "request_id"
	HeaderRequestID       = "X-Request-ID"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Auth
const (
	MinPasswordLength = 8
)

// Geographic and hazard bounds
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
	MinSeverity  = 1
	MaxSeverity  = 5
)
