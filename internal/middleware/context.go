package middleware

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	requestIDKey contextKey = "request_id"
	csrfKey      contextKey = "csrf_token"
	flashesKey   contextKey = "flashes"
)
