package middleware

// Context keys used to store request metadata.
const (
	ContextKeyRequestID  = "request_id"
	ContextKeyAdminEmail = "admin_email"
	ContextKeyAdminRole  = "admin_role"
)
