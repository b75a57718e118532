package domain

import "time"

// AuthEventKind classifies entries in the authentication audit trail.
type AuthEventKind string

const (
	AuthLoginSuccess AuthEventKind = "login_success"
	AuthLoginFailed  AuthEventKind = "login_failed"
	AuthLogout       AuthEventKind = "logout"
	AuthForcedLogout AuthEventKind = "forced_logout"
)

// AuthEvent records a single authentication outcome.
type AuthEvent struct {
	ID     string
	Kind   AuthEventKind
	Email  string
	UserID string
	Reason string
	At     time.Time
}
