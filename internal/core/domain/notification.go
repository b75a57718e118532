package domain

import "time"

// Severity is the display level of a user-visible notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Notification codes emitted by the session subsystem.
const (
	NoteLoginSuccess   = "login_success"
	NoteLoginFailed    = "login_failed"
	NoteLoginBlocked   = "login_blocked"
	NoteLogout         = "logout"
	NoteSecurityLogout = "security_logout"
)

// Notification is a fire-and-forget, toast-style message for the console
// operator. Delivery is best effort and never blocks the caller.
type Notification struct {
	Severity Severity  `json:"severity"`
	Code     string    `json:"code"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
}
