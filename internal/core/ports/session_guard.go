package ports

import (
	"context"

	"github.com/hdfops/field-console/internal/core/domain"
)

// SessionGuard authenticates operators and exposes the single active session.
type SessionGuard interface {
	// Login authenticates by email (case-insensitive) and password. The
	// location capability must be available or the attempt is rejected
	// before credentials are read.
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	// Logout clears the session. Calling it without an active session is a
	// no-op apart from stopping monitors.
	Logout(ctx context.Context)
	// HasPermission reports whether the active session's role carries the
	// permission tag. Always false without a session or with an
	// unresolvable role.
	HasPermission(tag string) bool
	// Current returns a copy of the active session user, or nil.
	Current() *domain.User
}
