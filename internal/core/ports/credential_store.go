package ports

import (
	"context"

	"github.com/hdfops/field-console/internal/core/domain"
)

// RoleSource resolves role references for permission checks.
type RoleSource interface {
	RoleByID(id string) (domain.Role, bool)
}

// CredentialDirectory is the read/replace view of the credential store used
// by the directory API.
type CredentialDirectory interface {
	Users() []domain.User
	Roles() []domain.Role
	// ReplaceUsers is the in-process update signal: administrative screens
	// push a full replacement user list without a restart.
	ReplaceUsers(ctx context.Context, users []domain.User) error
}
