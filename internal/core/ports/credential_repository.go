package ports

import (
	"context"

	"github.com/hdfops/field-console/internal/core/domain"
)

// Persisted record keys. Change notifications carry one of these so
// consumers know which list to re-parse.
const (
	RecordUsers = "users"
	RecordRoles = "roles"
)

// CredentialChange is a cross-instance change notification for a persisted
// credential record: the key that changed and its new JSON value.
type CredentialChange struct {
	Key   string
	Value []byte
}

// CredentialRepository persists the JSON-encoded users, roles and
// current-session records and exposes a change feed for writes performed by
// other console instances.
type CredentialRepository interface {
	LoadUsers(ctx context.Context) ([]domain.User, error)
	SaveUsers(ctx context.Context, users []domain.User) error
	LoadRoles(ctx context.Context) ([]domain.Role, error)
	SaveRoles(ctx context.Context, roles []domain.Role) error

	SaveSession(ctx context.Context, user *domain.User) error
	ClearSession(ctx context.Context) error

	// Changes delivers change notifications until ctx is cancelled.
	// Writes made through this repository instance are not echoed back.
	Changes(ctx context.Context) (<-chan CredentialChange, error)
}
