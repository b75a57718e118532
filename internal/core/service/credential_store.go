package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hdfops/field-console/internal/core/domain"
	"github.com/hdfops/field-console/internal/core/ports"
)

// CredentialStore holds the authoritative in-memory users and roles, seeded
// fresh from the fixed defaults at every startup and kept in sync with
// writes made by other console instances.
type CredentialStore struct {
	repo ports.CredentialRepository
	log  zerolog.Logger

	mu    sync.RWMutex
	users []domain.User
	roles []domain.Role
}

func NewCredentialStore(repo ports.CredentialRepository, log zerolog.Logger) *CredentialStore {
	return &CredentialStore{repo: repo, log: log}
}

// Seed unconditionally overwrites the persisted users and roles records with
// the fixed defaults. Reset-on-start policy: whatever was persisted before is
// discarded, never merged.
func (s *CredentialStore) Seed(ctx context.Context) error {
	users := domain.DefaultUsers()
	roles := domain.DefaultRoles()

	if err := s.repo.SaveRoles(ctx, roles); err != nil {
		return err
	}
	if err := s.repo.SaveUsers(ctx, users); err != nil {
		return err
	}

	s.mu.Lock()
	s.users = users
	s.roles = roles
	s.mu.Unlock()

	s.log.Info().Int("users", len(users)).Int("roles", len(roles)).Msg("credential store seeded")
	return nil
}

// Users returns a copy of the current in-memory user snapshot.
func (s *CredentialStore) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, len(s.users))
	copy(out, s.users)
	return out
}

// Roles returns a copy of the current in-memory role snapshot.
func (s *CredentialStore) Roles() []domain.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Role, len(s.roles))
	copy(out, s.roles)
	return out
}

// RoleByID resolves a role from the in-memory snapshot.
func (s *CredentialStore) RoleByID(id string) (domain.Role, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.roles {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Role{}, false
}

// ReplaceUsers persists and adopts a full replacement user list. This is the
// in-process update path used by administrative screens.
func (s *CredentialStore) ReplaceUsers(ctx context.Context, users []domain.User) error {
	if err := s.repo.SaveUsers(ctx, users); err != nil {
		return err
	}
	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	return nil
}

// ApplyExternalChange adopts a changed persisted record announced by another
// instance. Malformed or non-list payloads revert the affected list to the
// fixed defaults rather than leaving stale or partial data in memory.
func (s *CredentialStore) ApplyExternalChange(key string, raw []byte) {
	switch key {
	case ports.RecordUsers:
		var users []domain.User
		if err := json.Unmarshal(raw, &users); err != nil || users == nil {
			s.log.Warn().Err(err).Str("key", key).Msg("malformed credential change, reverting to defaults")
			users = domain.DefaultUsers()
		}
		s.mu.Lock()
		s.users = users
		s.mu.Unlock()
	case ports.RecordRoles:
		var roles []domain.Role
		if err := json.Unmarshal(raw, &roles); err != nil || roles == nil {
			s.log.Warn().Err(err).Str("key", key).Msg("malformed credential change, reverting to defaults")
			roles = domain.DefaultRoles()
		}
		s.mu.Lock()
		s.roles = roles
		s.mu.Unlock()
	default:
		s.log.Debug().Str("key", key).Msg("ignoring change for unknown record")
	}
}

// Watch consumes the repository change feed until ctx is cancelled, routing
// each notification through ApplyExternalChange. Run it in its own goroutine.
func (s *CredentialStore) Watch(ctx context.Context) error {
	changes, err := s.repo.Changes(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			s.ApplyExternalChange(change.Key, change.Value)
		}
	}
}
