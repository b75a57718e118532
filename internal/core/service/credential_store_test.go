package service

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hdfops/field-console/internal/core/domain"
	"github.com/hdfops/field-console/internal/core/ports"
)

// memRepo is an in-memory ports.CredentialRepository shared by the service
// tests in this package.
type memRepo struct {
	mu        sync.Mutex
	users     []domain.User
	roles     []domain.Role
	session   *domain.User
	loadCalls int
	failLoad  bool
	failSave  bool
}

func cloneUsers(users []domain.User) []domain.User {
	out := make([]domain.User, len(users))
	copy(out, users)
	return out
}

func (r *memRepo) LoadUsers(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadCalls++
	if r.failLoad {
		return nil, context.DeadlineExceeded
	}
	return cloneUsers(r.users), nil
}

func (r *memRepo) SaveUsers(_ context.Context, users []domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSave {
		return context.DeadlineExceeded
	}
	r.users = cloneUsers(users)
	return nil
}

func (r *memRepo) LoadRoles(_ context.Context) ([]domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Role, len(r.roles))
	copy(out, r.roles)
	return out, nil
}

func (r *memRepo) SaveRoles(_ context.Context, roles []domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Role, len(roles))
	copy(out, roles)
	r.roles = out
	return nil
}

func (r *memRepo) SaveSession(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *user
	r.session = &clone
	return nil
}

func (r *memRepo) ClearSession(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session = nil
	return nil
}

func (r *memRepo) Changes(_ context.Context) (<-chan ports.CredentialChange, error) {
	ch := make(chan ports.CredentialChange)
	close(ch)
	return ch, nil
}

func (r *memRepo) storedUsers() []domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneUsers(r.users)
}

func (r *memRepo) storedSession() *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return nil
	}
	clone := *r.session
	return &clone
}

func newSeededStore(t *testing.T) (*CredentialStore, *memRepo) {
	t.Helper()
	repo := &memRepo{}
	store := NewCredentialStore(repo, zerolog.Nop())
	if err := store.Seed(context.Background()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return store, repo
}

func TestCredentialStore_Seed_OverwritesPersisted(t *testing.T) {
	repo := &memRepo{
		users: []domain.User{{ID: "stale-001", Email: "stale@hdf.com"}},
		roles: []domain.Role{{ID: "role-stale"}},
	}
	store := NewCredentialStore(repo, zerolog.Nop())

	if err := store.Seed(context.Background()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	defaults := domain.DefaultUsers()
	stored := repo.storedUsers()
	if len(stored) != len(defaults) {
		t.Fatalf("expected %d persisted users, got %d", len(defaults), len(stored))
	}
	for _, u := range stored {
		if u.ID == "stale-001" {
			t.Fatalf("stale user survived reseed")
		}
	}
	if len(store.Users()) != len(defaults) {
		t.Fatalf("in-memory snapshot not refreshed")
	}
}

func TestCredentialStore_ApplyExternalChange_AdoptsValidList(t *testing.T) {
	store, _ := newSeededStore(t)

	raw := []byte(`[{"id":"ops-009","full_name":"New Operator","email":"ops9@hdf.com","role_id":"role-care","status":"active"}]`)
	store.ApplyExternalChange(ports.RecordUsers, raw)

	users := store.Users()
	if len(users) != 1 || users[0].ID != "ops-009" {
		t.Fatalf("replacement list not adopted: %+v", users)
	}
}

func TestCredentialStore_ApplyExternalChange_MalformedRevertsToDefaults(t *testing.T) {
	cases := map[string]string{
		"garbage":  `{{{not json`,
		"null":     `null`,
		"non-list": `{"users":"nope"}`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			store, _ := newSeededStore(t)
			// Shrink the list first so a revert is observable.
			store.ApplyExternalChange(ports.RecordUsers, []byte(`[{"id":"only-one","email":"one@hdf.com","role_id":"role-care","status":"active"}]`))

			store.ApplyExternalChange(ports.RecordUsers, []byte(payload))

			users := store.Users()
			if len(users) != len(domain.DefaultUsers()) {
				t.Fatalf("expected default list, got %d users", len(users))
			}
			found := false
			for _, u := range users {
				if u.ID == "admin-001" {
					found = true
				}
			}
			if !found {
				t.Fatalf("defaults missing admin-001 after revert")
			}
		})
	}
}

func TestCredentialStore_ApplyExternalChange_MalformedRolesRevert(t *testing.T) {
	store, _ := newSeededStore(t)

	store.ApplyExternalChange(ports.RecordRoles, []byte(`not a role list`))

	if len(store.Roles()) != len(domain.DefaultRoles()) {
		t.Fatalf("roles did not revert to defaults")
	}
	if _, ok := store.RoleByID("role-admin"); !ok {
		t.Fatalf("role-admin missing after revert")
	}
}

func TestCredentialStore_ApplyExternalChange_UnknownKeyIgnored(t *testing.T) {
	store, _ := newSeededStore(t)
	before := len(store.Users())

	store.ApplyExternalChange("current_session", []byte(`whatever`))

	if len(store.Users()) != before {
		t.Fatalf("unrelated key mutated the user list")
	}
}

func TestCredentialStore_ReplaceUsers_PersistsAndAdopts(t *testing.T) {
	store, repo := newSeededStore(t)

	replacement := []domain.User{
		{ID: "ops-100", Email: "ops100@hdf.com", RoleID: "role-care", Status: domain.StatusActive},
		{ID: "ops-101", Email: "ops101@hdf.com", RoleID: "role-care", Status: domain.StatusInactive},
	}
	if err := store.ReplaceUsers(context.Background(), replacement); err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	if len(store.Users()) != 2 {
		t.Fatalf("in-memory list not replaced")
	}
	if len(repo.storedUsers()) != 2 {
		t.Fatalf("persisted list not replaced")
	}
}

func TestCredentialStore_RoleByID(t *testing.T) {
	store, _ := newSeededStore(t)

	role, ok := store.RoleByID("role-supervisor")
	if !ok {
		t.Fatalf("expected role-supervisor")
	}
	if !role.HasPermission("visit_track") {
		t.Fatalf("supervisor should carry visit_track")
	}

	if _, ok := store.RoleByID("role-ghost"); ok {
		t.Fatalf("unexpected role resolution")
	}
}
