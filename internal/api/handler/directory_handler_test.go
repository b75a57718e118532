package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hdfops/field-console/internal/core/domain"
)

type stubDirectory struct {
	users    []domain.User
	roles    []domain.Role
	replaced []domain.User
}

func (s *stubDirectory) Users() []domain.User { return s.users }
func (s *stubDirectory) Roles() []domain.Role { return s.roles }

func (s *stubDirectory) ReplaceUsers(_ context.Context, users []domain.User) error {
	s.replaced = users
	return nil
}

func TestDirectoryHandler_ListUsers(t *testing.T) {
	e := echo.New()
	store := &stubDirectory{users: []domain.User{
		{ID: "admin-001", Email: "admin@hdf.com", PasswordHash: "bcrypt-secret", RoleID: "role-admin", Status: domain.StatusActive},
	}}
	handler := NewDirectoryHandler(store, zerolog.Nop())

	c, rec := newTestContext(e, http.MethodGet, "/v1/users", "")

	if err := handler.ListUsers(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var views []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(views) != 1 || views[0]["id"] != "admin-001" {
		t.Fatalf("unexpected payload: %+v", views)
	}
	if _, leaked := views[0]["password_hash"]; leaked {
		t.Fatalf("password hash leaked into the listing")
	}
}

func TestDirectoryHandler_ListRoles(t *testing.T) {
	e := echo.New()
	store := &stubDirectory{roles: domain.DefaultRoles()}
	handler := NewDirectoryHandler(store, zerolog.Nop())

	c, rec := newTestContext(e, http.MethodGet, "/v1/roles", "")

	if err := handler.ListRoles(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var views []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(views) != len(domain.DefaultRoles()) {
		t.Fatalf("expected %d roles, got %d", len(domain.DefaultRoles()), len(views))
	}
}

func TestDirectoryHandler_ReplaceUsers(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	store := &stubDirectory{}
	handler := NewDirectoryHandler(store, zerolog.Nop())

	body := `{"users":[{"id":"ops-001","full_name":"Ops One","email":"ops1@hdf.com","password_hash":"h","role_id":"role-care","status":"active"}]}`
	c, rec := newTestContext(e, http.MethodPut, "/v1/users", body)

	if err := handler.ReplaceUsers(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(store.replaced) != 1 || store.replaced[0].ID != "ops-001" {
		t.Fatalf("replacement not forwarded: %+v", store.replaced)
	}
}

func TestDirectoryHandler_ReplaceUsers_Invalid(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	store := &stubDirectory{}
	handler := NewDirectoryHandler(store, zerolog.Nop())

	cases := map[string]string{
		"empty list":     `{"users":[]}`,
		"missing id":     `{"users":[{"full_name":"x","email":"x@hdf.com","password_hash":"h","role_id":"r","status":"active"}]}`,
		"invalid status": `{"users":[{"id":"u","full_name":"x","email":"x@hdf.com","password_hash":"h","role_id":"r","status":"paused"}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, rec := newTestContext(e, http.MethodPut, "/v1/users", body)

			if err := handler.ReplaceUsers(c); err != nil {
				e.HTTPErrorHandler(err, c)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if store.replaced != nil {
				t.Fatalf("invalid payload reached the store")
			}
		})
	}
}
