package domain

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestDefaultUsers_RolesResolve(t *testing.T) {
	roles := make(map[string]Role)
	for _, r := range DefaultRoles() {
		roles[r.ID] = r
	}

	for _, u := range DefaultUsers() {
		if _, ok := roles[u.RoleID]; !ok {
			t.Fatalf("user %s references unknown role %s", u.ID, u.RoleID)
		}
	}
}

func TestDefaultUsers_PasswordsVerify(t *testing.T) {
	known := map[string]string{
		"admin@hdf.com":      "admin123",
		"supervisor@hdf.com": "super123",
		"care@hdf.com":       "care123",
	}

	for _, u := range DefaultUsers() {
		password, ok := known[u.Email]
		if !ok {
			continue
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
			t.Fatalf("password for %s does not verify: %v", u.Email, err)
		}
	}
}

func TestDefaultRoles_PermissionSplit(t *testing.T) {
	var admin, supervisor Role
	for _, r := range DefaultRoles() {
		switch r.ID {
		case "role-admin":
			admin = r
		case "role-supervisor":
			supervisor = r
		}
	}

	if !admin.HasPermission("user_delete") {
		t.Fatalf("admin must hold user_delete")
	}
	if admin.HasPermission("visit_track") {
		t.Fatalf("visit_track belongs to supervisors, not admins")
	}
	if !supervisor.HasPermission("visit_track") {
		t.Fatalf("supervisor must hold visit_track")
	}
}

func TestDefaultUsers_ContainsInactiveOperator(t *testing.T) {
	inactive := 0
	for _, u := range DefaultUsers() {
		if !u.IsActive() {
			inactive++
		}
	}
	if inactive == 0 {
		t.Fatalf("the default set must include at least one inactive operator")
	}
}

func TestUser_EmailMatches(t *testing.T) {
	u := User{Email: "Admin@HDF.com"}
	if !u.EmailMatches("admin@hdf.COM") {
		t.Fatalf("email comparison must be case-insensitive")
	}
	if u.EmailMatches("other@hdf.com") {
		t.Fatalf("different addresses must not match")
	}
}
