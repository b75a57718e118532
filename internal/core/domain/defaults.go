package domain

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Seed timestamp shared by all default records so reseeding is stable.
var seedTime = time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)

// DefaultRoles returns the fixed role set the store is reseeded with on
// every startup.
func DefaultRoles() []Role {
	return []Role{
		{
			ID:          "role-admin",
			Name:        "Administrator",
			Description: "Full access to console administration",
			Permissions: []string{
				"user_create", "user_read", "user_update", "user_delete",
				"role_read", "role_manage",
				"template_manage", "message_send",
				"report_view",
			},
			Active:    true,
			CreatedAt: seedTime,
			UpdatedAt: seedTime,
		},
		{
			ID:          "role-supervisor",
			Name:        "Field Supervisor",
			Description: "Field operations oversight and visit tracking",
			Permissions: []string{
				"user_read",
				"visit_track", "visit_assign",
				"report_view",
			},
			Active:    true,
			CreatedAt: seedTime,
			UpdatedAt: seedTime,
		},
		{
			ID:          "role-care",
			Name:        "Customer Care Agent",
			Description: "Customer messaging console access",
			Permissions: []string{
				"message_send", "message_read", "template_read",
			},
			Active:    true,
			CreatedAt: seedTime,
			UpdatedAt: seedTime,
		},
	}
}

// DefaultUsers returns the fixed operator accounts. Password hashes are
// generated per call, so reseeding rotates hashes but not passwords.
//
// Default credentials:
//
//	admin@hdf.com      / admin123  (Administrator)
//	supervisor@hdf.com / super123  (Field Supervisor)
//	care@hdf.com       / care123   (Customer Care Agent)
//	archive@hdf.com    / care123   (inactive, cannot log in)
func DefaultUsers() []User {
	return []User{
		{
			ID:           "admin-001",
			FullName:     "HDF Administrator",
			Email:        "admin@hdf.com",
			PasswordHash: mustHash("admin123"),
			RoleID:       "role-admin",
			Status:       StatusActive,
			CreatedAt:    seedTime,
			UpdatedAt:    seedTime,
		},
		{
			ID:           "sup-001",
			FullName:     "Field Supervisor",
			Email:        "supervisor@hdf.com",
			PasswordHash: mustHash("super123"),
			RoleID:       "role-supervisor",
			Status:       StatusActive,
			CreatedAt:    seedTime,
			UpdatedAt:    seedTime,
		},
		{
			ID:           "care-001",
			FullName:     "Care Agent",
			Email:        "care@hdf.com",
			PasswordHash: mustHash("care123"),
			RoleID:       "role-care",
			Status:       StatusActive,
			CreatedAt:    seedTime,
			UpdatedAt:    seedTime,
		},
		{
			ID:           "care-002",
			FullName:     "Archived Care Agent",
			Email:        "archive@hdf.com",
			PasswordHash: mustHash("care123"),
			RoleID:       "role-care",
			Status:       StatusInactive,
			CreatedAt:    seedTime,
			UpdatedAt:    seedTime,
		},
	}
}

func mustHash(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		// bcrypt only fails on cost bounds or oversized input; neither
		// applies to the fixed defaults.
		panic(err)
	}
	return string(hash)
}
