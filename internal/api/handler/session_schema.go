package handler

import (
	"time"

	"github.com/hdfops/field-console/internal/core/domain"
)

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// userView is the API shape of an operator. The password hash never leaves
// the service.
type userView struct {
	ID          string     `json:"id"`
	FullName    string     `json:"full_name"`
	Email       string     `json:"email"`
	RoleID      string     `json:"role_id"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func toUserView(u *domain.User) userView {
	return userView{
		ID:          u.ID,
		FullName:    u.FullName,
		Email:       u.Email,
		RoleID:      u.RoleID,
		Status:      string(u.Status),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

type sessionResponse struct {
	Token    string    `json:"token,omitempty"`
	User     userView  `json:"user"`
	IssuedAt time.Time `json:"issued_at,omitempty"`
}

type permissionResponse struct {
	Permission string `json:"permission"`
	Allowed    bool   `json:"allowed"`
}

type locationStatusResponse struct {
	Available       bool   `json:"available"`
	PermissionState string `json:"permission_state,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}
