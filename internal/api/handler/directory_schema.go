package handler

import (
	"time"

	"github.com/hdfops/field-console/internal/core/domain"
)

type roleView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toRoleView(r *domain.Role) roleView {
	return roleView{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Permissions: r.Permissions,
		Active:      r.Active,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// userRecord is the administrative write shape: a full operator record,
// password hash included, as pushed by the admin screens.
type userRecord struct {
	ID           string     `json:"id"            validate:"required"`
	FullName     string     `json:"full_name"     validate:"required"`
	Email        string     `json:"email"         validate:"required,email"`
	PasswordHash string     `json:"password_hash" validate:"required"`
	RoleID       string     `json:"role_id"       validate:"required"`
	Status       string     `json:"status"        validate:"required,oneof=active inactive"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

type replaceUsersRequest struct {
	Users []userRecord `json:"users" validate:"required,min=1,dive"`
}

func (req *replaceUsersRequest) toDomain() []domain.User {
	users := make([]domain.User, 0, len(req.Users))
	for _, rec := range req.Users {
		users = append(users, domain.User{
			ID:           rec.ID,
			FullName:     rec.FullName,
			Email:        rec.Email,
			PasswordHash: rec.PasswordHash,
			RoleID:       rec.RoleID,
			Status:       domain.UserStatus(rec.Status),
			CreatedAt:    rec.CreatedAt,
			UpdatedAt:    rec.UpdatedAt,
			LastLoginAt:  rec.LastLoginAt,
		})
	}
	return users
}

type auditEventView struct {
	ID     string    `json:"id"`
	Kind   string    `json:"kind"`
	Email  string    `json:"email,omitempty"`
	UserID string    `json:"user_id,omitempty"`
	Reason string    `json:"reason,omitempty"`
	At     time.Time `json:"at"`
}
