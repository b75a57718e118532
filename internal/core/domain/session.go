package domain

import (
	"errors"
	"time"
)

var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrLocationUnavailable = errors.New("location capability unavailable")
var ErrNoSession = errors.New("no active session")

// Session is the single current authenticated operator held by the running
// service. At most one exists per process; a new login replaces it.
type Session struct {
	User     User      `json:"user"`
	Token    string    `json:"token"`
	IssuedAt time.Time `json:"issued_at"`
}
