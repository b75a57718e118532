package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/hdfops/field-console/internal/api/metrics"
	"github.com/hdfops/field-console/internal/core/domain"
	"github.com/hdfops/field-console/internal/core/ports"
)

// SessionGuard authenticates operators against the persisted credential list
// and holds the single active session for this console instance.
//
// State machine: LoggedOut → (login success) → LoggedIn → (logout or forced
// logout by the location monitor) → LoggedOut. A failed login leaves the
// state untouched.
type SessionGuard struct {
	repo     ports.CredentialRepository
	roles    ports.RoleSource
	monitor  ports.SessionMonitor
	notifier ports.Notifier
	audit    ports.AuditSink
	log      zerolog.Logger

	jwtSecret string
	tokenTTL  time.Duration

	mu      sync.RWMutex
	current *domain.Session
}

func NewSessionGuard(
	repo ports.CredentialRepository,
	roles ports.RoleSource,
	monitor ports.SessionMonitor,
	notifier ports.Notifier,
	audit ports.AuditSink,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *SessionGuard {
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &SessionGuard{
		repo:      repo,
		roles:     roles,
		monitor:   monitor,
		notifier:  notifier,
		audit:     audit,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// Login authenticates an operator. The location capability must be available
// before any credential is read; the freshest persisted user list (not the
// in-memory snapshot) decides the outcome. The first user in list order with
// a case-insensitive email match, a matching password, and active status
// wins.
func (g *SessionGuard) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	if !g.monitor.Available(ctx) {
		metrics.LoginAttemptsTotal.WithLabelValues("blocked").Inc()
		g.notifier.Notify(ctx, domain.Notification{
			Severity: domain.SeverityError,
			Code:     domain.NoteLoginBlocked,
			Message:  "Location access is required to sign in",
			At:       time.Now().UTC(),
		})
		return nil, domain.ErrLocationUnavailable
	}

	users, err := g.repo.LoadUsers(ctx)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		g.notifier.Notify(ctx, domain.Notification{
			Severity: domain.SeverityError,
			Code:     domain.NoteLoginFailed,
			Message:  "Sign-in failed, please try again",
			At:       time.Now().UTC(),
		})
		return nil, fmt.Errorf("login: load users: %w", err)
	}

	idx := -1
	for i := range users {
		u := &users[i]
		if !u.EmailMatches(email) || !u.IsActive() {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			continue
		}
		idx = i
		break
	}

	if idx < 0 {
		metrics.LoginAttemptsTotal.WithLabelValues("denied").Inc()
		g.audit.Enqueue(domain.AuthEvent{
			Kind:  domain.AuthLoginFailed,
			Email: email,
			At:    time.Now().UTC(),
		})
		// Deliberately generic: never reveal whether the email or the
		// password was wrong.
		g.notifier.Notify(ctx, domain.Notification{
			Severity: domain.SeverityError,
			Code:     domain.NoteLoginFailed,
			Message:  "Invalid email or password",
			At:       time.Now().UTC(),
		})
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	users[idx].LastLoginAt = &now
	if err := g.repo.SaveUsers(ctx, users); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		g.notifier.Notify(ctx, domain.Notification{
			Severity: domain.SeverityError,
			Code:     domain.NoteLoginFailed,
			Message:  "Sign-in failed, please try again",
			At:       now,
		})
		return nil, fmt.Errorf("login: persist last login: %w", err)
	}

	user := users[idx]
	if err := g.repo.SaveSession(ctx, &user); err != nil {
		g.log.Warn().Err(err).Msg("failed to persist current session record")
	}

	token, err := g.generateToken(&user, now)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: sign token: %w", err)
	}

	session := &domain.Session{User: user, Token: token, IssuedAt: now}
	g.mu.Lock()
	g.current = session
	g.mu.Unlock()

	g.monitor.Start(g.forcedLogout)

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	g.audit.Enqueue(domain.AuthEvent{
		Kind:   domain.AuthLoginSuccess,
		Email:  user.Email,
		UserID: user.ID,
		At:     now,
	})
	g.notifier.Notify(ctx, domain.Notification{
		Severity: domain.SeveritySuccess,
		Code:     domain.NoteLoginSuccess,
		Message:  "Welcome back, " + user.FullName,
		At:       now,
	})
	g.log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("operator logged in")

	return session, nil
}

// Logout ends the active session and stops location monitoring. Idempotent:
// with no session it still clears monitors and returns quietly.
func (g *SessionGuard) Logout(ctx context.Context) {
	g.mu.Lock()
	had := g.current != nil
	var userID string
	if had {
		userID = g.current.User.ID
	}
	g.current = nil
	g.mu.Unlock()

	g.monitor.Stop()

	if err := g.repo.ClearSession(ctx); err != nil {
		g.log.Warn().Err(err).Msg("failed to clear persisted session record")
	}

	if !had {
		return
	}

	now := time.Now().UTC()
	g.audit.Enqueue(domain.AuthEvent{Kind: domain.AuthLogout, UserID: userID, At: now})
	g.notifier.Notify(ctx, domain.Notification{
		Severity: domain.SeveritySuccess,
		Code:     domain.NoteLogout,
		Message:  "Signed out",
		At:       now,
	})
	g.log.Info().Str("user_id", userID).Msg("operator logged out")
}

// HasPermission reports whether the active session's role carries the tag.
// Conservative on any gap: no session, or a role that cannot be resolved,
// denies.
func (g *SessionGuard) HasPermission(tag string) bool {
	g.mu.RLock()
	session := g.current
	g.mu.RUnlock()

	if session == nil {
		return false
	}
	role, ok := g.roles.RoleByID(session.User.RoleID)
	if !ok {
		return false
	}
	return role.HasPermission(tag)
}

// Current returns a copy of the active session user, or nil when logged out.
func (g *SessionGuard) Current() *domain.User {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.current == nil {
		return nil
	}
	user := g.current.User
	return &user
}

// forcedLogout is invoked by the location monitor on sustained capability
// loss. The monitor emits the security notification itself; here the session
// is torn down and the forced logout is recorded.
func (g *SessionGuard) forcedLogout() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	g.mu.RLock()
	var userID string
	if g.current != nil {
		userID = g.current.User.ID
	}
	g.mu.RUnlock()

	g.log.Warn().Str("user_id", userID).Msg("forcing logout: location capability lost")
	g.Logout(ctx)
	g.audit.Enqueue(domain.AuthEvent{
		Kind:   domain.AuthForcedLogout,
		UserID: userID,
		Reason: "location capability lost",
		At:     time.Now().UTC(),
	})
}

func (g *SessionGuard) generateToken(user *domain.User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.RoleID,
		"iat":   now.Unix(),
		"exp":   now.Add(g.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(g.jwtSecret))
}
