package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hdfops/field-console/internal/core/domain"
)

type stubMonitor struct {
	mu        sync.Mutex
	available bool
	starts    int
	stops     int
	onLost    func()
}

func (m *stubMonitor) Available(_ context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available
}

func (m *stubMonitor) Start(onLost func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.starts++
	m.onLost = onLost
}

func (m *stubMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
}

type recNotifier struct {
	mu    sync.Mutex
	notes []domain.Notification
}

func (n *recNotifier) Notify(_ context.Context, note domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note)
}

func (n *recNotifier) codes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.notes))
	for _, note := range n.notes {
		out = append(out, note.Code)
	}
	return out
}

type recSink struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (s *recSink) Enqueue(event domain.AuthEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recSink) kinds() []domain.AuthEventKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AuthEventKind, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Kind)
	}
	return out
}

type guardFixture struct {
	guard    *SessionGuard
	repo     *memRepo
	monitor  *stubMonitor
	notifier *recNotifier
	sink     *recSink
}

func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()
	store, repo := newSeededStore(t)
	monitor := &stubMonitor{available: true}
	notifier := &recNotifier{}
	sink := &recSink{}
	guard := NewSessionGuard(repo, store, monitor, notifier, sink,
		"test-secret", time.Hour, zerolog.Nop())
	return &guardFixture{guard: guard, repo: repo, monitor: monitor, notifier: notifier, sink: sink}
}

func TestSessionGuard_Login_Success(t *testing.T) {
	f := newGuardFixture(t)

	session, err := f.guard.Login(context.Background(), "ADMIN@HDF.COM", "admin123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if session.User.ID != "admin-001" {
		t.Fatalf("wrong user matched: %s", session.User.ID)
	}
	if session.Token == "" {
		t.Fatalf("expected a signed token")
	}
	if session.User.LastLoginAt == nil {
		t.Fatalf("last login not stamped")
	}

	// Last login must survive in the persisted list, not just the session.
	for _, u := range f.repo.storedUsers() {
		if u.ID == "admin-001" && u.LastLoginAt == nil {
			t.Fatalf("last login not persisted")
		}
	}
	if f.repo.storedSession() == nil {
		t.Fatalf("session record not persisted")
	}
	if f.monitor.starts != 1 {
		t.Fatalf("monitor not started, starts=%d", f.monitor.starts)
	}
	if current := f.guard.Current(); current == nil || current.ID != "admin-001" {
		t.Fatalf("Current() does not reflect the session")
	}

	codes := f.notifier.codes()
	if len(codes) != 1 || codes[0] != domain.NoteLoginSuccess {
		t.Fatalf("unexpected notifications: %v", codes)
	}
	kinds := f.sink.kinds()
	if len(kinds) != 1 || kinds[0] != domain.AuthLoginSuccess {
		t.Fatalf("unexpected audit events: %v", kinds)
	}
}

func TestSessionGuard_Login_LocationUnavailable(t *testing.T) {
	f := newGuardFixture(t)
	f.monitor.available = false

	_, err := f.guard.Login(context.Background(), "admin@hdf.com", "admin123")
	if !errors.Is(err, domain.ErrLocationUnavailable) {
		t.Fatalf("expected ErrLocationUnavailable, got %v", err)
	}
	// The precondition gates everything: no credential read may happen.
	if f.repo.loadCalls != 0 {
		t.Fatalf("credential list read despite missing location capability")
	}
	if f.guard.Current() != nil {
		t.Fatalf("session established despite blocked login")
	}
	codes := f.notifier.codes()
	if len(codes) != 1 || codes[0] != domain.NoteLoginBlocked {
		t.Fatalf("unexpected notifications: %v", codes)
	}
}

func TestSessionGuard_Login_InvalidCredentials(t *testing.T) {
	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "admin@hdf.com", "nope"},
		{"unknown email", "ghost@hdf.com", "admin123"},
		{"inactive user", "archive@hdf.com", "care123"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newGuardFixture(t)

			_, err := f.guard.Login(context.Background(), tc.email, tc.password)
			if !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
			if f.guard.Current() != nil {
				t.Fatalf("session established on failed login")
			}
			if f.monitor.starts != 0 {
				t.Fatalf("monitor started on failed login")
			}
			// The failure reason must not leak through the notification.
			for _, note := range f.notifier.codes() {
				if note != domain.NoteLoginFailed {
					t.Fatalf("unexpected notification %s", note)
				}
			}
		})
	}
}

func TestSessionGuard_Login_RepoFailure(t *testing.T) {
	f := newGuardFixture(t)
	f.repo.mu.Lock()
	f.repo.failLoad = true
	f.repo.mu.Unlock()

	_, err := f.guard.Login(context.Background(), "admin@hdf.com", "admin123")
	if err == nil {
		t.Fatalf("expected error from repository failure")
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("infrastructure failure must not masquerade as bad credentials")
	}
}

func TestSessionGuard_HasPermission(t *testing.T) {
	f := newGuardFixture(t)

	if f.guard.HasPermission("user_read") {
		t.Fatalf("permission granted without a session")
	}

	if _, err := f.guard.Login(context.Background(), "admin@hdf.com", "admin123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if !f.guard.HasPermission("user_delete") {
		t.Fatalf("admin should hold user_delete")
	}
	if f.guard.HasPermission("visit_track") {
		t.Fatalf("visit_track is a supervisor permission, admin must be denied")
	}
	if f.guard.HasPermission("no_such_tag") {
		t.Fatalf("unknown tag granted")
	}
}

func TestSessionGuard_HasPermission_UnresolvableRoleDenies(t *testing.T) {
	store, repo := newSeededStore(t)
	monitor := &stubMonitor{available: true}
	guard := NewSessionGuard(repo, store, monitor, &recNotifier{}, &recSink{},
		"test-secret", time.Hour, zerolog.Nop())

	if _, err := guard.Login(context.Background(), "admin@hdf.com", "admin123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Drop every role out from under the active session.
	store.ApplyExternalChange("roles", []byte(`[]`))

	if guard.HasPermission("user_delete") {
		t.Fatalf("permission granted although the session role no longer resolves")
	}
}

func TestSessionGuard_Logout_Idempotent(t *testing.T) {
	f := newGuardFixture(t)

	if _, err := f.guard.Login(context.Background(), "supervisor@hdf.com", "super123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	f.guard.Logout(context.Background())
	if f.guard.Current() != nil {
		t.Fatalf("session survived logout")
	}
	if f.repo.storedSession() != nil {
		t.Fatalf("persisted session record survived logout")
	}
	if f.monitor.stops == 0 {
		t.Fatalf("monitor not stopped on logout")
	}

	notesAfterFirst := len(f.notifier.codes())
	f.guard.Logout(context.Background())
	if len(f.notifier.codes()) != notesAfterFirst {
		t.Fatalf("second logout emitted another notification")
	}

	kinds := f.sink.kinds()
	logouts := 0
	for _, k := range kinds {
		if k == domain.AuthLogout {
			logouts++
		}
	}
	if logouts != 1 {
		t.Fatalf("expected exactly one logout audit event, got %d (%v)", logouts, kinds)
	}
}

func TestSessionGuard_ForcedLogoutCallback(t *testing.T) {
	f := newGuardFixture(t)

	if _, err := f.guard.Login(context.Background(), "care@hdf.com", "care123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if f.monitor.onLost == nil {
		t.Fatalf("monitor started without a callback")
	}

	f.monitor.onLost()

	if f.guard.Current() != nil {
		t.Fatalf("session survived forced logout")
	}
	forced := 0
	for _, k := range f.sink.kinds() {
		if k == domain.AuthForcedLogout {
			forced++
		}
	}
	if forced != 1 {
		t.Fatalf("expected one forced logout audit event, got %d", forced)
	}
}

func TestSessionGuard_Login_FirstMatchWins(t *testing.T) {
	f := newGuardFixture(t)

	// Two records share an email; list order decides which one signs in.
	hash := domain.DefaultUsers()[0].PasswordHash
	f.repo.mu.Lock()
	f.repo.users = []domain.User{
		{ID: "dup-1", Email: "dup@hdf.com", PasswordHash: hash, RoleID: "role-care", Status: domain.StatusActive},
		{ID: "dup-2", Email: "dup@hdf.com", PasswordHash: hash, RoleID: "role-care", Status: domain.StatusActive},
	}
	f.repo.mu.Unlock()

	session, err := f.guard.Login(context.Background(), "dup@hdf.com", "admin123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if session.User.ID != "dup-1" {
		t.Fatalf("expected first match, got %s", session.User.ID)
	}
}
