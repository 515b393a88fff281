package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	apperrors "github.com/oakmere/storefront/pkg/errors"
)

// SessionManager owns the current authenticated user. It derives the
// User from the auth session plus the joined profile row, falling back
// to a minimal User synthesized from session claims when the profile
// layer misbehaves. Authentication success is never blocked by profile
// failures.
type SessionManager struct {
	auth    AuthAPI
	gateway Gateway
	logger  *slog.Logger

	mu          sync.RWMutex
	currentUser *User
	loading     bool
	lastError   string

	unsubscribe func()
}

// OperationResult is the outcome the view layer consumes. Message carries
// a non-fatal warning on success paths that degraded.
type OperationResult struct {
	Success bool
	Message string
}

// NewSessionManager wires the manager to its collaborators. Call
// Initialize before use and Close on teardown.
func NewSessionManager(auth AuthAPI, gateway Gateway, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		auth:    auth,
		gateway: gateway,
		logger:  logger,
		loading: true,
	}
}

// Initialize resolves any existing session into a User and subscribes to
// subsequent session changes. It always terminates with the loading flag
// cleared, whatever the probe found.
func (m *SessionManager) Initialize(ctx context.Context) {
	session, err := m.auth.GetSession(ctx)
	if err != nil {
		m.logger.Warn("session probe failed", slog.String("error", err.Error()))
		m.setState(nil, err.Error())
	} else {
		m.applySession(ctx, session)
	}

	m.unsubscribe = m.auth.OnAuthStateChange(func(event AuthEvent, session *Session) {
		m.applySession(context.Background(), session)
	})
}

// Close drops the auth-state subscription.
func (m *SessionManager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// CurrentUser returns the user, or nil when signed out.
func (m *SessionManager) CurrentUser() *User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentUser
}

// IsLoading reports whether the initial session resolution is in flight.
func (m *SessionManager) IsLoading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// LastError returns the most recent recorded error, "" when none.
func (m *SessionManager) LastError() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastError
}

// SignUp creates credentials, then attempts the profile row. A failed
// profile insert does not fail the operation: the account exists either
// way, so the result is success with a warning. A conflict on the insert
// means the row is already there and counts as clean success.
func (m *SessionManager) SignUp(ctx context.Context, email, password, name string) OperationResult {
	result, err := m.auth.SignUp(ctx, email, password, name)
	if err != nil {
		m.setState(m.CurrentUser(), err.Error())
		return OperationResult{Success: false, Message: err.Error()}
	}

	warning := result.Warning
	session := result.Session

	user, profileErr := m.gateway.CreateUser(ctx, session.UserID, email, name)
	switch {
	case profileErr == nil:
		m.setState(user, "")
	case isConflict(profileErr):
		// A server-side hook beat us to it. Fetch what exists.
		if existing, fetchErr := m.gateway.GetUserByID(ctx, session.UserID); fetchErr == nil {
			m.setState(existing, "")
		} else {
			m.setState(synthesizeUser(session), "")
		}
	default:
		m.logger.Warn("profile creation failed after signup",
			slog.String("error", profileErr.Error()),
		)
		if warning == "" {
			warning = "account created, but profile setup is incomplete"
		}
		m.setState(synthesizeUser(session), "")
	}

	return OperationResult{Success: true, Message: warning}
}

// SignIn authenticates and resolves the profile. A missing profile is
// created on the spot; if that also fails the user proceeds with a
// degraded in-memory User and a warning, never a blocked login.
func (m *SessionManager) SignIn(ctx context.Context, email, password string) OperationResult {
	session, err := m.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		m.setState(m.CurrentUser(), err.Error())
		return OperationResult{Success: false, Message: err.Error()}
	}

	user, warning := m.resolveProfile(ctx, session)
	m.setState(user, "")
	return OperationResult{Success: true, Message: warning}
}

// SignOut delegates to the auth subsystem and clears the user only on
// success. On failure the error is recorded and state left untouched.
func (m *SessionManager) SignOut(ctx context.Context) OperationResult {
	if err := m.auth.SignOut(ctx); err != nil {
		m.setState(m.CurrentUser(), err.Error())
		return OperationResult{Success: false, Message: err.Error()}
	}
	m.setState(nil, "")
	return OperationResult{Success: true}
}

// UpdateProfile persists partial changes and replaces the local User on
// success. It refuses when signed out.
func (m *SessionManager) UpdateProfile(ctx context.Context, update UserUpdate) OperationResult {
	current := m.CurrentUser()
	if current == nil {
		msg := "not logged in"
		m.setState(nil, msg)
		return OperationResult{Success: false, Message: msg}
	}

	user, err := m.gateway.UpdateUser(ctx, current.ID, update)
	if err != nil {
		m.setState(current, err.Error())
		return OperationResult{Success: false, Message: err.Error()}
	}

	m.setState(user, "")
	return OperationResult{Success: true}
}

// applySession re-derives currentUser from a session notification or the
// initial probe. nil session means signed out. A degraded profile resolve
// keeps the synthesized user but records the warning as a non-fatal error.
func (m *SessionManager) applySession(ctx context.Context, session *Session) {
	if session == nil {
		m.setState(nil, "")
		return
	}

	user, warning := m.resolveProfile(ctx, session)
	m.setState(user, warning)
}

// resolveProfile fetches the profile row for a session, creating it when
// absent. Every failure degrades to a synthesized User plus a warning.
func (m *SessionManager) resolveProfile(ctx context.Context, session *Session) (*User, string) {
	user, err := m.gateway.GetUserByID(ctx, session.UserID)
	if err == nil {
		return user, ""
	}

	if errors.Is(err, apperrors.ErrNotFound) {
		name := session.Name
		if name == "" {
			name = session.Email
		}
		created, createErr := m.gateway.CreateUser(ctx, session.UserID, session.Email, name)
		if createErr == nil {
			return created, ""
		}
		if isConflict(createErr) {
			if existing, fetchErr := m.gateway.GetUserByID(ctx, session.UserID); fetchErr == nil {
				return existing, ""
			}
		}
		m.logger.Warn("profile creation failed on signin",
			slog.String("error", createErr.Error()),
		)
		return synthesizeUser(session), "signed in with incomplete profile"
	}

	m.logger.Warn("profile fetch failed, using session claims",
		slog.String("error", err.Error()),
	)
	return synthesizeUser(session), "signed in with incomplete profile"
}

func (m *SessionManager) setState(user *User, errMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentUser = user
	m.lastError = errMsg
	m.loading = false
}

// isConflict reports whether err is a uniqueness or concurrent-write
// rejection, either of which means the row already exists.
func isConflict(err error) bool {
	return errors.Is(err, apperrors.ErrAlreadyExists) || errors.Is(err, apperrors.ErrConflict)
}

// synthesizeUser builds a minimal User from session claims when the
// profile layer cannot serve one.
func synthesizeUser(session *Session) *User {
	name := session.Name
	if name == "" {
		name = session.Email
	}
	return &User{
		ID:    session.UserID,
		Email: session.Email,
		Name:  name,
	}
}
