package client

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// AuthEvent labels a session-state transition delivered to subscribers.
type AuthEvent string

const (
	EventInitialSession AuthEvent = "INITIAL_SESSION"
	EventSignedIn       AuthEvent = "SIGNED_IN"
	EventSignedOut      AuthEvent = "SIGNED_OUT"
	EventTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
)

// Session is the live binding between this process and a user identity.
// It carries the claims needed to synthesize a minimal User when the
// profile row cannot be fetched.
type Session struct {
	UserID       string
	Email        string
	Name         string
	AccessToken  string
	RefreshToken string
}

// SignUpResult reports the outcome of account creation. Warning is set
// when the account exists but profile setup did not complete.
type SignUpResult struct {
	Session *Session
	Warning string
}

// AuthAPI is the auth subsystem contract the session manager consumes.
type AuthAPI interface {
	SignUp(ctx context.Context, email, password, name string) (*SignUpResult, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
	// GetSession returns the current session or nil when signed out. It
	// never fails on absence; absence is a valid state.
	GetSession(ctx context.Context) (*Session, error)
	// OnAuthStateChange registers fn for subsequent transitions and
	// returns a disposer that must be called on teardown.
	OnAuthStateChange(fn func(event AuthEvent, session *Session)) (unsubscribe func())
}

// RESTAuth implements AuthAPI against the storefront auth endpoints,
// holding the session in memory.
type RESTAuth struct {
	gw     *RESTGateway
	logger *slog.Logger

	mu      sync.RWMutex
	session *Session
	subs    map[int]func(AuthEvent, *Session)
	nextSub int
}

// NewAuth creates an auth client sharing the gateway's transport and
// configuration. The returned client's AccessToken method is the token
// source the gateway should be built with; wire them together via
// NewClientSet to avoid the chicken-and-egg by hand.
func NewAuth(gw *RESTGateway, logger *slog.Logger) *RESTAuth {
	return &RESTAuth{
		gw:     gw,
		logger: logger,
		subs:   make(map[int]func(AuthEvent, *Session)),
	}
}

// AccessToken returns the current bearer token, or "" when signed out.
// It satisfies TokenSource.
func (a *RESTAuth) AccessToken() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session == nil {
		return ""
	}
	return a.session.AccessToken
}

// authResponse mirrors the server's auth payloads. User is absent when
// the profile row is missing; AccountID and DisplayName always identify
// the account so the session keeps the identity either way.
type authResponse struct {
	AccountID   string     `json:"account_id"`
	DisplayName string     `json:"display_name,omitempty"`
	User        *User      `json:"user,omitempty"`
	Tokens      *TokenPair `json:"tokens"`
	Warning     string     `json:"warning,omitempty"`
}

// sessionFromAuth builds a Session from an auth payload, preferring the
// profile row's identity and falling back to the account claims.
func sessionFromAuth(resp *authResponse, email, fallbackName string) *Session {
	session := &Session{
		UserID:       resp.AccountID,
		Email:        email,
		Name:         fallbackName,
		AccessToken:  resp.Tokens.AccessToken,
		RefreshToken: resp.Tokens.RefreshToken,
	}
	if resp.DisplayName != "" {
		session.Name = resp.DisplayName
	}
	if resp.User != nil {
		session.UserID = resp.User.ID
		session.Name = resp.User.Name
	}
	return session
}

// SignUp registers credentials. A response without a profile still
// succeeds; the session is synthesized from the submitted fields and the
// warning is passed through for the caller to surface.
func (a *RESTAuth) SignUp(ctx context.Context, email, password, name string) (*SignUpResult, error) {
	body := map[string]string{"email": email, "password": password, "name": name}
	var resp authResponse
	if err := a.gw.do(ctx, "POST", "/api/v1/auth/register", body, &resp); err != nil {
		return nil, err
	}
	if resp.Tokens == nil {
		return nil, fmt.Errorf("register response missing tokens")
	}

	session := sessionFromAuth(&resp, email, name)
	a.setSession(session, EventSignedIn)
	return &SignUpResult{Session: session, Warning: resp.Warning}, nil
}

// SignInWithPassword authenticates and replaces the current session.
func (a *RESTAuth) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := a.gw.do(ctx, "POST", "/api/v1/auth/login", body, &resp); err != nil {
		return nil, err
	}
	if resp.Tokens == nil {
		return nil, fmt.Errorf("login response missing tokens")
	}

	session := sessionFromAuth(&resp, email, "")
	a.setSession(session, EventSignedIn)
	return session, nil
}

// SignOut revokes the refresh token server-side. The local session is
// cleared only when revocation succeeds; on failure the state is left
// as-is and the error returned.
func (a *RESTAuth) SignOut(ctx context.Context) error {
	a.mu.RLock()
	session := a.session
	a.mu.RUnlock()
	if session == nil {
		return nil
	}

	body := map[string]string{"refresh_token": session.RefreshToken}
	if err := a.gw.do(ctx, "POST", "/api/v1/auth/logout", body, nil); err != nil {
		return err
	}

	a.setSession(nil, EventSignedOut)
	return nil
}

// GetSession returns the in-memory session, nil when signed out.
func (a *RESTAuth) GetSession(ctx context.Context) (*Session, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session, nil
}

// RefreshSession rotates the token pair using the stored refresh token.
func (a *RESTAuth) RefreshSession(ctx context.Context) (*Session, error) {
	a.mu.RLock()
	current := a.session
	a.mu.RUnlock()
	if current == nil {
		return nil, fmt.Errorf("no session to refresh")
	}

	body := map[string]string{"refresh_token": current.RefreshToken}
	var tokens TokenPair
	if err := a.gw.do(ctx, "POST", "/api/v1/auth/refresh", body, &tokens); err != nil {
		return nil, err
	}

	session := &Session{
		UserID:       current.UserID,
		Email:        current.Email,
		Name:         current.Name,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}
	a.setSession(session, EventTokenRefreshed)
	return session, nil
}

// OnAuthStateChange registers fn; the disposer removes the registration
// and is safe to call more than once.
func (a *RESTAuth) OnAuthStateChange(fn func(event AuthEvent, session *Session)) (unsubscribe func()) {
	a.mu.Lock()
	id := a.nextSub
	a.nextSub++
	a.subs[id] = fn
	a.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			delete(a.subs, id)
			a.mu.Unlock()
		})
	}
}

// setSession swaps the session and notifies subscribers. Callbacks run
// outside the lock so a subscriber may call back into the client.
func (a *RESTAuth) setSession(session *Session, event AuthEvent) {
	a.mu.Lock()
	a.session = session
	fns := make([]func(AuthEvent, *Session), 0, len(a.subs))
	for _, fn := range a.subs {
		fns = append(fns, fn)
	}
	a.mu.Unlock()

	for _, fn := range fns {
		fn(event, session)
	}
}
