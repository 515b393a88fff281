package client

import "log/slog"

// ClientSet bundles the gateway and auth client with the token wiring
// between them already done: the gateway sends whatever token the auth
// client currently holds.
type ClientSet struct {
	Gateway *RESTGateway
	Auth    *RESTAuth
}

// NewClientSet builds the transport pair from connection config. cfg may
// be empty; operations then fail at call time with a configuration
// error rather than at construction.
func NewClientSet(cfg Config, logger *slog.Logger) *ClientSet {
	var auth *RESTAuth
	gw := NewGateway(cfg, func() string {
		if auth == nil {
			return ""
		}
		return auth.AccessToken()
	}, logger)
	auth = NewAuth(gw, logger)
	return &ClientSet{Gateway: gw, Auth: auth}
}

// NewSession creates a session manager over this client set.
func (c *ClientSet) NewSession(logger *slog.Logger) *SessionManager {
	return NewSessionManager(c.Auth, c.Gateway, logger)
}

// NewWishlist creates a wishlist manager for userID over this client set.
func (c *ClientSet) NewWishlist(userID string, logger *slog.Logger) *WishlistManager {
	return NewWishlistManager(userID, c.Gateway, logger)
}
