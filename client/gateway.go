package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	apperrors "github.com/oakmere/storefront/pkg/errors"
	"github.com/oakmere/storefront/pkg/httpclient"
)

// Gateway is the typed contract both state managers depend on. It is
// injected explicitly so tests can substitute a fake; there is no ambient
// singleton.
type Gateway interface {
	GetUserByID(ctx context.Context, id string) (*User, error)
	// CreateUser tolerates the row already existing: the caller catches
	// the conflict and treats it as success. A conflict is reported
	// distinctly from a permission rejection.
	CreateUser(ctx context.Context, id, email, name string) (*User, error)
	UpdateUser(ctx context.Context, id string, update UserUpdate) (*User, error)

	GetProducts(ctx context.Context) ([]*Product, error)
	GetCategories(ctx context.Context) ([]*Category, error)
	GetProductByID(ctx context.Context, id string) (*Product, error)

	GetWishlistItems(ctx context.Context, userID string) ([]*WishlistItem, error)
	AddToWishlist(ctx context.Context, userID, productID string, quantity int, notes *string) (*WishlistItem, error)
	UpdateWishlistItem(ctx context.Context, id string, update WishlistItemUpdate) (*WishlistItem, error)
	RemoveFromWishlist(ctx context.Context, id string) error
}

// Config holds the two environment-provided connection parameters. Both
// may be absent at construction; operations then fail at call time with a
// configuration error.
type Config struct {
	// BaseURL is the storefront API endpoint, e.g. "https://api.example.com".
	BaseURL string
	// APIKey is the public API key sent with every request. Optional.
	APIKey string
}

// TokenSource supplies the current bearer token, or "" when signed out.
// The auth client implements this.
type TokenSource func() string

// doer abstracts the transport so tests can substitute one.
type doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// RESTGateway implements Gateway over the storefront HTTP API using the
// retrying client behind a circuit breaker.
type RESTGateway struct {
	cfg    Config
	http   doer
	tokens TokenSource
	logger *slog.Logger
}

// NewGateway creates a REST gateway. tokens may be nil for unauthenticated
// catalog access.
func NewGateway(cfg Config, tokens TokenSource, logger *slog.Logger) *RESTGateway {
	base := httpclient.New(httpclient.DefaultConfig())
	cb := httpclient.NewCircuitBreakerClient(base, httpclient.DefaultCircuitBreakerConfig("storefront-gateway"), logger)
	return &RESTGateway{
		cfg:    cfg,
		http:   cb,
		tokens: tokens,
		logger: logger,
	}
}

// GetUserByID fetches the profile row. The API scopes profile access to
// the bearer token's identity, so id is validated against it server-side.
func (g *RESTGateway) GetUserByID(ctx context.Context, id string) (*User, error) {
	var user User
	if err := g.do(ctx, http.MethodGet, "/api/v1/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates the profile row for the authenticated identity.
func (g *RESTGateway) CreateUser(ctx context.Context, id, email, name string) (*User, error) {
	body := map[string]string{"name": name}
	var user User
	if err := g.do(ctx, http.MethodPost, "/api/v1/users/me/profile", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser persists partial profile changes and returns the stored row.
func (g *RESTGateway) UpdateUser(ctx context.Context, id string, update UserUpdate) (*User, error) {
	var user User
	if err := g.do(ctx, http.MethodPut, "/api/v1/users/me", update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetProducts lists the catalog newest-first.
func (g *RESTGateway) GetProducts(ctx context.Context) ([]*Product, error) {
	var products []*Product
	if err := g.do(ctx, http.MethodGet, "/api/v1/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetCategories lists all categories.
func (g *RESTGateway) GetCategories(ctx context.Context) ([]*Category, error) {
	var categories []*Category
	if err := g.do(ctx, http.MethodGet, "/api/v1/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetProductByID fetches a single product.
func (g *RESTGateway) GetProductByID(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := g.do(ctx, http.MethodGet, "/api/v1/products/"+id, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetWishlistItems lists the user's wishlist, products embedded,
// newest-first.
func (g *RESTGateway) GetWishlistItems(ctx context.Context, userID string) ([]*WishlistItem, error) {
	var items []*WishlistItem
	if err := g.do(ctx, http.MethodGet, "/api/v1/users/me/wishlist", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddToWishlist inserts (or, on a duplicate product, updates) a row.
func (g *RESTGateway) AddToWishlist(ctx context.Context, userID, productID string, quantity int, notes *string) (*WishlistItem, error) {
	body := struct {
		ProductID string  `json:"product_id"`
		Quantity  int     `json:"quantity,omitempty"`
		Notes     *string `json:"notes,omitempty"`
	}{ProductID: productID, Quantity: quantity, Notes: notes}

	var item WishlistItem
	if err := g.do(ctx, http.MethodPost, "/api/v1/users/me/wishlist", body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateWishlistItem patches a row.
func (g *RESTGateway) UpdateWishlistItem(ctx context.Context, id string, update WishlistItemUpdate) (*WishlistItem, error) {
	var item WishlistItem
	if err := g.do(ctx, http.MethodPatch, "/api/v1/users/me/wishlist/"+id, update, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveFromWishlist deletes a row.
func (g *RESTGateway) RemoveFromWishlist(ctx context.Context, id string) error {
	return g.do(ctx, http.MethodDelete, "/api/v1/users/me/wishlist/"+id, nil, nil)
}

// envelope is the server's standard {data,error} response wrapper.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

func (g *RESTGateway) do(ctx context.Context, method, path string, body, out any) error {
	if g.cfg.BaseURL == "" {
		return apperrors.Unconfigured("storefront gateway")
	}

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	url := strings.TrimRight(g.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if g.cfg.APIKey != "" {
		req.Header.Set("X-API-Key", g.cfg.APIKey)
	}
	if g.tokens != nil {
		if token := g.tokens(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := g.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return httpclient.ParseResponseError(resp, "storefront")
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}

	return nil
}
