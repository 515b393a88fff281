package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/oakmere/storefront/pkg/errors"
)

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

func TestRESTGateway_UnconfiguredFailsAtCallTime(t *testing.T) {
	gw := NewGateway(Config{}, nil, testLogger())

	_, err := gw.GetProducts(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnconfigured)
}

func TestRESTGateway_GetProductsDecodesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/v1/products", r.URL.Path)
		writeData(w, http.StatusOK, []map[string]any{
			{"id": "p-1", "name": "Syltherine", "price": 2500000, "currency": "IDR"},
			{"id": "p-2", "name": "Lolito", "price": 7000000, "currency": "IDR"},
		})
	}))
	defer server.Close()

	gw := NewGateway(Config{BaseURL: server.URL}, nil, testLogger())
	products, err := gw.GetProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Syltherine", products[0].Name)
	assert.Equal(t, int64(7000000), products[1].Price)
}

func TestRESTGateway_SendsAuthAndAPIKeyHeaders(t *testing.T) {
	var gotAuth, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("X-API-Key")
		writeData(w, http.StatusOK, []any{})
	}))
	defer server.Close()

	gw := NewGateway(Config{BaseURL: server.URL, APIKey: "pk-test"}, func() string {
		return "token-123"
	}, testLogger())

	_, err := gw.GetWishlistItems(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, "Bearer token-123", gotAuth)
	assert.Equal(t, "pk-test", gotKey)
}

func TestRESTGateway_NoAuthHeaderWhenSignedOut(t *testing.T) {
	var gotAuth string
	seen := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		seen = true
		writeData(w, http.StatusOK, []any{})
	}))
	defer server.Close()

	gw := NewGateway(Config{BaseURL: server.URL}, func() string { return "" }, testLogger())

	_, err := gw.GetProducts(context.Background())

	require.NoError(t, err)
	require.True(t, seen)
	assert.Empty(t, gotAuth)
}

func TestRESTGateway_NotFoundMapsToSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusNotFound, "NOT_FOUND", "product not found")
	}))
	defer server.Close()

	gw := NewGateway(Config{BaseURL: server.URL}, nil, testLogger())
	_, err := gw.GetProductByID(context.Background(), "nope")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRESTGateway_ConflictMapsToAlreadyExists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusConflict, "ALREADY_EXISTS", "user already exists")
	}))
	defer server.Close()

	gw := NewGateway(Config{BaseURL: server.URL}, nil, testLogger())
	_, err := gw.CreateUser(context.Background(), "user-1", "ana@example.com", "Ana")

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
}

func TestRESTGateway_AddToWishlistPostsBody(t *testing.T) {
	var got struct {
		ProductID string  `json:"product_id"`
		Quantity  int     `json:"quantity"`
		Notes     *string `json:"notes"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/users/me/wishlist", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeData(w, http.StatusCreated, map[string]any{
			"id": "item-1", "product_id": got.ProductID, "quantity": got.Quantity,
		})
	}))
	defer server.Close()

	gw := NewGateway(Config{BaseURL: server.URL}, nil, testLogger())
	notes := "for the terrace"
	item, err := gw.AddToWishlist(context.Background(), "user-1", "p-1", 2, &notes)

	require.NoError(t, err)
	assert.Equal(t, "item-1", item.ID)
	assert.Equal(t, "p-1", got.ProductID)
	assert.Equal(t, 2, got.Quantity)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "for the terrace", *got.Notes)
}

func TestRESTGateway_RemoveFromWishlistIssuesDelete(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		writeData(w, http.StatusOK, map[string]string{"id": "item-1", "status": "removed"})
	}))
	defer server.Close()

	gw := NewGateway(Config{BaseURL: server.URL}, nil, testLogger())
	err := gw.RemoveFromWishlist(context.Background(), "item-1")

	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/v1/users/me/wishlist/item-1", gotPath)
}

func TestRESTGateway_TrailingSlashInBaseURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/categories", r.URL.Path)
		writeData(w, http.StatusOK, []map[string]string{{"id": "c-1", "name": "Sofas", "slug": "sofas"}})
	}))
	defer server.Close()

	gw := NewGateway(Config{BaseURL: server.URL + "/"}, nil, testLogger())
	categories, err := gw.GetCategories(context.Background())

	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "sofas", categories[0].Slug)
}
