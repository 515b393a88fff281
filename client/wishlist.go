package client

import (
	"context"
	"log/slog"
	"sync"
)

// WishlistManager owns the wishlist rows for one user identity. The
// remote store is the source of truth; every mutation refreshes the
// whole list rather than patching it, trading a round-trip for
// consistency simplicity. An empty userID yields an empty, non-loading
// manager whose mutations fail fast without touching the network.
type WishlistManager struct {
	userID  string
	gateway Gateway
	logger  *slog.Logger

	mu        sync.RWMutex
	items     []*WishlistItem
	loading   bool
	lastError string
}

// NewWishlistManager creates a manager bound to userID, which may be ""
// for a signed-out view.
func NewWishlistManager(userID string, gateway Gateway, logger *slog.Logger) *WishlistManager {
	return &WishlistManager{
		userID:  userID,
		gateway: gateway,
		logger:  logger,
		items:   []*WishlistItem{},
	}
}

// Items returns the current rows, newest-first.
func (m *WishlistManager) Items() []*WishlistItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*WishlistItem, len(m.items))
	copy(out, m.items)
	return out
}

// IsLoading reports whether a refresh is in flight.
func (m *WishlistManager) IsLoading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// LastError returns the most recent recorded error, "" when none.
func (m *WishlistManager) LastError() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastError
}

// Refresh replaces the local list wholesale from the remote store. With
// no identity it resets to empty immediately. On fetch failure the list
// keeps its last known-good value.
func (m *WishlistManager) Refresh(ctx context.Context) {
	if m.userID == "" {
		m.mu.Lock()
		m.items = []*WishlistItem{}
		m.loading = false
		m.lastError = ""
		m.mu.Unlock()
		return
	}

	m.mu.Lock()
	m.loading = true
	m.mu.Unlock()

	items, err := m.gateway.GetWishlistItems(ctx, m.userID)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	if err != nil {
		m.logger.Warn("wishlist refresh failed", slog.String("error", err.Error()))
		m.lastError = err.Error()
		return
	}
	if items == nil {
		items = []*WishlistItem{}
	}
	m.items = items
	m.lastError = ""
}

// Add inserts a row for productID and refreshes. quantity below 1 is
// treated as 1. Returns whether the insert succeeded.
func (m *WishlistManager) Add(ctx context.Context, productID string, quantity int, notes *string) bool {
	if !m.requireIdentity() {
		return false
	}
	if quantity < 1 {
		quantity = 1
	}

	if _, err := m.gateway.AddToWishlist(ctx, m.userID, productID, quantity, notes); err != nil {
		m.recordError(err)
		return false
	}

	m.Refresh(ctx)
	return true
}

// Update patches a row and refreshes.
func (m *WishlistManager) Update(ctx context.Context, itemID string, update WishlistItemUpdate) bool {
	if !m.requireIdentity() {
		return false
	}

	if _, err := m.gateway.UpdateWishlistItem(ctx, itemID, update); err != nil {
		m.recordError(err)
		return false
	}

	m.Refresh(ctx)
	return true
}

// Remove deletes a row and refreshes.
func (m *WishlistManager) Remove(ctx context.Context, itemID string) bool {
	if !m.requireIdentity() {
		return false
	}

	if err := m.gateway.RemoveFromWishlist(ctx, itemID); err != nil {
		m.recordError(err)
		return false
	}

	m.Refresh(ctx)
	return true
}

// IsInWishlist reports whether any current row references productID.
// Local scan, no network.
func (m *WishlistManager) IsInWishlist(productID string) bool {
	return m.Item(productID) != nil
}

// Item returns the current row for productID, nil when absent.
func (m *WishlistManager) Item(productID string) *WishlistItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.items {
		if item.ProductID == productID {
			return item
		}
	}
	return nil
}

// Count is the sum of quantities across all rows.
func (m *WishlistManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for _, item := range m.items {
		total += item.Quantity
	}
	return total
}

func (m *WishlistManager) requireIdentity() bool {
	if m.userID != "" {
		return true
	}
	m.mu.Lock()
	m.lastError = "not logged in"
	m.mu.Unlock()
	return false
}

func (m *WishlistManager) recordError(err error) {
	m.logger.Warn("wishlist mutation failed", slog.String("error", err.Error()))
	m.mu.Lock()
	m.lastError = err.Error()
	m.mu.Unlock()
}
