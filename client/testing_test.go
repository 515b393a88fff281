package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	apperrors "github.com/oakmere/storefront/pkg/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAuth is an in-memory auth subsystem. It does not emit change
// notifications on sign-in/out by itself; tests drive emit directly when
// exercising the subscription path.
type fakeAuth struct {
	mu       sync.Mutex
	accounts map[string]fakeAccount
	session  *Session
	subs     map[int]func(AuthEvent, *Session)
	nextSub  int
	nextID   int

	signUpErr  error
	signInErr  error
	signOutErr error
}

type fakeAccount struct {
	id       string
	password string
	name     string
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{
		accounts: make(map[string]fakeAccount),
		subs:     make(map[int]func(AuthEvent, *Session)),
	}
}

func (f *fakeAuth) SignUp(ctx context.Context, email, password, name string) (*SignUpResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	if _, exists := f.accounts[email]; exists {
		return nil, apperrors.AlreadyExists("account", "email", email)
	}

	f.nextID++
	acct := fakeAccount{id: fmt.Sprintf("user-%d", f.nextID), password: password, name: name}
	f.accounts[email] = acct
	f.session = &Session{
		UserID:       acct.id,
		Email:        email,
		Name:         name,
		AccessToken:  "access-" + acct.id,
		RefreshToken: "refresh-" + acct.id,
	}
	return &SignUpResult{Session: f.session}, nil
}

func (f *fakeAuth) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	acct, ok := f.accounts[email]
	if !ok || acct.password != password {
		return nil, apperrors.Unauthorized("invalid email or password")
	}
	f.session = &Session{
		UserID:       acct.id,
		Email:        email,
		Name:         acct.name,
		AccessToken:  "access-" + acct.id,
		RefreshToken: "refresh-" + acct.id,
	}
	return f.session, nil
}

func (f *fakeAuth) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signOutErr != nil {
		return f.signOutErr
	}
	f.session = nil
	return nil
}

func (f *fakeAuth) GetSession(ctx context.Context) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, nil
}

func (f *fakeAuth) OnAuthStateChange(fn func(event AuthEvent, session *Session)) func() {
	f.mu.Lock()
	id := f.nextSub
	f.nextSub++
	f.subs[id] = fn
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
}

// emit pushes a session change to every subscriber.
func (f *fakeAuth) emit(event AuthEvent, session *Session) {
	f.mu.Lock()
	fns := make([]func(AuthEvent, *Session), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(event, session)
	}
}

func (f *fakeAuth) subscriberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// fakeGateway is an in-memory remote store. Every method counts as one
// network call so tests can assert fail-fast paths never reach it.
type fakeGateway struct {
	mu       sync.Mutex
	users    map[string]*User
	products map[string]*Product
	items    []*WishlistItem
	nextItem int
	calls    int

	getUserErr    error
	createUserErr error
	updateUserErr error
	addErr        error
	updateItemErr error
	removeErr     error
	listItemsErr  error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		users:    make(map[string]*User),
		products: make(map[string]*Product),
	}
}

func (f *fakeGateway) networkCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeGateway) GetUserByID(ctx context.Context, id string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", id)
	}
	copied := *user
	return &copied, nil
}

func (f *fakeGateway) CreateUser(ctx context.Context, id, email, name string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.createUserErr != nil {
		return nil, f.createUserErr
	}
	if _, exists := f.users[id]; exists {
		return nil, apperrors.AlreadyExists("user", "id", id)
	}
	user := &User{ID: id, Email: email, Name: name}
	f.users[id] = user
	copied := *user
	return &copied, nil
}

func (f *fakeGateway) UpdateUser(ctx context.Context, id string, update UserUpdate) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.updateUserErr != nil {
		return nil, f.updateUserErr
	}
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", id)
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Phone != nil {
		user.Phone = update.Phone
	}
	if update.Address != nil {
		user.Address = update.Address
	}
	if update.AvatarURL != nil {
		user.AvatarURL = update.AvatarURL
	}
	copied := *user
	return &copied, nil
}

func (f *fakeGateway) GetProducts(ctx context.Context) ([]*Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	out := make([]*Product, 0, len(f.products))
	for _, p := range f.products {
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeGateway) GetCategories(ctx context.Context) ([]*Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return nil, nil
}

func (f *fakeGateway) GetProductByID(ctx context.Context, id string) (*Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	p, ok := f.products[id]
	if !ok {
		return nil, apperrors.NotFound("product", id)
	}
	copied := *p
	return &copied, nil
}

func (f *fakeGateway) GetWishlistItems(ctx context.Context, userID string) ([]*WishlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.listItemsErr != nil {
		return nil, f.listItemsErr
	}
	out := make([]*WishlistItem, 0)
	// Newest-first: items are appended, so walk backwards.
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].UserID == userID {
			copied := *f.items[i]
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeGateway) AddToWishlist(ctx context.Context, userID, productID string, quantity int, notes *string) (*WishlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.addErr != nil {
		return nil, f.addErr
	}
	// One row per (user, product): a duplicate add updates in place.
	for _, item := range f.items {
		if item.UserID == userID && item.ProductID == productID {
			item.Quantity = quantity
			item.Notes = notes
			copied := *item
			return &copied, nil
		}
	}
	f.nextItem++
	item := &WishlistItem{
		ID:        fmt.Sprintf("item-%d", f.nextItem),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		Notes:     notes,
	}
	if p, ok := f.products[productID]; ok {
		copied := *p
		item.Product = &copied
	}
	f.items = append(f.items, item)
	copied := *item
	return &copied, nil
}

func (f *fakeGateway) UpdateWishlistItem(ctx context.Context, id string, update WishlistItemUpdate) (*WishlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.updateItemErr != nil {
		return nil, f.updateItemErr
	}
	for _, item := range f.items {
		if item.ID == id {
			if update.Quantity != nil {
				item.Quantity = *update.Quantity
			}
			if update.Notes != nil {
				item.Notes = update.Notes
			}
			copied := *item
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("wishlist item", id)
}

func (f *fakeGateway) RemoveFromWishlist(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.removeErr != nil {
		return f.removeErr
	}
	for i, item := range f.items {
		if item.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return apperrors.NotFound("wishlist item", id)
}
