package storefront

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pgkim42/book-bean-frontend-sub000/internal/cart"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/checkout"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/coupons"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/wishlist"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/auth"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/backend"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/config"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/enums"
	pkgerrors "github.com/pgkim42/book-bean-frontend-sub000/pkg/errors"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/logger"
)

// Backend is every bookstore API call a session makes on its own state.
type Backend interface {
	cart.Gateway
	coupons.Gateway
	wishlist.Gateway
}

// Scope is the session state handed to a caller holding the session lock.
type Scope struct {
	Cart     *cart.State
	Coupons  *coupons.Flow
	Wishlist *wishlist.Sync

	userID string
}

func (s *Scope) Authenticated() bool {
	return s.userID != ""
}

func (s *Scope) UserID() string {
	return s.userID
}

// RequireLogin fails with UNAUTHORIZED for guest sessions.
func (s *Scope) RequireLogin() error {
	if !s.Authenticated() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	return nil
}

func (s *Scope) Basket() checkout.Basket {
	return checkout.Basket{Cart: s.Cart, Coupons: s.Coupons}
}

// Status is the public view of a session.
type Status struct {
	SessionID     string             `json:"sessionId"`
	Authenticated bool               `json:"authenticated"`
	UserID        string             `json:"userId,omitempty"`
	Email         string             `json:"email,omitempty"`
	WishlistMode  enums.WishlistMode `json:"wishlistMode"`
}

// LoginResult reports the session after login and how the guest wishlist moved.
type LoginResult struct {
	Status
	Wishlist wishlist.MigrationReport `json:"wishlistMigration"`
}

// Session is one shopper's storefront state. Every read and mutation runs
// under the session lock, so rapid concurrent requests apply in order.
type Session struct {
	id    atomic.Pointer[string]
	jwt   config.JWTConfig
	logg  *logger.Logger
	now   func() time.Time
	rekey func(*Session) string

	mu     sync.Mutex
	token  string
	claims *auth.AccessTokenClaims
	scope  Scope

	lastSeen atomic.Int64
}

func (s *Session) ID() string {
	if id := s.id.Load(); id != nil {
		return *id
	}
	return ""
}

func (s *Session) setID(id string) {
	s.id.Store(&id)
}

func (s *Session) touch() {
	s.lastSeen.Store(s.now().UnixNano())
}

func (s *Session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

// Do runs fn with the session locked and the shopper's token on ctx. When the
// backend answers 401 the session falls back to guest before the error is returned.
func (s *Session) Do(ctx context.Context, fn func(ctx context.Context, scope *Scope) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	err := fn(s.authorize(ctx), &s.scope)
	s.handleExpiry(ctx, err)
	return err
}

// Login attaches a backend-issued access token, migrates the guest wishlist
// and loads the shopper's cart. A successful login moves the session to a new
// ID; a failed one leaves it a guest with guest storage untouched.
func (s *Session) Login(ctx context.Context, token string) (LoginResult, error) {
	claims, err := auth.InspectAccessToken(s.jwt, token, s.now())
	if err != nil {
		return LoginResult{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.token = token
	s.claims = claims
	s.scope.userID = claims.UserID()
	s.scope.Coupons.Clear()
	s.scope.Cart.Reset()

	authed := s.authorize(ctx)
	report, err := s.scope.Wishlist.Login(authed)
	if err == nil {
		err = s.scope.Cart.Refresh(authed)
	}
	if err != nil {
		s.abandonLogin()
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(s.logg.WithSessionID(ctx, s.ID()), "error", err.Error()), "session.login_failed")
		}
		return LoginResult{}, err
	}

	previous := s.ID()
	if s.rekey != nil {
		s.scope.Wishlist.Rebind(s.rekey(s))
	}

	if s.logg != nil {
		logCtx := s.logg.WithField(s.logg.WithSessionID(ctx, s.ID()), "previous_session_id", previous)
		s.logg.Info(s.logg.WithUserID(logCtx, claims.UserID()), "session.login")
	}
	return LoginResult{Status: s.statusLocked(), Wishlist: report}, nil
}

// Logout drops the token and returns every component to guest state.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.resetToGuest(ctx)
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *Session) statusLocked() Status {
	status := Status{
		SessionID:     s.ID(),
		Authenticated: s.scope.Authenticated(),
		UserID:        s.scope.userID,
		WishlistMode:  s.scope.Wishlist.Mode(),
	}
	if s.claims != nil {
		status.Email = s.claims.Email
	}
	return status
}

func (s *Session) authorize(ctx context.Context) context.Context {
	if s.token == "" {
		return ctx
	}
	return backend.WithAccessToken(ctx, s.token)
}

func (s *Session) handleExpiry(ctx context.Context, err error) {
	if s.token == "" || !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		return
	}
	if s.logg != nil {
		s.logg.Warn(s.logg.WithSessionID(ctx, s.ID()), "session.expired")
	}
	if resetErr := s.resetToGuest(ctx); resetErr != nil && s.logg != nil {
		s.logg.Error(s.logg.WithSessionID(ctx, s.ID()), "session.reset_failed", resetErr)
	}
}

func (s *Session) resetToGuest(ctx context.Context) error {
	s.dropCredentials()
	return s.scope.Wishlist.Logout(ctx)
}

// abandonLogin undoes a login that did not complete. Guest wishlist entries
// that were not replayed stay in guest storage.
func (s *Session) abandonLogin() {
	s.dropCredentials()
	s.scope.Wishlist.ReturnToGuest()
}

func (s *Session) dropCredentials() {
	s.token = ""
	s.claims = nil
	s.scope.userID = ""
	s.scope.Cart.Reset()
	s.scope.Coupons.Clear()
}
