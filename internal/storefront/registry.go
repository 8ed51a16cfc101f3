package storefront

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/cart"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/coupons"
	"github.com/pgkim42/book-bean-frontend-sub000/internal/wishlist"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/config"
	pkgerrors "github.com/pgkim42/book-bean-frontend-sub000/pkg/errors"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/logger"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/metrics"
)

const defaultIdleTTL = 2 * time.Hour

// RegistryParams groups dependencies shared by every session.
type RegistryParams struct {
	Backend Backend
	Guests  wishlist.GuestStore
	JWT     config.JWTConfig
	IdleTTL time.Duration
	// MaxSessions caps live sessions; zero means unlimited.
	MaxSessions int
	Metrics     *metrics.CheckoutMetrics
	Logger      *logger.Logger
	Now         func() time.Time
}

// Registry owns the live sessions keyed by session ID.
type Registry struct {
	params RegistryParams

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(params RegistryParams) (*Registry, error) {
	if params.Backend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "backend is required")
	}
	if params.Guests == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "guest store is required")
	}
	if params.IdleTTL <= 0 {
		params.IdleTTL = defaultIdleTTL
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &Registry{params: params, sessions: map[string]*Session{}}, nil
}

// Lookup returns a live session without creating one.
func (r *Registry) Lookup(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if ok {
		session.touch()
	}
	return session, ok
}

// Open returns the session for id, creating it when missing. A well-formed id
// that is no longer live is reused so the guest wishlist stored under it
// survives; anything else gets a fresh ID. created reports a new session.
func (r *Registry) Open(id string) (session *Session, created bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sessions[id]; ok {
		existing.touch()
		return existing, false, nil
	}
	if parsed, parseErr := uuid.Parse(id); parseErr != nil || parsed == uuid.Nil {
		id = uuid.NewString()
	}
	if limit := r.params.MaxSessions; limit > 0 && len(r.sessions) >= limit {
		r.sweepLocked(r.params.Now())
		if len(r.sessions) >= limit {
			return nil, false, pkgerrors.New(pkgerrors.CodeDependency, "too many active sessions")
		}
	}

	session, err = r.newSession(id)
	if err != nil {
		return nil, false, err
	}
	r.sessions[id] = session
	return session, true, nil
}

// Close forgets a session. Guest storage is left to expire on its own.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the idle TTL and returns how many went.
func (r *Registry) Sweep() int {
	now := r.params.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(now)
}

func (r *Registry) sweepLocked(now time.Time) int {
	removed := 0
	for id, session := range r.sessions {
		if session.idleSince(now) > r.params.IdleTTL {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper sweeps every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := r.Sweep(); removed > 0 && r.params.Logger != nil {
				r.params.Logger.Debug(r.params.Logger.WithField(ctx, "removed", removed), "session.sweep")
			}
		}
	}
}

// rotate moves session to a freshly generated ID so an ID known before login
// no longer reaches it. Callers hold the session lock.
func (r *Registry) rotate(session *Session) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.sessions[session.ID()]; ok && current == session {
		delete(r.sessions, session.ID())
	}
	id := uuid.NewString()
	session.setID(id)
	r.sessions[id] = session
	return id
}

func (r *Registry) newSession(id string) (*Session, error) {
	cartState, err := cart.NewState(r.params.Backend)
	if err != nil {
		return nil, err
	}
	flow, err := coupons.NewFlow(r.params.Backend, r.params.Metrics)
	if err != nil {
		return nil, err
	}
	wish, err := wishlist.NewSync(wishlist.SyncParams{
		Gateway: r.params.Backend,
		Guests:  r.params.Guests,
		GuestID: id,
		Logger:  r.params.Logger,
	})
	if err != nil {
		return nil, err
	}

	session := &Session{
		jwt:   r.params.JWT,
		logg:  r.params.Logger,
		now:   r.params.Now,
		rekey: r.rotate,
		scope: Scope{Cart: cartState, Coupons: flow, Wishlist: wish},
	}
	session.setID(id)
	session.touch()
	return session, nil
}
