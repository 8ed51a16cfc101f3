package wishlist

import (
	"context"
	"slices"

	"github.com/pgkim42/book-bean-frontend-sub000/pkg/backend"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/enums"
	pkgerrors "github.com/pgkim42/book-bean-frontend-sub000/pkg/errors"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/logger"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/types"
	"go.uber.org/multierr"
)

// Gateway is the server-side wishlist API.
type Gateway interface {
	Wishlist(ctx context.Context) ([]backend.WishlistBook, error)
	AddWishlist(ctx context.Context, bookID int64) error
	RemoveWishlist(ctx context.Context, bookID int64) error
}

// Item is one wishlisted book. Guest entries only carry the book ID.
type Item struct {
	BookID   int64       `json:"bookId"`
	Title    string      `json:"title,omitempty"`
	Author   string      `json:"author,omitempty"`
	Price    types.Money `json:"price,omitempty"`
	ImageURL string      `json:"imageUrl,omitempty"`
}

// MigrationReport describes a guest-to-account wishlist replay.
type MigrationReport struct {
	Migrated []int64 `json:"migrated"`
	Failed   []int64 `json:"failed,omitempty"`
	// Err combines every failed replay; nil when all succeeded.
	Err error `json:"-"`
}

// SyncParams groups dependencies for a wishlist Sync.
type SyncParams struct {
	Gateway Gateway
	Guests  GuestStore
	GuestID string
	Logger  *logger.Logger
}

// Sync serves the wishlist from guest storage or from the server depending on
// login state. Sync is not safe for concurrent use.
type Sync struct {
	gateway Gateway
	guests  GuestStore
	guestID string
	logg    *logger.Logger

	mode  enums.WishlistMode
	items []Item
}

func NewSync(params SyncParams) (*Sync, error) {
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "wishlist gateway is required")
	}
	if params.Guests == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "guest store is required")
	}
	if params.GuestID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "guest id is required")
	}
	return &Sync{
		gateway: params.Gateway,
		guests:  params.Guests,
		guestID: params.GuestID,
		logg:    params.Logger,
		mode:    enums.WishlistModeGuest,
	}, nil
}

func (s *Sync) Mode() enums.WishlistMode {
	return s.mode
}

// Refresh reloads the server wishlist. Guest mode always reads storage, so
// there is nothing to reload.
func (s *Sync) Refresh(ctx context.Context) error {
	if s.mode != enums.WishlistModeAuthenticated {
		return nil
	}
	books, err := s.gateway.Wishlist(ctx)
	if err != nil {
		return err
	}
	items := make([]Item, 0, len(books))
	for _, book := range books {
		items = append(items, Item{
			BookID:   book.BookID,
			Title:    book.Title,
			Author:   book.Author,
			Price:    book.Price,
			ImageURL: book.ImageURL,
		})
	}
	s.items = items
	return nil
}

func (s *Sync) Items(ctx context.Context) ([]Item, error) {
	if s.mode == enums.WishlistModeAuthenticated {
		return slices.Clone(s.items), nil
	}
	ids, err := s.guests.IDs(ctx, s.guestID)
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, Item{BookID: id})
	}
	return items, nil
}

func (s *Sync) IDs(ctx context.Context) ([]int64, error) {
	if s.mode != enums.WishlistModeAuthenticated {
		return s.guests.IDs(ctx, s.guestID)
	}
	ids := make([]int64, 0, len(s.items))
	for _, item := range s.items {
		ids = append(ids, item.BookID)
	}
	return ids, nil
}

func (s *Sync) Contains(ctx context.Context, bookID int64) (bool, error) {
	ids, err := s.IDs(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, bookID), nil
}

func (s *Sync) Add(ctx context.Context, bookID int64) error {
	if bookID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "book id is required")
	}
	if s.mode != enums.WishlistModeAuthenticated {
		return s.guests.Add(ctx, s.guestID, bookID)
	}
	if err := s.gateway.AddWishlist(ctx, bookID); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *Sync) Remove(ctx context.Context, bookID int64) error {
	if bookID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "book id is required")
	}
	if s.mode != enums.WishlistModeAuthenticated {
		return s.guests.Remove(ctx, s.guestID, bookID)
	}
	if err := s.gateway.RemoveWishlist(ctx, bookID); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Toggle adds or removes bookID and reports whether it is now wishlisted.
func (s *Sync) Toggle(ctx context.Context, bookID int64) (bool, error) {
	present, err := s.Contains(ctx, bookID)
	if err != nil {
		return false, err
	}
	if present {
		return false, s.Remove(ctx, bookID)
	}
	return true, s.Add(ctx, bookID)
}

// Login switches to the server wishlist, replaying every guest entry as an
// individual add. A failed add does not stop the replay; guest storage is
// only cleared when every add succeeded. The returned error covers loading
// guest storage and the final refetch, not individual replay failures.
func (s *Sync) Login(ctx context.Context) (MigrationReport, error) {
	report := MigrationReport{Migrated: []int64{}}

	ids, err := s.guests.IDs(ctx, s.guestID)
	if err != nil {
		return report, err
	}
	s.mode = enums.WishlistModeAuthenticated
	s.items = nil

	for _, id := range ids {
		if err := s.gateway.AddWishlist(ctx, id); err != nil {
			report.Failed = append(report.Failed, id)
			report.Err = multierr.Append(report.Err, err)
			continue
		}
		report.Migrated = append(report.Migrated, id)
	}

	if report.Err != nil {
		if s.logg != nil {
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"migrated": len(report.Migrated),
				"failed":   report.Failed,
			})
			s.logg.Warn(s.logg.WithField(logCtx, "error", report.Err.Error()), "wishlist.migration_partial")
		}
	} else if len(ids) > 0 {
		if err := s.guests.Clear(ctx, s.guestID); err != nil {
			return report, err
		}
	}

	return report, s.Refresh(ctx)
}

// ReturnToGuest switches back to guest mode without touching guest storage.
func (s *Sync) ReturnToGuest() {
	s.mode = enums.WishlistModeGuest
	s.items = nil
}

// Rebind moves guest storage lookups to a new guest ID.
func (s *Sync) Rebind(guestID string) {
	if guestID != "" {
		s.guestID = guestID
	}
}

// Logout returns to guest mode with an empty guest list. The server wishlist
// is not copied back to guest storage.
func (s *Sync) Logout(ctx context.Context) error {
	s.mode = enums.WishlistModeGuest
	s.items = nil
	return s.guests.Clear(ctx, s.guestID)
}
