package cart

import (
	"context"

	"github.com/pgkim42/book-bean-frontend-sub000/pkg/backend"
	pkgerrors "github.com/pgkim42/book-bean-frontend-sub000/pkg/errors"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/types"
)

// Gateway is the slice of the bookstore API the cart needs.
type Gateway interface {
	GetCart(ctx context.Context) (*backend.Cart, error)
	AddCartItem(ctx context.Context, req backend.AddCartItemRequest) error
	UpdateCartItem(ctx context.Context, itemID int64, quantity int) error
	RemoveCartItem(ctx context.Context, itemID int64) error
	ClearCart(ctx context.Context) error
}

// Line is one book in the cart plus the shopper's checkout selection.
type Line struct {
	ID           int64       `json:"id"`
	BookID       int64       `json:"bookId"`
	Title        string      `json:"title"`
	Author       string      `json:"author,omitempty"`
	ImageURL     string      `json:"imageUrl,omitempty"`
	Quantity     int         `json:"quantity"`
	UnitPrice    types.Money `json:"unitPrice"`
	Stock        int         `json:"stock"`
	PriceChanged bool        `json:"priceChanged"`
	Selected     bool        `json:"selected"`
}

func (l Line) Total() types.Money {
	return l.UnitPrice.Mul(l.Quantity)
}

// State mirrors the server cart. Every mutation goes to the server and is
// followed by a full refetch; lines are never patched locally. State is not
// safe for concurrent use, callers serialise access.
type State struct {
	gateway Gateway
	lines   []Line
	loaded  bool
}

func NewState(gateway Gateway) (*State, error) {
	if gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart gateway is required")
	}
	return &State{gateway: gateway}, nil
}

// Refresh replaces the lines with the server cart. Lines already known keep
// their selection; new lines start selected.
func (s *State) Refresh(ctx context.Context) error {
	remote, err := s.gateway.GetCart(ctx)
	if err != nil {
		return err
	}

	previous := make(map[int64]bool, len(s.lines))
	for _, line := range s.lines {
		previous[line.ID] = line.Selected
	}

	lines := make([]Line, 0, len(remote.Items))
	for _, item := range remote.Items {
		selected, known := previous[item.ID]
		if !known {
			selected = true
		}
		lines = append(lines, Line{
			ID:           item.ID,
			BookID:       item.BookID,
			Title:        item.Title,
			Author:       item.Author,
			ImageURL:     item.ImageURL,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			Stock:        item.Stock,
			PriceChanged: item.PriceChanged,
			Selected:     selected,
		})
	}
	s.lines = lines
	s.loaded = true
	return nil
}

// Loaded reports whether the cart has been fetched at least once.
func (s *State) Loaded() bool {
	return s.loaded
}

func (s *State) Add(ctx context.Context, bookID int64, quantity int) error {
	if bookID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "book id is required")
	}
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if err := s.gateway.AddCartItem(ctx, backend.AddCartItemRequest{BookID: bookID, Quantity: quantity}); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// UpdateQuantity changes a line's quantity. Quantities below 1 are ignored
// without contacting the server; the returned bool reports whether an update ran.
func (s *State) UpdateQuantity(ctx context.Context, lineID int64, quantity int) (bool, error) {
	if quantity < 1 {
		return false, nil
	}
	if _, ok := s.find(lineID); !ok {
		return false, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	if err := s.gateway.UpdateCartItem(ctx, lineID, quantity); err != nil {
		return false, err
	}
	return true, s.Refresh(ctx)
}

func (s *State) Remove(ctx context.Context, lineID int64) error {
	if _, ok := s.find(lineID); !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	if err := s.gateway.RemoveCartItem(ctx, lineID); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *State) Clear(ctx context.Context) error {
	if err := s.gateway.ClearCart(ctx); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Reset forgets all lines without contacting the server.
func (s *State) Reset() {
	s.lines = nil
	s.loaded = false
}

// ToggleSelection flips a line's selection and returns the new value.
func (s *State) ToggleSelection(lineID int64) (bool, error) {
	idx, ok := s.find(lineID)
	if !ok {
		return false, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	s.lines[idx].Selected = !s.lines[idx].Selected
	return s.lines[idx].Selected, nil
}

func (s *State) SetAllSelected(selected bool) {
	for i := range s.lines {
		s.lines[i].Selected = selected
	}
}

// Lines returns a copy of every line.
func (s *State) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *State) SelectedLines() []Line {
	out := make([]Line, 0, len(s.lines))
	for _, line := range s.lines {
		if line.Selected {
			out = append(out, line)
		}
	}
	return out
}

// SelectedSubtotal sums unit price times quantity over selected lines.
func (s *State) SelectedSubtotal() types.Money {
	var total types.Money
	for _, line := range s.lines {
		if line.Selected {
			total += line.Total()
		}
	}
	return total
}

func (s *State) find(lineID int64) (int, bool) {
	for i, line := range s.lines {
		if line.ID == lineID {
			return i, true
		}
	}
	return -1, false
}
