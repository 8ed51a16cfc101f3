package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/pgkim42/book-bean-frontend-sub000/pkg/backend"
	pkgerrors "github.com/pgkim42/book-bean-frontend-sub000/pkg/errors"
	"github.com/pgkim42/book-bean-frontend-sub000/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	items   []backend.CartItem
	nextID  int64
	calls   []string
	failOn  string
	getErr  error
	updates map[int64]int
}

func newStubGateway(items ...backend.CartItem) *stubGateway {
	return &stubGateway{items: items, nextID: 100, updates: map[int64]int{}}
}

func (g *stubGateway) fail(op string) error {
	if g.failOn == op {
		return pkgerrors.New(pkgerrors.CodeUpstreamRejected, op+" refused")
	}
	return nil
}

func (g *stubGateway) GetCart(ctx context.Context) (*backend.Cart, error) {
	g.calls = append(g.calls, "get")
	if g.getErr != nil {
		return nil, g.getErr
	}
	items := make([]backend.CartItem, len(g.items))
	copy(items, g.items)
	return &backend.Cart{Items: items}, nil
}

func (g *stubGateway) AddCartItem(ctx context.Context, req backend.AddCartItemRequest) error {
	g.calls = append(g.calls, "add")
	if err := g.fail("add"); err != nil {
		return err
	}
	g.nextID++
	g.items = append(g.items, backend.CartItem{ID: g.nextID, BookID: req.BookID, Quantity: req.Quantity, UnitPrice: 10000, Stock: 10})
	return nil
}

func (g *stubGateway) UpdateCartItem(ctx context.Context, itemID int64, quantity int) error {
	g.calls = append(g.calls, "update")
	if err := g.fail("update"); err != nil {
		return err
	}
	g.updates[itemID] = quantity
	for i := range g.items {
		if g.items[i].ID == itemID {
			g.items[i].Quantity = quantity
		}
	}
	return nil
}

func (g *stubGateway) RemoveCartItem(ctx context.Context, itemID int64) error {
	g.calls = append(g.calls, "remove")
	if err := g.fail("remove"); err != nil {
		return err
	}
	kept := g.items[:0]
	for _, item := range g.items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	g.items = kept
	return nil
}

func (g *stubGateway) ClearCart(ctx context.Context) error {
	g.calls = append(g.calls, "clear")
	if err := g.fail("clear"); err != nil {
		return err
	}
	g.items = nil
	return nil
}

func loadedState(t *testing.T, gw *stubGateway) *State {
	t.Helper()
	state, err := NewState(gw)
	require.NoError(t, err)
	require.NoError(t, state.Refresh(context.Background()))
	gw.calls = nil
	return state
}

func twoBooks() []backend.CartItem {
	return []backend.CartItem{
		{ID: 1, BookID: 10, Title: "Learning Go", Quantity: 2, UnitPrice: 15000, Stock: 5},
		{ID: 2, BookID: 20, Title: "The Go Programming Language", Quantity: 1, UnitPrice: 8000, Stock: 3},
	}
}

func TestNewStateRequiresGateway(t *testing.T) {
	_, err := NewState(nil)
	require.Error(t, err)
}

func TestRefreshSelectsNewLines(t *testing.T) {
	state := loadedState(t, newStubGateway(twoBooks()...))

	assert.True(t, state.Loaded())
	assert.Len(t, state.SelectedLines(), 2)
	assert.Equal(t, types.Money(38000), state.SelectedSubtotal())
}

func TestSelectionSurvivesRefetch(t *testing.T) {
	gw := newStubGateway(twoBooks()...)
	state := loadedState(t, gw)

	selected, err := state.ToggleSelection(2)
	require.NoError(t, err)
	assert.False(t, selected)

	require.NoError(t, state.Add(context.Background(), 30, 1))
	lines := state.Lines()
	require.Len(t, lines, 3)
	assert.True(t, lines[0].Selected)
	assert.False(t, lines[1].Selected)
	assert.True(t, lines[2].Selected)
	assert.Equal(t, types.Money(40000), state.SelectedSubtotal())
}

func TestUpdateQuantityBelowOneIsNoop(t *testing.T) {
	for _, qty := range []int{0, -1, -20} {
		gw := newStubGateway(twoBooks()...)
		state := loadedState(t, gw)

		updated, err := state.UpdateQuantity(context.Background(), 1, qty)
		require.NoError(t, err)
		assert.False(t, updated)
		assert.Empty(t, gw.calls, "no network call for quantity %d", qty)
		assert.Equal(t, 2, state.Lines()[0].Quantity)
	}
}

func TestMutationsRefetch(t *testing.T) {
	gw := newStubGateway(twoBooks()...)
	state := loadedState(t, gw)
	ctx := context.Background()

	updated, err := state.UpdateQuantity(ctx, 1, 4)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, []string{"update", "get"}, gw.calls)
	assert.Equal(t, 4, state.Lines()[0].Quantity)

	gw.calls = nil
	require.NoError(t, state.Remove(ctx, 2))
	assert.Equal(t, []string{"remove", "get"}, gw.calls)
	assert.Len(t, state.Lines(), 1)

	gw.calls = nil
	require.NoError(t, state.Clear(ctx))
	assert.Equal(t, []string{"clear", "get"}, gw.calls)
	assert.Empty(t, state.Lines())
	assert.Equal(t, types.Money(0), state.SelectedSubtotal())
}

func TestFailedMutationKeepsLines(t *testing.T) {
	gw := newStubGateway(twoBooks()...)
	gw.failOn = "update"
	state := loadedState(t, gw)

	updated, err := state.UpdateQuantity(context.Background(), 1, 3)
	require.Error(t, err)
	assert.False(t, updated)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUpstreamRejected))
	assert.Equal(t, []string{"update"}, gw.calls)
	assert.Equal(t, 2, state.Lines()[0].Quantity)
}

func TestUnknownLine(t *testing.T) {
	gw := newStubGateway(twoBooks()...)
	state := loadedState(t, gw)

	_, err := state.ToggleSelection(99)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	err = state.Remove(context.Background(), 99)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
	assert.Empty(t, gw.calls)
}

func TestAddValidatesInput(t *testing.T) {
	gw := newStubGateway()
	state := loadedState(t, gw)

	err := state.Add(context.Background(), 0, 1)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	err = state.Add(context.Background(), 5, 0)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, gw.calls)
}

func TestRefreshErrorKeepsPreviousLines(t *testing.T) {
	gw := newStubGateway(twoBooks()...)
	state := loadedState(t, gw)
	gw.getErr = errors.New("boom")

	require.Error(t, state.Refresh(context.Background()))
	assert.Len(t, state.Lines(), 2)
}

func TestSetAllSelectedAndSummary(t *testing.T) {
	items := twoBooks()
	items[0].Quantity = 7
	items[1].PriceChanged = true
	state := loadedState(t, newStubGateway(items...))

	state.SetAllSelected(false)
	summary := state.Summary()
	assert.Equal(t, types.Money(0), summary.Subtotal)
	assert.Equal(t, 0, summary.SelectedCount)
	assert.False(t, summary.AllSelected)

	state.SetAllSelected(true)
	summary = state.Summary()
	assert.Equal(t, types.Money(113000), summary.Subtotal)
	assert.True(t, summary.AllSelected)
	assert.Equal(t, types.Money(105000), summary.Lines[0].LineTotal)
	require.Len(t, summary.Warnings, 2)
	assert.Equal(t, WarningInsufficientStock, summary.Warnings[0].Kind)
	assert.Equal(t, WarningPriceChanged, summary.Warnings[1].Kind)
	assert.Equal(t, int64(2), summary.Warnings[1].LineID)
}

func TestEmptyCartIsNotAllSelected(t *testing.T) {
	state := loadedState(t, newStubGateway())
	assert.False(t, state.Summary().AllSelected)
}
