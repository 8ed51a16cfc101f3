package enums

// WishlistMode selects where a shopper's wishlist lives.
type WishlistMode string

const (
	WishlistModeGuest         WishlistMode = "GUEST"
	WishlistModeAuthenticated WishlistMode = "AUTHENTICATED"
)

func (m WishlistMode) String() string {
	return string(m)
}
