// Package cart holds the local snapshot of the server-side cart. The
// snapshot is never edited in place: every mutation is a server round-trip
// and every successful response replaces the snapshot wholesale, so local
// state can never drift from the server's totals and stock checks.
package cart

import (
	"context"
	"sync"

	"github.com/allegrolike/storefront/internal/api"
	"github.com/allegrolike/storefront/internal/models"
	"github.com/allegrolike/storefront/internal/result"
)

// ErrQuantityMsg is the local validation failure for a non-positive add or a
// negative update. It is produced before any network call.
const ErrQuantityMsg = "quantity must be at least 1"

type Store struct {
	client *api.Client

	mu       sync.Mutex
	snapshot *models.Cart
}

func NewStore(client *api.Client) *Store {
	return &Store{client: client}
}

// Snapshot returns the current cart and whether one has been loaded.
func (s *Store) Snapshot() (models.Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return models.Cart{}, false
	}
	return *s.snapshot, true
}

// Load fetches the cart if no snapshot is held yet.
func (s *Store) Load(ctx context.Context) result.Result[models.Cart] {
	s.mu.Lock()
	held := s.snapshot
	s.mu.Unlock()
	if held != nil {
		return result.Ok(*held)
	}
	return s.replaceWith(s.client.GetCart(ctx))
}

// Refresh always round-trips, discarding whatever is held.
func (s *Store) Refresh(ctx context.Context) result.Result[models.Cart] {
	return s.replaceWith(s.client.GetCart(ctx))
}

// AddItem puts quantity units of a product into the cart. The server merges
// a product already present into its existing line instead of duplicating
// it; the returned snapshot reflects that.
func (s *Store) AddItem(ctx context.Context, productID uint, quantity int) result.Result[models.Cart] {
	if quantity < 1 {
		return result.Fail[models.Cart](ErrQuantityMsg)
	}
	return s.replaceWith(s.client.AddCartItem(ctx, productID, uint(quantity)))
}

// UpdateItem sets an item's quantity. Zero means remove; negative is
// rejected locally.
func (s *Store) UpdateItem(ctx context.Context, itemID uint, quantity int) result.Result[models.Cart] {
	if quantity < 0 {
		return result.Fail[models.Cart](ErrQuantityMsg)
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, itemID)
	}
	return s.replaceWith(s.client.UpdateCartItem(ctx, itemID, uint(quantity)))
}

func (s *Store) RemoveItem(ctx context.Context, itemID uint) result.Result[models.Cart] {
	return s.replaceWith(s.client.RemoveCartItem(ctx, itemID))
}

func (s *Store) Clear(ctx context.Context) result.Result[models.Cart] {
	return s.replaceWith(s.client.ClearCart(ctx))
}

// Invalidate drops the snapshot so the next Load refetches. Used after
// placing an order, when the server has emptied the cart behind our back.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.snapshot = nil
	s.mu.Unlock()
}

func (s *Store) replaceWith(r result.Result[models.Cart]) result.Result[models.Cart] {
	if !r.OK {
		return r
	}
	snap := r.Content
	s.mu.Lock()
	s.snapshot = &snap
	s.mu.Unlock()
	return r
}
