// Package orders caches order history for the current page lifetime. The
// user's own orders and the admin's view of all orders live in separate
// slots, paginated independently, and both are dropped on Invalidate so the
// next view refetches fresh data.
package orders

import (
	"context"
	"sync"

	"github.com/allegrolike/storefront/internal/api"
	"github.com/allegrolike/storefront/internal/models"
	"github.com/allegrolike/storefront/internal/result"
)

// normalize clamps page/size the way the backend does, so the cached cursor
// matches what was actually served.
func normalize(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 10
	}
	return page, size
}

type slot struct {
	orders []models.Order
	loaded bool
	page   int
	size   int
}

type Store struct {
	client *api.Client

	mu   sync.Mutex
	mine slot
	all  slot
}

func NewStore(client *api.Client) *Store {
	return &Store{client: client}
}

// Mine returns the cached own-order list and whether it has been loaded.
func (s *Store) Mine() ([]models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mine.orders, s.mine.loaded
}

// All returns the cached all-users list (admin) and whether it was loaded.
func (s *Store) All() ([]models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.all.orders, s.all.loaded
}

// LoadMine fetches a page of the current user's orders. A page already held
// is served from the cache; a different page always round-trips.
func (s *Store) LoadMine(ctx context.Context, userID uint, page, size int) result.Result[[]models.Order] {
	page, size = normalize(page, size)

	s.mu.Lock()
	if s.mine.loaded && s.mine.page == page && s.mine.size == size {
		held := s.mine.orders
		s.mu.Unlock()
		return result.Ok(held)
	}
	s.mu.Unlock()

	r := s.client.GetUserOrders(ctx, userID, page, size)
	if r.OK {
		s.mu.Lock()
		s.mine = slot{orders: r.Content, loaded: true, page: page, size: size}
		s.mu.Unlock()
	}
	return r
}

// LoadAll fetches a page of every user's orders. Admin only; the server
// enforces the role, the store just keeps the slot separate.
func (s *Store) LoadAll(ctx context.Context, page, size int) result.Result[[]models.Order] {
	page, size = normalize(page, size)

	s.mu.Lock()
	if s.all.loaded && s.all.page == page && s.all.size == size {
		held := s.all.orders
		s.mu.Unlock()
		return result.Ok(held)
	}
	s.mu.Unlock()

	r := s.client.GetAllOrders(ctx, page, size)
	if r.OK {
		s.mu.Lock()
		s.all = slot{orders: r.Content, loaded: true, page: page, size: size}
		s.mu.Unlock()
	}
	return r
}

// Invalidate drops both slots. Called after an order is placed and on
// logout.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.mine = slot{}
	s.all = slot{}
	s.mu.Unlock()
}
