// Package checkout drives the place-order flow: review the cart, collect a
// shipping address if the user has none, create the order, then invalidate
// the caches the order made stale.
package checkout

import (
	"context"
	"strings"
	"sync"

	"github.com/allegrolike/storefront/internal/api"
	"github.com/allegrolike/storefront/internal/cart"
	"github.com/allegrolike/storefront/internal/logging"
	"github.com/allegrolike/storefront/internal/models"
	"github.com/allegrolike/storefront/internal/orders"
	"github.com/allegrolike/storefront/internal/result"
	"github.com/allegrolike/storefront/internal/session"
)

// NotLoggedInMsg is returned when checkout is attempted without a session.
const NotLoggedInMsg = "you must be logged in to place an order"

type Step int

const (
	ReviewingCart Step = iota
	// NeedAddress interrupts the flow until SubmitAddress succeeds. No
	// order-creation call is made while the flow sits here.
	NeedAddress
	OrderPlaced
)

type Flow struct {
	client  *api.Client
	session *session.Store
	cart    *cart.Store
	orders  *orders.Store

	mu     sync.Mutex
	step   Step
	placed *models.Order
}

func NewFlow(client *api.Client, sess *session.Store, cartStore *cart.Store, orderStore *orders.Store) *Flow {
	return &Flow{client: client, session: sess, cart: cartStore, orders: orderStore}
}

// Step returns the flow's current position and, after OrderPlaced, the order.
func (f *Flow) Step() (Step, *models.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step, f.placed
}

// PlaceOrder creates an order from the current cart. A user without a saved
// shipping address moves the flow to NeedAddress instead; that is a hard
// precondition, and the order endpoint is not touched until it is met.
func (f *Flow) PlaceOrder(ctx context.Context) result.Result[models.Order] {
	l := logging.FromContext(ctx).With("component", "checkout")

	state, user := f.session.State()
	if state != session.Authenticated {
		return result.Fail[models.Order](NotLoggedInMsg)
	}

	if user.Address == nil {
		f.mu.Lock()
		f.step = NeedAddress
		f.mu.Unlock()
		l.Info("address_required", "username", user.Username)
		return result.Fail[models.Order]("a shipping address is required before placing an order")
	}

	r := f.client.CreateOrder(ctx, user.ID, nil)
	if !r.OK {
		l.Warn("order_failed", "message", r.ErrMessage)
		return r
	}

	// The server emptied the cart as a side effect; refetch rather than
	// guess, and force the order views to reload.
	f.cart.Invalidate()
	f.cart.Refresh(ctx)
	f.orders.Invalidate()

	order := r.Content
	f.mu.Lock()
	f.step = OrderPlaced
	f.placed = &order
	f.mu.Unlock()
	l.Info("order_placed", "order_id", order.ID, "total", order.TotalPrice)
	return r
}

// SubmitAddress resolves the shipping address during the NeedAddress step,
// with a create-or-search flow: an existing address matching the form is
// reused, otherwise a new one is created. On success the session user is
// replaced with the server's updated copy and the flow returns to
// ReviewingCart so PlaceOrder can be retried.
func (f *Flow) SubmitAddress(ctx context.Context, req api.CreateAddressRequest) result.Result[models.User] {
	state, user := f.session.State()
	if state != session.Authenticated {
		return result.Fail[models.User](NotLoggedInMsg)
	}

	var r result.Result[models.User]
	if existing := f.findExisting(ctx, req); existing != nil {
		r = f.client.SetUserAddress(ctx, user.ID, existing.ID)
	} else {
		r = f.client.CreateUserAddress(ctx, user.ID, req)
	}
	if !r.OK {
		return r
	}

	updated := r.Content
	f.session.SetUser(&updated)
	f.mu.Lock()
	f.step = ReviewingCart
	f.mu.Unlock()
	return r
}

// findExisting searches the address book for a row equal to the submitted
// form. Search failures fall through to creation: the flow must not die on a
// lookup that is only an optimization.
func (f *Flow) findExisting(ctx context.Context, req api.CreateAddressRequest) *models.Address {
	query := strings.TrimSpace(req.Street + " " + req.City)
	if query == "" {
		return nil
	}
	r := f.client.SearchAddresses(ctx, query)
	if !r.OK {
		return nil
	}
	for i := range r.Content {
		a := &r.Content[i]
		if a.City == req.City && a.Country == req.Country &&
			a.Street == req.Street && a.HouseNumber == req.HouseNumber {
			return a
		}
	}
	return nil
}
