package cart_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/allegrolike/storefront/internal/api"
	"github.com/allegrolike/storefront/internal/api/apitest"
	"github.com/allegrolike/storefront/internal/cart"
	"github.com/allegrolike/storefront/internal/models"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newEnv(t *testing.T) (*apitest.Server, *cart.Store) {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)
	srv.Products = []models.Product{
		{ID: 1, Name: "keyboard", Price: decimal.NewFromInt(50), StockQuantity: 10},
		{ID: 2, Name: "mouse", Price: decimal.NewFromInt(20), StockQuantity: 10},
	}
	client := api.NewClient(srv.URL, staticToken(srv.Token), 5*time.Second)
	return srv, cart.NewStore(client)
}

func TestAddSameProductTwiceMergesLines(t *testing.T) {
	_, store := newEnv(t)
	ctx := context.Background()

	r := store.AddItem(ctx, 1, 2)
	require.True(t, r.OK)
	r = store.AddItem(ctx, 1, 3)
	require.True(t, r.OK)

	require.Len(t, r.Content.Items, 1)
	require.Equal(t, uint(5), r.Content.Items[0].Quantity)
}

func TestAddRejectsNonPositiveQuantityLocally(t *testing.T) {
	srv, store := newEnv(t)

	r := store.AddItem(context.Background(), 1, 0)
	require.False(t, r.OK)
	require.Equal(t, cart.ErrQuantityMsg, r.ErrMessage)
	require.Zero(t, srv.Calls("POST /api/cart/items"))
}

func TestUpdateRejectsNegativeQuantityLocally(t *testing.T) {
	srv, store := newEnv(t)

	r := store.UpdateItem(context.Background(), 1, -1)
	require.False(t, r.OK)
	require.Equal(t, cart.ErrQuantityMsg, r.ErrMessage)
	require.Zero(t, srv.Calls("PATCH /api/cart/items/:id"))
	require.Zero(t, srv.Calls("DELETE /api/cart/items/:id"))
}

func TestUpdateToZeroEqualsRemove(t *testing.T) {
	srv, store := newEnv(t)
	ctx := context.Background()

	r := store.AddItem(ctx, 1, 2)
	require.True(t, r.OK)
	r = store.AddItem(ctx, 2, 1)
	require.True(t, r.OK)
	itemID := r.Content.Items[0].ID

	r = store.UpdateItem(ctx, itemID, 0)
	require.True(t, r.OK)
	require.Len(t, r.Content.Items, 1)
	require.Equal(t, uint(2), r.Content.Items[0].Product.ID)

	// The zero update went out as a removal, not a PATCH.
	require.Zero(t, srv.Calls("PATCH /api/cart/items/:id"))
	require.Equal(t, 1, srv.Calls("DELETE /api/cart/items/:id"))
}

func TestUpdateSameQuantityStillRoundTrips(t *testing.T) {
	srv, store := newEnv(t)
	ctx := context.Background()

	r := store.AddItem(ctx, 1, 2)
	require.True(t, r.OK)
	itemID := r.Content.Items[0].ID

	r = store.UpdateItem(ctx, itemID, 2)
	require.True(t, r.OK)
	require.Equal(t, 1, srv.Calls("PATCH /api/cart/items/:id"))

	// Round-trip law: the local snapshot equals the server's cart.
	snap, loaded := store.Snapshot()
	require.True(t, loaded)
	require.Equal(t, srv.Cart, snap)
}

func TestLoadIsLazyRefreshIsNot(t *testing.T) {
	srv, store := newEnv(t)
	ctx := context.Background()

	r := store.Load(ctx)
	require.True(t, r.OK)
	r = store.Load(ctx)
	require.True(t, r.OK)
	require.Equal(t, 1, srv.Calls("GET /api/cart"))

	r = store.Refresh(ctx)
	require.True(t, r.OK)
	require.Equal(t, 2, srv.Calls("GET /api/cart"))
}

func TestInvalidateForcesRefetch(t *testing.T) {
	srv, store := newEnv(t)
	ctx := context.Background()

	r := store.Load(ctx)
	require.True(t, r.OK)
	store.Invalidate()

	_, loaded := store.Snapshot()
	require.False(t, loaded)

	r = store.Load(ctx)
	require.True(t, r.OK)
	require.Equal(t, 2, srv.Calls("GET /api/cart"))
}

func TestFailedMutationKeepsSnapshot(t *testing.T) {
	srv, store := newEnv(t)
	ctx := context.Background()

	r := store.AddItem(ctx, 1, 2)
	require.True(t, r.OK)
	before, _ := store.Snapshot()

	srv.FailNextJSON(400, "quantity exceeds stock")
	r = store.AddItem(ctx, 1, 100)
	require.False(t, r.OK)
	require.Equal(t, "quantity exceeds stock", r.ErrMessage)

	after, loaded := store.Snapshot()
	require.True(t, loaded)
	require.Equal(t, before, after)
}

func TestClearEmptiesCart(t *testing.T) {
	_, store := newEnv(t)
	ctx := context.Background()

	r := store.AddItem(ctx, 1, 2)
	require.True(t, r.OK)

	r = store.Clear(ctx)
	require.True(t, r.OK)
	require.Empty(t, r.Content.Items)
}
