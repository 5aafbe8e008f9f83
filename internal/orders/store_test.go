package orders_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/allegrolike/storefront/internal/api"
	"github.com/allegrolike/storefront/internal/api/apitest"
	"github.com/allegrolike/storefront/internal/models"
	"github.com/allegrolike/storefront/internal/orders"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newEnv(t *testing.T) (*apitest.Server, *orders.Store) {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)
	srv.Orders = []models.Order{
		{ID: 10, UserID: 1, Status: "NEW", TotalPrice: decimal.NewFromInt(100)},
		{ID: 11, UserID: 2, Status: "SHIPPED", TotalPrice: decimal.NewFromInt(30)},
	}
	client := api.NewClient(srv.URL, staticToken(srv.Token), 5*time.Second)
	return srv, orders.NewStore(client)
}

func TestLoadMineFiltersToUser(t *testing.T) {
	_, store := newEnv(t)

	r := store.LoadMine(context.Background(), 1, 1, 10)
	require.True(t, r.OK)
	require.Len(t, r.Content, 1)
	require.Equal(t, uint(10), r.Content[0].ID)
}

func TestSamePageServedFromCache(t *testing.T) {
	srv, store := newEnv(t)
	ctx := context.Background()

	r := store.LoadMine(ctx, 1, 1, 10)
	require.True(t, r.OK)
	r = store.LoadMine(ctx, 1, 1, 10)
	require.True(t, r.OK)
	require.Equal(t, 1, srv.Calls("GET /api/orders/users/:id"))

	// A different page always round-trips.
	r = store.LoadMine(ctx, 1, 2, 10)
	require.True(t, r.OK)
	require.Equal(t, 2, srv.Calls("GET /api/orders/users/:id"))
}

func TestSlotsAreIndependent(t *testing.T) {
	srv, store := newEnv(t)
	ctx := context.Background()

	r := store.LoadMine(ctx, 1, 1, 10)
	require.True(t, r.OK)

	all := store.LoadAll(ctx, 1, 10)
	require.True(t, all.OK)
	require.Len(t, all.Content, 2)

	// Loading the admin slot must not disturb the user slot.
	mine, loaded := store.Mine()
	require.True(t, loaded)
	require.Len(t, mine, 1)
	require.Equal(t, 1, srv.Calls("GET /api/orders/users/:id"))
}

func TestInvalidateDropsBothSlots(t *testing.T) {
	srv, store := newEnv(t)
	ctx := context.Background()

	require.True(t, store.LoadMine(ctx, 1, 1, 10).OK)
	require.True(t, store.LoadAll(ctx, 1, 10).OK)

	store.Invalidate()
	_, mineLoaded := store.Mine()
	_, allLoaded := store.All()
	require.False(t, mineLoaded)
	require.False(t, allLoaded)

	require.True(t, store.LoadMine(ctx, 1, 1, 10).OK)
	require.Equal(t, 2, srv.Calls("GET /api/orders/users/:id"))
}

func TestPageNormalization(t *testing.T) {
	srv, store := newEnv(t)
	ctx := context.Background()

	// page 0 and page 1 are the same page; the second call hits the cache.
	require.True(t, store.LoadMine(ctx, 1, 0, 0).OK)
	require.True(t, store.LoadMine(ctx, 1, 1, 10).OK)
	require.Equal(t, 1, srv.Calls("GET /api/orders/users/:id"))
}

func TestFailedLoadKeepsSlotEmpty(t *testing.T) {
	srv, store := newEnv(t)

	srv.FailNext(500, "boom")
	r := store.LoadAll(context.Background(), 1, 10)
	require.False(t, r.OK)

	_, loaded := store.All()
	require.False(t, loaded)
}
