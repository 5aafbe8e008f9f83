package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/allegrolike/storefront/internal/api"
	"github.com/allegrolike/storefront/internal/api/apitest"
	"github.com/allegrolike/storefront/internal/models"
	"github.com/allegrolike/storefront/internal/session"
	"github.com/allegrolike/storefront/internal/tokenstore"
)

type env struct {
	srv    *apitest.Server
	tokens *tokenstore.Memory
	store  *session.Store
}

func newEnv(t *testing.T) *env {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)

	tokens := tokenstore.NewMemory()
	client := api.NewClient(srv.URL, tokenstore.Source{Store: tokens}, 5*time.Second)
	return &env{srv: srv, tokens: tokens, store: session.NewStore(client, tokens)}
}

func TestLoginTransitionsToAuthenticated(t *testing.T) {
	e := newEnv(t)

	r := e.store.Login(context.Background(), "alice", "wonderland")
	require.True(t, r.OK)
	require.Equal(t, "alice", r.Content.Username)

	state, user := e.store.State()
	require.Equal(t, session.Authenticated, state)
	require.Equal(t, "alice", user.Username)
	require.NotEmpty(t, user.Role)

	// The token must be persisted and usable to rebuild the session.
	v, ok, err := e.tokens.Load(tokenstore.TokenName)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, e.srv.Token, v)
}

func TestLoginHydratesFullProfile(t *testing.T) {
	e := newEnv(t)
	e.srv.User.Address = &models.Address{ID: 7, City: "Warsaw", Country: "PL", Street: "Main", HouseNumber: 3}

	r := e.store.Login(context.Background(), "alice", "wonderland")
	require.True(t, r.OK)

	_, user := e.store.State()
	require.Equal(t, uint(1), user.ID)
	require.NotNil(t, user.Address)
	require.Equal(t, "Warsaw", user.Address.City)
}

func TestLoginFailureLeavesStateUnchanged(t *testing.T) {
	e := newEnv(t)

	r := e.store.Login(context.Background(), "alice", "wrong")
	require.False(t, r.OK)
	require.NotEmpty(t, r.ErrMessage)

	state, user := e.store.State()
	require.Equal(t, session.Unknown, state)
	require.Nil(t, user)

	_, ok, err := e.tokens.Load(tokenstore.TokenName)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRestoreRebuildsSessionFromPersistedToken(t *testing.T) {
	e := newEnv(t)

	r := e.store.Login(context.Background(), "alice", "wonderland")
	require.True(t, r.OK)

	// A fresh store over the same token file is "the app after reload".
	client := api.NewClient(e.srv.URL, tokenstore.Source{Store: e.tokens}, 5*time.Second)
	reloaded := session.NewStore(client, e.tokens)
	require.Equal(t, session.Authenticated, reloaded.Restore(context.Background()))

	_, user := reloaded.State()
	require.Equal(t, "alice", user.Username)
}

func TestRestoreWithoutTokenIsAnonymous(t *testing.T) {
	e := newEnv(t)
	require.Equal(t, session.Anonymous, e.store.Restore(context.Background()))
}

func TestRestoreExpiredTokenDegradesToAnonymous(t *testing.T) {
	e := newEnv(t)

	stale := apitest.SignToken("alice", models.RoleUser, time.Now().Add(-time.Minute))
	require.NoError(t, e.tokens.Save(tokenstore.TokenName, stale, time.Now().Add(time.Hour)))

	require.Equal(t, session.Anonymous, e.store.Restore(context.Background()))

	// The bad token is cleared so the next boot skips the check.
	_, ok, err := e.tokens.Load(tokenstore.TokenName)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRestoreServerRejectedTokenDegradesToAnonymous(t *testing.T) {
	e := newEnv(t)

	other := apitest.SignToken("mallory", models.RoleUser, time.Now().Add(time.Hour))
	require.NoError(t, e.tokens.Save(tokenstore.TokenName, other, time.Now().Add(time.Hour)))

	require.Equal(t, session.Anonymous, e.store.Restore(context.Background()))
}

func TestLogoutIsIdempotent(t *testing.T) {
	e := newEnv(t)

	r := e.store.Login(context.Background(), "alice", "wonderland")
	require.True(t, r.OK)

	e.store.Logout()
	state, user := e.store.State()
	require.Equal(t, session.Anonymous, state)
	require.Nil(t, user)

	e.store.Logout()
	state, _ = e.store.State()
	require.Equal(t, session.Anonymous, state)

	_, ok, err := e.tokens.Load(tokenstore.TokenName)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRegisterAutoAuthenticates(t *testing.T) {
	e := newEnv(t)

	r := e.store.Register(context.Background(), "bob", "bob@example.com", "pw")
	require.True(t, r.OK)

	state, user := e.store.State()
	require.Equal(t, session.Authenticated, state)
	require.Equal(t, "bob", user.Username)
}

func TestSetUserReplacesWholesale(t *testing.T) {
	e := newEnv(t)

	r := e.store.Login(context.Background(), "alice", "wonderland")
	require.True(t, r.OK)

	updated := &models.User{ID: 1, Username: "alice2", Email: "alice2@example.com", Role: models.RoleUser}
	e.store.SetUser(updated)

	_, user := e.store.State()
	require.Equal(t, "alice2", user.Username)
	require.Equal(t, "alice2@example.com", user.Email)
	require.Nil(t, user.Address)
}
