// Package session tracks who the current user is. The store is a three-state
// machine: Unknown until the persisted token has been checked, then either
// Authenticated or Anonymous. The persisted token is rewritten on every
// transition into Authenticated and deleted on every transition into
// Anonymous, so the store and the token file never disagree for long.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/allegrolike/storefront/internal/api"
	"github.com/allegrolike/storefront/internal/logging"
	"github.com/allegrolike/storefront/internal/models"
	"github.com/allegrolike/storefront/internal/result"
	"github.com/allegrolike/storefront/internal/tokenstore"
)

type State int

const (
	// Unknown is the boot state, before the persisted token was checked.
	Unknown State = iota
	Anonymous
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

type Store struct {
	client *api.Client
	tokens tokenstore.Store

	mu    sync.Mutex
	state State
	user  *models.User
}

func NewStore(client *api.Client, tokens tokenstore.Store) *Store {
	return &Store{client: client, tokens: tokens, state: Unknown}
}

// State returns the current state and, when authenticated, the current user.
func (s *Store) State() (State, *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.user
}

// Restore resolves the boot state from the persisted token. A missing,
// expired or server-rejected token degrades to Anonymous; it is never
// surfaced as an error.
func (s *Store) Restore(ctx context.Context) State {
	l := logging.FromContext(ctx).With("component", "session")

	raw, ok, err := s.tokens.Load(tokenstore.TokenName)
	if err != nil || !ok {
		if err != nil {
			l.Warn("token_load_failed", "error", err)
		}
		return s.becomeAnonymous()
	}

	if _, _, err := decodeToken(raw); err != nil {
		l.Info("persisted_token_rejected", "error", err)
		return s.becomeAnonymous()
	}

	check := s.client.CheckToken(ctx)
	if !check.OK {
		l.Info("token_check_failed", "message", check.ErrMessage)
		return s.becomeAnonymous()
	}

	user := check.Content
	s.mu.Lock()
	s.state = Authenticated
	s.user = &user
	s.mu.Unlock()
	l.Info("session_restored", "username", user.Username, "role", user.Role)
	return Authenticated
}

// Login authenticates against the backend. On success the token is persisted
// and the state moves to Authenticated; on failure the state is left exactly
// as it was and the message is handed back to the caller.
func (s *Store) Login(ctx context.Context, username, password string) result.Result[models.User] {
	r := s.client.Login(ctx, api.LoginRequest{Username: username, Password: password})
	if !r.OK {
		return result.Fail[models.User](r.ErrMessage)
	}
	return s.adoptToken(ctx, r.Content.Token)
}

// Register creates an account and authenticates in the same motion: the
// registration endpoint returns a token just like login does.
func (s *Store) Register(ctx context.Context, username, email, password string) result.Result[models.User] {
	r := s.client.Register(ctx, api.RegisterRequest{Username: username, Email: email, Password: password})
	if !r.OK {
		return result.Fail[models.User](r.ErrMessage)
	}
	return s.adoptToken(ctx, r.Content.Token)
}

func (s *Store) adoptToken(ctx context.Context, raw string) result.Result[models.User] {
	l := logging.FromContext(ctx).With("component", "session")

	decoded, exp, err := decodeToken(raw)
	if err != nil {
		l.Error("token_decode_failed", "error", err)
		return result.ServerError[models.User]()
	}

	expires := time.Now().Add(tokenstore.TokenTTL)
	if exp.Before(expires) {
		expires = exp
	}
	if err := s.tokens.Save(tokenstore.TokenName, raw, expires); err != nil {
		l.Warn("token_persist_failed", "error", err)
	}

	// The token only carries username and role. Hydrate the full profile
	// (id, email, address) from the server; fall back to the decoded
	// claims if that call fails.
	user := decoded
	if check := s.client.CheckToken(ctx); check.OK {
		full := check.Content
		user = &full
	}

	s.mu.Lock()
	s.state = Authenticated
	s.user = user
	s.mu.Unlock()
	l.Info("logged_in", "username", user.Username, "role", user.Role)
	return result.Ok(*user)
}

// Logout drops the session unconditionally. No server round-trip is needed
// and repeating it is harmless.
func (s *Store) Logout() {
	s.becomeAnonymous()
}

func (s *Store) becomeAnonymous() State {
	_ = s.tokens.Delete(tokenstore.TokenName)
	s.mu.Lock()
	s.state = Anonymous
	s.user = nil
	s.mu.Unlock()
	return Anonymous
}

// SetUser replaces the in-memory user wholesale. Profile and address updates
// call this with the full user the server returned; there is no field-level
// merge, which keeps stale fields from surviving an update.
func (s *Store) SetUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Authenticated && u != nil {
		s.user = u
	}
}
