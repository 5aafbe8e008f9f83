package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/allegrolike/storefront/internal/api"
	"github.com/allegrolike/storefront/internal/cart"
	"github.com/allegrolike/storefront/internal/checkout"
	"github.com/allegrolike/storefront/internal/config"
	"github.com/allegrolike/storefront/internal/guard"
	"github.com/allegrolike/storefront/internal/logging"
	"github.com/allegrolike/storefront/internal/orders"
	"github.com/allegrolike/storefront/internal/session"
	"github.com/allegrolike/storefront/internal/tokenstore"
)

type app struct {
	cfg      config.Config
	log      *slog.Logger
	client   *api.Client
	session  *session.Store
	cart     *cart.Store
	orders   *orders.Store
	checkout *checkout.Flow
}

func (a *app) init() error {
	a.cfg = config.Load()
	a.log = logging.New(a.cfg.LogLevel)

	var tokens tokenstore.Store
	db, err := tokenstore.OpenSQLite(a.cfg.TokenDBPath)
	if err != nil {
		a.log.Warn("token_db_unavailable", "path", a.cfg.TokenDBPath, "error", err)
		tokens = tokenstore.NewMemory()
	} else {
		tokens = db
	}

	a.client = api.NewClient(a.cfg.ServerURL, tokenstore.Source{Store: tokens}, time.Duration(a.cfg.HTTPTimeoutSeconds)*time.Second)
	a.session = session.NewStore(a.client, tokens)
	a.cart = cart.NewStore(a.client)
	a.orders = orders.NewStore(a.client)
	a.checkout = checkout.NewFlow(a.client, a.session, a.cart, a.orders)
	return nil
}

func (a *app) ctx() context.Context {
	return logging.IntoContext(context.Background(), a.log)
}

// enter restores the session and applies the route guard for the named
// target, printing the would-be redirect when entry is denied.
func (a *app) enter(required guard.Requirement, target string) error {
	ctx := a.ctx()
	a.session.Restore(ctx)

	state, user := a.session.State()
	d := guard.Evaluate(state, user, required, target)
	switch d.Outcome {
	case guard.Allow:
		return nil
	case guard.RedirectLogin:
		return fmt.Errorf("you are not logged in; run `storefront login` and retry %s", d.ReturnTo)
	case guard.RedirectHome:
		return fmt.Errorf("this command needs admin rights")
	default:
		return fmt.Errorf("session state is still being resolved, try again")
	}
}

func main() {
	a := &app{}

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Command-line client for the allegrolike storefront",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.AddCommand(
		a.loginCmd(),
		a.registerCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.profileCmd(),
		a.productsCmd(),
		a.categoriesCmd(),
		a.cartCmd(),
		a.ordersCmd(),
		a.checkoutCmd(),
		a.dashboardCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
