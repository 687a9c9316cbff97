// Package app wires the client core together: configuration, local storage,
// session, gateway, the resource stores and the completion flow. Hosts (the
// CLI, a mobile shell) build one App and talk to its fields.
package app

import (
	"context"
	"fmt"

	"github.com/l-mendez/listita/internal/api"
	"github.com/l-mendez/listita/internal/checkout"
	"github.com/l-mendez/listita/internal/clipper"
	"github.com/l-mendez/listita/internal/config"
	"github.com/l-mendez/listita/internal/database"
	"github.com/l-mendez/listita/internal/prefs"
	"github.com/l-mendez/listita/internal/session"
	"github.com/l-mendez/listita/internal/store"
)

// App is the assembled client core.
type App struct {
	Config  *config.Config
	Prefs   *prefs.Store
	Session *session.Store
	Client  *api.Client

	Lists      *store.ListStore
	Detail     *store.ListDetailStore
	Categories *store.CategoryStore
	Products   *store.ProductStore
	Purchases  *store.PurchaseStore
	Profile    *store.ProfileStore

	Binder   *store.AuthBinder
	Checkout *checkout.Orchestrator
	Clipper  *clipper.Clipper

	db     *database.DB
	cancel context.CancelFunc
}

// New builds the client core from configuration. The navigator is the host's
// hook for the completion flow's navigate-back; it must not be nil.
func New(parent context.Context, cfg *config.Config, nav checkout.Navigator) (*App, error) {
	ctx, cancel := context.WithCancel(parent)

	db, err := database.NewDB(cfg.DatabasePath())
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}

	prefStore := prefs.NewStore(db.SQL)
	sess := session.NewStore(ctx, prefStore)

	client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, sess)
	// A rejected token anywhere logs the whole client out; the auth binder
	// then resets every store.
	client.OnAuthError(func() {
		sess.ClearToken(ctx)
	})

	a := &App{
		Config:  cfg,
		Prefs:   prefStore,
		Session: sess,
		Client:  client,
		db:      db,
		cancel:  cancel,
	}

	a.Lists = store.NewListStore(ctx, client)
	a.Detail = store.NewListDetailStore(ctx, client)
	a.Products = store.NewProductStore(ctx, client)
	a.Categories = store.NewCategoryStore(ctx, client, a.Products.Reload)
	a.Purchases = store.NewPurchaseStore(ctx, client, a.Lists.AdoptRestored)
	a.Profile = store.NewProfileStore(ctx, client)

	a.Binder = store.NewAuthBinder(sess,
		a.Lists, a.Detail, a.Categories, a.Products, a.Purchases, a.Profile)
	a.Binder.Bind()

	a.Checkout = checkout.New(client, a.Detail, a.Lists, nav)
	a.Clipper = clipper.NewClipper(client)

	return a, nil
}

// Login authenticates and stores the token; bound stores reload via the
// session subscription.
func (a *App) Login(ctx context.Context, email, password string) error {
	token, _, err := a.Client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	a.Session.SetToken(ctx, token)
	return nil
}

// Logout clears the token; bound stores reset synchronously.
func (a *App) Logout(ctx context.Context) {
	a.Session.ClearToken(ctx)
}

// Close shuts down the stores and the local database.
func (a *App) Close() error {
	a.Binder.Unbind()
	a.Lists.Close()
	a.Detail.Close()
	a.Categories.Close()
	a.Products.Close()
	a.Purchases.Close()
	a.Profile.Close()
	a.cancel()
	return a.db.Close()
}
