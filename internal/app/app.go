package app

import (
	"context"
	"os"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/gnretail/pos-terminal/internal/client"
	"github.com/gnretail/pos-terminal/internal/domain/sale"
	"github.com/gnretail/pos-terminal/internal/terminal"
)

// Run creates all dependencies, loads the catalog snapshot, and runs the
// interactive register session until the cashier quits or the context is
// cancelled. It is the single wiring point for the terminal.
func Run(ctx context.Context, lg *zap.Logger, _ *app.Metrics, cfg *Config) error {
	lg.Info("Initializing", zap.String("api_url", cfg.APIURL))

	session := client.NewSession(cfg.APIToken)
	c, err := client.New(client.Config{
		BaseURL: cfg.APIURL,
		Timeout: cfg.Timeout,
	}, session, lg)
	if err != nil {
		return errors.Wrap(err, "create client")
	}

	// One snapshot per session: products and stores are loaded when the
	// register opens and never refreshed (added items keep their frozen
	// prices either way).
	snapshot, err := c.LoadSnapshot(ctx)
	if err != nil {
		return errors.Wrap(err, "load catalog snapshot")
	}
	lg.Info("Catalog snapshot loaded",
		zap.Int("products", len(snapshot.Products())),
		zap.Int("stores", len(snapshot.Stores())),
	)

	builder := sale.NewBuilder(snapshot, c)

	if cfg.StoreID == "" {
		if stores := snapshot.Stores(); len(stores) == 1 {
			cfg.StoreID = stores[0].ID
		}
	}
	if cfg.StoreID != "" {
		if err := builder.SetStore(cfg.StoreID); err != nil {
			return errors.Wrapf(err, "preselect store %q", cfg.StoreID)
		}
		lg.Info("Store preselected", zap.String("store_id", cfg.StoreID))
	}

	term := terminal.New(builder, snapshot, os.Stdout)
	return term.Run(ctx, os.Stdin)
}
