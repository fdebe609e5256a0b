package cli

import (
	"github.com/existflow/onescan/internal/api"
	"github.com/existflow/onescan/internal/config"
	"github.com/existflow/onescan/internal/reconcile"
	"github.com/existflow/onescan/internal/store"
)

// deps bundles the shared client-side components for a command run.
type deps struct {
	cfg     *config.Config
	persist *store.SQLite
	store   *store.Store
	client  *api.Client
	rec     *reconcile.Reconciler
}

func openDeps() (*deps, error) {
	cfg := loadedConfig
	if cfg == nil {
		var err error
		cfg, err = config.Load()
		if err != nil {
			cfg = config.DefaultConfig()
		}
	}

	persist, err := store.OpenDefault()
	if err != nil {
		return nil, err
	}

	s := store.New(persist)
	client := api.NewClient(cfg.BaseURL)

	return &deps{
		cfg:     cfg,
		persist: persist,
		store:   s,
		client:  client,
		rec:     reconcile.New(s, client),
	}, nil
}

func (d *deps) Close() {
	_ = d.persist.Close()
}
