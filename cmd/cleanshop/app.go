package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/go-faster/errors"

	"github.com/cleanshop/cart/internal/catalog"
	"github.com/cleanshop/cart/internal/checkout"
	"github.com/cleanshop/cart/internal/render"
	"github.com/cleanshop/cart/internal/repository"
	"github.com/cleanshop/cart/internal/service"
	"github.com/cleanshop/cart/pkg/config"
	"github.com/cleanshop/cart/pkg/logger"
)

// app holds everything a command needs. Views are picked by the caller so
// the CLI renders text and serve renders HTML.
type app struct {
	cfg      config.Config
	log      *slog.Logger
	store    *service.CartStore
	products *catalog.Repository
	checkout *checkout.Service
	primary  *render.View
	compact  *render.View

	closers []func() error
}

type viewSet func(log *slog.Logger) (primary, compact *render.View)

func textViews(log *slog.Logger) (*render.View, *render.View) {
	return render.PrimaryText(log), render.CompactText(log)
}

func htmlViews(log *slog.Logger) (*render.View, *render.View) {
	return render.PrimaryHTML(log), render.CompactHTML(log)
}

func newApp(ctx context.Context, opts *rootOptions, logOut io.Writer, views viewSet) (*app, error) {
	cfg := config.Load()
	if opts.storage != "" {
		cfg.Storage.Backend = opts.storage
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	log := logger.New(logger.Options{
		Service: "cleanshop",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
		Output:  logOut,
	})

	a := &app{cfg: cfg, log: log}

	slot, closeSlot, err := repository.Open(ctx, cfg.Storage, log)
	if err != nil {
		return nil, errors.Wrap(err, "open cart storage")
	}
	a.closers = append(a.closers, closeSlot)

	a.store, err = service.NewCartStore(ctx, slot,
		service.WithKey(cfg.Storage.Key),
		service.WithLogger(log),
	)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.products, err = catalog.NewRepository(cfg.CatalogDB)
	if err != nil {
		a.Close()
		return nil, errors.Wrap(err, "open catalog")
	}
	a.closers = append(a.closers, a.products.Close)
	if err := a.products.RunMigrations(); err != nil {
		a.Close()
		return nil, errors.Wrap(err, "migrate catalog")
	}

	a.primary, a.compact = views(log)
	a.store.Subscribe(a.primary)
	a.store.Subscribe(a.compact)

	a.checkout = checkout.NewService(a.store, checkout.Config{
		Phone:      cfg.Checkout.Phone,
		ClearAfter: cfg.Checkout.ClearAfter,
	}, log)

	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}
