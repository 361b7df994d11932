package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	carthttp "github.com/cleanshop/cart/internal/http"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the storefront page and cart API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, opts, os.Stdout, htmlViews)
			if err != nil {
				return err
			}
			defer a.Close()

			if port == "" {
				port = a.cfg.HTTPPort
			}

			handler := carthttp.NewCartHandler(a.store, a.products, a.checkout, a.primary, a.compact, a.cfg.RequestTTL, a.log)
			srv := &http.Server{
				Addr:         ":" + port,
				Handler:      carthttp.NewRouter(handler, a.cfg.RequestTTL, a.log),
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 10 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				a.log.Info("storefront starting", "port", port, "storage", a.cfg.Storage.Backend)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return errors.Wrap(err, "server error")
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				a.log.Info("shutting down server")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return errors.Wrap(err, "server forced to shutdown")
				}
				return nil
			})

			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (defaults to HTTP_PORT)")
	return cmd
}
