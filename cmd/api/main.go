package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"construapp/internal/admin"
	"construapp/internal/bus"
	"construapp/internal/cart"
	"construapp/internal/catalog"
	"construapp/internal/config"
	"construapp/internal/db"
	"construapp/internal/httpserver"
	"construapp/internal/order"
	orderrepo "construapp/internal/repository/order"
	productrepo "construapp/internal/repository/product"
	"construapp/internal/seed"
	"construapp/internal/session"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()

	mirror := catalog.NewMirror()
	deps := httpserver.Deps{
		Mirror:   mirror,
		Carts:    cart.New(),
		Sessions: session.New(),
	}

	var syncer *catalog.Sync
	var eventBus *bus.Bus

	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		// Degraded boot: static fallback catalog, read-only. Orders and the
		// admin editor stay disabled.
		logger.Printf("store unreachable, serving fallback catalog read-only: %v", err)
		mirror.Replace(seed.Fallback(cfg.AppID))
	} else {
		defer dbpool.Close()

		eventBus, err = bus.Connect(ctx, cfg.RedisURL, cfg.AppID, logger)
		if err != nil {
			logger.Printf("change bus unreachable, realtime sync disabled: %v", err)
			eventBus = nil
		} else {
			defer eventBus.Close()
		}

		productRepo := productrepo.NewPostgres(dbpool, logger)
		orderRepo := orderrepo.NewPostgres(dbpool, logger)

		var seedFn func(context.Context) error
		if cfg.SeedOnEmpty {
			seedFn = func(ctx context.Context) error {
				return seed.Apply(ctx, cfg.AppID, productRepo, eventBus, logger)
			}
		}
		var subscribeFn catalog.SubscribeFunc
		if eventBus != nil {
			subscribeFn = func(ctx context.Context) (catalog.Subscription, error) {
				sub, err := eventBus.SubscribeCatalog(ctx)
				if err != nil {
					return nil, err
				}
				return sub, nil
			}
		}

		syncer = catalog.NewSync(cfg.AppID, productRepo, subscribeFn, seedFn, seed.Fallback(cfg.AppID), mirror, logger)
		go func() {
			if err := syncer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Printf("catalog sync stopped: %v", err)
			}
		}()

		deps.Sync = syncer
		deps.Orders = order.New(cfg.AppID, orderRepo, eventBus, logger)
		deps.Admin = admin.New(cfg.AppID, cfg.AdminPIN, productRepo, eventBus, logger)
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, deps)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	if syncer != nil {
		syncer.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
