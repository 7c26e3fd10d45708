package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	cartidrepo "storefront/internal/repository/cartid"
	customerrepo "storefront/internal/repository/customer"
	pushtokenrepo "storefront/internal/repository/pushtoken"
	sessionrepo "storefront/internal/repository/session"
	cartsvc "storefront/internal/service/cart"
	catalogsvc "storefront/internal/service/catalog"
	customersvc "storefront/internal/service/customer"
	pushsvc "storefront/internal/service/push"
	"storefront/internal/storefront"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("load config")
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.WithError(err).Fatal("connect to db")
	}
	defer dbpool.Close()

	client := storefront.NewClient(cfg.StorefrontEndpoint(), cfg.StorefrontToken, logger)
	gateway := storefront.NewGateway(client)

	var catalogCache cache.Cache
	if cfg.RedisAddr != "" {
		catalogCache = cache.NewRedis(cfg.RedisAddr, "storefront")
	}

	cartIDRepo := cartidrepo.NewPostgres(dbpool)
	customerRepo := customerrepo.NewPostgres(dbpool)
	sessionRepo := sessionrepo.NewPostgres(dbpool)
	pushTokenRepo := pushtokenrepo.NewPostgres(dbpool)

	cartRegistry := cartsvc.NewRegistry(gateway, cartIDRepo, logger)
	catalogService := catalogsvc.New(gateway, catalogCache, cfg.CatalogCacheTTL, logger)
	customerService := customersvc.New(customerRepo, sessionRepo, cfg.SessionTTL)
	pushService := pushsvc.New(pushTokenRepo, cfg.FCMEndpoint, cfg.FCMServerKey, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Carts:          cartRegistry,
		CatalogSvc:     catalogService,
		CustomerSvc:    customerService,
		PushSvc:        pushService,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		logger.WithError(err).Fatal("init server")
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Infof("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.WithError(err).Error("server error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	} else {
		logger.Info("server stopped")
	}
}
