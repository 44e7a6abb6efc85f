package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/products_api/internal/cache"
	"github.com/Skotchmaster/products_api/internal/config"
	"github.com/Skotchmaster/products_api/internal/db"
	"github.com/Skotchmaster/products_api/internal/es"
	"github.com/Skotchmaster/products_api/internal/httpserver"
	"github.com/Skotchmaster/products_api/internal/identity"
	"github.com/Skotchmaster/products_api/internal/logging"
	"github.com/Skotchmaster/products_api/internal/metrics"
	"github.com/Skotchmaster/products_api/internal/middleware"
	"github.com/Skotchmaster/products_api/internal/mykafka"
	"github.com/Skotchmaster/products_api/internal/repo"
	"github.com/Skotchmaster/products_api/internal/service"
	"github.com/Skotchmaster/products_api/internal/tokens"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)
	ctx := logging.IntoContext(context.Background(), logger)

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	gdb, err := db.Open(openCtx, cfg.DBDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	var events mykafka.Publisher = mykafka.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		events = mykafka.NewProducer(cfg.KafkaBrokers)
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}

	m := metrics.New(cfg.ServiceName)
	r := repo.New(gdb)
	users := identity.NewManager(r)
	issuer := tokens.NewIssuer(cfg.JWTKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)

	catalog := &service.CatalogService{
		Repo:   r,
		Cache:  cache.NewProductsCache(cfg.CacheTTL, m),
		Events: events,
	}
	if cfg.ESURL != "" {
		esCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		client, err := es.NewClient(esCtx, cfg.ESURL, cfg.ESUser, cfg.ESPassword, nil)
		cancel()
		if err != nil {
			logger.Warn("search_disabled", "reason", "elasticsearch unreachable", "error", err)
		} else {
			catalog.Search = es.NewProductIndex(client, cfg.ESIndex)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	e.Use(middleware.RequestLogger(logger))
	e.Use(m.Middleware())

	httpserver.Register(e, &httpserver.Deps{
		ProductsHandler: &httpserver.ProductsHTTP{Svc: catalog},
		AccountHandler: &httpserver.AccountHTTP{Svc: &service.AccountService{
			Users:  users,
			Tokens: issuer,
			Events: events,
		}},
		Tokens:  issuer,
		Roles:   users,
		DB:      gdb,
		Metrics: m,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	if err := events.Close(); err != nil {
		logger.Error("kafka_close_failed", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_failed", "error", err)
	}

	logger.Info("shutdown_complete")
}
