// Command sebo serves the book-exchange JSON API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/livroelivro/sebo/internal/account"
	"github.com/livroelivro/sebo/internal/cart"
	"github.com/livroelivro/sebo/internal/catalog"
	"github.com/livroelivro/sebo/internal/livroapi"
	"github.com/livroelivro/sebo/internal/web"
	"github.com/livroelivro/sebo/pkg/config"
	"github.com/livroelivro/sebo/pkg/httpserver"
	"github.com/livroelivro/sebo/pkg/i18n"
	"github.com/livroelivro/sebo/pkg/kvstore"
	"github.com/livroelivro/sebo/pkg/logger"
	"github.com/livroelivro/sebo/pkg/requestid"
)

const serviceName = "sebo"

type Config struct {
	AppEnv          string        `env:"APP_ENV" envDefault:"development"`
	StorageDriver   string        `env:"STORAGE_DRIVER" envDefault:"memory"`
	CleanupInterval time.Duration `env:"MEMORY_CLEANUP_INTERVAL" envDefault:"1m"`
	CatalogTTL      time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"60m"`
	DefaultLanguage string        `env:"DEFAULT_LANGUAGE" envDefault:"pt-BR"`

	HTTP  httpserver.Config
	Redis kvstore.Config
	API   livroapi.Config
	Web   web.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load[Config]()
	if err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(cfg.AppEnv, serviceName),
		logger.WithContextExtractors(requestid.LogExtractor, web.SessionLogExtractor),
	)
	logger.SetAsDefault(log)

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Error("close store", logger.Error(err))
		}
	}()

	tr, err := web.NewTranslator(ctx,
		i18n.WithDefaultLanguage(cfg.DefaultLanguage),
		i18n.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("load translations: %w", err)
	}

	api, err := livroapi.New(cfg.API, livroapi.WithLogger(log))
	if err != nil {
		return err
	}

	accounts := account.NewService(api, account.WithLogger(log))
	books := catalog.NewService(api, kvstore.Namespace(store, "catalog"),
		catalog.WithTTL(cfg.CatalogTTL),
		catalog.WithLogger(log),
	)
	carts := cart.NewService(accounts, books,
		cart.WithErrors(account.ErrNotLoggedIn, catalog.ErrBookNotFound),
		cart.WithLogger(log),
	)

	router, err := web.NewRouter(cfg.Web, web.Deps{
		Accounts:   accounts,
		Catalog:    books,
		Cart:       carts,
		Store:      store,
		Translator: tr,
		Logger:     log,
		HealthChecks: map[string]httpserver.Check{
			"store": store.Healthcheck,
		},
	})
	if err != nil {
		return err
	}

	log.Info("starting server", slog.String("addr", cfg.HTTP.Addr), slog.String("storage", cfg.StorageDriver))
	return httpserver.New(cfg.HTTP, httpserver.WithLogger(log)).Run(ctx, router)
}

type healthStore interface {
	kvstore.Store
	Healthcheck(context.Context) error
}

func openStore(ctx context.Context, cfg Config, log *slog.Logger) (healthStore, func() error, error) {
	switch cfg.StorageDriver {
	case "memory", "":
		s := kvstore.NewMemoryStore(cfg.CleanupInterval)
		return s, s.Close, nil
	case "redis":
		client, err := kvstore.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		log.Info("connected to redis")
		s := kvstore.NewRedisStore(client)
		if cfg.Redis.KeyPrefix != "" {
			return prefixed{Store: kvstore.Namespace(s, cfg.Redis.KeyPrefix), health: s.Healthcheck}, s.Close, nil
		}
		return s, s.Close, nil
	default:
		return nil, nil, errors.New("unknown STORAGE_DRIVER " + cfg.StorageDriver)
	}
}

type prefixed struct {
	kvstore.Store
	health func(context.Context) error
}

func (p prefixed) Healthcheck(ctx context.Context) error {
	return p.health(ctx)
}
