package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/storefront-console/client/internal/api"
	"github.com/storefront-console/client/internal/catalog"
	"github.com/storefront-console/client/internal/core"
	"github.com/storefront-console/client/internal/edit"
	"github.com/storefront-console/client/internal/orders"
	"github.com/storefront-console/client/internal/session"
	"github.com/storefront-console/client/internal/tools"
	"github.com/storefront-console/client/internal/view"
	logx "github.com/storefront-console/client/pkg/logger"
	pkgredis "github.com/storefront-console/client/pkg/redis"
	"golang.org/x/sync/errgroup"
)

// AppConfig defines every configurable parameter of the console, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL"`

	API api.Config

	// Session lookup: "static" reads SESSION_TOKEN, "redis" reads SESSION_KEY from Redis.
	SessionSource string `envconfig:"SESSION_SOURCE" default:"static"`
	SessionToken  string `envconfig:"SESSION_TOKEN"`
	SessionKey    string `envconfig:"SESSION_KEY" default:"token"`
	Redis         pkgredis.Config

	// Optional keyword run through the search_product tool after loading.
	CatalogQuery string `envconfig:"CATALOG_QUERY"`
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{
		Environment: core.ParseEnvironment(cfg.Environment),
		Level:       cfg.LogLevel,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	src, closeSession, err := newSessionSource(ctx, cfg)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to set up session source")
	}
	defer closeSession()

	client := api.New(cfg.API)
	store := catalog.NewStore(client, src)
	editor := edit.NewController(store)
	viewer := orders.NewViewer(client, src)

	// The catalog and the order viewer load independently.
	var g errgroup.Group
	g.Go(func() error { return store.Mount(ctx) })
	g.Go(func() error {
		viewer.Mount(ctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		fmt.Fprintln(os.Stderr, view.Notice(err))
	}

	out := os.Stdout
	fmt.Fprintln(out, "== Categories")
	_ = view.Write(out, view.CategoryOptions(store.Categories()))
	fmt.Fprintln(out, "== Products")
	_ = view.Write(out, view.Products(store.Products(), editor))
	fmt.Fprintln(out, "== Orders")
	_ = view.Write(out, view.Orders(viewer.State()))

	if cfg.CatalogQuery != "" {
		if err := searchCatalog(ctx, store, cfg.CatalogQuery); err != nil {
			logx.Error().Err(err).Str("query", cfg.CatalogQuery).Msg("catalog search failed")
		}
	}
}

func newSessionSource(ctx context.Context, cfg AppConfig) (session.Source, func(), error) {
	switch cfg.SessionSource {
	case "redis":
		rdb, err := cfg.Redis.New(ctx)
		if err != nil {
			return nil, nil, err
		}
		logx.Info().Str("key", cfg.SessionKey).Msg("reading session token from redis")
		return session.NewRedis(rdb, cfg.SessionKey), func() { _ = rdb.Close() }, nil
	case "static", "":
		return session.NewStatic(cfg.SessionToken), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown SESSION_SOURCE %q", cfg.SessionSource)
	}
}

func searchCatalog(ctx context.Context, store *catalog.Store, query string) error {
	search, err := tools.ByName(ctx, tools.CatalogTools(store), "search_product")
	if err != nil {
		return err
	}
	args, err := json.Marshal(tools.SearchProductInput{Query: query})
	if err != nil {
		return err
	}
	result, err := search.InvokableRun(ctx, string(args))
	if err != nil {
		return err
	}
	fmt.Println("== Search:", query)
	fmt.Println(result)
	return nil
}
