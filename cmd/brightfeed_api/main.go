// Package main Brightfeed API
// @title Brightfeed API
// @version 1.0
// @description Positive-news aggregation and engagement API
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/brightfeed/brightfeed/docs"
	"github.com/brightfeed/brightfeed/internal/auth"
	"github.com/brightfeed/brightfeed/internal/categories"
	"github.com/brightfeed/brightfeed/internal/comments"
	"github.com/brightfeed/brightfeed/internal/generator"
	"github.com/brightfeed/brightfeed/internal/reconcile"
	"github.com/brightfeed/brightfeed/internal/router"
	"github.com/brightfeed/brightfeed/internal/server"
	"github.com/brightfeed/brightfeed/internal/storage/pg"
	"github.com/labstack/echo/v4"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load server config", "error", err)
		os.Exit(1)
	}

	appCfg, err := LoadAppConfig()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	bootCtx := context.Background()

	pool, err := pg.NewConnectionPool(bootCtx, pg.PoolConfig{
		ConnStr:  appCfg.DatabaseURL,
		MaxConns: appCfg.DBMaxConns,
	})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	s := server.New(sCfg, pg.NewHealthChecker(pool)).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupOpenApi("/swagger/*")

	articleStore := pg.NewArticleStore(pool)
	engagementStore := pg.NewEngagementStore(pool)
	commentStore := pg.NewCommentStore(pool)
	userStore := pg.NewUserStore(pool)
	categoryStore := pg.NewCategoryStore(pool)

	seed := categories.DefaultSeed()
	if appCfg.CategorySeedPath != "" {
		seed, err = categories.LoadSeed(appCfg.CategorySeedPath)
		if err != nil {
			slog.Error("Failed to load category seed", "error", err)
			os.Exit(1)
		}
	}
	if err := categoryStore.SeedGlobal(s.Context(), seed); err != nil {
		slog.Error("Failed to seed global categories", "error", err)
		os.Exit(1)
	}

	broker := auth.NewBroker()
	s.Echo.Use(auth.Middleware(auth.NewOpaqueTokenVerifier(), broker))

	ledger := comments.NewLedger(commentStore, userStore)

	reconcilerOpts := []reconcile.Option{reconcile.WithCommentLedger(ledger)}
	if appCfg.GeneratorEnabled {
		genClient, err := generator.NewClient(appCfg.GeneratorConfig.BaseURL)
		if err != nil {
			slog.Error("Failed to create generator client", "error", err)
			os.Exit(1)
		}
		reconcilerOpts = append(reconcilerOpts, reconcile.WithGenerator(genClient, appCfg.GeneratorConfig.Query))
		slog.Info("Positive-news generator enabled", "baseUrl", appCfg.GeneratorConfig.BaseURL)
	} else {
		slog.Info("Positive-news generator disabled, serving cache only")
	}

	reconciler := reconcile.New(reconcile.NewFeedState(), articleStore, engagementStore, broker, reconcilerOpts...)

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "Brightfeed API is running")
	})

	router.NewFeedRouter(s.Echo, reconciler, articleStore, engagementStore).Bind()
	router.NewCommentsRouter(s.Echo, reconciler, ledger).Bind()
	router.NewCategoriesRouter(s.Echo, categoryStore).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
		reconciler.Close()
		pool.Close()
	}()

	if err := s.Start(); err != nil {
		s.Echo.Logger.Error("Failed to start server: ", err)
		os.Exit(1)
	}
}
