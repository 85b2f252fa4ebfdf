package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"recipefinder/internal/cache"
	"recipefinder/internal/config"
	"recipefinder/internal/enrich"
	"recipefinder/internal/favorites"
	"recipefinder/internal/mealdb"
	"recipefinder/internal/mockdata"
	"recipefinder/internal/recipes"
	"recipefinder/internal/search"
	"recipefinder/internal/sitemap"
	"recipefinder/internal/static"
	"recipefinder/internal/templates"
	"recipefinder/internal/theme"
)

func recipeSource(cfg *config.Config) (search.Source, error) {
	if cfg.Mocks.Enable {
		slog.Info("using mock recipe source")
		return mealdb.NewMock(), nil
	}
	client, err := mealdb.NewClient(cfg.MealDB)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe client: %w", err)
	}
	return client, nil
}

// newMux wires stores, the aggregator and the handlers over c and source.
func newMux(ctx context.Context, cfg *config.Config, c cache.Cache, source search.Source, gen *mockdata.Generator) (*http.ServeMux, error) {
	static.Init()
	if err := templates.Init(static.StylesheetPath); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	en := enrich.New(gen)
	favs := favorites.Load(ctx, c, en)
	th := theme.Load(ctx, c)
	agg := search.New(source, en, gen)

	mux := http.NewServeMux()
	recipes.NewHandler(agg, search.NewBoard(), en, favs, th, cfg.Featured).Register(mux)
	sitemap.New(favs).Register(mux)
	static.Register(mux)

	ro := &readyOnce{}
	ro.Add(storageCheck{c})
	mux.Handle("GET /ready", ro)
	return mux, nil
}

func runServer(ctx context.Context, cfg *config.Config, addr string) error {
	c, err := cache.MakeCache(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}
	source, err := recipeSource(cfg)
	if err != nil {
		return err
	}
	mux, err := newMux(ctx, cfg, c, source, mockdata.New())
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           WithMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("Serving Recipe Finder", "address", addr)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
		return gracefulShutdown(server)
	}
}

func gracefulShutdown(svr *http.Server) error {
	// Give outstanding requests 25 seconds to complete (kubernetes has 30 second grace period)
	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := svr.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown error", "error", err)
		if closeErr := svr.Close(); closeErr != nil {
			slog.Error("Server close error", "error", closeErr)
		}
		return err
	}
	slog.Info("Server stopped")
	return nil
}
