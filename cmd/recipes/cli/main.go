package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joeshaw/envdecode"

	"recipebuilder"
	"recipebuilder/builder"
	"recipebuilder/slack"
	"recipebuilder/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var appConfig recipebuilder.AppConfig
	if err := envdecode.Decode(&appConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	var storeConfig recipebuilder.StoreConfig
	if err := envdecode.Decode(&storeConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	kv, err := storage.NewKV(ctx, storeConfig)
	if err != nil {
		slog.Error("SETUP: Failed to open recipe store", "backend", storeConfig.Backend, "error", err)
		return
	}
	store := storage.NewRecipeStore(kv, storage.WithKey(storeConfig.Key))
	slog.Info("SETUP: Recipe store ready", "backend", storeConfig.Backend, "key", store.Key())

	catalog, err := loadCatalog(ctx, storage.NewFileCatalog(appConfig.CatalogPath))
	if err != nil {
		slog.Error("SETUP: Failed to load ingredient catalog", "path", appConfig.CatalogPath, "error", err)
		return
	}
	slog.Info("SETUP: Ingredient catalog loaded", "ingredients_count", len(catalog))

	events, cleanup, err := newEventLogger(appConfig.EventLogPath)
	if err != nil {
		slog.Error("SETUP: Failed to create event logger", "error", err)
		return
	}
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("SETUP: Failed to flush event log", "error", err)
		}
	}()

	b := builder.New(ctx, store, builder.WithEventLogger(events))
	b.SetCatalog(catalog)

	if appConfig.SlackWebhookURL != "" {
		notifier := slack.NewNotifier(
			slack.NewClient(appConfig.SlackWebhookURL, http.DefaultClient),
			appConfig.SlackChannel,
			b.IngredientName,
		)
		b.OnRecipeCreated(func(recipe recipebuilder.Recipe) {
			if err := notifier.RecipeCreated(ctx, recipe); err != nil {
				slog.Error("NOTIFY: Failed to post recipe to Slack", "recipe_id", recipe.ID, "error", err)
			}
		})
		slog.Info("SETUP: Slack notifications enabled", "channel", appConfig.SlackChannel)
	}

	var session recipeBuilder = b
	if appConfig.OtelEnabled {
		tracerProvider, meterProvider, otelShutdown, err := recipebuilder.InitOtel(ctx)
		if err != nil {
			slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
			return
		}
		defer func() {
			if err := otelShutdown(context.Background()); err != nil {
				slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
			}
		}()
		session = builder.NewInstrumented(b,
			tracerProvider.Tracer(recipebuilder.TracerNameBuilder),
			meterProvider.Meter(recipebuilder.TracerNameBuilder))
	}

	r := &repl{b: session, in: os.Stdin, out: os.Stdout}
	if err := r.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("FAILURE: Session ended with error", "error", err)
	}
}

func loadCatalog(ctx context.Context, source storage.CatalogSource) ([]recipebuilder.Ingredient, error) {
	data, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}
	return recipebuilder.DecodeCatalog(data)
}

func newEventLogger(path string) (recipebuilder.EventLogger, func() error, error) {
	if path == "" {
		return recipebuilder.NewNoOpEventLogger(), func() error { return nil }, nil
	}
	if path == "auto" {
		path = recipebuilder.NewEventLogFilePath("recipe builder")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, func() error { return err }, fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, func() error { return err }, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := recipebuilder.NewFileEventLogger(logFile)
	cleanup := func() error {
		return errors.Join(logger.Flush(), logFile.Close())
	}
	return logger, cleanup, nil
}
