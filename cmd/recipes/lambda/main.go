package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joeshaw/envdecode"

	"recipebuilder"
	"recipebuilder/builder"
	"recipebuilder/storage"
)

func main() {
	fn := func(ctx context.Context, params Params) (Results, error) {
		var appConfig recipebuilder.AppConfig
		if err := envdecode.Decode(&appConfig); err != nil {
			log.Fatalf("Failed to decode: %s", err)
		}

		var storeConfig recipebuilder.StoreConfig
		if err := envdecode.Decode(&storeConfig); err != nil {
			log.Fatalf("Failed to decode: %s", err)
		}
		if storeConfig.S3Bucket == "" {
			return Results{}, fmt.Errorf("missing S3 config: RECIPE_STORE_S3_BUCKET must be set")
		}

		awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRetryMaxAttempts(5))
		if err != nil {
			return Results{}, fmt.Errorf("failed to load AWS config: %w", err)
		}
		s3Client := s3.NewFromConfig(awsCfg)

		kv := storage.NewS3KV(s3Client, storeConfig.S3Bucket, storeConfig.S3Prefix)
		store := storage.NewRecipeStore(kv, storage.WithKey(storeConfig.Key))
		slog.Info("SETUP: S3 recipe store initialized", "bucket", storeConfig.S3Bucket, "key", store.Key())

		tracerProvider, meterProvider, otelShutdown, err := recipebuilder.InitOtel(ctx)
		if err != nil {
			slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
			return Results{}, err
		}
		defer func() {
			if err := otelShutdown(ctx); err != nil {
				slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
			}
		}()

		h, err := newHandler(ctx,
			storage.NewS3Catalog(s3Client, storeConfig.S3Bucket, appConfig.CatalogS3Key),
			store,
			tracerProvider.Tracer(recipebuilder.TracerNameLambda),
			meterProvider.Meter(recipebuilder.TracerNameLambda),
			builder.WithEventLogger(recipebuilder.NewStdoutEventLogger()),
		)
		if err != nil {
			slog.Error("SETUP: Failed to create tool registry", "error", err)
			return Results{}, err
		}

		return h.handle(ctx, params)
	}

	lambda.Start(fn)
}
