package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"recipebuilder"
)

// NewKV builds the backend named by cfg.Backend.
func NewKV(ctx context.Context, cfg recipebuilder.StoreConfig) (KV, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "file":
		return NewFileKV(cfg.Dir), nil
	case "memory":
		return NewMemoryKV(), nil
	case "redis":
		return NewRedisKV(NewRedisClient(cfg)), nil
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("missing S3 config: RECIPE_STORE_S3_BUCKET must be set")
		}
		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		return NewS3KV(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.S3Prefix), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
