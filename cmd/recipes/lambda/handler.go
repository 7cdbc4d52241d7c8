package main

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"recipebuilder"
	"recipebuilder/builder"
	"recipebuilder/storage"
	"recipebuilder/tools"
)

type Params struct {
	Tool  string         `json:"tool"`
	Input map[string]any `json:"input"`
}

type Results struct {
	Output map[string]any `json:"output"`
}

type handler struct {
	registry *tools.Registry
	tracer   trace.Tracer
	calls    metric.Int64Counter
}

func newHandler(ctx context.Context, catalog storage.CatalogSource, store recipebuilder.RecipeStore, tracer trace.Tracer, meter metric.Meter, opts ...builder.Option) (*handler, error) {
	data, err := catalog.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	ingredients, err := recipebuilder.DecodeCatalog(data)
	if err != nil {
		return nil, err
	}
	slog.Info("SETUP: Ingredient catalog loaded", "ingredients_count", len(ingredients))

	registry, err := tools.NewRegistry(ingredients, store, opts...)
	if err != nil {
		return nil, err
	}

	calls, _ := meter.Int64Counter("tool_calls_total",
		metric.WithDescription("Total number of tool calls handled"))

	return &handler{registry: registry, tracer: tracer, calls: calls}, nil
}

func (h *handler) handle(ctx context.Context, params Params) (Results, error) {
	ctx, span := h.tracer.Start(ctx, "Lambda.Tool", trace.WithAttributes(
		attribute.String("tool.name", params.Tool),
	))
	defer span.End()

	output, err := h.registry.Run(ctx, tools.Call{Name: params.Tool, Input: params.Input})
	h.calls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool.name", params.Tool),
		attribute.Bool("tool.error", err != nil),
	))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("RESULT: Error handling tool call", "tool", params.Tool, "error", err)
		return Results{}, err
	}

	slog.Info("RESULT: Tool call handled", "tool", params.Tool)
	return Results{Output: output}, nil
}
