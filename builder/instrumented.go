package builder

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"recipebuilder"
)

// Instrumented wraps a Builder so that saves and deletes are traced and counted.
type Instrumented struct {
	*Builder
	tracer trace.Tracer

	savedCounter   metric.Int64Counter
	failedCounter  metric.Int64Counter
	deletedCounter metric.Int64Counter
	caloriesHist   metric.Int64Histogram
	selectionGauge metric.Int64Gauge
	bookGauge      metric.Int64Gauge
}

// NewInstrumented initializes the metrics and returns the wrapped builder.
func NewInstrumented(b *Builder, tracer trace.Tracer, meter metric.Meter) *Instrumented {
	savedCounter, _ := meter.Int64Counter("recipes_saved_total",
		metric.WithDescription("Total number of recipes saved"))
	failedCounter, _ := meter.Int64Counter("recipes_save_failed_total",
		metric.WithDescription("Total number of rejected or failed recipe saves"))
	deletedCounter, _ := meter.Int64Counter("recipes_deleted_total",
		metric.WithDescription("Total number of recipe deletions"))
	caloriesHist, _ := meter.Int64Histogram("recipe_total_calories",
		metric.WithDescription("Calorie total of saved recipes"))
	selectionGauge, _ := meter.Int64Gauge("selection_size",
		metric.WithDescription("Number of ingredients selected when a save was attempted"))
	bookGauge, _ := meter.Int64Gauge("saved_recipes_count",
		metric.WithDescription("Number of recipes in the recipe book"))

	return &Instrumented{
		Builder:        b,
		tracer:         tracer,
		savedCounter:   savedCounter,
		failedCounter:  failedCounter,
		deletedCounter: deletedCounter,
		caloriesHist:   caloriesHist,
		selectionGauge: selectionGauge,
		bookGauge:      bookGauge,
	}
}

func (i *Instrumented) SaveRecipe(ctx context.Context) bool {
	_, err := i.Save(ctx)
	return err == nil
}

func (i *Instrumented) Save(ctx context.Context) (recipebuilder.Recipe, error) {
	ctx, span := i.tracer.Start(ctx, "Builder.Save")
	defer span.End()

	i.selectionGauge.Record(ctx, int64(len(i.selected)))
	span.SetAttributes(
		attribute.Int("selection.size", len(i.selected)),
		attribute.Int("selection.total_calories", i.TotalCalories()),
	)

	recipe, err := i.Builder.Save(ctx)
	if err != nil {
		i.recordFailure(ctx, span, err)
		return recipe, err
	}

	i.savedCounter.Add(ctx, 1)
	i.caloriesHist.Record(ctx, int64(recipe.TotalCalories))
	i.bookGauge.Record(ctx, int64(len(i.saved)))
	span.SetAttributes(attribute.String("recipe.id", recipe.ID))
	return recipe, nil
}

func (i *Instrumented) Submit(ctx context.Context) (recipebuilder.Recipe, error) {
	if err := i.validateForm(); err != nil {
		_, span := i.tracer.Start(ctx, "Builder.Submit")
		defer span.End()
		i.recordFailure(ctx, span, err)
		return recipebuilder.Recipe{}, err
	}
	return i.Save(ctx)
}

func (i *Instrumented) DeleteRecipe(ctx context.Context, id string) error {
	ctx, span := i.tracer.Start(ctx, "Builder.DeleteRecipe", trace.WithAttributes(attribute.String("recipe.id", id)))
	defer span.End()

	if err := i.Builder.DeleteRecipe(ctx, id); err != nil {
		span.SetStatus(codes.Error, "delete failed")
		span.RecordError(err)
		return err
	}
	i.deletedCounter.Add(ctx, 1)
	i.bookGauge.Record(ctx, int64(len(i.saved)))
	return nil
}

func (i *Instrumented) recordFailure(ctx context.Context, span trace.Span, err error) {
	reason := failureReason(err)
	i.failedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	span.SetStatus(codes.Error, reason)
	span.RecordError(err)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, recipebuilder.ErrEmptyName):
		return "empty_name"
	case errors.Is(err, recipebuilder.ErrNameTooShort):
		return "name_too_short"
	case errors.Is(err, recipebuilder.ErrNoIngredients):
		return "no_ingredients"
	default:
		return "persist"
	}
}
