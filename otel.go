package recipebuilder

import (
	"context"
	"errors"

	"github.com/joeshaw/envdecode"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	TracerNameBuilder = "recipe-builder"
	TracerNameLambda  = "recipe-lambda"
)

// OtelConfig is a configuration struct for the OpenTelemetry providers.
type OtelConfig struct {
	Endpoint       string `env:"OTEL_EXPORTER_OTLP_ENDPOINT,default=set-me"`
	Headers        string `env:"OTEL_EXPORTER_OTLP_HEADERS,default=set-me"`
	ServiceVersion string `env:"OTEL_SERVICE_VERSION,default=0.1.0"`
	ServiceName    string `env:"OTEL_SERVICE_NAME,default=recipe-builder"`
	DeployEnv      string `env:"OTEL_DEPLOY_ENV,default=development"`
}

type otelShutdown func(ctx context.Context) error

// InitOtel initializes the OpenTelemetry SDK and returns a TracerProvider, MeterProvider, and shutdown function.
func InitOtel(ctx context.Context) (*trace.TracerProvider, *metric.MeterProvider, otelShutdown, error) {
	var cfg OtelConfig
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, nil, nil, err
	}

	// OTLP exporters read their endpoint and headers from the environment
	traceExporter, err := otlptrace.New(ctx, otlptracegrpc.NewClient())
	if err != nil {
		return nil, nil, nil, err
	}

	metricExporter, err := otlpmetricgrpc.New(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(traceExporter))
	meterProvider := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(metricExporter)))

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)

	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	shutdown := func(ctx context.Context) error {
		err := errors.Join(
			tracerProvider.Shutdown(ctx),
			meterProvider.Shutdown(ctx),
		)

		if err != nil && err.Error() == "gRPC exporter is shutdown" {
			return nil
		}

		return err
	}

	return tracerProvider, meterProvider, shutdown, nil
}
