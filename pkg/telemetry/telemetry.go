package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/pictora/pictora/pkg/config"
	"github.com/pictora/pictora/pkg/logging"
)

var tracer trace.Tracer

// Init initializes OpenTelemetry with Jaeger and Prometheus exporters
func Init(cfg *config.TelemetryConfig) (func(), error) {
	if !cfg.Enabled {
		logging.GetLogger().Info("Telemetry disabled")
		return func() {}, nil
	}

	ctx := context.Background()

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion("0.1.0"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var shutdownFuncs []func(context.Context) error

	// Tracer provider with Jaeger exporter
	if cfg.JaegerURL != "" {
		jaegerExporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.JaegerURL)))
		if err != nil {
			return nil, fmt.Errorf("failed to create Jaeger exporter: %w", err)
		}

		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(jaegerExporter),
			sdktrace.WithResource(res),
		)

		otel.SetTracerProvider(tp)
		shutdownFuncs = append(shutdownFuncs, tp.Shutdown)

		logging.GetLogger().Info("Jaeger exporter initialized", zap.String("url", cfg.JaegerURL))
	}

	// Metric provider with Prometheus exporter
	if cfg.PrometheusEnabled {
		exporter, err := prometheus.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}

		mp := metric.NewMeterProvider(
			metric.WithReader(exporter),
			metric.WithResource(res),
		)

		otel.SetMeterProvider(mp)
		shutdownFuncs = append(shutdownFuncs, mp.Shutdown)

		logging.GetLogger().Info("Prometheus exporter initialized", zap.Int("port", cfg.PrometheusPort))
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	tracer = otel.Tracer(cfg.ServiceName)

	shutdown := func() {
		for _, fn := range shutdownFuncs {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			if err := fn(ctx); err != nil {
				logging.GetLogger().Error("Error shutting down telemetry", zap.Error(err))
			}
			cancel()
		}
	}

	return shutdown, nil
}

// Tracer returns the global tracer. Before Init runs it falls back to
// whatever provider is registered globally, a noop by default.
func Tracer() trace.Tracer {
	if tracer == nil {
		return otel.Tracer("pictora")
	}
	return tracer
}

// StartSpan starts a new span
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}
