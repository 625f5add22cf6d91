// Package observability configures the OpenTelemetry tracer provider that
// the repository and service spans report to.
package observability

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/iliyamo/sakila-rental-service/internal/config"
	"github.com/iliyamo/sakila-rental-service/internal/logger"
)

// Shutdown flushes and stops the tracer provider.
type Shutdown func(context.Context) error

func noop(context.Context) error { return nil }

// InitTracing installs a global tracer provider.  Spans go to the OTLP/HTTP
// endpoint when one is configured and to stdout otherwise.  When tracing
// is disabled the global no-op provider is left in place.
func InitTracing(ctx context.Context, cfg config.TracingConfig, env string, log *logger.Logger) (Shutdown, error) {
	if !cfg.Enabled {
		return noop, nil
	}
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "sakila-rental-service"
	}
	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", name),
		attribute.String("deployment.environment", env),
	))
	if err != nil {
		log.Warn("otel resource init failed (continuing)", "error", err)
	}

	exp, err := exporter(ctx, cfg, log)
	if err != nil {
		return noop, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	log.Info("otel tracing initialized", "service", name, "endpoint", cfg.Endpoint, "ratio", cfg.SampleRatio)
	return tp.Shutdown, nil
}

func exporter(ctx context.Context, cfg config.TracingConfig, log *logger.Logger) (sdktrace.SpanExporter, error) {
	if cfg.Endpoint != "" {
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	}
	log.Warn("otel using stdout exporter (no OTLP endpoint configured)")
	return stdouttrace.New(stdouttrace.WithPrettyPrint())
}
