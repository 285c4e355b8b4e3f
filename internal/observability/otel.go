package observability

import (
	"context"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	"github.com/qfeed/qfeed-backend/internal/logger"
)

type Config struct {
	ServiceName string
	Environment string
	Version     string
}

var (
	initOnce sync.Once
	shutdown func(context.Context) error
)

// InitTracing wires the global tracer provider when OTEL_ENABLED is set.
// It returns a shutdown func, or nil when tracing is disabled.
func InitTracing(ctx context.Context, log *logger.Logger, cfg Config) func(context.Context) error {
	initOnce.Do(func() {
		if !tracingEnabled() {
			return
		}
		serviceName := strings.TrimSpace(cfg.ServiceName)
		if serviceName == "" {
			serviceName = "qfeed-backend"
		}
		res, err := resource.New(
			ctx,
			resource.WithAttributes(
				semconv.ServiceNameKey.String(serviceName),
				semconv.ServiceVersionKey.String(strings.TrimSpace(cfg.Version)),
				attribute.String("deployment.environment", strings.TrimSpace(cfg.Environment)),
			),
		)
		if err != nil && log != nil {
			log.Warn("Otel resource init failed, continuing", "error", err)
		}

		exporter, expErr := buildTraceExporter(ctx, log)
		if expErr != nil && log != nil {
			log.Warn("Otel exporter init failed, continuing", "error", expErr)
		}
		providerOpts := []sdktrace.TracerProviderOption{
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio()))),
			sdktrace.WithResource(res),
		}
		if exporter != nil {
			providerOpts = append(providerOpts, sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)))
		}
		tp := sdktrace.NewTracerProvider(providerOpts...)
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
		shutdown = tp.Shutdown
		if log != nil {
			log.Info("Otel tracing initialized", "service", serviceName, "endpoint", otlpEndpoint())
		}
	})
	return shutdown
}

func tracingEnabled() bool {
	switch strings.ToLower(getEnv("OTEL_ENABLED")) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func sampleRatio() float64 {
	raw := getEnv("OTEL_SAMPLER_RATIO")
	if raw == "" {
		return 0.1
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0.1
	}
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func otlpEndpoint() string {
	return getEnv("OTEL_EXPORTER_OTLP_ENDPOINT")
}

func buildTraceExporter(ctx context.Context, log *logger.Logger) (sdktrace.SpanExporter, error) {
	endpoint := otlpEndpoint()
	if endpoint != "" {
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
		if insecureOTLP() {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	}
	if log != nil {
		log.Warn("Otel using stdout exporter, no OTLP endpoint configured")
	}
	return stdouttrace.New(stdouttrace.WithPrettyPrint())
}

func insecureOTLP() bool {
	switch strings.ToLower(getEnv("OTEL_EXPORTER_OTLP_INSECURE")) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
