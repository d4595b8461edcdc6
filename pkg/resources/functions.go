package resources

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	otelog "go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// SetupConfig installs the environment-driven configuration defaults. All
// settings are plain env vars; nothing is read from files.
func SetupConfig() {
	viper.SetDefault("SERVER_HOST", "localhost")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DEBUG_PORT", "6060")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("OTEL_ENDPOINT", "localhost:4317")
	viper.SetDefault("CALENDAR_TIMEZONE", "Europe/Budapest")
	viper.SetDefault("CALENDAR_DEFAULT_COUNT", 5)
	viper.SetDefault("CALENDAR_DEFAULT_CACHE_HOURS", 6.0)
	viper.SetDefault("CALENDAR_FETCH_TIMEOUT", "15s")
	viper.SetDefault("CALENDAR_CSV_URL", "")

	viper.AutomaticEnv()
}

// SetupLogger configures the global zerolog logger and returns a context
// carrying it.
func SetupLogger(ctx context.Context, name, version string) context.Context {
	level, err := zerolog.ParseLevel(viper.GetString("LOG_LEVEL"))
	if err != nil {
		level = zerolog.InfoLevel
	}

	log.Logger = zerolog.New(os.Stderr).Level(level).With().
		Timestamp().
		Str("service", name).
		Str("version", version).
		Logger()

	return log.Logger.WithContext(ctx)
}

// CreateTracer wires the global OTLP trace provider. The returned function
// shuts the provider down.
func CreateTracer(ctx context.Context) (func(context.Context) error, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(viper.GetString("OTEL_ENDPOINT")),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return func(context.Context) error { return nil }, fmt.Errorf("failed to create the OTLP trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

// CreateMeter wires the global OTLP meter provider and starts the Go
// runtime instrumentation on it.
func CreateMeter(ctx context.Context) (func(context.Context) error, error) {
	exp, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(viper.GetString("OTEL_ENDPOINT")),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return func(context.Context) error { return nil }, fmt.Errorf("failed to create the OTLP metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(15*time.Second))),
	)
	otel.SetMeterProvider(mp)

	if err := runtime.Start(); err != nil {
		return mp.Shutdown, fmt.Errorf("failed to start runtime instrumentation: %w", err)
	}

	return mp.Shutdown, nil
}

// CreateLoggerProvider wires the global OTLP log provider feeding the
// zerolog bridge hook.
func CreateLoggerProvider(ctx context.Context) (func(context.Context) error, error) {
	exp, err := otlploggrpc.New(ctx,
		otlploggrpc.WithEndpoint(viper.GetString("OTEL_ENDPOINT")),
		otlploggrpc.WithInsecure(),
	)
	if err != nil {
		return func(context.Context) error { return nil }, fmt.Errorf("failed to create the OTLP log exporter: %w", err)
	}

	lp := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exp)),
	)
	otelog.SetLoggerProvider(lp)

	return lp.Shutdown, nil
}

// NewHTTPServer builds the http.Server handed to the lifecycle wrapper.
func NewHTTPServer(host, port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Closable is anything the base server should close on shutdown.
type Closable interface {
	Close()
}
