package main

import (
	"context"
	"net/http"
	"net/http/pprof"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/qmdx00/lifecycle"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"gsheet-event-calendar/core"
	"gsheet-event-calendar/pkg/resources"
	"gsheet-event-calendar/pkg/servers"
)

func main() {
	name, version := "gsheet-event-calendar", "1.0"

	// 1. Config + logger
	resources.SetupConfig()
	ctx := resources.SetupLogger(context.Background(), name, version)

	startupLogger := log.Ctx(ctx).With().Str("stage", "startup").Str("component", "main").Logger()
	shutdownLogger := log.Ctx(ctx).With().Str("stage", "shut down").Str("component", "main").Logger()

	startupLogger.Info().Msg("application starting up")
	defer shutdownLogger.Info().Msg("application stopped")

	// 2. Telemetry (traces/metrics/logs), zerolog bridged to OTel Logs
	stopTracer, err := resources.CreateTracer(ctx)
	if err != nil {
		shutdownLogger.Fatal().Err(err).Msg("unable to setup otel tracing")
	}
	defer stopTracer(context.Background())

	stopMeter, err := resources.CreateMeter(ctx)
	if err != nil {
		shutdownLogger.Fatal().Err(err).Msg("unable to setup otel metrics")
	}
	defer stopMeter(context.Background())

	stopLogs, err := resources.CreateLoggerProvider(ctx)
	if err != nil {
		shutdownLogger.Fatal().Err(err).Msg("unable to setup otel logs")
	}
	defer stopLogs(context.Background())

	log.Logger = log.Logger.Hook(resources.NewOTelHook(name))
	ctx = log.Logger.WithContext(ctx)

	// 3. Pipeline resources
	location, err := time.LoadLocation(viper.GetString("CALENDAR_TIMEZONE"))
	if err != nil {
		shutdownLogger.Fatal().Err(err).Str("timezone", viper.GetString("CALENDAR_TIMEZONE")).
			Msg("unable to load configured timezone")
	}

	renderer, err := core.NewRenderer(core.DefaultMonthAbbreviations)
	if err != nil {
		shutdownLogger.Fatal().Err(err).Msg("unable to build renderer")
	}

	defaults := core.Defaults{
		Count:     viper.GetInt("CALENDAR_DEFAULT_COUNT"),
		CacheTTL:  time.Duration(viper.GetFloat64("CALENDAR_DEFAULT_CACHE_HOURS") * float64(time.Hour)),
		SourceURL: viper.GetString("CALENDAR_CSV_URL"),
	}

	// 4. Wiring
	fetcher := core.NewFetcher(viper.GetDuration("CALENDAR_FETCH_TIMEOUT"))
	loader := core.NewLoader(core.NewMemoryStore())
	service := core.NewService(fetcher, loader, location)
	handlers := core.NewHandlers(service, renderer, defaults)

	// 5. Servers
	gin.SetMode(gin.ReleaseMode)

	restHandler := gin.Default()
	restHandler.Use(resources.TracerMiddleware(name))
	restHandler.Use(resources.MeterMiddleware(name))

	restHandler.GET("/calendar", handlers.GetCalendar)
	restHandler.GET("/healthz", handlers.GetHealth)

	debugHandler := http.NewServeMux()
	debugHandler.HandleFunc("/debug/pprof/", pprof.Index)
	debugHandler.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	debugHandler.HandleFunc("/debug/pprof/profile", pprof.Profile)
	debugHandler.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	debugHandler.HandleFunc("/debug/pprof/trace", pprof.Trace)

	app := lifecycle.NewApp(
		lifecycle.WithName(name),
		lifecycle.WithVersion(version),
		lifecycle.WithSignal(syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT),
	)

	app.Attach(servers.BuildBaseServer())
	app.Attach(servers.BuildHttpServer(resources.NewHTTPServer(
		viper.GetString("SERVER_HOST"), viper.GetString("SERVER_PORT"), restHandler)))
	app.Attach("debug-server", servers.NewHttpServer(resources.NewHTTPServer(
		viper.GetString("SERVER_HOST"), viper.GetString("DEBUG_PORT"), debugHandler)))

	startupLogger.Info().Msg("application running")

	if err := app.Run(); err != nil {
		shutdownLogger.Error().Err(err).Msg("runtime error")
	}
}
