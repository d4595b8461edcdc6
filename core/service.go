package core

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Service runs the whole pipeline for one render invocation:
// cache -> fetch -> parse -> filter -> sort -> cap.
type Service interface {
	Upcoming(ctx context.Context, sourceURL string, cacheTTL time.Duration, count int) ([]ResolvedEvent, error)
}

type service struct {
	tracer   trace.Tracer
	metrics  *PipelineMetrics
	fetcher  Fetcher
	loader   *Loader
	location *time.Location
	now      func() time.Time
}

func NewService(fetcher Fetcher, loader *Loader, location *time.Location) Service {
	return &service{
		tracer:   otel.GetTracerProvider().Tracer("gsheet-event-calendar/core"),
		metrics:  NewPipelineMetrics(),
		fetcher:  fetcher,
		loader:   loader,
		location: location,
		now:      time.Now,
	}
}

func (s *service) Upcoming(ctx context.Context, sourceURL string, cacheTTL time.Duration, count int) ([]ResolvedEvent, error) {
	start := time.Now()

	var err error

	defer func() { s.metrics.Observe(ctx, "upcoming", start, err) }()

	ctx, span := s.tracer.Start(ctx, "service.Upcoming")
	defer span.End()

	sourceURL = strings.TrimSpace(sourceURL)

	if err = ValidateSourceURL(sourceURL); err != nil {
		return nil, err
	}

	var raw []RawEvent

	raw, err = s.loader.GetOrPopulate(CacheKey(sourceURL), cacheTTL, func() ([]RawEvent, error) {
		fetchStart := time.Now()

		body, fetchErr := s.fetcher.Fetch(ctx, sourceURL)

		defer func() { s.metrics.Observe(ctx, "fetch_and_parse", fetchStart, fetchErr) }()

		if fetchErr != nil {
			return nil, fetchErr
		}

		return ParseCSV(body)
	})
	if err != nil {
		return nil, err
	}

	upcoming := SelectUpcoming(raw, s.now(), s.location)

	if len(upcoming) > count {
		upcoming = upcoming[:count]
	}

	log.Ctx(ctx).Debug().Str("component", "service").
		Int("rows", len(raw)).Int("upcoming", len(upcoming)).
		Msg("pipeline completed")

	return upcoming, nil
}

/*

 */

type PipelineMetrics struct {
	runs    metric.Int64Counter
	errors  metric.Int64Counter
	latency metric.Float64Histogram
}

func NewPipelineMetrics() *PipelineMetrics {
	meter := otel.Meter("gsheet-event-calendar/pipeline")

	runs, _ := meter.Int64Counter("calendar.pipeline.total")
	errors, _ := meter.Int64Counter("calendar.pipeline.errors.total")
	latency, _ := meter.Float64Histogram("calendar.pipeline.duration.ms")

	return &PipelineMetrics{runs: runs, errors: errors, latency: latency}
}

func (m *PipelineMetrics) Observe(ctx context.Context, op string, start time.Time, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("pipeline.source", "google-sheet-csv"),
		attribute.String("pipeline.operation", op),
	}

	m.runs.Add(ctx, 1, metric.WithAttributes(attrs...))

	ms := float64(time.Since(start).Milliseconds())
	m.latency.Record(ctx, ms, metric.WithAttributes(attrs...))

	if err != nil {
		m.errors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
