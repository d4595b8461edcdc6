package core

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Defaults carries the per-deployment fallback values for the invocation
// parameters a placeholder may omit.
type Defaults struct {
	Count     int
	CacheTTL  time.Duration
	SourceURL string
}

type Handlers interface {
	GetCalendar(gctx *gin.Context)
	GetHealth(gctx *gin.Context)
}

type handlers struct {
	service  Service
	renderer *Renderer
	defaults Defaults
}

func NewHandlers(service Service, renderer *Renderer, defaults Defaults) Handlers {
	return &handlers{service: service, renderer: renderer, defaults: defaults}
}

const htmlContentType = "text/html; charset=utf-8"

// GetCalendar renders the upcoming-event list. Query parameters mirror the
// placeholder attributes: count (min 1), csv_url, cache_hours (0 disables
// caching). Errors are returned in-band as a short HTML paragraph, the way
// the reference embeds them.
func (h *handlers) GetCalendar(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	count := h.defaults.Count
	if v := gctx.Query("count"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			log.Ctx(ctx).Warn().Str("count", v).Msg("ignoring non-numeric count parameter")
		} else {
			count = parsed
		}
	}
	count = NormalizeCount(count, h.defaults.Count)

	ttl := h.defaults.CacheTTL
	if v := gctx.Query("cache_hours"); v != "" {
		hours, err := strconv.ParseFloat(v, 64)
		if err != nil {
			log.Ctx(ctx).Warn().Str("cache_hours", v).Msg("ignoring non-numeric cache_hours parameter")
		} else {
			ttl = NormalizeCacheTTL(hours, h.defaults.CacheTTL)
		}
	}

	sourceURL := gctx.Query("csv_url")
	if sourceURL == "" {
		sourceURL = h.defaults.SourceURL
	}

	events, err := h.service.Upcoming(ctx, sourceURL, ttl, count)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("csv_url", sourceURL).Msg("calendar render failed")
		gctx.Data(statusFor(err), htmlContentType, []byte(h.renderer.RenderError(UserMessage(err))))

		return
	}

	markup, err := h.renderer.Render(events)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("markup generation failed")
		gctx.Data(http.StatusInternalServerError, htmlContentType, []byte(h.renderer.RenderError(UserMessage(err))))

		return
	}

	gctx.Data(http.StatusOK, htmlContentType, []byte(markup))
}

func (h *handlers) GetHealth(gctx *gin.Context) {
	gctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// statusFor keeps the HTTP status honest even though the body is always a
// renderable fragment: caller mistakes are 4xx, upstream trouble is 502.
func statusFor(err error) int {
	var statusErr *StatusError

	switch {
	case errors.Is(err, ErrInvalidURL):
		return http.StatusBadRequest
	case errors.As(err, &statusErr), errors.As(err, new(*FetchError)):
		return http.StatusBadGateway
	case errors.Is(err, ErrEmptyBody), errors.Is(err, ErrNoDataRows), errors.Is(err, ErrNoValidRows):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
