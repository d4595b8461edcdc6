package resources

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/rs/zerolog"
	otelog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
)

// OTelHook forwards every zerolog record to the global OpenTelemetry log
// provider. Records still print to stderr; this only adds the OTLP copy.
type OTelHook struct {
	logger otelog.Logger
}

func NewOTelHook(serviceName string) *OTelHook {
	return &OTelHook{
		logger: global.GetLoggerProvider().Logger(serviceName),
	}
}

func (h *OTelHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	fields, ok := eventFields(e)
	if !ok {
		return
	}

	var rec otelog.Record

	sev, sevText := severityOf(level)

	rec.SetTimestamp(timestampOf(fields))
	rec.SetSeverity(sev)
	rec.SetSeverityText(sevText)
	rec.SetBody(otelog.StringValue(msg))
	rec.AddAttributes(attributesOf(fields)...)

	h.logger.Emit(e.GetCtx(), rec)
}

// eventFields recovers the accumulated fields from a zerolog event.
// zerolog exposes no public accessor, so the internal JSON buffer is read
// reflectively and closed off before unmarshalling. The recover guard
// keeps a zerolog internals change from taking the process down.
func eventFields(e *zerolog.Event) (fields map[string]any, ok bool) {
	defer func() {
		if recover() != nil {
			fields, ok = nil, false
		}
	}()

	if e == nil {
		return nil, false
	}

	v := reflect.ValueOf(e)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return nil, false
	}

	f := v.Elem().FieldByName("buf")
	if !f.IsValid() || f.Kind() != reflect.Slice || f.Type().Elem().Kind() != reflect.Uint8 {
		return nil, false
	}

	buf := append([]byte(nil), f.Bytes()...)
	if len(buf) == 0 {
		return nil, false
	}

	if buf[len(buf)-1] != '}' {
		buf = append(buf, '}')
	}

	if err := json.Unmarshal(buf, &fields); err != nil {
		return nil, false
	}

	return fields, true
}

func severityOf(level zerolog.Level) (otelog.Severity, string) {
	switch level {
	case zerolog.TraceLevel:
		return otelog.SeverityTrace, "TRACE"
	case zerolog.DebugLevel:
		return otelog.SeverityDebug, "DEBUG"
	case zerolog.InfoLevel:
		return otelog.SeverityInfo, "INFO"
	case zerolog.WarnLevel:
		return otelog.SeverityWarn, "WARN"
	case zerolog.ErrorLevel:
		return otelog.SeverityError, "ERROR"
	case zerolog.FatalLevel:
		return otelog.SeverityFatal, "FATAL"
	case zerolog.PanicLevel:
		return otelog.SeverityFatal4, "FATAL"
	default:
		return otelog.SeverityInfo, "INFO"
	}
}

func timestampOf(fields map[string]any) time.Time {
	s, ok := fields[zerolog.TimestampFieldName].(string)
	if !ok {
		return time.Now()
	}

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}

	return time.Now()
}

func attributesOf(fields map[string]any) []otelog.KeyValue {
	kvs := make([]otelog.KeyValue, 0, len(fields))

	for k, v := range fields {
		switch x := v.(type) {
		case string:
			kvs = append(kvs, otelog.String(k, x))
		case bool:
			kvs = append(kvs, otelog.Bool(k, x))
		case float64:
			if x == float64(int64(x)) {
				kvs = append(kvs, otelog.Int64(k, int64(x)))
			} else {
				kvs = append(kvs, otelog.Float64(k, x))
			}
		default:
			kvs = append(kvs, otelog.String(k, fmt.Sprintf("%v", x)))
		}
	}

	return kvs
}
