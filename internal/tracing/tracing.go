package tracing

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/opentracing/opentracing-go"
	appconfig "github.com/therealutkarshpriyadarshi/webvtt/internal/config"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Init installs a Jaeger tracer as the global tracer when tracing is
// enabled. When disabled the opentracing no-op tracer stays in place.
func Init(cfg appconfig.TracingConfig) (io.Closer, error) {
	if !cfg.Enabled {
		return nopCloser{}, nil
	}

	_, closer, err := initTracer(jaegerConfig(cfg.ServiceName, cfg.Endpoint, cfg.FlushInterval))
	if err != nil {
		return nil, err
	}
	return closer, nil
}

// defaultFlushInterval is how often buffered spans are sent to the collector.
const defaultFlushInterval = time.Second

// InitTracer initializes the Jaeger tracer
func InitTracer(serviceName, jaegerEndpoint string) (opentracing.Tracer, io.Closer, error) {
	return initTracer(jaegerConfig(serviceName, jaegerEndpoint, defaultFlushInterval))
}

func jaegerConfig(serviceName, jaegerEndpoint string, flushInterval time.Duration) *jaegercfg.Configuration {
	if flushInterval <= 0 {
		flushInterval = defaultFlushInterval
	}

	return &jaegercfg.Configuration{
		ServiceName: serviceName,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  jaeger.SamplerTypeConst,
			Param: 1,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LogSpans:            false,
			CollectorEndpoint:   jaegerEndpoint,
			BufferFlushInterval: flushInterval,
		},
	}
}

func initTracer(cfg *jaegercfg.Configuration) (opentracing.Tracer, io.Closer, error) {
	tracer, closer, err := cfg.NewTracer()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	opentracing.SetGlobalTracer(tracer)
	return tracer, closer, nil
}

// StartSpan starts a new span with the given operation name
func StartSpan(ctx context.Context, operationName string) (opentracing.Span, context.Context) {
	span, ctx := opentracing.StartSpanFromContext(ctx, operationName)
	return span, ctx
}

// FinishSpan finishes a span
func FinishSpan(span opentracing.Span) {
	if span != nil {
		span.Finish()
	}
}

// LogError logs an error to the span
func LogError(span opentracing.Span, err error) {
	if span != nil && err != nil {
		span.SetTag("error", true)
		span.LogKV("error", err.Error())
	}
}

// SetTag sets a tag on the span
func SetTag(span opentracing.Span, key string, value interface{}) {
	if span != nil {
		span.SetTag(key, value)
	}
}
