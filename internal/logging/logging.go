package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"recipefinder/internal/config"
	"recipefinder/internal/logsink"
)

const serviceName = "recipefinder"

// Shutdown flushes and closes every configured exporter.
type Shutdown func(context.Context) error

// Setup installs the default slog logger: text on stderr, plus OTLP logs and
// traces when an endpoint is configured, plus the append blob sink when its
// credentials are set.
func Setup(ctx context.Context, cfg config.LoggingConfig) (Shutdown, error) {
	return setup(ctx, cfg, os.Stderr)
}

func setup(ctx context.Context, cfg config.LoggingConfig, stderr io.Writer) (Shutdown, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}),
	}
	var closers []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i](ctx))
		}
		return errors.Join(errs...)
	}

	if endpoint := strings.TrimSpace(cfg.OTLPEndpoint); endpoint != "" {
		res := resource.NewSchemaless(attribute.String("service.name", serviceName))

		traceExp, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(traceExp), sdktrace.WithResource(res))
		otel.SetTracerProvider(tp)
		closers = append(closers, tp.Shutdown)

		logExp, err := otlploghttp.New(ctx, otlploghttp.WithEndpointURL(endpoint))
		if err != nil {
			_ = shutdown(ctx)
			return nil, fmt.Errorf("failed to create log exporter: %w", err)
		}
		lp := sdklog.NewLoggerProvider(
			sdklog.WithProcessor(sdklog.NewBatchProcessor(logExp)),
			sdklog.WithResource(res),
		)
		global.SetLoggerProvider(lp)
		closers = append(closers, lp.Shutdown)
		handlers = append(handlers, leveled{Handler: otelslog.NewHandler(serviceName, otelslog.WithLoggerProvider(lp)), level: level})
	}

	if cfg.BlobSinkEnabled() {
		sink, err := logsink.New(ctx, logsink.Config{
			AccountName: cfg.BlobAccount,
			AccountKey:  cfg.BlobKey,
			Container:   cfg.BlobContainer,
			BlobName:    cfg.BlobName,
			Level:       level,
		})
		if err != nil {
			_ = shutdown(ctx)
			return nil, fmt.Errorf("failed to create blob log sink: %w", err)
		}
		closers = append(closers, func(context.Context) error { return sink.Close() })
		handlers = append(handlers, sink)
	}

	slog.SetDefault(slog.New(Fanout(handlers...)))
	slog.InfoContext(ctx, "logging configured", "level", level.String(), "otlp", cfg.OTLPEndpoint != "", "blob", cfg.BlobSinkEnabled())
	return shutdown, nil
}

// ParseLevel accepts slog level names; empty means info.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}

// leveled applies a minimum level to a handler that has no option for one.
type leveled struct {
	slog.Handler
	level slog.Leveler
}

func (l leveled) Enabled(ctx context.Context, lvl slog.Level) bool {
	return lvl >= l.level.Level() && l.Handler.Enabled(ctx, lvl)
}

func (l leveled) WithAttrs(attrs []slog.Attr) slog.Handler {
	return leveled{Handler: l.Handler.WithAttrs(attrs), level: l.level}
}

func (l leveled) WithGroup(name string) slog.Handler {
	return leveled{Handler: l.Handler.WithGroup(name), level: l.level}
}
