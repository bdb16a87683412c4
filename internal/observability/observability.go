// Package observability configures ladle's diagnostics log and tracing.
package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Options selects where logs and spans go.
type Options struct {
	ServiceName string
	Version     string
	LogPath     string // empty discards log output
	Level       slog.Level
	Trace       bool
	TracePath   string
}

// Instruments bundles the process-wide logger and tracer provider.
type Instruments struct {
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
}

// Init builds the logger and tracer provider. The returned shutdown flushes
// pending spans and closes the files; call it on exit.
func Init(ctx context.Context, opts Options) (*Instruments, func(context.Context) error, error) {
	var closers []io.Closer

	logWriter := io.Discard
	if path := strings.TrimSpace(opts.LogPath); path != "" {
		f, err := openAppend(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		closers = append(closers, f)
		logWriter = f
	}
	logger := slog.New(slog.NewJSONHandler(logWriter, &slog.HandlerOptions{Level: opts.Level})).
		With(slog.String("service", serviceName(opts)))

	instruments := &Instruments{
		Logger:         logger,
		TracerProvider: tracenoop.NewTracerProvider(),
	}

	var provider *sdktrace.TracerProvider
	if opts.Trace {
		path := strings.TrimSpace(opts.TracePath)
		if path == "" {
			closeAll(closers)
			return nil, nil, errors.New("tracing enabled without trace_path")
		}
		f, err := openAppend(path)
		if err != nil {
			closeAll(closers)
			return nil, nil, fmt.Errorf("open trace file: %w", err)
		}
		closers = append(closers, f)

		provider, err = newTracerProvider(ctx, opts, f)
		if err != nil {
			closeAll(closers)
			return nil, nil, err
		}
		instruments.TracerProvider = provider
		otel.SetTracerProvider(provider)
	}

	shutdown := func(ctx context.Context) error {
		var shutdownErr error
		if provider != nil {
			shutdownErr = errors.Join(shutdownErr, provider.Shutdown(ctx))
		}
		return errors.Join(shutdownErr, closeAll(closers))
	}
	return instruments, shutdown, nil
}

// Tracer returns a named tracer from the configured provider.
func (i *Instruments) Tracer(name string) trace.Tracer {
	if i == nil || i.TracerProvider == nil {
		return otel.Tracer(name)
	}
	return i.TracerProvider.Tracer(name)
}

func newTracerProvider(ctx context.Context, opts Options, w io.Writer) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName(opts)),
			attribute.String("service.version", opts.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("build trace resource: %w", err)
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	), nil
}

func serviceName(opts Options) string {
	if name := strings.TrimSpace(opts.ServiceName); name != "" {
		return name
	}
	return "ladle"
}

func openAppend(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func closeAll(closers []io.Closer) error {
	var err error
	for _, c := range closers {
		err = errors.Join(err, c.Close())
	}
	return err
}
