package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel/trace"

	"github.com/five82/ladle/internal/config"
	"github.com/five82/ladle/internal/observability"
	"github.com/five82/ladle/internal/prefs"
	"github.com/five82/ladle/internal/recipes"
	"github.com/five82/ladle/internal/state"
	"github.com/five82/ladle/internal/ui"
)

const shutdownTimeout = 3 * time.Second

// Options configure a ladle session.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/ladle/prefs.toml
	APIURL     string // overrides config and LADLE_API_URL when set
	Version    string
	Debug      bool // log at debug level
}

// Session holds the configured client and diagnostics shared by the TUI and
// the CLI subcommands.
type Session struct {
	Config config.Config
	Client *recipes.Client
	Logger *slog.Logger
	// Tracer starts spans around whole commands; client calls nest below them.
	Tracer trace.Tracer

	shutdown func(context.Context) error
}

// Open loads configuration, starts logging and tracing, and builds the
// backend client. Call Close when done.
func Open(ctx context.Context, opts Options) (*Session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg = cfg.WithAPIURL(opts.APIURL)

	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	inst, shutdown, err := observability.Init(ctx, observability.Options{
		ServiceName: "ladle",
		Version:     opts.Version,
		LogPath:     cfg.LogPath,
		Level:       level,
		Trace:       cfg.Trace,
		TracePath:   cfg.TracePath,
	})
	if err != nil {
		return nil, fmt.Errorf("init diagnostics: %w", err)
	}

	client, err := recipes.NewClient(cfg.APIURL,
		recipes.WithTimeout(cfg.RequestTimeout),
		recipes.WithUserAgent(userAgent(opts.Version)),
		recipes.WithTracerProvider(inst.TracerProvider),
	)
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("init recipe client: %w", err)
	}

	inst.Logger.Debug("session opened",
		slog.String("api_url", client.BaseURL()),
		slog.String("config", cfg.Path))

	return &Session{
		Config:   cfg,
		Client:   client,
		Logger:   inst.Logger,
		Tracer:   inst.Tracer("github.com/five82/ladle"),
		shutdown: shutdown,
	}, nil
}

// Close flushes spans and closes the log file.
func (s *Session) Close() error {
	if s == nil || s.shutdown == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.shutdown(ctx)
}

// Run boots the ladle TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	session, err := Open(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		session.Logger.Warn("preferences unavailable", slog.String("error", err.Error()))
	}

	ctrl := state.NewController(session.Client, session.Logger)

	// Background refresh stops with the TUI
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	StartRefresher(runCtx, ctrl, session.Config.RefreshInterval, session.Logger)

	err = ui.Run(ui.Options{
		Context:     runCtx,
		Controller:  ctrl,
		Options:     session.Client,
		Config:      &session.Config,
		Logger:      session.Logger,
		ThemeName:   userPrefs.Theme,
		PrefsPath:   opts.PrefsPath,
		SplitDetail: userPrefs.SplitDetail,
	})
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func userAgent(version string) string {
	if version == "" {
		version = "dev"
	}
	return "ladle/" + version
}
