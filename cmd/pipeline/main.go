package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/linesmith/linesmith/internal/pipeline"
	"github.com/linesmith/linesmith/internal/pkg/config"
	"github.com/linesmith/linesmith/internal/pkg/health"
	"github.com/linesmith/linesmith/internal/pkg/logging"
	"github.com/linesmith/linesmith/internal/pkg/notify"
	"github.com/linesmith/linesmith/internal/pkg/storage"
	"github.com/linesmith/linesmith/internal/sources/flashscore"

	// Register all bookmaker sources via init().
	_ "github.com/linesmith/linesmith/internal/sources/all"
)

const defaultConfigPath = "configs/production.yaml"

type flags struct {
	configPath string
	source     string
	interval   time.Duration
}

func main() {
	if err := run(); err != nil {
		slog.Error("Pipeline failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	f := parseFlags()

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.Setup(logging.Options{
		Level:    parseLevel(cfg.Logging.Level),
		JSONFile: cfg.Logging.JSONFile,
	}, "pipeline")

	store, err := storage.NewPostgresEventStore(&cfg.Postgres)
	if err != nil {
		return fmt.Errorf("failed to open event store: %w", err)
	}
	defer store.Close()

	var cache storage.IDCache
	if cfg.Redis.Addr != "" {
		redisCache, err := storage.NewRedisIDCache(&cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, live id cache disabled", "error", err)
		} else {
			defer redisCache.Close()
			cache = redisCache
		}
	}

	notifier := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Health.Port > 0 {
		health.Run(ctx, health.AddrFor(cfg.Health.Port), "pipeline", cfg.Health.ReadHeaderTimeout)
	}

	p := pipeline.New(store, store, cache, notifier, &cfg.Pipeline, logger)

	// The reference feed runs through the same binary: "flashscore" ingests
	// the full lookahead window, "flashscore-live" only refreshes today's
	// statuses and scores.
	switch f.source {
	case "flashscore":
		provider := flashscore.NewProvider(&cfg.Sources.Flashscore, nil, logger)
		return runOnInterval(ctx, f.interval, func(ctx context.Context) error {
			return p.Ingest(ctx, provider)
		})
	case "flashscore-live":
		provider := flashscore.NewProvider(&cfg.Sources.Flashscore, []int{0}, logger)
		return runOnInterval(ctx, f.interval, func(ctx context.Context) error {
			return p.Ingest(ctx, provider)
		})
	}

	if f.source == "" {
		return fmt.Errorf("no source selected, use -source with one of: flashscore, flashscore-live, %s", strings.Join(pipeline.AvailableNames(), ", "))
	}
	factory, err := pipeline.FactoryByName(f.source)
	if err != nil {
		return err
	}
	src, err := factory(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to build source %s: %w", f.source, err)
	}

	return runOnInterval(ctx, f.interval, func(ctx context.Context) error {
		report, err := p.Run(ctx, src)
		if report != nil {
			health.SetReport(report)
		}
		return err
	})
}

// runOnInterval runs pass once, then repeats every interval until the
// context is cancelled. A zero interval means a single pass. A failed pass
// is logged and does not stop the loop.
func runOnInterval(ctx context.Context, interval time.Duration, pass func(context.Context) error) error {
	if err := pass(ctx); err != nil {
		if interval == 0 {
			return err
		}
		slog.Error("Pass failed", "error", err)
	}
	if interval == 0 {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := pass(ctx); err != nil {
				slog.Error("Pass failed", "error", err)
			}
		}
	}
}

func parseFlags() flags {
	var f flags

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}

	flag.StringVar(&f.configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.StringVar(&f.source, "source", "", "Source to run: a bookmaker name, 'flashscore' or 'flashscore-live'")
	flag.DurationVar(&f.interval, "interval", 0, "Repeat interval (e.g. 2m). 0 = run once and exit")
	flag.Parse()
	return f
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
