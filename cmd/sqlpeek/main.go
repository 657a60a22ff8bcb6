package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sqlpeek/sqlpeek/internal/analysis"
	"github.com/sqlpeek/sqlpeek/internal/api"
	"github.com/sqlpeek/sqlpeek/internal/config"
	"github.com/sqlpeek/sqlpeek/internal/meta"
	"github.com/sqlpeek/sqlpeek/internal/scheduler"
)

// Injected at build time via -ldflags; defaults to "dev".
var version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// ── Logging (initial — overridden below once config is loaded) ─────────
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// ── Config ─────────────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("sqlpeek starting",
		"version", version,
		"log_level", cfg.LogLevel,
		"http_addr", cfg.HTTPAddr,
		"meta_db_path", cfg.MetaDBPath)

	// ── Metadata store ─────────────────────────────────────────────────────
	metaDB, err := meta.Open(cfg.MetaDBPath)
	if err != nil {
		slog.Error("open metadata store", "error", err)
		os.Exit(1)
	}
	defer metaDB.Close()

	if err := meta.RunMigrations(metaDB); err != nil {
		slog.Error("run migrations", "error", err)
		os.Exit(1)
	}
	store := meta.NewStore(metaDB)

	// ── Analysis engine ────────────────────────────────────────────────────
	registry := analysis.NewRegistry()
	broker := analysis.NewBroker()
	mgr := analysis.NewManager(store, registry, broker)

	// ── Scheduler ──────────────────────────────────────────────────────────
	sched := scheduler.New()
	if cfg.ReanalyzeSchedule != "" {
		err := sched.SetJob(cfg.ReanalyzeSchedule, func() {
			slog.Info("scheduled re-analysis triggered")
			paths, err := store.Paths(context.Background())
			if err != nil {
				slog.Warn("scheduled re-analysis: list paths", "error", err)
				return
			}
			for _, p := range paths {
				mgr.Start(p)
			}
		})
		if err != nil {
			slog.Warn("invalid cron expression", "expr", cfg.ReanalyzeSchedule, "error", err)
		}
	}
	sched.Start()
	defer sched.Stop()

	// ── HTTP server ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := api.New(cfg.HTTPAddr, store, mgr, broker, sched)
	if err := srv.Run(ctx); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	// Cancel any in-flight analyses before the store closes.
	mgr.Shutdown()
	slog.Info("sqlpeek stopped")
}

// parseLogLevel converts a config string ("debug", "info", "warn", "error")
// to its slog.Level equivalent. Unknown values default to Info.
func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
