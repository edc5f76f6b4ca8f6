package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"

	"github.com/okian/racegate/internal/adapters/http/api"
	"github.com/okian/racegate/internal/adapters/registry"
	app "github.com/okian/racegate/internal/app"
	"github.com/okian/racegate/internal/config"
	"github.com/okian/racegate/internal/domain/model"
	"github.com/okian/racegate/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Our custom registry carries domain metrics only.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	configPath := pflag.String("config", "", "path to YAML config file")
	once := pflag.Bool("once", false, "run one scan and exit")
	eventsFile := pflag.String("events", "", "override events registry path")
	dataDir := pflag.String("data-dir", "", "override history data directory")
	addr := pflag.String("addr", "", "override HTTP listen address")
	pflag.Parse()

	// .env first so config sees its variables.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *configPath != "" {
		os.Setenv("RACEGATE_CONFIG", *configPath)
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *eventsFile != "" {
		cfg.EventsFile = *eventsFile
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithDataDir(cfg.DataDir),
		app.WithEventsFile(cfg.EventsFile),
		app.WithFeedFile(cfg.FeedFile),
		app.WithFetchTimeout(time.Duration(cfg.FetchTimeoutMS)*time.Millisecond),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithNewEventWindow(cfg.NewEventWindowDays),
		app.WithStockWindow(cfg.StockWindowDays),
		app.WithLowStockThreshold(cfg.LowStockThreshold),
		app.WithExcludeKeywords(cfg.ExcludeKeywords),
		app.WithDisplayPrefix(cfg.DisplayPrefix),
		app.WithFeedSize(cfg.FeedSize),
		app.WithPriority(model.KindRestock, cfg.RestockPriority),
		app.WithPriority(model.KindLowStock, cfg.LowStockPriority),
		app.WithPriority(model.KindNewEvent, cfg.NewEventPriority),
		app.WithPriority(model.KindSoldOut, cfg.SoldOutPriority),
		app.WithSkipPastEvents(cfg.SkipPastEvents),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer svc.Stop()

	if *once {
		if _, err := svc.RunScan(ctx); err != nil {
			log.Error(ctx, "scan failed", logger.Error(err))
			os.Exit(1)
		}
		return
	}

	serve(ctx, log, cfg, svc)
}

// serve runs periodic scans, watches the registry for edits, and exposes
// the feed over HTTP until the context is canceled.
func serve(ctx context.Context, log logger.Logger, cfg *config.Config, svc *app.Service) {
	// Manual rescan trigger, fed by the registry watcher.
	rescan := make(chan struct{}, 1)
	stopWatch, err := registry.Watch(ctx, cfg.EventsFile, func(events []model.EventDescriptor) {
		select {
		case rescan <- struct{}{}:
		default:
		}
	})
	if err != nil {
		log.Warn(ctx, "registry watch unavailable", logger.Error(err))
	} else {
		defer stopWatch()
	}

	mux := http.NewServeMux()
	api.NewServer(svc).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	runScan := func() {
		if _, err := svc.RunScan(ctx); err != nil {
			log.Error(ctx, "scan failed", logger.Error(err))
		}
	}

	runScan()

	ticker := time.NewTicker(time.Duration(cfg.ScanIntervalMin) * time.Minute)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			runScan()
		case <-rescan:
			runScan()
		}
	}

	log.Info(ctx, "shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "stopped")
}
