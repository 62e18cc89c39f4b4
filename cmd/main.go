package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/okian/mindarcade/internal/adapters/http/api"
	"github.com/okian/mindarcade/internal/adapters/http/site"
	"github.com/okian/mindarcade/internal/adapters/http/swagger"
	"github.com/okian/mindarcade/internal/adapters/mq/worker"
	"github.com/okian/mindarcade/internal/adapters/repository"
	"github.com/okian/mindarcade/internal/app"
	"github.com/okian/mindarcade/internal/config"
	"github.com/okian/mindarcade/internal/domain/dedupe"
	"github.com/okian/mindarcade/internal/domain/scoring"
	"github.com/okian/mindarcade/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 35 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// arcade is the wired service.
type arcade struct {
	engine  *app.Engine
	store   *worker.WriteBehindStore
	board   *repository.Leaderboard
	hub     *api.Hub
	handler http.Handler
}

func main() {
	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// The writer outlives the signal context so queued writes drain on shutdown.
	writerCtx, stopWriter := context.WithCancel(context.WithoutCancel(ctx))
	defer stopWriter()

	a, err := build(ctx, writerCtx, cfg)
	if err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		os.Exit(1)
	}
	go a.hub.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}
	if err := a.close(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "store shutdown failed", logger.Error(err))
	}
	log.Info(shutdownCtx, "server stopped")
}

// build wires stores, engine and routes from cfg. writerCtx bounds the
// write-behind goroutine.
func build(ctx, writerCtx context.Context, cfg *config.Config) (*arcade, error) {
	log := logger.Get()

	backing, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	wb := worker.NewWriteBehindStore(writerCtx, backing, cfg.WriteQueueSize, logger.Named("writer"))

	loc, err := cfg.Location()
	if err != nil {
		_ = wb.Close()
		return nil, err
	}

	board := repository.NewLeaderboard(repository.WithRivals(cfg.RivalCount, cfg.RivalSeed))
	hub := api.NewHub(logger.Named("hub"))

	engine := app.New(wb,
		app.WithLocation(loc),
		app.WithLogger(logger.Named("engine")),
		app.WithNotifier(hub),
		app.WithLeaderboard(board),
		app.WithDeduper(dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(cfg.DedupeSize))),
	)
	if err := engine.Load(ctx); err != nil {
		log.Warn(ctx, "starting from fresh progress", logger.Error(err))
	}

	srv := api.NewServer(engine, board,
		api.WithEstimator(scoring.NewEstimator(scoring.WithWeightsFromConfig(cfg.XPWeights, cfg.DefaultXPWeight))),
		api.WithHub(hub),
		api.WithMaxLeaderboardLimit(cfg.MaxLeaderboardLimit),
		api.WithLogger(logger.Named("api")),
		api.WithStats(api.StatsFunc(func(ctx context.Context) map[string]any {
			return map[string]any{
				"pendingWrites":      wb.Pending(ctx),
				"writeQueueCapacity": wb.Capacity(),
				"persistFailures":    wb.Failures(),
				"storeDriver":        cfg.StoreDriver,
			}
		})),
	)

	routes := srv.Routes()
	swagger.Register(ctx, routes)
	site.Register(ctx, routes)

	return &arcade{engine: engine, store: wb, board: board, hub: hub, handler: routes}, nil
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch strings.ToLower(cfg.StoreDriver) {
	case config.StoreSQLite:
		s, err := repository.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store %q: %w", cfg.SQLitePath, err)
		}
		return s, nil
	case config.StoreMemory, "":
		return repository.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w %q", config.ErrUnknownStoreDriver, cfg.StoreDriver)
	}
}

// close drains queued writes within ctx and releases the store.
func (a *arcade) close(ctx context.Context) error {
	return a.store.Shutdown(ctx)
}
