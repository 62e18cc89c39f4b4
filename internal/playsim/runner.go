package playsim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/mindarcade/internal/domain/model"
	"github.com/okian/mindarcade/pkg/logger"
)

const directoryPermission = 0750

// Run plays a full simulation and returns its statistics. The error is
// non-nil when the server is unreachable or the progression is inconsistent.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting arcade simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("sessions", cfg.Sessions),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
		logger.Int("replayEvery", cfg.ReplayEvery),
		logger.Bool("shop", cfg.Shop))

	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	client := newHTTPClient(cfg.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, cfg, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Snapshot progress
	before, err := getProgress(ctx, cfg, client)
	if err != nil {
		return stats, err
	}

	// Step 3: Play
	sessions := generateSessions(ctx, cfg, stats)
	applied := submitSessions(ctx, cfg, client, sessions, stats)
	replaySessions(ctx, cfg, client, sessions, stats)

	// Step 4: Spend
	if cfg.Shop {
		if err := shop(ctx, cfg, client, stats); err != nil {
			return stats, fmt.Errorf("shopping failed: %w", err)
		}
	}

	// Step 5: Verify
	after, err := getProgress(ctx, cfg, client)
	if err != nil {
		return stats, err
	}
	verifyErr := verifyResults(ctx, before, after, applied, stats)

	if cfg.OutputFile != "" {
		if err := saveSessionsToFile(ctx, cfg.OutputFile, sessions); err != nil {
			log.Warn(ctx, "failed to save sessions to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if verifyErr != nil {
		return stats, fmt.Errorf("result verification failed: %w", verifyErr)
	}
	log.Info(ctx, "simulation completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, cfg *Config, client *HTTPClient) error {
	logger.Get().Info(ctx, "checking service health")
	status, err := client.Get(ctx, cfg.BaseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	// The service answers with Prometheus metrics.
	if status != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", status)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

func getProgress(ctx context.Context, cfg *Config, client *HTTPClient) (model.PlayerProgress, error) {
	var p model.PlayerProgress
	status, err := client.Get(ctx, cfg.BaseURL+"/progress", &p)
	if err != nil {
		return p, fmt.Errorf("failed to fetch progress: %w", err)
	}
	if status != http.StatusOK {
		return p, fmt.Errorf("failed to fetch progress: status %d", status)
	}
	return p, nil
}

// saveSessionsToFile writes the generated sessions as a JSON array.
func saveSessionsToFile(ctx context.Context, filename string, sessions []Session) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sessions: %w", err)
	}
	if err := os.WriteFile(filename, data, logFilePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	logger.Get().Info(ctx, "sessions saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var sessionsPerSecond float64
	if stats.Duration > 0 {
		sessionsPerSecond = float64(stats.SessionsGenerated+stats.Replays) / stats.Duration.Seconds()
	}
	logger.Get().Info(ctx, "final statistics",
		logger.Int("sessionsGenerated", stats.SessionsGenerated),
		logger.Int("sessionsApplied", stats.SessionsApplied),
		logger.Int("sessionsDuplicate", stats.SessionsDuplicate),
		logger.Int("sessionsFailed", stats.SessionsFailed),
		logger.Int("replays", stats.Replays),
		logger.Int("purchases", stats.Purchases),
		logger.Int("purchasesRefused", stats.PurchasesRefused),
		logger.Int64("scoreSpent", stats.ScoreSpent),
		logger.Int("persistWarnings", stats.PersistWarnings),
		logger.Duration("duration", stats.Duration),
		logger.Float64("sessionsPerSecond", sessionsPerSecond))
}
