package playsim

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/mindarcade/pkg/logger"
)

const logFilePermission = 0600

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string, verbose bool) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		if err := logger.SetLevelString("debug"); err != nil {
			return err
		}
	}

	if logFile == "" {
		logFile = "playsim_" + time.Now().Format("20060102_150405") + ".log"
	}
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	log.SetOutput(io.MultiWriter(os.Stdout, file))
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the simulator.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Mind Arcade Play Simulator
==========================

Plays random mini-game sessions against a running arcade server and checks
that the progress record stays consistent.

Usage:
  go run ./cmd/playsim [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -sessions int
        Number of sessions to play (default 200)
  -workers int
        Number of concurrent players (default 4)
  -timeout duration
        HTTP request timeout (default 30s)
  -seed int
        Seed for session generation (default: from clock)
  -replay-every int
        Resend every Nth session to exercise dedupe, 0 disables (default 10)
  -shop
        Buy every affordable item after playing
  -output string
        Write the played sessions to this JSON file
  -log string
        Log file for simulator output (default: playsim_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  go run ./cmd/playsim -sessions 1000 -workers 8
  go run ./cmd/playsim -seed 42 -shop -output sessions.json

The simulator assumes it is the only player while it runs.
`)
}
