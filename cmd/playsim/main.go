package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/mindarcade/internal/playsim"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		sessions    = flag.Int("sessions", playsim.DefaultSessions, "Number of sessions to play")
		workers     = flag.Int("workers", playsim.DefaultWorkers, "Number of concurrent players")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed        = flag.Int64("seed", 0, "Seed for session generation (default: from clock)")
		replayEvery = flag.Int("replay-every", playsim.DefaultReplayEvery, "Resend every Nth session, 0 disables")
		shop        = flag.Bool("shop", false, "Buy every affordable item after playing")
		outputFile  = flag.String("output", "", "Write the played sessions to this JSON file")
		logFile     = flag.String("log", "", "Log file for simulator output (default: playsim_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		playsim.ShowHelp()
		return
	}

	if err := playsim.SetupLogging(*logFile, *verbose); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &playsim.Config{
		BaseURL:     *baseURL,
		Sessions:    *sessions,
		Workers:     *workers,
		Timeout:     *timeout,
		Seed:        *seed,
		ReplayEvery: *replayEvery,
		Shop:        *shop,
		OutputFile:  *outputFile,
		Verbose:     *verbose,
	}

	if _, err := playsim.Run(ctx, cfg); err != nil {
		_, _ = os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
