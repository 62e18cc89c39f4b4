package playsim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/mindarcade/pkg/logger"
)

// HTTPClient wraps http.Client with JSON helpers.
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET and decodes a 200 body into dst when dst is non-nil.
func (c *HTTPClient) Get(ctx context.Context, url string, dst any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, dst)
}

// Post sends body as JSON and decodes a 200 response into dst.
func (c *HTTPClient) Post(ctx context.Context, url string, body, dst any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, dst)
}

func (c *HTTPClient) do(req *http.Request, dst any) (int, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode == http.StatusOK && dst != nil {
		if err := json.Unmarshal(body, dst); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

type submitResult int

const (
	resultApplied submitResult = iota
	resultDuplicate
	resultFailed
)

// submitSessions plays sessions concurrently with cfg.Workers players and
// returns the sessions the server applied.
func submitSessions(ctx context.Context, cfg *Config, client *HTTPClient, sessions []Session, stats *Stats) []Session {
	log := logger.Get()
	log.Info(ctx, "submitting sessions", logger.Int("sessions", len(sessions)), logger.Int("workers", cfg.Workers))

	url := cfg.BaseURL + "/games/complete"
	var (
		applied   []Session
		mu        sync.Mutex
		dup, fail int64
		warnings  int64
		wg        sync.WaitGroup
	)

	ch := make(chan Session, cfg.Workers*2)
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range ch {
				res, warn := submitSession(ctx, client, url, s)
				if warn {
					atomic.AddInt64(&warnings, 1)
				}
				switch res {
				case resultApplied:
					mu.Lock()
					applied = append(applied, s)
					mu.Unlock()
				case resultDuplicate:
					atomic.AddInt64(&dup, 1)
				default:
					atomic.AddInt64(&fail, 1)
					if cfg.Verbose {
						log.Warn(ctx, "session failed", logger.String("sessionId", s.SessionID))
					}
				}
			}
		}()
	}

	go func() {
		defer close(ch)
		for _, s := range sessions {
			select {
			case <-ctx.Done():
				return
			case ch <- s:
			}
		}
	}()
	wg.Wait()

	stats.SessionsApplied += len(applied)
	stats.SessionsDuplicate += int(dup)
	stats.SessionsFailed += int(fail)
	stats.PersistWarnings += int(warnings)
	return applied
}

// replaySessions resends every nth session; each must come back as a duplicate.
func replaySessions(ctx context.Context, cfg *Config, client *HTTPClient, sessions []Session, stats *Stats) {
	if cfg.ReplayEvery <= 0 {
		return
	}
	url := cfg.BaseURL + "/games/complete"
	for i := 0; i < len(sessions); i += cfg.ReplayEvery {
		stats.Replays++
		switch res, _ := submitSession(ctx, client, url, sessions[i]); res {
		case resultDuplicate:
			stats.SessionsDuplicate++
		case resultApplied:
			stats.SessionsApplied++
		default:
			stats.SessionsFailed++
		}
	}
}

func submitSession(ctx context.Context, client *HTTPClient, url string, s Session) (submitResult, bool) {
	var out outcome
	status, err := client.Post(ctx, url, s, &out)
	if err != nil || status != http.StatusOK {
		return resultFailed, false
	}
	if out.Duplicate {
		return resultDuplicate, out.PersistWarning
	}
	return resultApplied, out.PersistWarning
}

// shop buys every affordable, unowned item in catalog order.
func shop(ctx context.Context, cfg *Config, client *HTTPClient, stats *Stats) error {
	var items []shopItem
	if status, err := client.Get(ctx, cfg.BaseURL+"/shop", &items); err != nil || status != http.StatusOK {
		return fmt.Errorf("failed to list shop (status %d): %w", status, err)
	}
	for _, it := range items {
		if it.Owned || !it.Affordable {
			continue
		}
		status, err := client.Post(ctx, cfg.BaseURL+"/shop/purchase", map[string]any{"itemId": it.ID}, nil)
		if err != nil {
			return fmt.Errorf("purchase %s: %w", it.ID, err)
		}
		switch status {
		case http.StatusOK:
			stats.Purchases++
			stats.ScoreSpent += it.Price
		default:
			// Earlier purchases in this loop may have used up the score.
			stats.PurchasesRefused++
		}
	}
	return nil
}
