// Command stresstest hammers the preview endpoint of a running server with
// concurrent sessions and reports the success rate. Each virtual user keeps
// its own cookie jar so drafts do not interfere.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"os"
	"sync/atomic"
	"time"

	"github.com/mtran-dev/fitcoach/internal/testhelpers"
	"golang.org/x/sync/errgroup"
)

const (
	virtualUsers         = 20
	previewsPerUser      = 25
	requestTimeout       = 10 * time.Second
	scenarioTimeout      = 5 * time.Minute
	successRateThreshold = 95.0
	percentageMultiplier = 100
)

type virtualUser struct {
	baseURL string
	http    *http.Client
}

func newVirtualUser(baseURL string) (*virtualUser, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &virtualUser{
		baseURL: baseURL,
		http:    &http.Client{Jar: jar, Timeout: requestTimeout},
	}, nil
}

func (u *virtualUser) post(ctx context.Context, path string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := u.http.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("POST %s: status %d", path, resp.StatusCode)
	}
	return nil
}

func (u *virtualUser) setup(ctx context.Context) error {
	availability := map[string]any{"slots": []map[string]any{
		{"weekday": 1, "start_time": "06:00", "end_time": "08:00", "label": "Morning"},
		{"weekday": 3, "start_time": "18:00", "end_time": "19:00", "label": "Evening"},
		{"weekday": 6, "start_time": "09:00", "end_time": "11:00", "label": "Weekend"},
	}}
	if err := u.post(ctx, "/preferences", availability); err != nil {
		return fmt.Errorf("save availability: %w", err)
	}
	return nil
}

func (u *virtualUser) runPreviews(ctx context.Context, succeeded, failed *atomic.Int64, logger *slog.Logger) {
	preview := map[string]any{
		"exercise_names": []string{"Jump Rope", "Push Up", "Squat", "Deadlift", "Plank", "Burpee"},
		"start":          "next_week",
		"policy":         "redistribute",
	}
	for range previewsPerUser {
		if err := u.post(ctx, "/schedule/preview", preview); err != nil {
			failed.Add(1)
			logger.LogAttrs(ctx, slog.LevelDebug, "preview failed", slog.Any("error", err))
			continue
		}
		if err := u.post(ctx, "/schedule/discard", struct{}{}); err != nil {
			failed.Add(1)
			continue
		}
		succeeded.Add(1)
	}
}

func runStressTest(ctx context.Context, baseURL string, logger *slog.Logger) error {
	var succeeded, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for i := range virtualUsers {
		g.Go(func() error {
			user, err := newVirtualUser(baseURL)
			if err != nil {
				return fmt.Errorf("create virtual user %d: %w", i, err)
			}
			if err = user.setup(gctx); err != nil {
				return fmt.Errorf("setup virtual user %d: %w", i, err)
			}
			user.runPreviews(gctx, &succeeded, &failed, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("stress scenario: %w", err)
	}

	total := succeeded.Load() + failed.Load()
	successRate := float64(succeeded.Load()) / float64(total) * percentageMultiplier
	logger.LogAttrs(ctx, slog.LevelInfo, "stress test finished",
		slog.Int64("succeeded", succeeded.Load()),
		slog.Int64("failed", failed.Load()),
		slog.Float64("success_rate", successRate))

	if successRate < successRateThreshold {
		return fmt.Errorf("success rate %.1f%% below threshold %.1f%%", successRate, successRateThreshold)
	}
	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only the base URL as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: stresstest <base-url>")
		os.Exit(1)
	}
	baseURL := os.Args[1]

	ctx, cancel := context.WithTimeout(ctx, scenarioTimeout)
	defer cancel()

	if err := runStressTest(ctx, baseURL, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "stress test failed", slog.Any("error", err))
		os.Exit(1)
	}
}
