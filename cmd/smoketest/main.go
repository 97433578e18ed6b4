// Command smoketest exercises a running server end to end: availability
// setup, preview generation, confirmation, and readback. It exits non-zero
// on the first failure, making it suitable for deploy verification.
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
	"time"

	"github.com/mtran-dev/fitcoach/internal/testhelpers"
)

const requestTimeout = 10 * time.Second

type client struct {
	baseURL string
	http    *http.Client
}

func newClient(baseURL string) (*client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &client{
		baseURL: baseURL,
		http:    &http.Client{Jar: jar, Timeout: requestTimeout},
	}, nil
}

func (c *client) get(ctx context.Context, path string, wantStatus int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		return fmt.Errorf("GET %s: expected status %d, got %d", path, wantStatus, resp.StatusCode)
	}
	return nil
}

func (c *client) post(ctx context.Context, path string, body any, wantStatus int) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		return fmt.Errorf("POST %s: expected status %d, got %d", path, wantStatus, resp.StatusCode)
	}
	return nil
}

type slot struct {
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Label     string `json:"label"`
}

func runSmokeTest(ctx context.Context, baseURL string) error {
	c, err := newClient(baseURL)
	if err != nil {
		return err
	}

	if err = c.get(ctx, "/api/healthy", http.StatusOK); err != nil {
		return fmt.Errorf("health check: %w", err)
	}

	availability := map[string][]slot{"slots": {
		{Weekday: 1, StartTime: "18:00", EndTime: "19:00", Label: "Evening"},
		{Weekday: 4, StartTime: "18:00", EndTime: "19:00", Label: "Evening"},
	}}
	if err = c.post(ctx, "/preferences", availability, http.StatusOK); err != nil {
		return fmt.Errorf("save availability: %w", err)
	}

	preview := map[string]any{
		"exercise_names": []string{"Jump Rope", "Plank"},
		"start":          "next_week",
	}
	if err = c.post(ctx, "/schedule/preview", preview, http.StatusOK); err != nil {
		return fmt.Errorf("generate preview: %w", err)
	}
	if err = c.get(ctx, "/schedule/preview", http.StatusOK); err != nil {
		return fmt.Errorf("read draft: %w", err)
	}
	if err = c.post(ctx, "/schedule/confirm", struct{}{}, http.StatusOK); err != nil {
		return fmt.Errorf("confirm plan: %w", err)
	}
	if err = c.get(ctx, "/schedule", http.StatusOK); err != nil {
		return fmt.Errorf("read confirmed plan: %w", err)
	}

	return nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only the base URL as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <base-url>")
		os.Exit(1)
	}
	baseURL := os.Args[1]

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if err := runSmokeTest(ctx, baseURL); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "smoke test failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "smoke test passed", slog.String("base_url", baseURL))
}
