// Package separation wraps the external source-separation engine that
// splits a mixed audio track into vocal, background-music and
// sound-effect stems.
package separation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Separator splits a mixed audio file into its three stems
type Separator interface {
	Separate(ctx context.Context, audioPath, outputDir string) (*StemPaths, error)
}

// Client handles communication with the separation engine
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// Config holds configuration for the separation client
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// NewClient creates a new separation engine client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8520"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "DubberAPI/1.0"
	}
	if cfg.Timeout == 0 {
		// Separation runs over the whole source track; allow long calls
		cfg.Timeout = 30 * time.Minute
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
	}
}

// Separate runs the engine over audioPath and returns the stem paths.
// The call blocks until the engine finishes writing all three stems
// under outputDir.
func (c *Client) Separate(ctx context.Context, audioPath, outputDir string) (*StemPaths, error) {
	if audioPath == "" {
		return nil, fmt.Errorf("audio path cannot be empty")
	}
	if outputDir == "" {
		return nil, fmt.Errorf("output directory cannot be empty")
	}

	payload := separateRequest{
		AudioPath: audioPath,
		OutputDir: outputDir,
		Stems:     3,
	}

	var resp separateResponse
	if err := c.post(ctx, "separate", payload, &resp); err != nil {
		return nil, fmt.Errorf("separation request: %w", err)
	}

	if resp.Status != "ok" {
		return nil, fmt.Errorf("separation engine error: %s", resp.Message)
	}
	if resp.VocalsPath == "" || resp.BgmPath == "" || resp.SfxPath == "" {
		return nil, fmt.Errorf("separation engine returned incomplete stem paths")
	}

	return &StemPaths{
		Vocals: resp.VocalsPath,
		Bgm:    resp.BgmPath,
		Sfx:    resp.SfxPath,
	}, nil
}

// post is a helper for JSON POST round-trips to the engine
func (c *Client) post(ctx context.Context, endpoint string, payload, result interface{}) error {
	fullURL := fmt.Sprintf("%s/%s", c.baseURL, endpoint)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fullURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[ERROR] Separation engine returned status %d for %s", resp.StatusCode, fullURL)
		return fmt.Errorf("engine returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
