// Package voiceclone wraps the external voice-cloning engine that
// extracts speaker reference samples and synthesizes translated speech
// in the sampled voice.
package voiceclone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Cloner is the engine surface the pipeline depends on
type Cloner interface {
	// ExtractSpeakerSample builds a reference sample for one speaker
	// from the given ranges of the vocals track. An empty path with a
	// nil error means no usable sample could be extracted.
	ExtractSpeakerSample(ctx context.Context, vocalsPath, speakerID string, ranges []TimeRange, outputDir string) (string, error)

	// SynthesizeSegment renders one piece of text against a sample and
	// reports the clip's actual duration
	SynthesizeSegment(ctx context.Context, text, samplePath string, targetDuration float64, outputPath, language string) (*SynthesisResult, error)

	// DubSegments synthesizes a batch of segments; per-segment
	// failures are reported inside the results, not as an error
	DubSegments(ctx context.Context, segments []SegmentInput, speakerSamples map[string]string, outputDir, language string) ([]SegmentResult, error)
}

// Client handles communication with the voice-clone engine
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// Config holds configuration for the voice-clone client
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// NewClient creates a new voice-clone engine client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8530"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "DubberAPI/1.0"
	}
	if cfg.Timeout == 0 {
		// Batch synthesis over a long timeline can take a while
		cfg.Timeout = 60 * time.Minute
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
	}
}

// ExtractSpeakerSample asks the engine for a reference sample. A
// speaker with too little clean speech yields ("", nil) and is skipped
// by the caller rather than failing the pipeline.
func (c *Client) ExtractSpeakerSample(ctx context.Context, vocalsPath, speakerID string, ranges []TimeRange, outputDir string) (string, error) {
	if vocalsPath == "" {
		return "", fmt.Errorf("vocals path cannot be empty")
	}
	if speakerID == "" {
		return "", fmt.Errorf("speaker id cannot be empty")
	}
	if len(ranges) == 0 {
		return "", nil
	}

	payload := extractSampleRequest{
		VocalsPath: vocalsPath,
		SpeakerID:  speakerID,
		Ranges:     ranges,
		OutputDir:  outputDir,
	}

	var resp extractSampleResponse
	if err := c.post(ctx, "extract_sample", payload, &resp); err != nil {
		return "", fmt.Errorf("sample extraction for speaker %s: %w", speakerID, err)
	}

	switch resp.Status {
	case "ok":
		return resp.SamplePath, nil
	case "no_sample":
		log.Printf("[DEBUG] No usable sample for speaker %s: %s", speakerID, resp.Message)
		return "", nil
	default:
		return "", fmt.Errorf("voice-clone engine error: %s", resp.Message)
	}
}

// SynthesizeSegment renders a single clip
func (c *Client) SynthesizeSegment(ctx context.Context, text, samplePath string, targetDuration float64, outputPath, language string) (*SynthesisResult, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}
	if samplePath == "" {
		return nil, fmt.Errorf("sample path cannot be empty")
	}

	payload := synthesizeRequest{
		Text:           text,
		SamplePath:     samplePath,
		TargetDuration: targetDuration,
		OutputPath:     outputPath,
		Language:       language,
	}

	var resp synthesizeResponse
	if err := c.post(ctx, "synthesize", payload, &resp); err != nil {
		return nil, fmt.Errorf("synthesis request: %w", err)
	}

	if resp.Status != "ok" {
		return nil, fmt.Errorf("voice-clone engine error: %s", resp.Message)
	}
	if resp.Path == "" {
		return nil, fmt.Errorf("voice-clone engine returned no clip path")
	}

	return &SynthesisResult{Path: resp.Path, Duration: resp.Duration}, nil
}

// DubSegments synthesizes a batch of segments in one call
func (c *Client) DubSegments(ctx context.Context, segments []SegmentInput, speakerSamples map[string]string, outputDir, language string) ([]SegmentResult, error) {
	if len(segments) == 0 {
		return nil, nil
	}

	payload := dubSegmentsRequest{
		Segments:       segments,
		SpeakerSamples: speakerSamples,
		OutputDir:      outputDir,
		Language:       language,
	}

	var resp dubSegmentsResponse
	if err := c.post(ctx, "dub_segments", payload, &resp); err != nil {
		return nil, fmt.Errorf("batch synthesis request: %w", err)
	}

	if resp.Status != "ok" {
		return nil, fmt.Errorf("voice-clone engine error: %s", resp.Message)
	}

	return resp.Results, nil
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
		log.Printf("[ERROR] Voice-clone engine returned status %d for %s", resp.StatusCode, fullURL)
		return fmt.Errorf("engine returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
