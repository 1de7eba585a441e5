// Package ocr is an HTTP client for an optical character recognition
// sidecar that accepts a PDF document plus a page number and returns
// the recognized text for that page.
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Config holds OCR client configuration.
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// Client calls the OCR service. Errors are returned as-is; the loader
// degrades a failed page to empty text rather than aborting.
type Client struct {
	httpClient *http.Client
	endpoint   string
	logger     *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		endpoint: cfg.Endpoint,
		logger:   logger.With("component", "ocr"),
	}
}

type recognizeRequest struct {
	Document string `json:"document"` // base64-encoded PDF bytes
	Page     int    `json:"page"`
	Language string `json:"language,omitempty"`
}

type recognizeResponse struct {
	Text string `json:"text"`
}

// RecognizePage renders and recognizes a single page of doc.
func (c *Client) RecognizePage(ctx context.Context, doc []byte, page int) (string, error) {
	body, err := json.Marshal(recognizeRequest{
		Document: base64.StdEncoding.EncodeToString(doc),
		Page:     page,
		Language: "eng",
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/recognize", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var out recognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	c.logger.Debug("page recognized", "page", page, "chars", len(out.Text))
	return out.Text, nil
}
