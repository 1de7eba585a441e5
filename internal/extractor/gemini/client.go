// Package gemini implements the structured-extraction capability
// against the Google generative language API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"coursecal/internal/domain"
	"coursecal/internal/extractor"
)

// Config holds gemini client configuration.
type Config struct {
	BaseURL        string
	APIKey         string
	Model          string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Client calls the generative language API and decodes its JSON
// output into raw events. The model output is untrusted: it is fully
// re-validated by the extractor.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	model          string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        cfg.BaseURL,
		apiKey:         cfg.APIKey,
		model:          cfg.Model,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("component", "gemini"),
	}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type eventsEnvelope struct {
	Events []extractor.RawEvent `json:"events"`
}

// ExtractEvents asks the model for the dated items in text. Transient
// API failures surface as domain.ErrExtractionUnavailable after
// retries are exhausted; output that does not decode against the
// schema surfaces as domain.ErrMalformedExtraction with the raw
// payload logged for diagnosis.
func (c *Client) ExtractEvents(ctx context.Context, text string) ([]extractor.RawEvent, error) {
	payload, err := c.generate(ctx, buildPrompt(text))
	if err != nil {
		return nil, err
	}

	cleaned := stripFences(payload)

	var env eventsEnvelope
	if err := json.Unmarshal([]byte(cleaned), &env); err != nil {
		c.logger.Error("extraction output did not parse", "error", err, "raw", payload)
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedExtraction, err)
	}

	return env.Events, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	var out string
	var err error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		out, err = c.doRequest(ctx, prompt)
		if err == nil {
			return out, nil
		}

		if attempt == c.maxAttempts {
			break
		}

		backoff := c.calculateBackoff(attempt)
		c.logger.Warn("generate request failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", domain.ErrExtractionUnavailable, ctx.Err())
		case <-time.After(backoff):
		}
	}

	return "", fmt.Errorf("%w: after %d attempts: %v", domain.ErrExtractionUnavailable, c.maxAttempts, err)
}

func (c *Client) doRequest(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)

	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty model response")
	}

	return gr.Candidates[0].Content.Parts[0].Text, nil
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > c.maxBackoff {
		backoff = c.maxBackoff
	}
	return backoff
}

// stripFences removes a markdown code fence around the model output,
// which some models add despite the JSON-only instruction.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func buildPrompt(text string) string {
	var b strings.Builder
	b.WriteString(`You are analyzing a course syllabus. Extract EVERY assignment, exam, quiz, project, lecture and other dated academic item.

The text is split by "--- PAGE n ---" markers. For each item, report the page number it appears on as "source_page".

Return ONLY a valid JSON object, no markdown, no extra text, in this exact format:

{
  "events": [
    {
      "title": "Item title",
      "type": "assignment|exam|quiz|project|lecture|other",
      "due_date": "YYYY-MM-DD",
      "due_time": "HH:MM",
      "description": "optional details",
      "points": 10,
      "source_page": 1
    }
  ]
}

Guidelines:
- Convert all dates to YYYY-MM-DD; if a range is given, use the end date.
- Omit "due_time", "description" and "points" when not stated.
- Include every item you find; do not stop early.

SYLLABUS TEXT:
`)
	b.WriteString(text)
	return b.String()
}
