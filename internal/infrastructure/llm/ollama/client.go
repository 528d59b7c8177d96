package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/TomasMBBrito/Projeto-DAE/internal/core/domain"
)

// Config carries the generation parameters for the summarization call.
// Generation is slow, so the read timeout is large while connects stay short.
type Config struct {
	BaseURL         string
	Model           string
	MaxInputChars   int
	Temperature     float64
	MaxOutputTokens int
	ConnectTimeout  time.Duration
	ReadTimeout     time.Duration
}

func (c Config) normalize() Config {
	out := c
	if out.Model == "" {
		out.Model = "llama3.2"
	}
	if out.MaxInputChars <= 0 {
		out.MaxInputChars = 3000
	}
	if out.Temperature <= 0 || out.Temperature > 1 {
		out.Temperature = 0.5
	}
	if out.MaxOutputTokens <= 0 {
		out.MaxOutputTokens = 300
	}
	if out.ConnectTimeout <= 0 {
		out.ConnectTimeout = 10 * time.Second
	}
	if out.ReadTimeout <= 0 {
		out.ReadTimeout = 10 * time.Minute
	}
	return out
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

func New(cfg Config) *Client {
	cfg = cfg.normalize()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.ReadTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: cfg.ConnectTimeout}).DialContext,
			},
		},
	}
}

// Summarize issues one synchronous, non-streaming generation call. The input
// is truncated to the configured character limit before the request is
// built; a blank generated text is a failure, not a success.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "summarize", errors.New("input text is blank"))
	}

	reqBody := map[string]any{
		"model":  c.cfg.Model,
		"prompt": buildSummaryPrompt(truncate(text, c.cfg.MaxInputChars)),
		"stream": false,
		"options": map[string]any{
			"temperature": c.cfg.Temperature,
			"num_predict": c.cfg.MaxOutputTokens,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal summarize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create summarize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domain.WrapError(domain.ErrSummaryUnavailable, "summarize", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", domain.WrapError(domain.ErrSummaryService, "summarize", httpStatusError(resp))
	}

	var envelope struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", domain.WrapError(domain.ErrSummaryService, "summarize", fmt.Errorf("decode response: %w", err))
	}

	summary := strings.TrimSpace(envelope.Response)
	if summary == "" {
		return "", domain.WrapError(domain.ErrSummaryEmpty, "summarize", errors.New("generated text is blank"))
	}
	return summary, nil
}

func httpStatusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return fmt.Errorf("status %d: %s", resp.StatusCode, msg)
}

// truncate limits the text to maxChars runes, appending an ellipsis so
// downstream consumers can tell the input was partial.
func truncate(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars]) + "..."
}
