package mt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultRequestTimeout = 15 * time.Second

// ClientConfig controls one translation-direction HTTP adapter.
type ClientConfig struct {
	// BaseURL is the server root, e.g. http://127.0.0.1:5000.
	BaseURL string
	// Source and Target are the language codes this direction serves.
	Source string
	Target string
	// RequestTimeout bounds each translation request.
	RequestTimeout time.Duration
}

// Client speaks the LibreTranslate-shape endpoint commonly used to serve
// Opus-MT models: POST /translate with {q, source, target} JSON.
type Client struct {
	cfg  ClientConfig
	http *http.Client
}

// NewClient validates the endpoint and returns a direction engine.
func NewClient(cfg ClientConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("mt: endpoint URL is empty")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("mt: invalid endpoint URL %q: %w", cfg.BaseURL, err)
	}
	if strings.TrimSpace(cfg.Source) == "" || strings.TrimSpace(cfg.Target) == "" {
		return nil, fmt.Errorf("mt: source and target languages are required")
	}
	cfg.BaseURL = base
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.RequestTimeout},
	}, nil
}

// Translate sends one text fragment through this direction.
func (c *Client) Translate(ctx context.Context, text string, _ string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	payload, err := json.Marshal(map[string]string{
		"q":      text,
		"source": c.cfg.Source,
		"target": c.cfg.Target,
		"format": "text",
	})
	if err != nil {
		return "", fmt.Errorf("mt: build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("mt: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("mt: translation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("mt: endpoint returned %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var out struct {
		TranslatedText string `json:"translatedText"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("mt: decode response: %w", err)
	}
	return out.TranslatedText, nil
}
