package asr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultRequestTimeout = 30 * time.Second

// ClientConfig controls the transcription endpoint adapter.
type ClientConfig struct {
	// BaseURL is the server root, e.g. http://127.0.0.1:9000.
	BaseURL string
	// Model names the server-side model to run; optional.
	Model string
	// SampleRate is the rate of the uploaded audio.
	SampleRate int
	// RequestTimeout bounds each transcription request.
	RequestTimeout time.Duration
}

// Client speaks the OpenAI-compatible transcription surface served by
// faster-whisper and whisper.cpp servers: multipart WAV upload to
// /v1/audio/transcriptions with a declared language, JSON text back.
type Client struct {
	cfg  ClientConfig
	http *http.Client
}

// NewClient validates the endpoint and returns a transcription adapter.
func NewClient(cfg ClientConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("asr: endpoint URL is empty")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("asr: invalid endpoint URL %q: %w", cfg.BaseURL, err)
	}
	cfg.BaseURL = base
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.RequestTimeout},
	}, nil
}

// Transcribe uploads one audio window and returns the recognized text.
func (c *Client) Transcribe(ctx context.Context, samples []float32, language string) (string, error) {
	if len(samples) == 0 {
		return "", nil
	}
	if strings.TrimSpace(language) == "" {
		return "", ErrNoLanguage
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "window.wav")
	if err != nil {
		return "", fmt.Errorf("asr: build request: %w", err)
	}
	if _, err := part.Write(encodeWAV(samples, c.cfg.SampleRate)); err != nil {
		return "", fmt.Errorf("asr: build request: %w", err)
	}
	if err := mw.WriteField("language", language); err != nil {
		return "", fmt.Errorf("asr: build request: %w", err)
	}
	if c.cfg.Model != "" {
		if err := mw.WriteField("model", c.cfg.Model); err != nil {
			return "", fmt.Errorf("asr: build request: %w", err)
		}
	}
	if err := mw.WriteField("response_format", "json"); err != nil {
		return "", fmt.Errorf("asr: build request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("asr: build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/v1/audio/transcriptions", &body)
	if err != nil {
		return "", fmt.Errorf("asr: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("asr: transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("asr: endpoint returned %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("asr: decode response: %w", err)
	}
	return strings.TrimSpace(out.Text), nil
}
