// Package translate is the client for the remote translation service:
// speech-to-text and text-to-speech as plain POST-body-in/body-out calls.
package translate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/ghsss/real-time-translator-client/internal/logger"
)

const (
	speechToTextPath = "/speech-to-text"
	textToSpeechPath = "/text-to-speech"
)

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("translation service %s: HTTP %d", e.Endpoint, e.StatusCode)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the given base URL. There is deliberately no
// request timeout on the underlying client: a hung translation call hangs the
// job, matching how the service has always been consumed. Callers can bound
// a call through its context.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// SpeechToText submits transcoded audio bytes and returns the transcript.
func (c *Client) SpeechToText(ctx context.Context, audio []byte) (string, error) {
	body, err := c.post(ctx, speechToTextPath, audio)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// TextToSpeech submits a transcript and returns the synthesized audio bytes.
func (c *Client) TextToSpeech(ctx context.Context, text string) ([]byte, error) {
	return c.post(ctx, textToSpeechPath, []byte(text))
}

func (c *Client) post(ctx context.Context, path string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Error("translation service error", "endpoint", path, "status", resp.StatusCode, "body", truncate(string(body), 200))
		return nil, &StatusError{Endpoint: path, StatusCode: resp.StatusCode, Body: string(body)}
	}

	logger.Debug("translation call finished", "endpoint", path, "status", resp.StatusCode, "bytes", len(body))
	return body, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	return s[:max] + "..."
}
