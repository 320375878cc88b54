// Package llm holds the HTTP plumbing shared by the LLM provider adapters
// in its subpackages.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/docshelf/internal/core/domain"
)

// MaxResponseBytes caps how much of a provider reply is read.
const MaxResponseBytes = 4 << 20

// maxErrorBody caps the raw body quoted in an error message.
const maxErrorBody = 512

// ErrorMessageFunc extracts the provider's error message from a reply body.
// It returns "" when the body carries none.
type ErrorMessageFunc func(body []byte) string

// Client sends JSON requests to one provider API.
type Client struct {
	provider string
	http     *http.Client
	baseURL  string
	headers  map[string]string
	errMsg   ErrorMessageFunc
}

// NewClient creates a client for provider rooted at baseURL.
// headers are sent with every request. errMsg may be nil.
func NewClient(provider, baseURL string, timeout time.Duration, headers map[string]string, errMsg ErrorMessageFunc) *Client {
	return &Client{
		provider: provider,
		http:     &http.Client{Timeout: timeout},
		baseURL:  strings.TrimRight(baseURL, "/"),
		headers:  headers,
		errMsg:   errMsg,
	}
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PostJSON sends in as JSON to path and decodes a 200 reply into out.
// Transport failures, error statuses and undecodable replies wrap
// domain.ErrRemote.
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: send request: %w", domain.ErrRemote, c.provider, err)
	}
	defer resp.Body.Close()

	body, err := readLimited(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s: read response: %w", domain.ErrRemote, c.provider, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s (status %d): %s", domain.ErrRemote, c.provider, resp.StatusCode, c.describe(resp.StatusCode, body))
	}
	if msg := c.message(body); msg != "" {
		return fmt.Errorf("%w: %s: %s", domain.ErrRemote, c.provider, msg)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s: decode response: %w", domain.ErrRemote, c.provider, err)
	}
	return nil
}

// Ping issues a GET to path and expects a 200 reply.
func (c *Client) Ping(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("%s: failed to create ping request: %w", c.provider, err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: ping failed: %w", c.provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := readLimited(resp.Body)
		return fmt.Errorf("%s: API returned status %d: %s", c.provider, resp.StatusCode, c.describe(resp.StatusCode, body))
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
}

func (c *Client) message(body []byte) string {
	if c.errMsg == nil {
		return ""
	}
	return c.errMsg(body)
}

// describe turns an error reply into a short message.
func (c *Client) describe(status int, body []byte) string {
	msg := c.message(body)
	if msg == "" {
		msg = strings.TrimSpace(string(body))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody] + "..."
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		msg += " (check the API key with 'docshelf settings llm')"
	}
	return msg
}

func readLimited(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, MaxResponseBytes+1))
	if err != nil {
		return nil, err
	}
	if len(body) > MaxResponseBytes {
		return nil, fmt.Errorf("response exceeds %d bytes", MaxResponseBytes)
	}
	return body, nil
}
