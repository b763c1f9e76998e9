// Package apiclient talks to the HouseHunt REST API.
//
// Every response is wrapped in the API's {success, message, data} envelope.
// Failures come back classified: a 401 is an auth error, a transport failure
// is a network error, and anything the API refuses (non-2xx or
// success=false) is a business error carrying the API's message.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"time"

	"househunt/internal/auth"
	apperrors "househunt/internal/errors"
)

const maxResponseBytes = 8 << 20

// Client is a thin typed client of the HouseHunt API. It is safe for
// concurrent use; the bearer token is passed per call.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a client for baseURL with a tuned transport.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	hc := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			MaxConnsPerHost:     100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	return NewWithHTTPClient(baseURL, hc, logger)
}

// NewWithHTTPClient creates a client that sends requests through hc.
func NewWithHTTPClient(baseURL string, hc *http.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{baseURL: baseURL, http: hc, logger: logger, now: time.Now}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Token   string          `json:"token"`
	User    json.RawMessage `json:"user"`
}

func (e *envelope) decodeData(out any) error {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return apperrors.Business("unexpected response from server", http.StatusBadGateway)
	}
	return nil
}

type formField struct {
	name, value string
}

// authed rejects calls that need a session but have no usable token.
func (c *Client) authed(token string) error {
	if token == "" {
		return apperrors.ErrNotLoggedIn
	}
	if auth.TokenExpired(token, c.now()) {
		return apperrors.Auth(apperrors.MsgSessionExpired)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, in any) (*envelope, error) {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, token, body, contentType)
}

func (c *Client) doForm(ctx context.Context, method, path, token string, fields []formField) (*envelope, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, fmt.Errorf("encode form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}
	return c.do(ctx, method, path, token, &buf, w.FormDataContentType())
}

func (c *Client) do(ctx context.Context, method, path, token string, body io.Reader, contentType string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("api request failed", "method", method, "path", path, "error", err)
		return nil, apperrors.Network(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperrors.Network(fmt.Errorf("read response: %w", err))
	}
	c.logger.Debug("api request", "method", method, "path", path, "status", resp.StatusCode, "latency_ms", c.now().Sub(start).Milliseconds())

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		msg := env.Message
		if decodeErr != nil || msg == "" {
			msg = apperrors.MsgSessionExpired
		}
		return nil, apperrors.Auth(msg)
	case resp.StatusCode >= 400:
		msg := env.Message
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, apperrors.Business(msg, resp.StatusCode)
	case decodeErr != nil:
		return nil, apperrors.Business("unexpected response from server", http.StatusBadGateway)
	case !env.Success:
		msg := env.Message
		if msg == "" {
			msg = "request failed"
		}
		return nil, apperrors.Business(msg, 0)
	}
	return &env, nil
}
