package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/stormbuddi/mobile/internal/common"
	"github.com/stormbuddi/mobile/internal/logging"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://app.stormbuddi.com/api"

// HTTPClient implements Client over the REST backend. Timeout semantics are
// delegated to the underlying http.Client and the caller's context; no
// additional retry or backoff is performed here.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenProvider
	log     logging.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenProvider, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

// envelope is the `{ success, data }` wrapper most endpoints respond with.
// Some endpoints omit `success`, so only `data` is relied upon.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.tokens.Token(ctx)
	if err == nil && token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerScheme+token)
	}
	if deviceID, err := c.tokens.DeviceID(ctx); err == nil && deviceID != "" {
		req.Header.Set(common.DeviceIDHeader, deviceID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "api response", "method", method, "path", path, "status", resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%s %s: %w", method, path, common.ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s %s: %w", method, path, common.ErrNotFound)
	case resp.StatusCode == http.StatusNoContent:
		return nil, fmt.Errorf("%s %s: %w", method, path, common.ErrNoContent)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	return raw, nil
}

// decodeData unwraps the `{ data: ... }` envelope when present, otherwise
// treats the whole body as the payload.
func decodeData(raw json.RawMessage) (map[string]any, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	payload := raw
	if len(env.Data) > 0 && string(env.Data) != "null" {
		payload = env.Data
	}

	var m map[string]any
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return m, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	raw, err := c.do(ctx, http.MethodPost, "/mobile/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	data, err := decodeData(raw)
	if err != nil {
		return "", err
	}

	// Token sits either at data.token or data.access_token depending on the
	// backend version.
	for _, key := range []string{"token", "access_token"} {
		if token, ok := data[key].(string); ok && token != "" {
			return token, nil
		}
	}
	return "", fmt.Errorf("login response missing token: %w", common.ErrInvalidToken)
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/mobile/logout", nil)
	return err
}

func (c *HTTPClient) SubscriptionStatus(ctx context.Context) (map[string]any, error) {
	raw, err := c.do(ctx, http.MethodGet, "/mobile/subscription/status", nil)
	if err != nil {
		return nil, err
	}
	return decodeData(raw)
}

func (c *HTTPClient) Profile(ctx context.Context) (map[string]any, error) {
	raw, err := c.do(ctx, http.MethodGet, "/mobile/profile", nil)
	if err != nil {
		return nil, err
	}
	return decodeData(raw)
}
