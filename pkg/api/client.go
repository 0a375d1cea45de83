/*
 * Copyright 2025 CoralStor, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package api wraps the cluster's REST endpoints in typed clients.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	consolehttp "github.com/coralstor/console/pkg/http"
	"github.com/coralstor/console/pkg/logger"
)

const (
	defaultHTTPTimeout = 15 * time.Second
	maxErrorBodyBytes  = 2048
)

// ClientConfig controls how the REST client behaves.
type ClientConfig struct {
	BaseURL       string
	APIKey        string
	Timeout       time.Duration
	TLSSkipVerify bool
	Logger        logger.Logger
	HTTP          *http.Client
}

// Client is the shared HTTP layer under the typed service/cluster/event clients.
type Client struct {
	baseURL *url.URL
	client  *http.Client
	apiKey  string
	logger  logger.Logger
}

// NewClient constructs the shared REST client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errBaseURLRequired
	}

	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	httpClient := cfg.HTTP
	if httpClient == nil {
		var base http.RoundTripper
		if cfg.TLSSkipVerify {
			base = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // operator opt-in
			}
		}

		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: consolehttp.NewAuthTransport(cfg.APIKey, base, cfg.Logger),
		}
	}

	return &Client{
		baseURL: parsed,
		client:  httpClient,
		apiKey:  cfg.APIKey,
		logger:  cfg.Logger,
	}, nil
}

// endpoint joins p onto the base URL. Plain string concatenation keeps
// caller-escaped path segments and trailing slashes intact; the backend routes
// "api/services/" and "api/services" differently.
func (c *Client) endpoint(p string) string {
	return strings.TrimRight(c.baseURL.String(), "/") + "/" + strings.TrimLeft(p, "/")
}

// get issues a GET with query parameters and decodes the JSON response.
func (c *Client) get(ctx context.Context, p string, query url.Values, out interface{}) error {
	endpoint := c.endpoint(p)

	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return c.roundTrip(req, out)
}

// do issues one JSON request. A nil out discards the response body; a non-2xx
// status yields a *StatusError.
func (c *Client) do(ctx context.Context, method, p string, body, out interface{}) error {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(p), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.roundTrip(req, out)
}

// roundTrip executes a prepared request and decodes the JSON response into out.
func (c *Client) roundTrip(req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

		return &StatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(msg)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
