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

// Package http carries client-side HTTP plumbing shared by the API clients.
package http

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/coralstor/console/pkg/logger"
)

// AuthTransport injects the X-API-Key and a generated X-Request-ID header on
// every outbound request. A zero API key leaves authentication headers off so
// the same transport works against unsecured dev clusters.
type AuthTransport struct {
	APIKey string
	Base   http.RoundTripper
	Logger logger.Logger
}

// NewAuthTransport wraps base (or http.DefaultTransport when nil).
func NewAuthTransport(apiKey string, base http.RoundTripper, log logger.Logger) *AuthTransport {
	return &AuthTransport{APIKey: apiKey, Base: base, Logger: log}
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not mutate the caller's request.
	clone := req.Clone(req.Context())

	if t.APIKey != "" {
		clone.Header.Set("X-API-Key", t.APIKey)
	}

	requestID := uuid.NewString()
	clone.Header.Set("X-Request-ID", requestID)

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(clone)

	if t.Logger != nil {
		event := t.Logger.Debug().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Str("request_id", requestID)

		if err != nil {
			event.Err(err).Msg("API request failed")
		} else {
			event.Int("status", resp.StatusCode).Msg("API request")
		}
	}

	return resp, err
}
