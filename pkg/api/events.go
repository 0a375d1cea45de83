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

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/coralstor/console/pkg/models"
)

const tailBuffer = 64

// EventsClient fetches and tails cluster events.
type EventsClient struct {
	client *Client
	dialer *websocket.Dialer
}

func NewEventsClient(client *Client) *EventsClient {
	return &EventsClient{
		client: client,
		dialer: websocket.DefaultDialer,
	}
}

// List fetches up to limit recent events, newest first. limit <= 0 leaves the
// count up to the backend.
func (e *EventsClient) List(ctx context.Context, limit int) ([]models.Event, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var events []models.Event

	if err := e.client.get(ctx, "api/events/", query, &events); err != nil {
		return nil, err
	}

	return events, nil
}

// Tail opens a websocket to the event stream and delivers events until ctx is
// cancelled or the connection drops; the returned channel is closed either way.
func (e *EventsClient) Tail(ctx context.Context) (<-chan models.Event, error) {
	wsURL := *e.client.baseURL

	switch wsURL.Scheme {
	case "https":
		wsURL.Scheme = "wss"
	default:
		wsURL.Scheme = "ws"
	}

	wsURL.Path = path.Join(wsURL.Path, "api/events/ws")

	header := http.Header{}
	if e.client.apiKey != "" {
		header.Set("X-API-Key", e.client.apiKey)
	}

	conn, resp, err := e.dialer.DialContext(ctx, wsURL.String(), header)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("event stream handshake failed with status %d: %w", resp.StatusCode, err)
		}

		return nil, fmt.Errorf("event stream dial failed: %w", err)
	}

	out := make(chan models.Event, tailBuffer)
	readerDone := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
		case <-readerDone:
		}

		_ = conn.Close()
	}()

	go func() {
		defer close(out)
		defer close(readerDone)

		for {
			var event models.Event

			if err := conn.ReadJSON(&event); err != nil {
				if e.client.logger != nil && ctx.Err() == nil {
					e.client.logger.Debug().Err(err).Msg("event tail closed")
				}

				return
			}

			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
