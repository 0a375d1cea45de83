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

// Package dashboard provides the data-backed widgets rendered by the console.
package dashboard

import (
	"context"
	"sync"

	"github.com/charmbracelet/bubbles/table"
	"github.com/dustin/go-humanize"

	"github.com/coralstor/console/pkg/logger"
	"github.com/coralstor/console/pkg/models"
)

const defaultEventLimit = 10

// EventLister is the slice of the events API the widget needs.
type EventLister interface {
	List(ctx context.Context, limit int) ([]models.Event, error)
}

// EventsWidget holds the most recent cluster events for display. It is safe
// for concurrent use: Refresh and Append may race with Rows from the render
// loop.
type EventsWidget struct {
	lister EventLister
	limit  int
	logger logger.Logger

	mu     sync.Mutex
	events []models.Event
}

// EventsWidgetOption configures an EventsWidget.
type EventsWidgetOption func(*EventsWidget)

// WithEventLimit caps how many events the widget retains and requests.
func WithEventLimit(limit int) EventsWidgetOption {
	return func(w *EventsWidget) {
		if limit > 0 {
			w.limit = limit
		}
	}
}

func WithWidgetLogger(log logger.Logger) EventsWidgetOption {
	return func(w *EventsWidget) {
		w.logger = log
	}
}

func NewEventsWidget(lister EventLister, opts ...EventsWidgetOption) *EventsWidget {
	widget := &EventsWidget{
		lister: lister,
		limit:  defaultEventLimit,
		logger: logger.NewLogger(),
	}

	for _, opt := range opts {
		opt(widget)
	}

	return widget
}

// Columns returns the table schema: relative time, severity, message.
func (w *EventsWidget) Columns() []table.Column {
	return []table.Column{
		{Title: "When", Width: 14},
		{Title: "Severity", Width: 9},
		{Title: "Message", Width: 60},
	}
}

// Refresh replaces the widget's events with the latest from the backend.
// On error the previous events are kept so the dashboard never blanks out.
func (w *EventsWidget) Refresh(ctx context.Context) error {
	events, err := w.lister.List(ctx, w.limit)
	if err != nil {
		w.logger.Debug().Err(err).Msg("event refresh failed, keeping previous events")
		return err
	}

	w.mu.Lock()
	w.events = events
	w.mu.Unlock()

	return nil
}

// Append prepends a streamed event, evicting the oldest beyond the limit.
func (w *EventsWidget) Append(event models.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.events = append([]models.Event{event}, w.events...)
	if len(w.events) > w.limit {
		w.events = w.events[:w.limit]
	}
}

// Events returns a copy of the current events, newest first.
func (w *EventsWidget) Events() []models.Event {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]models.Event, len(w.events))
	copy(out, w.events)

	return out
}

// Rows renders the current events as table rows with humanized timestamps.
func (w *EventsWidget) Rows() []table.Row {
	w.mu.Lock()
	defer w.mu.Unlock()

	rows := make([]table.Row, 0, len(w.events))
	for _, event := range w.events {
		rows = append(rows, table.Row{
			humanize.Time(event.Timestamp),
			event.Severity.String(),
			event.Message,
		})
	}

	return rows
}
