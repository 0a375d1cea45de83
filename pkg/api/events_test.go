package api

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coralstor/console/pkg/models"
)

func TestEventsList(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/events/", r.URL.Path)
		require.Equal(t, "25", r.URL.Query().Get("limit"))

		_ = json.NewEncoder(w).Encode([]models.Event{
			{Timestamp: now, Severity: models.SeverityError, Message: "osd.3 down"},
			{Timestamp: now.Add(-time.Minute), Severity: models.SeverityInfo, Message: "rebalance complete"},
		})
	}))

	events, err := NewEventsClient(client).List(context.Background(), 25)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.SeverityError, events[0].Severity)
	assert.True(t, events[0].Timestamp.Equal(now))
}

func TestEventsListOmitsZeroLimit(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.False(t, r.URL.Query().Has("limit"))
		_ = json.NewEncoder(w).Encode([]models.Event{})
	}))

	events, err := NewEventsClient(client).List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventsTail(t *testing.T) {
	upgrader := websocket.Upgrader{}

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/events/ws", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("X-API-Key"))

		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer func() { _ = conn.Close() }()

		for i := 0; i < 3; i++ {
			err := conn.WriteJSON(models.Event{
				Timestamp: time.Now(),
				Severity:  models.SeverityInfo,
				Message:   "tick",
			})
			require.NoError(t, err)
		}
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := NewEventsClient(client).Tail(ctx)
	require.NoError(t, err)

	var got []models.Event
	for event := range stream {
		got = append(got, event)
	}

	assert.Len(t, got, 3)
}

func TestEventsTailReleasesGoroutinesOnStreamEnd(t *testing.T) {
	upgrader := websocket.Upgrader{}

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)

		_ = conn.WriteJSON(models.Event{Severity: models.SeverityInfo, Message: "tick"})
		_ = conn.Close()
	}))

	// The context stays live: cleanup must not depend on its cancellation.
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	before := runtime.NumGoroutine()

	stream, err := NewEventsClient(client).Tail(ctx)
	require.NoError(t, err)

	for range stream {
	}

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, 2*time.Second, 10*time.Millisecond, "tail goroutines should exit when the stream drops")
}

func TestEventsTailDialFailure(t *testing.T) {
	client, err := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = NewEventsClient(client).Tail(context.Background())
	require.Error(t, err)
}
