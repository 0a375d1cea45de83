package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coralstor/console/pkg/models"
)

func TestClusterStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/cluster/status", r.URL.Path)

		_ = json.NewEncoder(w).Encode(models.ClusterStatus{
			Health:  models.ServiceStatus{Code: models.StatusWarning, Message: "1 osd down"},
			FSID:    "b7f1c2aa",
			Details: json.RawMessage(`{"osds":{"up":11,"in":12}}`),
		})
	}))

	status, err := NewClusterClient(client).Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.StatusWarning, status.Health.Code)
	assert.Equal(t, "b7f1c2aa", status.FSID)
	assert.JSONEq(t, `{"osds":{"up":11,"in":12}}`, string(status.Details))
}

func TestClusterStatusPropagatesError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))

	_, err := NewClusterClient(client).Status(context.Background())
	require.Error(t, err)
}
