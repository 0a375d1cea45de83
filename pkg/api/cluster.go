package api

import (
	"context"
	"net/http"

	"github.com/coralstor/console/pkg/models"
)

// ClusterClient fetches cluster-wide status.
type ClusterClient struct {
	client *Client
}

func NewClusterClient(client *Client) *ClusterClient {
	return &ClusterClient{client: client}
}

// Status fetches the current cluster status payload.
func (c *ClusterClient) Status(ctx context.Context) (*models.ClusterStatus, error) {
	var status models.ClusterStatus

	if err := c.client.do(ctx, http.MethodGet, "api/cluster/status", nil, &status); err != nil {
		return nil, err
	}

	return &status, nil
}
