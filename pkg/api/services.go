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
	"net/http"
	"net/url"

	"github.com/coralstor/console/pkg/models"
)

// ServicesClient maps the service endpoints one method per REST verb.
// No retries, no caching.
type ServicesClient struct {
	client *Client
}

// NewServicesClient wraps the shared client.
func NewServicesClient(client *Client) *ServicesClient {
	return &ServicesClient{client: client}
}

// Create provisions a new service. The backend answers with a bare boolean.
func (s *ServicesClient) Create(ctx context.Context, spec *models.ServiceSpec) (bool, error) {
	var created bool

	if err := s.client.do(ctx, http.MethodPost, "api/services/create", spec, &created); err != nil {
		return false, err
	}

	return created, nil
}

// List fetches all services together with the allocation summary.
func (s *ServicesClient) List(ctx context.Context) (*models.Services, error) {
	var services models.Services

	if err := s.client.do(ctx, http.MethodGet, "api/services/", nil, &services); err != nil {
		return nil, err
	}

	return &services, nil
}

// Get fetches a single service by name.
func (s *ServicesClient) Get(ctx context.Context, name string) (*models.ServiceInfo, error) {
	var info models.ServiceInfo

	if err := s.client.do(ctx, http.MethodGet, "api/services/"+url.PathEscape(name), nil, &info); err != nil {
		return nil, err
	}

	return &info, nil
}

// Delete removes a service. The backend answers with an empty body.
func (s *ServicesClient) Delete(ctx context.Context, name string) error {
	return s.client.do(ctx, http.MethodDelete, "api/services/"+url.PathEscape(name), nil, nil)
}

// Exists downgrades any Get failure to false rather than propagating it.
func (s *ServicesClient) Exists(ctx context.Context, name string) bool {
	_, err := s.Get(ctx, name)
	return err == nil
}
