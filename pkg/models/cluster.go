package models

import "encoding/json"

// ClusterStatus is the payload of the cluster status endpoint. The console
// renders the summary fields and passes the rest through untouched.
type ClusterStatus struct {
	Health  ServiceStatus   `json:"health"`
	FSID    string          `json:"fsid,omitempty"`
	Details json.RawMessage `json:"details,omitempty"`
}
