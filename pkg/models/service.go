package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StatusCode is the closed set of health codes reported by the backend for a
// storage service and for the cluster as a whole.
type StatusCode int

const (
	StatusOK StatusCode = iota
	StatusWarning
	StatusError
	StatusUnknown
)

func (c StatusCode) String() string {
	switch c {
	case StatusOK:
		return "ok"
	case StatusWarning:
		return "warning"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON emits the lowercase wire name used by the REST API.
func (c StatusCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts either the wire name or the legacy numeric code.
func (c *StatusCode) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		switch strings.ToLower(name) {
		case "ok":
			*c = StatusOK
		case "warning", "warn":
			*c = StatusWarning
		case "error":
			*c = StatusError
		default:
			*c = StatusUnknown
		}

		return nil
	}

	var code int
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("invalid status code %s: %w", string(data), err)
	}

	if code < int(StatusOK) || code > int(StatusUnknown) {
		*c = StatusUnknown
		return nil
	}

	*c = StatusCode(code)

	return nil
}

// ServiceStatus pairs a health code with its operator-facing message.
type ServiceStatus struct {
	Code    StatusCode `json:"code"`
	Message string     `json:"message,omitempty"`
}

// ServiceInfo describes one provisioned storage service.
type ServiceInfo struct {
	Name         string        `json:"name"`
	Type         string        `json:"type"`
	Backend      string        `json:"backend,omitempty"`
	Size         uint64        `json:"size"`
	ReplicaCount int           `json:"replica_count"`
	Status       ServiceStatus `json:"status"`
}

// ServiceSpec is the request body for creating a service.
type ServiceSpec struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Backend      string `json:"backend,omitempty"`
	Size         uint64 `json:"size"`
	ReplicaCount int    `json:"replica_count,omitempty"`
}

// Services is the envelope returned by the service list endpoint.
type Services struct {
	Allocated uint64        `json:"allocated"`
	Services  []ServiceInfo `json:"services"`
	Status    ServiceStatus `json:"status"`
}
