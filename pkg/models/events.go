package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Severity classifies a cluster event for display.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}

	switch strings.ToLower(name) {
	case "warning", "warn":
		*s = SeverityWarning
	case "error", "err":
		*s = SeverityError
	default:
		*s = SeverityInfo
	}

	return nil
}

// Event is a single cluster event. Display-only; the console never mutates
// events after fetch.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
}
