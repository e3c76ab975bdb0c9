// Package domain defines the audit event envelope persisted to the
// append-only audit log.
package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/globalbusinessadvisors/llm-config-manager/internal/errors"
)

// EventType discriminates the kind of audit event, serialized as the JSON
// "type" field using snake_case variant names.
type EventType string

// Recognized event types.
const (
	ConfigCreated    EventType = "config_created"
	ConfigUpdated    EventType = "config_updated"
	ConfigDeleted    EventType = "config_deleted"
	ConfigAccessed   EventType = "config_accessed"
	ConfigRolledBack EventType = "config_rolled_back"
	SecretModified   EventType = "secret_modified"
	SecretAccessed   EventType = "secret_accessed"
	AuthAttempt      EventType = "auth_attempt"
	AuthzCheck       EventType = "authz_check"
	SystemEvent      EventType = "system_event"
	SecurityEvent    EventType = "security_event"
)

// Event is one line of the audit log: a discriminated envelope covering all
// eleven event variants via optional fields, plus the HMAC signature appended
// at write time.
type Event struct {
	ID          uuid.UUID          `json:"id"`
	Type        EventType          `json:"type"`
	Timestamp   time.Time          `json:"timestamp"`
	Severity    apperrors.Severity `json:"severity,omitempty"`
	Namespace   string             `json:"namespace,omitempty"`
	Key         string             `json:"key,omitempty"`
	Environment string             `json:"environment,omitempty"`
	User        string             `json:"user,omitempty"`
	OldVersion  int                `json:"old_version,omitempty"`
	NewVersion  int                `json:"new_version,omitempty"`
	FromVersion int                `json:"from_version,omitempty"`
	ToVersion   int                `json:"to_version,omitempty"`
	Message     string             `json:"message,omitempty"`
	Metadata    map[string]string  `json:"metadata,omitempty"`
	HMAC        string             `json:"hmac,omitempty"`
}

// New builds an Event with a fresh id and the current UTC timestamp.
func New(eventType EventType) *Event {
	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
}
