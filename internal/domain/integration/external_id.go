package integration

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// ExternalIDs maps an integration channel to the id the remote system assigned to
// the record we exported there. A channel without an entry was never exported.
type ExternalIDs map[uuid.UUID]string

// Lookup returns the external id recorded for a channel.
// Empty ids count as absent.
func (m ExternalIDs) Lookup(channelID uuid.UUID) (string, bool) {
	id, ok := m[channelID]
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Set records an external id for a channel
func (m ExternalIDs) Set(channelID uuid.UUID, externalID string) {
	m[channelID] = externalID
}

// ParseExternalIDs decodes a stored channel-id → external-id object.
// Malformed entries (non-UUID keys, non-string or empty values) are dropped
// so that they read as "never exported".
func ParseExternalIDs(raw []byte) ExternalIDs {
	ids := make(ExternalIDs)
	if len(raw) == 0 {
		return ids
	}

	var entries map[string]any
	if err := json.Unmarshal(raw, &entries); err != nil {
		return ids
	}

	for key, value := range entries {
		channelID, err := uuid.Parse(key)
		if err != nil {
			continue
		}
		externalID, ok := value.(string)
		if !ok || externalID == "" {
			continue
		}
		ids[channelID] = externalID
	}
	return ids
}

// ExternalIDReader reads external ids recorded by the export writer
type ExternalIDReader interface {
	// FindExternalID returns the external price id of a product on a channel.
	// The bool is false when nothing was recorded.
	FindExternalID(ctx context.Context, productID, channelID uuid.UUID) (string, bool, error)
}

// ExternalIDWriter records external ids after a successful remote create
type ExternalIDWriter interface {
	SaveExternalID(ctx context.Context, productID, channelID uuid.UUID, externalID string) error
}
