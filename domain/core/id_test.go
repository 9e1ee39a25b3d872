package core

import (
	"testing"

	"github.com/google/uuid"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id == "" {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestNewRunIDIsUUID tests that run IDs are valid UUIDs
func TestNewRunIDIsUUID(t *testing.T) {
	runID := NewRunID()
	if _, err := uuid.Parse(runID.String()); err != nil {
		t.Errorf("Expected run ID to be a UUID, got %q: %v", runID, err)
	}
}
