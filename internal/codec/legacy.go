package codec

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/tgienger/planboard/internal/models"
)

// Collection keys used by the older layout that stored each collection
// under its own durable key.
const (
	KeyTasks                = "tasks"
	KeyEvents               = "events"
	KeyMilestones           = "milestones"
	KeyTimeEntries          = "timeEntries"
	KeyBugs                 = "bugs"
	KeyGoals                = "goals"
	KeyIdeas                = "ideas"
	KeyCollaborationInvites = "collaborationInvites"
)

// CollectionKeys lists the legacy keys in snapshot field order
var CollectionKeys = []string{
	KeyTasks,
	KeyEvents,
	KeyMilestones,
	KeyTimeEntries,
	KeyBugs,
	KeyGoals,
	KeyIdeas,
	KeyCollaborationInvites,
}

func isCollectionKey(key string) bool {
	for _, k := range CollectionKeys {
		if k == key {
			return true
		}
	}
	return false
}

// DecodeCollections assembles a snapshot from per-collection values keyed
// by collection name. Missing collections come back empty.
func DecodeCollections(values map[string]string) (models.Snapshot, error) {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	doc := make(map[string]json.RawMessage, len(values))
	for _, key := range keys {
		if !isCollectionKey(key) {
			return models.Snapshot{}, &DecodeError{Source: key, Err: fmt.Errorf("unknown collection")}
		}
		raw := json.RawMessage(values[key])
		if !json.Valid(raw) {
			return models.Snapshot{}, &DecodeError{Source: key, Err: fmt.Errorf("invalid JSON")}
		}
		doc[key] = raw
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return models.Snapshot{}, &DecodeError{Source: "legacy collections", Err: err}
	}
	return decodeNamed("legacy collections", data)
}
