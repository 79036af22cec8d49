package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

func PageUUID(slug string) uuid.UUID {
	return UUID("widgy:page:" + strings.ToLower(strings.TrimSpace(slug)))
}

func TrackerUUID(pageSlug string) uuid.UUID {
	return UUID("widgy:tracker:" + strings.ToLower(strings.TrimSpace(pageSlug)))
}

// NodeUUID identifies a node by tree and a caller chosen key within it.
func NodeUUID(tree, key string) uuid.UUID {
	return UUID("widgy:node:" + strings.TrimSpace(tree) + ":" + strings.TrimSpace(key))
}

func CommitUUID(trackerID uuid.UUID, label string) uuid.UUID {
	return UUID("widgy:commit:" + trackerID.String() + ":" + strings.TrimSpace(label))
}
