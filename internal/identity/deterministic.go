package identity

import (
	"path/filepath"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Keys should carry a type prefix so identifiers for different kinds of
// things never collide.
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

// DocumentUUID identifies a source document by its cleaned path, so the
// same file yields the same id across runs.
func DocumentUUID(path string) uuid.UUID {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return uuid.Nil
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		trimmed = abs
	}
	return UUID("mdpublish:document:" + filepath.ToSlash(filepath.Clean(trimmed)))
}

func ImageUUID(documentID uuid.UUID, destination string) uuid.UUID {
	return UUID("mdpublish:image:" + documentID.String() + ":" + strings.TrimSpace(destination))
}
