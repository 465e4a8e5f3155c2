package publish

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-mdpublish/pkg/interfaces"
)

// DumpName returns the file name used when writing req to a dump directory:
// the title slug followed by a short document id, so documents sharing a
// title do not overwrite each other. The full id is used when the title does
// not produce a slug.
func DumpName(req interfaces.PublishRequest, documentID uuid.UUID) string {
	id := documentID.String()
	name, err := slug.Normalize(req.Title)
	if err != nil || strings.Trim(name, "-") == "" {
		return id + ".json"
	}
	return name + "-" + id[:8] + ".json"
}

func writeDump(dir string, req interfaces.PublishRequest, documentID uuid.UUID) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("publish: create dump dir %s: %w", dir, err)
	}
	encoded, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return "", fmt.Errorf("publish: encode dump: %w", err)
	}
	target := filepath.Join(dir, DumpName(req, documentID))
	if err := os.WriteFile(target, append(encoded, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("publish: write dump %s: %w", target, err)
	}
	return target, nil
}
