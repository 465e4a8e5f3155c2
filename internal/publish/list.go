package publish

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-mdpublish/internal/logging"
	"github.com/goliatone/go-mdpublish/pkg/interfaces"
)

// SkippedEntry is a list-file line that did not name a usable file.
type SkippedEntry struct {
	Line   int
	Value  string
	Reason string
}

// ReadList returns the document paths named in a list file, one per line.
// Blank lines and lines that do not resolve to an existing regular file are
// skipped and reported; they never fail the run.
func ReadList(path string, logger interfaces.Logger) ([]string, []SkippedEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("publish: read list %s: %w", path, err)
	}
	if logger == nil {
		logger = logging.NoOp()
	}

	var (
		paths   []string
		skipped []SkippedEntry
	)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		value := strings.TrimSpace(scanner.Text())
		if value == "" || strings.HasPrefix(value, "#") {
			continue
		}
		info, statErr := os.Stat(value)
		reason := ""
		switch {
		case statErr != nil:
			reason = "file does not exist"
		case info.IsDir():
			reason = "path is a directory"
		}
		if reason != "" {
			skipped = append(skipped, SkippedEntry{Line: lineNo, Value: value, Reason: reason})
			logger.Warn("publish.list.entry_skipped", "list", path, "line", lineNo, "entry", value, "reason", reason)
			continue
		}
		paths = append(paths, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("publish: scan list %s: %w", path, err)
	}
	return paths, skipped, nil
}
