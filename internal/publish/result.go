package publish

import (
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-mdpublish/pkg/interfaces"
)

// ImageUpload records one local image referenced by a document.
type ImageUpload struct {
	ID          uuid.UUID
	Destination string
	Path        string
	URL         string
	Err         error
}

// FileResult is the outcome for one document. Err is nil on success and
// otherwise carries the file-scoped failure.
type FileResult struct {
	Path          string
	DocumentID    uuid.UUID
	Request       *interfaces.PublishRequest
	Post          *interfaces.Post
	Images        []ImageUpload
	DumpPath      string
	StatusIgnored bool
	DryRun        bool
	Err           error
}

// OK reports whether the document was processed without error.
func (r FileResult) OK() bool {
	return r.Err == nil
}

// BatchResult aggregates the results of a run in input order.
type BatchResult struct {
	RunID    string
	Files    []FileResult
	Skipped  []SkippedEntry
	Duration time.Duration
}

// Succeeded counts the files that were processed without error.
func (b BatchResult) Succeeded() int {
	count := 0
	for _, file := range b.Files {
		if file.OK() {
			count++
		}
	}
	return count
}

// Failures returns the failed files in input order.
func (b BatchResult) Failures() []FileResult {
	var failed []FileResult
	for _, file := range b.Files {
		if !file.OK() {
			failed = append(failed, file)
		}
	}
	return failed
}

// OK reports whether every file succeeded.
func (b BatchResult) OK() bool {
	return len(b.Failures()) == 0
}
