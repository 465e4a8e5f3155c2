package frontmatter

import (
	"errors"
	"fmt"
)

// ErrParse is the sentinel matched by every ParseError.
var ErrParse = errors.New("front matter parse error")

// ParseError reports a malformed metadata block. It is scoped to a single
// document and never aborts a batch.
type ParseError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}

func parseError(path, reason string, err error) *ParseError {
	return &ParseError{Path: path, Reason: reason, Err: err}
}
