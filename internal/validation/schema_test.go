package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-mdpublish/pkg/interfaces"
)

func validRequest() interfaces.PublishRequest {
	return interfaces.PublishRequest{
		Title:         "Hello",
		Content:       "# Hello\n",
		ContentFormat: interfaces.ContentFormatMarkdown,
		Tags:          []string{"go"},
		PublishStatus: interfaces.PublishStatusDraft,
	}
}

func TestPayloadValidatorAcceptsValidRequest(t *testing.T) {
	v, err := NewPayloadValidator(5)
	if err != nil {
		t.Fatalf("NewPayloadValidator returned error: %v", err)
	}
	req := validRequest()
	req.CanonicalURL = "https://example.com/hello"
	req.Subtitle = "sub"
	if err := v.Validate(req); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
}

func TestPayloadValidatorReportsIssues(t *testing.T) {
	v, err := NewPayloadValidator(2)
	if err != nil {
		t.Fatalf("NewPayloadValidator returned error: %v", err)
	}

	cases := map[string]func(*interfaces.PublishRequest){
		"blank title":    func(r *interfaces.PublishRequest) { r.Title = "   " },
		"too many tags":  func(r *interfaces.PublishRequest) { r.Tags = []string{"a", "b", "c"} },
		"nil tags":       func(r *interfaces.PublishRequest) { r.Tags = nil },
		"bad status":     func(r *interfaces.PublishRequest) { r.PublishStatus = "scheduled" },
		"bad format":     func(r *interfaces.PublishRequest) { r.ContentFormat = "html" },
		"duplicate tags": func(r *interfaces.PublishRequest) { r.Tags = []string{"a", "a"} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validRequest()
			mutate(&req)
			err := v.Validate(req)
			if !errors.Is(err, ErrSchemaValidation) {
				t.Fatalf("expected ErrSchemaValidation, got %v", err)
			}
			if len(Issues(err)) == 0 {
				t.Fatalf("expected issues, got none for %v", err)
			}
		})
	}
}

func TestPayloadValidationErrorMessage(t *testing.T) {
	err := &PayloadValidationError{Issues: []ValidationIssue{
		{Location: "/tags", Message: "maxItems"},
		{Location: "", Message: "missing"},
	}}
	got := err.Error()
	if !strings.Contains(got, "#/tags: maxItems") || !strings.Contains(got, "#: missing") {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestIssuesWrapsPlainErrors(t *testing.T) {
	issues := Issues(errors.New("boom"))
	if len(issues) != 1 || issues[0].Message != "boom" {
		t.Fatalf("unexpected issues %+v", issues)
	}
	if Issues(nil) != nil {
		t.Fatal("expected nil issues for nil error")
	}
}
