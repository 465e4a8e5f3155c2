package publishcmd

import (
	"context"
	"errors"
	"os"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-mdpublish/internal/publish"
)

type stubPublisher struct {
	batchPaths []string
	listPath   string
	result     publish.BatchResult
	listErr    error
}

func (s *stubPublisher) PublishBatch(_ context.Context, paths []string) publish.BatchResult {
	s.batchPaths = append(s.batchPaths, paths...)
	return s.result
}

func (s *stubPublisher) PublishList(_ context.Context, listPath string) (publish.BatchResult, error) {
	s.listPath = listPath
	if s.listErr != nil {
		return publish.BatchResult{}, s.listErr
	}
	return s.result, nil
}

func TestPublishFileHandlerReportsResult(t *testing.T) {
	stub := &stubPublisher{result: publish.BatchResult{RunID: "run-1", Files: []publish.FileResult{{Path: "a.md"}}}}
	handler := NewPublishFileHandler(stub, nil)

	var reported publish.BatchResult
	err := handler.Execute(context.Background(), PublishFileCommand{Path: "a.md", Report: func(r publish.BatchResult) { reported = r }})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(stub.batchPaths) != 1 || stub.batchPaths[0] != "a.md" {
		t.Fatalf("unexpected batch paths %v", stub.batchPaths)
	}
	if reported.RunID != "run-1" {
		t.Fatalf("expected report callback to receive result, got %+v", reported)
	}
}

func TestPublishFileHandlerValidatesPath(t *testing.T) {
	stub := &stubPublisher{}
	err := NewPublishFileHandler(stub, nil).Execute(context.Background(), PublishFileCommand{Path: "  "})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if len(stub.batchPaths) != 0 {
		t.Fatal("expected publisher not to be called")
	}
}

func TestPublishFileHandlerFailedFiles(t *testing.T) {
	stub := &stubPublisher{result: publish.BatchResult{Files: []publish.FileResult{
		{Path: "a.md"},
		{Path: "b.md", Err: errors.New("boom")},
	}}}

	err := NewPublishFileHandler(stub, nil).Execute(context.Background(), PublishFileCommand{Path: "b.md"})
	if !errors.Is(err, ErrFilesFailed) {
		t.Fatalf("expected ErrFilesFailed, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestPublishListHandler(t *testing.T) {
	stub := &stubPublisher{result: publish.BatchResult{Files: []publish.FileResult{{Path: "a.md"}}}}
	calls := 0
	err := NewPublishListHandler(stub, nil).Execute(context.Background(), PublishListCommand{
		ListPath: "list.txt",
		Report:   func(publish.BatchResult) { calls++ },
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if stub.listPath != "list.txt" || calls != 1 {
		t.Fatalf("unexpected list handling: path=%q calls=%d", stub.listPath, calls)
	}
}

func TestPublishListHandlerUnreadableListIsValidationError(t *testing.T) {
	stub := &stubPublisher{listErr: os.ErrNotExist}
	err := NewPublishListHandler(stub, nil).Execute(context.Background(), PublishListCommand{ListPath: "missing.txt"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected underlying error to be preserved, got %v", err)
	}
}

func TestMessagesExposeTypes(t *testing.T) {
	if (PublishFileCommand{}).Type() != "mdpublish.publish.file" {
		t.Fatal("unexpected file command type")
	}
	if (PublishListCommand{}).Type() != "mdpublish.publish.list" {
		t.Fatal("unexpected list command type")
	}
	if err := (PublishListCommand{}).Validate(); err == nil {
		t.Fatal("expected empty list path to fail validation")
	}
}
