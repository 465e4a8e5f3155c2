package publishcmd

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	"github.com/goliatone/go-mdpublish/internal/publish"
)

// flakyPublisher fails every document until failures runs out.
type flakyPublisher struct {
	failures int
	calls    int
}

func (p *flakyPublisher) PublishBatch(_ context.Context, paths []string) publish.BatchResult {
	p.calls++
	result := publish.BatchResult{RunID: "dispatch"}
	for _, path := range paths {
		file := publish.FileResult{Path: path}
		if p.calls <= p.failures {
			file.Err = errors.New("medium posts: 503 service unavailable")
		}
		result.Files = append(result.Files, file)
	}
	return result
}

func (p *flakyPublisher) PublishList(ctx context.Context, _ string) (publish.BatchResult, error) {
	return p.PublishBatch(ctx, []string{"listed.md"}), nil
}

func TestDispatchedPublishFileRetriesFailedRun(t *testing.T) {
	publisher := &flakyPublisher{failures: 1}
	sub := dispatcher.SubscribeCommand(NewPublishFileHandler(publisher, nil), runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	var reported publish.BatchResult
	err := dispatcher.Dispatch(context.Background(), PublishFileCommand{
		Path:   "posts/a.md",
		Report: func(r publish.BatchResult) { reported = r },
	})
	if err != nil {
		t.Fatalf("dispatch: expected success after retry, got %v", err)
	}
	if publisher.calls != 2 {
		t.Fatalf("expected 2 publish runs, got %d", publisher.calls)
	}
	if !reported.OK() || len(reported.Files) != 1 || reported.Files[0].Path != "posts/a.md" {
		t.Fatalf("expected the successful run to be reported, got %+v", reported)
	}
}

func TestDispatchedPublishListSurfacesFailedFiles(t *testing.T) {
	publisher := &flakyPublisher{failures: 10}
	sub := dispatcher.SubscribeCommand(NewPublishListHandler(publisher, nil), runner.WithMaxRetries(2))
	t.Cleanup(sub.Unsubscribe)

	err := dispatcher.Dispatch(context.Background(), PublishListCommand{ListPath: "list.txt"})
	if err == nil {
		t.Fatal("expected dispatch to fail once retries are exhausted")
	}
	if publisher.calls != 3 {
		t.Fatalf("expected 3 publish runs (initial + 2 retries), got %d", publisher.calls)
	}
}
