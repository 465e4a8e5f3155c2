package medium

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-mdpublish/pkg/interfaces"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(server.URL+"/v1/", "secret-token", WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return client
}

func TestNewClientRequiresToken(t *testing.T) {
	if _, err := NewClient("", "  "); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
	if _, err := NewClient("api.example.com", "t"); err == nil {
		t.Fatal("expected relative base url to be rejected")
	}
	client, err := NewClient("", "t")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if client.baseURL.String() != DefaultBaseURL {
		t.Fatalf("expected default base url, got %s", client.baseURL)
	}
}

func TestMeSendsBrowserHeaders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/me" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret-token" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != DefaultUserAgent {
			t.Errorf("unexpected user agent %q", got)
		}
		if r.Header.Get("Upgrade-Insecure-Requests") != "1" {
			t.Errorf("expected Upgrade-Insecure-Requests header")
		}
		_, _ = io.WriteString(w, `{"data":{"id":"author-1","username":"gopher","name":"Go Pher"}}`)
	})

	author, err := client.Me(context.Background())
	if err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	if author.ID != "author-1" || author.Username != "gopher" {
		t.Fatalf("unexpected author %+v", author)
	}
}

func TestCreatePostEncodesPayload(t *testing.T) {
	var received map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/users/author-1/posts" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"data":{"id":"p1","url":"https://medium.com/@gopher/p1","publishStatus":"draft"}}`)
	})

	post, err := client.CreatePost(context.Background(), "author-1", interfaces.PublishRequest{
		Title:         "Hello",
		Content:       "body",
		ContentFormat: interfaces.ContentFormatMarkdown,
		Tags:          []string{"go"},
		PublishStatus: interfaces.PublishStatusDraft,
	})
	if err != nil {
		t.Fatalf("CreatePost returned error: %v", err)
	}
	if post.URL != "https://medium.com/@gopher/p1" {
		t.Fatalf("unexpected post %+v", post)
	}
	if received["contentFormat"] != "markdown" || received["publishStatus"] != "draft" {
		t.Fatalf("unexpected payload %v", received)
	}
	if _, ok := received["subtitle"]; ok {
		t.Fatalf("expected empty subtitle to be omitted, got %v", received)
	}
	if _, ok := received["canonicalUrl"]; ok {
		t.Fatalf("expected empty canonicalUrl to be omitted, got %v", received)
	}
}

func TestCreatePostSurfacesAPIErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"errors":[{"message":"Token was invalid.","code":6003}]}`)
	})

	_, err := client.CreatePost(context.Background(), "a", interfaces.PublishRequest{Title: "t"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Op != "posts" {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if !strings.Contains(err.Error(), "Token was invalid.") {
		t.Fatalf("expected API message in error, got %q", err.Error())
	}
}

func TestNonJSONErrorBodyIsKept(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, "<html>slow down</html>")
	})

	_, err := client.Me(context.Background())
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if !strings.Contains(err.Error(), "slow down") {
		t.Fatalf("expected body in error, got %q", err.Error())
	}
}

func TestUploadImageSendsMultipartForm(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "diagram.png")
	if err := os.WriteFile(path, []byte("\x89PNG fake"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/images" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			return
		}
		defer file.Close()
		if header.Filename != "diagram.png" {
			t.Errorf("unexpected filename %q", header.Filename)
		}
		if ct := header.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("unexpected part content type %q", ct)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "\x89PNG fake" {
			t.Errorf("unexpected file contents %q", data)
		}
		_, _ = io.WriteString(w, `{"data":{"url":"https://cdn-images.example.com/diagram.png","md5":"abc"}}`)
	})

	image, err := client.UploadImage(context.Background(), path)
	if err != nil {
		t.Fatalf("UploadImage returned error: %v", err)
	}
	if image.URL != "https://cdn-images.example.com/diagram.png" {
		t.Fatalf("unexpected image %+v", image)
	}
}

func TestUploadImageMissingFile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	if _, err := client.UploadImage(context.Background(), filepath.Join(t.TempDir(), "missing.png")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestImageContentType(t *testing.T) {
	cases := map[string]string{
		"a.JPG":  "image/jpeg",
		"a.jpeg": "image/jpeg",
		"a.png":  "image/png",
		"a.gif":  "image/gif",
		"a.tiff": "image/tiff",
		"a":      "application/octet-stream",
	}
	for path, want := range cases {
		if got := ImageContentType(path); got != want {
			t.Fatalf("ImageContentType(%q) = %q, want %q", path, got, want)
		}
	}
}
