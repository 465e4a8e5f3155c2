// Package medium is the HTTP transport for the Medium publishing API.
package medium

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-mdpublish/internal/logging"
	"github.com/goliatone/go-mdpublish/pkg/interfaces"
)

const (
	// DefaultBaseURL is the versioned API root.
	DefaultBaseURL = "https://api.medium.com/v1"
	// DefaultTimeout bounds every request issued by the client.
	DefaultTimeout = 60 * time.Second

	maxResponseBody = 4 << 20
)

var _ interfaces.PlatformClient = (*Client)(nil)

// Client talks to the publishing API with a bearer token.
type Client struct {
	baseURL   *url.URL
	token     string
	userAgent string
	http      *http.Client
	logger    interfaces.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(userAgent); trimmed != "" {
			c.userAgent = trimmed
		}
	}
}

// WithLogger injects the logger used for request diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a client for baseURL. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL, token string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("medium: parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("medium: base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:   parsed,
		token:     strings.TrimSpace(token),
		userAgent: DefaultUserAgent,
		http:      &http.Client{Timeout: DefaultTimeout},
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"errors"`
}

// Me returns the account that owns the token.
func (c *Client) Me(ctx context.Context) (*interfaces.Author, error) {
	req, err := c.newRequest(ctx, http.MethodGet, nil, "", "me")
	if err != nil {
		return nil, err
	}
	var author interfaces.Author
	if err := c.do(req, "me", &author); err != nil {
		return nil, err
	}
	if author.ID == "" {
		return nil, fmt.Errorf("medium me: response did not include an author id")
	}
	return &author, nil
}

// UploadImage posts the file at path to the image endpoint and returns its
// hosted URL.
func (c *Client) UploadImage(ctx context.Context, path string) (*interfaces.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("medium images: open %s: %w", path, err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filepath.Base(path)))
	header.Set("Content-Type", ImageContentType(path))
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("medium images: create part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("medium images: read %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("medium images: close form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, &body, writer.FormDataContentType(), "images")
	if err != nil {
		return nil, err
	}
	var image interfaces.Image
	if err := c.do(req, "images", &image); err != nil {
		return nil, err
	}
	if image.URL == "" {
		return nil, fmt.Errorf("medium images: response did not include a url")
	}
	return &image, nil
}

// CreatePost publishes payload under authorID.
func (c *Client) CreatePost(ctx context.Context, authorID string, payload interfaces.PublishRequest) (*interfaces.Post, error) {
	if strings.TrimSpace(authorID) == "" {
		return nil, fmt.Errorf("medium posts: author id is required")
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("medium posts: encode payload: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, bytes.NewReader(encoded), "application/json", "users", url.PathEscape(authorID), "posts")
	if err != nil {
		return nil, err
	}
	var post interfaces.Post
	if err := c.do(req, "posts", &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// ImageContentType derives the upload content type from the file extension.
func ImageContentType(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "":
		return "application/octet-stream"
	}
	if byExt := mime.TypeByExtension("." + ext); strings.HasPrefix(byExt, "image/") {
		return byExt
	}
	return "image/" + ext
}

func (c *Client) newRequest(ctx context.Context, method string, body io.Reader, contentType string, elem ...string) (*http.Request, error) {
	endpoint := c.baseURL.JoinPath(elem...)
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, fmt.Errorf("medium: build request: %w", err)
	}
	applyHeaders(req.Header, c.token, c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, op string, out any) error {
	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("medium %s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	c.logger.Debug("medium.request",
		"op", op,
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("medium %s: read response: %w", op, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Op: op, StatusCode: resp.StatusCode}
		for _, e := range env.Errors {
			if msg := strings.TrimSpace(e.Message); msg != "" {
				apiErr.Messages = append(apiErr.Messages, msg)
			}
		}
		if len(apiErr.Messages) == 0 {
			apiErr.Body = truncate(strings.TrimSpace(string(raw)), maxErrorBody)
		}
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("medium %s: decode response: %w", op, decodeErr)
	}
	if out == nil || len(env.Data) == 0 {
		return errors.New("medium " + op + ": response did not include data")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("medium %s: decode data: %w", op, err)
	}
	return nil
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return value[:limit] + "..."
}
