package interfaces

import (
	"context"
	"fmt"
	"strings"
)

// PublishStatus is the visibility state of a post on the publishing platform.
type PublishStatus string

const (
	PublishStatusPublic   PublishStatus = "public"
	PublishStatusUnlisted PublishStatus = "unlisted"
	PublishStatusDraft    PublishStatus = "draft"
)

// ContentFormatMarkdown is the only content format sent by the publisher.
const ContentFormatMarkdown = "markdown"

// PublishStatuses lists every accepted status in display order.
func PublishStatuses() []PublishStatus {
	return []PublishStatus{PublishStatusPublic, PublishStatusUnlisted, PublishStatusDraft}
}

// IsValid reports whether the status is one of the platform enum values.
func (s PublishStatus) IsValid() bool {
	switch s {
	case PublishStatusPublic, PublishStatusUnlisted, PublishStatusDraft:
		return true
	default:
		return false
	}
}

func (s PublishStatus) String() string { return string(s) }

// ParsePublishStatus matches value case-insensitively against the status enum.
func ParsePublishStatus(value string) (PublishStatus, error) {
	status := PublishStatus(strings.ToLower(strings.TrimSpace(value)))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid publish status %q (want public, unlisted or draft)", value)
	}
	return status, nil
}

// PublishRequest is the outbound payload for a single post. JSON tags follow
// the platform wire format.
type PublishRequest struct {
	Title         string        `json:"title"`
	Subtitle      string        `json:"subtitle,omitempty"`
	Content       string        `json:"content"`
	ContentFormat string        `json:"contentFormat"`
	Tags          []string      `json:"tags"`
	CanonicalURL  string        `json:"canonicalUrl,omitempty"`
	PublishStatus PublishStatus `json:"publishStatus"`
}

// Author identifies the account behind the API token.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	ImageURL string `json:"imageUrl"`
}

// Image is the result of uploading a local image to the platform CDN.
type Image struct {
	URL string `json:"url"`
	MD5 string `json:"md5"`
}

// Post is the platform's view of a created post.
type Post struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	AuthorID      string        `json:"authorId"`
	URL           string        `json:"url"`
	CanonicalURL  string        `json:"canonicalUrl"`
	PublishStatus PublishStatus `json:"publishStatus"`
	Tags          []string      `json:"tags"`
}

// PlatformClient is the transport used to talk to the publishing API.
type PlatformClient interface {
	Me(ctx context.Context) (*Author, error)
	UploadImage(ctx context.Context, path string) (*Image, error)
	CreatePost(ctx context.Context, authorID string, req PublishRequest) (*Post, error)
}
