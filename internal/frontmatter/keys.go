package frontmatter

import "strings"

// Key is one of the recognised front matter keys.
type Key string

const (
	KeyTitle        Key = "title"
	KeySubtitle     Key = "subtitle"
	KeyTags         Key = "tags"
	KeyStatus       Key = "status"
	KeyCanonicalURL Key = "canonical_url"
)

var recognised = []Key{KeyTitle, KeySubtitle, KeyTags, KeyStatus, KeyCanonicalURL}

// Keys returns the recognised keys in declaration order.
func Keys() []Key {
	out := make([]Key, len(recognised))
	copy(out, recognised)
	return out
}

// LookupKey matches name case-insensitively against the recognised keys.
func LookupKey(name string) (Key, bool) {
	normalized := Key(strings.ToLower(strings.TrimSpace(name)))
	for _, key := range recognised {
		if key == normalized {
			return key, true
		}
	}
	return "", false
}
