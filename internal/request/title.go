package request

import (
	"path/filepath"
	"strings"

	"github.com/goliatone/go-mdpublish/internal/markdown"
)

// TitleSource extracts a candidate title. It reports false when it has
// nothing to offer so the next source can be tried.
type TitleSource func(in Input) (string, bool)

// FirstOf tries sources in order and returns the first title found.
func FirstOf(sources ...TitleSource) TitleSource {
	return func(in Input) (string, bool) {
		for _, source := range sources {
			if source == nil {
				continue
			}
			if title, ok := source(in); ok {
				return title, true
			}
		}
		return "", false
	}
}

// FrontMatterTitle uses the front matter title exactly as written.
func FrontMatterTitle(in Input) (string, bool) {
	if strings.TrimSpace(in.FrontMatter.Title) == "" {
		return "", false
	}
	return in.FrontMatter.Title, true
}

// HeadingTitle uses the first level-1 heading of the body.
func HeadingTitle(inspector *markdown.Inspector) TitleSource {
	return func(in Input) (string, bool) {
		if inspector == nil {
			return "", false
		}
		title := inspector.FirstHeading(in.Body)
		return title, title != ""
	}
}

// FilenameTitle uses the file name without its extension.
func FilenameTitle(in Input) (string, bool) {
	base := filepath.Base(strings.TrimSpace(in.Path))
	if base == "." || base == string(filepath.Separator) {
		return "", false
	}
	stem := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	return stem, stem != ""
}

// DefaultTitleChain is front matter, then first heading, then file name.
func DefaultTitleChain(inspector *markdown.Inspector) TitleSource {
	return FirstOf(FrontMatterTitle, HeadingTitle(inspector), FilenameTitle)
}
