// Package frontmatter splits a Markdown document into its metadata block and
// body. Only a closed set of keys is interpreted; everything else is kept in
// an unrecognised bucket.
package frontmatter

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	adrg "github.com/adrg/frontmatter"
	toml "github.com/pelletier/go-toml/v2"
)

// FrontMatter holds the recognised metadata of a document. The zero value is
// the empty front matter returned for documents without a block.
type FrontMatter struct {
	Title        string
	Subtitle     string
	Tags         []string
	Status       string
	CanonicalURL string
	// Unrecognized keeps every other key, unchanged and unused.
	Unrecognized map[string]any

	present map[Key]bool
}

// Has reports whether key was set in the block.
func (fm FrontMatter) Has(key Key) bool {
	return fm.present[key]
}

// IsEmpty reports whether the block carried no keys at all.
func (fm FrontMatter) IsEmpty() bool {
	return len(fm.present) == 0 && len(fm.Unrecognized) == 0
}

// Result is the outcome of splitting a document.
type Result struct {
	FrontMatter FrontMatter
	Body        string
}

var formats = []*adrg.Format{
	adrg.NewFormat(yamlFence, yamlFence, unmarshalYAML),
	adrg.NewFormat(tomlFence, tomlFence, toml.Unmarshal),
}

// Parse extracts the metadata block at the start of source. A document
// without a block yields an empty FrontMatter and the source as Body. An
// opening fence without a matching closing fence is a *ParseError.
func Parse(path string, source []byte) (Result, error) {
	b, found, err := scanBlock(source)
	if err != nil {
		return Result{}, parseError(path, err.Error(), nil)
	}
	if !found {
		return Result{Body: string(source)}, nil
	}

	fm := FrontMatter{}
	if len(bytes.TrimSpace(b.content)) > 0 {
		raw, err := decode(b)
		if err != nil {
			return Result{}, parseError(path, "decode metadata block", err)
		}
		fm, err = fromRaw(raw)
		if err != nil {
			return Result{}, parseError(path, err.Error(), nil)
		}
	}
	return Result{FrontMatter: fm, Body: string(source[b.bodyStart:])}, nil
}

func decode(b block) (map[string]any, error) {
	content := bytes.ReplaceAll(b.content, []byte("\r\n"), []byte("\n"))

	var buf bytes.Buffer
	buf.WriteString(b.fence)
	buf.WriteByte('\n')
	buf.Write(content)
	if !bytes.HasSuffix(content, []byte("\n")) {
		buf.WriteByte('\n')
	}
	buf.WriteString(b.fence)
	buf.WriteByte('\n')

	raw := map[string]any{}
	if _, err := adrg.Parse(&buf, &raw, formats...); err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return raw, nil
}

func fromRaw(raw map[string]any) (FrontMatter, error) {
	fm := FrontMatter{present: map[Key]bool{}}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := raw[name]
		key, ok := LookupKey(name)
		if !ok {
			if fm.Unrecognized == nil {
				fm.Unrecognized = map[string]any{}
			}
			fm.Unrecognized[name] = value
			continue
		}
		if fm.present[key] {
			continue
		}
		if err := fm.assign(key, value); err != nil {
			return FrontMatter{}, err
		}
	}
	return fm, nil
}

func (fm *FrontMatter) assign(key Key, value any) error {
	if key == KeyTags {
		tags, err := tagList(value)
		if err != nil {
			return err
		}
		fm.Tags = tags
		fm.present[key] = true
		return nil
	}

	text, ok := scalar(value)
	if !ok {
		return fmt.Errorf("%s must be a scalar value", key)
	}
	switch key {
	case KeyTitle:
		fm.Title = text
	case KeySubtitle:
		fm.Subtitle = text
	case KeyStatus:
		fm.Status = text
	case KeyCanonicalURL:
		fm.CanonicalURL = text
	}
	fm.present[key] = true
	return nil
}

// tagList accepts a single scalar or a sequence of scalars.
func tagList(value any) ([]string, error) {
	var items []any
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []any:
		items = v
	case []string:
		for _, s := range v {
			items = append(items, s)
		}
	default:
		items = []any{v}
	}

	tags := make([]string, 0, len(items))
	for _, item := range items {
		text, ok := scalar(item)
		if !ok {
			return nil, fmt.Errorf("%s entries must be scalar values", KeyTags)
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags, nil
}

func scalar(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	case time.Time:
		return v.Format(time.RFC3339), true
	case fmt.Stringer:
		return v.String(), true
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}
