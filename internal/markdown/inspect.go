package markdown

import (
	"bytes"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Inspector reads structural facts out of a Markdown body without rendering
// it. The zero value is not usable; use NewInspector.
type Inspector struct {
	engine goldmark.Markdown
}

// NewInspector builds an inspector using the GFM dialect the platform accepts.
func NewInspector() *Inspector {
	return &Inspector{
		engine: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// ImageRef is an image referenced from the body.
type ImageRef struct {
	Destination string
	Alt         string
}

// Local reports whether the destination points at a file on disk rather
// than a remote or inline resource.
func (r ImageRef) Local() bool {
	dest := strings.TrimSpace(r.Destination)
	if dest == "" || strings.HasPrefix(dest, "//") || strings.HasPrefix(dest, "#") {
		return false
	}
	if filepath.IsAbs(dest) {
		return true
	}
	parsed, err := url.Parse(dest)
	if err != nil {
		return true
	}
	return parsed.Scheme == ""
}

func (i *Inspector) parse(source []byte) ast.Node {
	return i.engine.Parser().Parse(text.NewReader(source))
}

// FirstHeading returns the plain text of the first level-1 heading, ATX or
// setext, or an empty string when the body has none.
func (i *Inspector) FirstHeading(body string) string {
	source := []byte(body)
	doc := i.parse(source)

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if heading.Level != 1 {
			return ast.WalkSkipChildren, nil
		}
		if text := strings.TrimSpace(plainText(heading, source)); text != "" {
			title = text
			return ast.WalkStop, nil
		}
		return ast.WalkSkipChildren, nil
	})
	return title
}

// Images lists image references in document order, without duplicates.
func (i *Inspector) Images(body string) []ImageRef {
	source := []byte(body)
	doc := i.parse(source)

	seen := map[string]bool{}
	var refs []ImageRef
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		img, ok := n.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}
		dest := string(img.Destination)
		if dest != "" && !seen[dest] {
			seen[dest] = true
			refs = append(refs, ImageRef{Destination: dest, Alt: plainText(img, source)})
		}
		return ast.WalkSkipChildren, nil
	})
	return refs
}

// LocalImages filters Images down to files that need uploading.
func (i *Inspector) LocalImages(body string) []ImageRef {
	var local []ImageRef
	for _, ref := range i.Images(body) {
		if ref.Local() {
			local = append(local, ref)
		}
	}
	return local
}

// RewriteImages replaces image destinations using replacements, keyed by the
// destination as the parser reports it (backslash escapes removed). Inline
// and reference definition destinations are matched as whole tokens; the
// rest of the body is left untouched.
func RewriteImages(body string, replacements map[string]string) string {
	if len(replacements) == 0 {
		return body
	}

	var out strings.Builder
	last := 0
	for i := 0; i+1 < len(body); i++ {
		if body[i] != ']' {
			continue
		}
		var start int
		switch {
		case body[i+1] == '(':
			start = skipLinkSpace(body, i+2)
		case body[i+1] == ':' && startsDefinition(body, i):
			start = skipLinkSpace(body, i+2)
		default:
			continue
		}

		rawStart, rawEnd, dest, ok := destination(body, start)
		if !ok {
			continue
		}
		to, found := replacements[dest]
		if found && to != "" && to != dest {
			out.WriteString(body[last:rawStart])
			out.WriteString(to)
			last = rawEnd
		}
		i = rawEnd - 1
	}
	if last == 0 {
		return body
	}
	out.WriteString(body[last:])
	return out.String()
}

func skipLinkSpace(s string, pos int) int {
	newline := false
	for pos < len(s) {
		switch s[pos] {
		case ' ', '\t':
			pos++
		case '\n':
			if newline {
				return pos
			}
			newline = true
			pos++
		default:
			return pos
		}
	}
	return pos
}

// startsDefinition reports whether the ']' at end closes a label that opens
// a line, as in "[ref]: path".
func startsDefinition(s string, end int) bool {
	lineStart := strings.LastIndexByte(s[:end], '\n') + 1
	line := s[lineStart:end]
	indent := len(line) - len(strings.TrimLeft(line, " "))
	return indent <= 3 && strings.HasPrefix(line[indent:], "[")
}

// destination reads the link destination at pos. rawStart and rawEnd bound
// the text to replace; dest is that text with backslash escapes removed.
func destination(s string, pos int) (rawStart, rawEnd int, dest string, ok bool) {
	if pos >= len(s) {
		return 0, 0, "", false
	}
	if s[pos] == '<' {
		for k := pos + 1; k < len(s); k++ {
			switch s[k] {
			case '\\':
				k++
			case '\n', '<':
				return 0, 0, "", false
			case '>':
				return pos + 1, k, unescape(s[pos+1 : k]), true
			}
		}
		return 0, 0, "", false
	}

	depth := 0
	k := pos
scan:
	for k < len(s) {
		switch c := s[k]; {
		case c == '\\' && k+1 < len(s) && isASCIIPunct(s[k+1]):
			k += 2
			continue
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			break scan
		case c == '(':
			depth++
		case c == ')':
			if depth == 0 {
				break scan
			}
			depth--
		}
		k++
	}
	if k == pos {
		return 0, 0, "", false
	}
	return pos, k, unescape(s[pos:k]), true
}

func unescape(raw string) string {
	if !strings.Contains(raw, "\\") {
		return raw
	}
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) && isASCIIPunct(raw[i+1]) {
			i++
		}
		b.WriteByte(raw[i])
	}
	return b.String()
}

func isASCIIPunct(c byte) bool {
	return (c >= '!' && c <= '/') || (c >= ':' && c <= '@') || (c >= '[' && c <= '`') || (c >= '{' && c <= '~')
}

func plainText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		case *ast.AutoLink:
			buf.Write(t.Label(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}
