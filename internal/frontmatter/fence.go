package frontmatter

import (
	"bytes"
	"fmt"
)

const (
	yamlFence = "---"
	tomlFence = "+++"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type block struct {
	fence     string
	content   []byte
	bodyStart int
}

// scanBlock locates a fenced block opening on the first line of source.
// found is false when the first line is not a fence.
func scanBlock(source []byte) (b block, found bool, err error) {
	offset := 0
	if bytes.HasPrefix(source, utf8BOM) {
		offset = len(utf8BOM)
	}

	first, next := line(source, offset)
	fence := string(trimLine(first))
	if fence != yamlFence && fence != tomlFence {
		return block{}, false, nil
	}

	contentStart := next
	for pos := next; pos < len(source); {
		current, following := line(source, pos)
		if string(trimLine(current)) == fence {
			return block{
				fence:     fence,
				content:   source[contentStart:pos],
				bodyStart: following,
			}, true, nil
		}
		pos = following
	}
	return block{}, false, fmt.Errorf("unclosed front matter fence %q", fence)
}

// line returns the line starting at pos without its terminator and the
// offset of the following line.
func line(source []byte, pos int) ([]byte, int) {
	if pos >= len(source) {
		return nil, len(source)
	}
	end := bytes.IndexByte(source[pos:], '\n')
	if end < 0 {
		return source[pos:], len(source)
	}
	return source[pos : pos+end], pos + end + 1
}

func trimLine(l []byte) []byte {
	return bytes.TrimRight(l, " \t\r")
}
